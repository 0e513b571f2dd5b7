package recruiters

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	coreauth "github.com/Nithya675/Consultant---Tracker/internal/auth"
	"github.com/Nithya675/Consultant---Tracker/internal/models"
	"github.com/Nithya675/Consultant---Tracker/internal/registry"
)

type Deps struct {
	Repo   *Repository
	MW     *coreauth.Middleware
	Logger *slog.Logger
}

// Module builds the recruiters module descriptor: recruiter profile
// management plus the recruiter_profiles collection.
func Module(deps Deps) *registry.Module {
	h := &Handler{profiles: deps.Repo, logger: deps.Logger}

	return &registry.Module{
		Name:   "recruiters",
		Prefix: "/recruiters",
		Tags:   []string{"recruiters"},
		Routes: func(r gin.IRouter) {
			me := r.Group("/me", deps.MW.RequireUser(), deps.MW.RequireRole(models.RoleRecruiter))
			me.GET("", h.Me)
			me.PUT("", h.UpdateMe)
		},
		Schemas: []*registry.CollectionSchema{{
			Collection: profilesCollection,
			Indexes: []registry.IndexSpec{
				{Keys: []registry.IndexKey{{Field: "recruiter_id", Order: 1}}, Unique: true},
			},
		}},
	}
}
