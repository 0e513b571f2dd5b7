// Package submissions tracks consultant applications to jobs and their
// movement through the hiring pipeline.
package submissions

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	coreauth "github.com/Nithya675/Consultant---Tracker/internal/auth"
	"github.com/Nithya675/Consultant---Tracker/internal/models"
	"github.com/Nithya675/Consultant---Tracker/internal/registry"
	"github.com/Nithya675/Consultant---Tracker/internal/storage"
)

// Deps carries everything the submissions module needs at mount time.
type Deps struct {
	Repo   *Repository
	Files  storage.Store
	MW     *coreauth.Middleware
	Logger *slog.Logger
}

// Module builds the submissions module descriptor.
func Module(deps Deps) *registry.Module {
	h := &Handler{subs: deps.Repo, files: deps.Files, logger: deps.Logger}
	mw := deps.MW

	return &registry.Module{
		Name:   "submissions",
		Prefix: "/submissions",
		Tags:   []string{"submissions"},
		Routes: func(r gin.IRouter) {
			consultant := r.Group("", mw.RequireUser(), mw.RequireRole(models.RoleConsultant))
			consultant.POST("", h.Create)
			consultant.GET("/me", h.MySubmissions)

			staff := r.Group("", mw.RequireUser(), mw.RequireRole(models.RoleRecruiter, models.RoleAdmin))
			staff.GET("", h.List)
			staff.PUT("/:submission_id/status", h.UpdateStatus)
		},
		Schemas: []*registry.CollectionSchema{{
			Collection: submissionsCollection,
			Indexes: []registry.IndexSpec{
				{Keys: []registry.IndexKey{{Field: "consultant_id", Order: 1}}},
				{Keys: []registry.IndexKey{{Field: "recruiter_id", Order: 1}}},
				{Keys: []registry.IndexKey{{Field: "jd_id", Order: 1}}},
				{Keys: []registry.IndexKey{{Field: "status", Order: 1}}},
			},
		}},
	}
}
