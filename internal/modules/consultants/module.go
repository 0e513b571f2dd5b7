// Package consultants manages consultant profiles, resumes and the
// per-consultant application dashboard.
package consultants

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	coreauth "github.com/Nithya675/Consultant---Tracker/internal/auth"
	"github.com/Nithya675/Consultant---Tracker/internal/models"
	"github.com/Nithya675/Consultant---Tracker/internal/registry"
	"github.com/Nithya675/Consultant---Tracker/internal/storage"
)

// Deps carries everything the consultants module needs at mount time.
type Deps struct {
	Repo   *Repository
	Files  storage.Store
	MW     *coreauth.Middleware
	Logger *slog.Logger
}

// Module builds the consultants module descriptor.
func Module(deps Deps) *registry.Module {
	h := &Handler{profiles: deps.Repo, files: deps.Files, logger: deps.Logger}
	mw := deps.MW

	return &registry.Module{
		Name:   "consultants",
		Prefix: "/consultants",
		Tags:   []string{"consultants"},
		Routes: func(r gin.IRouter) {
			me := r.Group("/me", mw.RequireUser(), mw.RequireRole(models.RoleConsultant))
			me.GET("", h.Me)
			me.PUT("", h.UpdateMe)
			me.POST("/resume", h.UploadResume)
			me.GET("/resume", h.DownloadMyResume)
			me.GET("/stats", h.Stats)

			staff := r.Group("", mw.RequireUser(), mw.RequireRole(models.RoleRecruiter, models.RoleAdmin))
			staff.GET("", h.List)
			staff.GET("/:user_id", h.GetByID)
			staff.GET("/:user_id/resume", h.DownloadResumeFor)
		},
		Schemas: []*registry.CollectionSchema{{
			Collection: profilesCollection,
			Indexes: []registry.IndexSpec{
				{Keys: []registry.IndexKey{{Field: "consultant_id", Order: 1}}, Unique: true},
			},
		}},
	}
}
