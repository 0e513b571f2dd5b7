// Package jobs manages job descriptions: CRUD, AI-assisted
// classification of pasted JD text and file attachments.
package jobs

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	coreauth "github.com/Nithya675/Consultant---Tracker/internal/auth"
	"github.com/Nithya675/Consultant---Tracker/internal/models"
	"github.com/Nithya675/Consultant---Tracker/internal/registry"
	"github.com/Nithya675/Consultant---Tracker/internal/services"
	"github.com/Nithya675/Consultant---Tracker/internal/storage"
)

// Deps carries everything the jobs module needs at mount time.
// Classifier may be nil when no API key is configured.
type Deps struct {
	Repo       *Repository
	Files      storage.Store
	Classifier services.Classifier
	MW         *coreauth.Middleware
	Logger     *slog.Logger
}

// Module builds the jobs module descriptor.
func Module(deps Deps) *registry.Module {
	h := &Handler{jobs: deps.Repo, files: deps.Files, classifier: deps.Classifier, logger: deps.Logger}
	mw := deps.MW

	return &registry.Module{
		Name:   "jobs",
		Prefix: "/jobs",
		Tags:   []string{"jobs"},
		Routes: func(r gin.IRouter) {
			authed := r.Group("", mw.RequireUser())
			authed.GET("", h.List)
			authed.GET("/:jd_id", h.GetByID)
			authed.GET("/:jd_id/download-jd-file", h.DownloadFile)

			staff := authed.Group("", mw.RequireRole(models.RoleRecruiter, models.RoleAdmin))
			staff.POST("", h.Create)
			staff.POST("/classify", h.Classify)
			staff.PUT("/:jd_id", h.Update)
			staff.POST("/:jd_id/upload-jd-file", h.UploadFile)
		},
		Schemas: []*registry.CollectionSchema{{
			Collection: jobsCollection,
			Indexes: []registry.IndexSpec{
				{Keys: []registry.IndexKey{{Field: "recruiter_id", Order: 1}}},
				{Keys: []registry.IndexKey{{Field: "status", Order: 1}}},
				{Keys: []registry.IndexKey{{Field: "client_name", Order: 1}}},
				{Keys: []registry.IndexKey{{Field: "job_type", Order: 1}}},
				{Keys: []registry.IndexKey{{Field: "start_date", Order: 1}}},
				{Keys: []registry.IndexKey{{Field: "status", Order: 1}, {Field: "job_type", Order: 1}}},
			},
		}},
	}
}
