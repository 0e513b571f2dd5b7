package submissions

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	coreauth "github.com/Nithya675/Consultant---Tracker/internal/auth"
	"github.com/Nithya675/Consultant---Tracker/internal/models"
	"github.com/Nithya675/Consultant---Tracker/internal/storage"
)

type submissionStore interface {
	Create(ctx context.Context, jdID, comments, consultantID, recruiterID, resumeKey string) (*Submission, error)
	ListByConsultant(ctx context.Context, consultantID string) ([]*Submission, error)
	List(ctx context.Context, recruiterID string) ([]*Submission, error)
	GetByID(ctx context.Context, id string) (*Submission, error)
	UpdateStatus(ctx context.Context, id string, status models.SubmissionStatus) (*Submission, error)
	JobRef(ctx context.Context, jdID string) (*JobRef, error)
	EnsureProfile(ctx context.Context, consultantID string) error
}

type Handler struct {
	subs   submissionStore
	files  storage.Store
	logger *slog.Logger
}

// Create accepts a consultant's application: a multipart form with the
// target jd_id, optional comments and the resume file.
func (h *Handler) Create(c *gin.Context) {
	user := coreauth.CurrentUser(c)
	ctx := c.Request.Context()

	jdID := c.PostForm("jd_id")
	if jdID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "jd_id is required"})
		return
	}
	comments := c.PostForm("comments")

	job, err := h.subs.JobRef(ctx, jdID)
	if errors.Is(err, ErrJobNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	if err != nil {
		h.logger.Error("job lookup for submission failed", "jd_id", jdID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing submission"})
		return
	}
	if job.Status != models.JobStatusOpen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Job is not open for applications"})
		return
	}

	// Applying should never fail on a missing profile document.
	if err := h.subs.EnsureProfile(ctx, user.ID.Hex()); err != nil {
		h.logger.Warn("could not ensure consultant profile exists", "user", user.Email, "error", err)
	}

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resume file is required"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}
	defer f.Close()

	key, err := h.files.Save(ctx, fileHeader.Filename, f)
	switch {
	case errors.Is(err, storage.ErrExtensionNotAllowed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file type"})
		return
	case errors.Is(err, storage.ErrFileTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds maximum allowed size"})
		return
	case err != nil:
		h.logger.Error("storing submission resume failed", "user", user.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing submission"})
		return
	}

	sub, err := h.subs.Create(ctx, jdID, comments, user.ID.Hex(), job.RecruiterID, key)
	if err != nil {
		_ = h.files.Remove(ctx, key)
		h.logger.Error("creating submission failed", "jd_id", jdID, "user", user.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing submission"})
		return
	}
	c.JSON(http.StatusOK, sub)
}

// MySubmissions returns the caller's applications, newest first.
func (h *Handler) MySubmissions(c *gin.Context) {
	user := coreauth.CurrentUser(c)

	subs, err := h.subs.ListByConsultant(c.Request.Context(), user.ID.Hex())
	if err != nil {
		h.logger.Error("listing own submissions failed", "user", user.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list submissions"})
		return
	}
	c.JSON(http.StatusOK, subs)
}

// List returns applications: recruiters see only their own jobs',
// admins see everything.
func (h *Handler) List(c *gin.Context) {
	user := coreauth.CurrentUser(c)

	recruiterID := ""
	if user.Role == models.RoleRecruiter {
		recruiterID = user.ID.Hex()
	}
	subs, err := h.subs.List(c.Request.Context(), recruiterID)
	if err != nil {
		h.logger.Error("listing submissions failed", "user", user.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list submissions"})
		return
	}
	c.JSON(http.StatusOK, subs)
}

// UpdateStatus moves an application through the pipeline.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var upd StatusUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if upd.Status == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}
	if !upd.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status: " + string(*upd.Status)})
		return
	}

	id := c.Param("submission_id")
	if _, err := h.subs.GetByID(c.Request.Context(), id); errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	} else if err != nil {
		h.logger.Error("loading submission failed", "submission_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load submission"})
		return
	}

	sub, err := h.subs.UpdateStatus(c.Request.Context(), id, *upd.Status)
	if err != nil {
		h.logger.Error("updating submission status failed", "submission_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update submission"})
		return
	}

	h.logger.Info("submission status updated", "submission_id", id, "status", *upd.Status,
		"by", coreauth.CurrentUser(c).Email)
	c.JSON(http.StatusOK, sub)
}
