package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	coreauth "github.com/Nithya675/Consultant---Tracker/internal/auth"
	"github.com/Nithya675/Consultant---Tracker/internal/models"
	"github.com/Nithya675/Consultant---Tracker/internal/services"
	"github.com/Nithya675/Consultant---Tracker/internal/storage"
)

type jobStore interface {
	Create(ctx context.Context, req JobCreate, recruiterID string) (*Job, error)
	List(ctx context.Context, status string, skip, limit int64) ([]*Job, error)
	GetByID(ctx context.Context, id string) (*Job, error)
	Update(ctx context.Context, id string, upd JobUpdate, recruiterID string) (*Job, error)
	SetFileKey(ctx context.Context, id, key string) (string, error)
}

// Handler serves the job description endpoints. A nil classifier
// disables the AI extraction endpoint with a 503.
type Handler struct {
	jobs       jobStore
	files      storage.Store
	classifier services.Classifier
	logger     *slog.Logger
}

// List returns jobs. Consultants always see OPEN jobs only; recruiters
// and admins may filter by status.
func (h *Handler) List(c *gin.Context) {
	skip, limit, ok := pagination(c)
	if !ok {
		return
	}
	status := c.Query("status")
	if coreauth.CurrentUser(c).Role == models.RoleConsultant {
		status = models.JobStatusOpen
	}

	jobs, err := h.jobs.List(c.Request.Context(), status, skip, limit)
	if err != nil {
		h.logger.Error("listing jobs failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list jobs"})
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// Classify runs the AI extractor over pasted JD text and returns a
// create payload the recruiter can review before posting.
func (h *Handler) Classify(c *gin.Context) {
	if h.classifier == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "AI classification service is not available. Please configure GEMINI_API_KEY.",
		})
		return
	}

	var input ClassifyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	user := coreauth.CurrentUser(c)
	h.logger.Info("classifying jd text", "user", user.Email)

	parsed, err := h.classifier.ClassifyJobDescription(c.Request.Context(), input.Text)
	if errors.Is(err, services.ErrUnusableResponse) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to classify job description: " + err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("classification failed", "user", user.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "An error occurred while classifying the job description. Please try again or enter the details manually.",
		})
		return
	}

	out := JobCreate{
		Title:              parsed.Title,
		Description:        input.Text,
		ClientName:         parsed.ClientName,
		ExperienceRequired: &parsed.ExperienceRequired,
		TechRequired:       parsed.TechRequired,
		Location:           parsed.Location,
		VisaRequired:       parsed.VisaRequired,
		JDSummary:          parsed.JDSummary,
		AdditionalNotes:    parsed.AdditionalNotes,
		Status:             models.JobStatusOpen,
	}
	if jt, ok := MatchJobType(parsed.JobType); ok {
		out.JobType = string(jt)
	}
	if parsed.StartDate != "" {
		out.StartDate = &parsed.StartDate
	}
	c.JSON(http.StatusOK, out)
}

// Create posts a new job under the calling recruiter.
func (h *Handler) Create(c *gin.Context) {
	var req JobCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	user := coreauth.CurrentUser(c)
	job, err := h.jobs.Create(c.Request.Context(), req, user.ID.Hex())
	if errors.Is(err, ErrBadStartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("creating job failed", "user", user.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create job"})
		return
	}
	c.JSON(http.StatusOK, job)
}

// GetByID returns one job for any authenticated user.
func (h *Handler) GetByID(c *gin.Context) {
	job, err := h.jobs.GetByID(c.Request.Context(), c.Param("jd_id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	if err != nil {
		h.logger.Error("loading job failed", "jd_id", c.Param("jd_id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load job"})
		return
	}
	c.JSON(http.StatusOK, job)
}

// Update edits a job. Only the posting recruiter may update it.
func (h *Handler) Update(c *gin.Context) {
	var upd JobUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	user := coreauth.CurrentUser(c)
	job, err := h.jobs.Update(c.Request.Context(), c.Param("jd_id"), upd, user.ID.Hex())
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found or unauthorized"})
		return
	case errors.Is(err, ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized: You can only update your own jobs"})
		return
	case errors.Is(err, ErrBadStartDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logger.Error("updating job failed", "jd_id", c.Param("jd_id"), "user", user.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update job"})
		return
	}
	c.JSON(http.StatusOK, job)
}

// UploadFile attaches a JD document to a job. The posting recruiter or
// an admin may replace the attachment.
func (h *Handler) UploadFile(c *gin.Context) {
	user := coreauth.CurrentUser(c)
	jdID := c.Param("jd_id")

	job, err := h.jobs.GetByID(c.Request.Context(), jdID)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	if err != nil {
		h.logger.Error("loading job for upload failed", "jd_id", jdID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load job"})
		return
	}
	if job.RecruiterID != user.ID.Hex() && user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only upload files for your own jobs"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}
	defer f.Close()

	key, err := h.files.Save(c.Request.Context(), fileHeader.Filename, f)
	switch {
	case errors.Is(err, storage.ErrExtensionNotAllowed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file type"})
		return
	case errors.Is(err, storage.ErrFileTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds maximum allowed size"})
		return
	case err != nil:
		h.logger.Error("storing jd file failed", "jd_id", jdID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error uploading JD file"})
		return
	}

	old, err := h.jobs.SetFileKey(c.Request.Context(), jdID, key)
	if err != nil {
		_ = h.files.Remove(c.Request.Context(), key)
		h.logger.Error("recording jd file failed", "jd_id", jdID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error uploading JD file"})
		return
	}
	if old != "" && old != key {
		if err := h.files.Remove(c.Request.Context(), old); err != nil && !errors.Is(err, storage.ErrNotFound) {
			h.logger.Warn("could not delete replaced jd file", "key", old, "error", err)
		}
	}

	updated, err := h.jobs.GetByID(c.Request.Context(), jdID)
	if err != nil {
		h.logger.Warn("reloading job after upload failed", "jd_id", jdID, "error", err)
	}

	h.logger.Info("jd file uploaded", "jd_id", jdID, "key", key, "user", user.Email)
	c.JSON(http.StatusOK, gin.H{
		"message":     "JD file uploaded successfully",
		"filename":    key,
		"jd_file_url": key,
		"job":         updated,
	})
}

// DownloadFile streams a job's attachment to any authenticated user.
func (h *Handler) DownloadFile(c *gin.Context) {
	jdID := c.Param("jd_id")

	job, err := h.jobs.GetByID(c.Request.Context(), jdID)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	if err != nil {
		h.logger.Error("loading job for download failed", "jd_id", jdID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load job"})
		return
	}
	if job.FileKey == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "JD file not found for this job"})
		return
	}

	f, err := h.files.Open(c.Request.Context(), job.FileKey)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "JD file not found on server"})
		return
	}
	if err != nil {
		h.logger.Error("opening jd file failed", "key", job.FileKey, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load JD file"})
		return
	}
	defer f.Close()

	contentType := "application/octet-stream"
	if strings.HasSuffix(job.FileKey, ".pdf") {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", job.FileKey))
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, f); err != nil {
		h.logger.Warn("jd file stream interrupted", "key", job.FileKey, "error", err)
	}
}

func pagination(c *gin.Context) (skip, limit int64, ok bool) {
	skip, err := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)
	if err != nil || skip < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid skip parameter"})
		return 0, 0, false
	}
	limit, err = strconv.ParseInt(c.DefaultQuery("limit", "100"), 10, 64)
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})
		return 0, 0, false
	}
	return skip, limit, true
}
