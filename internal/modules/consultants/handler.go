package consultants

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
	"github.com/Nithya675/Consultant---Tracker/internal/storage"
)

type profileStore interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, userID string, upd ProfileUpdate) (*Profile, error)
	List(ctx context.Context, filter ListFilter, skip, limit int64) ([]*Profile, error)
	SetResumeKey(ctx context.Context, userID, key string) (string, error)
	StatsByConsultant(ctx context.Context, userID string) (*Stats, error)
}

type Handler struct {
	profiles profileStore
	files    storage.Store
	logger   *slog.Logger
}

// Me returns the caller's profile, creating a minimal one on first
// access.
func (h *Handler) Me(c *gin.Context) {
	user := coreauth.CurrentUser(c)

	profile, err := h.profiles.GetByUserID(c.Request.Context(), user.ID.Hex())
	if errors.Is(err, ErrNotFound) {
		profile, err = h.profiles.Upsert(c.Request.Context(), user.ID.Hex(), ProfileUpdate{})
	}
	if err != nil {
		h.logger.Error("loading consultant profile failed", "user", user.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateMe upserts the caller's profile.
func (h *Handler) UpdateMe(c *gin.Context) {
	user := coreauth.CurrentUser(c)

	var upd ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	profile, err := h.profiles.Upsert(c.Request.Context(), user.ID.Hex(), upd)
	if err != nil {
		h.logger.Error("updating consultant profile failed", "user", user.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// List returns consultant profiles for recruiters and admins,
// optionally filtered by availability or a tech stack entry.
func (h *Handler) List(c *gin.Context) {
	skip, limit, ok := pagination(c)
	if !ok {
		return
	}
	filter := ListFilter{Tech: c.Query("tech")}
	if raw, set := c.GetQuery("available"); set {
		avail, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid available parameter"})
			return
		}
		filter.Available = &avail
	}
	profiles, err := h.profiles.List(c.Request.Context(), filter, skip, limit)
	if err != nil {
		h.logger.Error("listing consultants failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list consultants"})
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// GetByID returns one consultant's profile for recruiters and admins.
func (h *Handler) GetByID(c *gin.Context) {
	profile, err := h.profiles.GetByUserID(c.Request.Context(), c.Param("user_id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "consultant profile not found"})
		return
	}
	if err != nil {
		h.logger.Error("loading consultant profile failed", "consultant_id", c.Param("user_id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UploadResume stores a new resume for the caller and drops the old one.
func (h *Handler) UploadResume(c *gin.Context) {
	user := coreauth.CurrentUser(c)

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

	key, err := h.files.Save(c.Request.Context(), fileHeader.Filename, f)
	switch {
	case errors.Is(err, storage.ErrExtensionNotAllowed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file type"})
		return
	case errors.Is(err, storage.ErrFileTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds maximum allowed size"})
		return
	case err != nil:
		h.logger.Error("storing resume failed", "user", user.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error uploading resume"})
		return
	}

	old, err := h.profiles.SetResumeKey(c.Request.Context(), user.ID.Hex(), key)
	if err != nil {
		// Profile update failed, don't leave the orphan behind.
		_ = h.files.Remove(c.Request.Context(), key)
		h.logger.Error("recording resume failed", "user", user.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error uploading resume"})
		return
	}
	if old != "" && old != key {
		if err := h.files.Remove(c.Request.Context(), old); err != nil && !errors.Is(err, storage.ErrNotFound) {
			h.logger.Warn("could not delete replaced resume", "key", old, "error", err)
		}
	}

	h.logger.Info("resume uploaded", "user", user.Email, "key", key)
	c.JSON(http.StatusOK, gin.H{
		"message":     "Resume uploaded successfully",
		"filename":    key,
		"resume_path": key,
	})
}

// DownloadMyResume streams the caller's own resume.
func (h *Handler) DownloadMyResume(c *gin.Context) {
	h.serveResume(c, coreauth.CurrentUser(c).ID.Hex())
}

// DownloadResumeFor streams a consultant's resume for recruiters and
// admins.
func (h *Handler) DownloadResumeFor(c *gin.Context) {
	h.serveResume(c, c.Param("user_id"))
}

func (h *Handler) serveResume(c *gin.Context, userID string) {
	profile, err := h.profiles.GetByUserID(c.Request.Context(), userID)
	if errors.Is(err, ErrNotFound) || (err == nil && profile.ResumeKey == "") {
		c.JSON(http.StatusNotFound, gin.H{"error": "resume not found"})
		return
	}
	if err != nil {
		h.logger.Error("loading profile for resume failed", "consultant_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load resume"})
		return
	}

	f, err := h.files.Open(c.Request.Context(), profile.ResumeKey)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "resume file not found on server"})
		return
	}
	if err != nil {
		h.logger.Error("opening resume failed", "key", profile.ResumeKey, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load resume"})
		return
	}
	defer f.Close()

	contentType := "application/octet-stream"
	if strings.HasSuffix(profile.ResumeKey, ".pdf") {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", profile.ResumeKey))
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, f); err != nil {
		h.logger.Warn("resume stream interrupted", "key", profile.ResumeKey, "error", err)
	}
}

// Stats returns the caller's application pipeline counters.
func (h *Handler) Stats(c *gin.Context) {
	user := coreauth.CurrentUser(c)

	stats, err := h.profiles.StatsByConsultant(c.Request.Context(), user.ID.Hex())
	if err != nil {
		h.logger.Error("computing stats failed", "user", user.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
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
