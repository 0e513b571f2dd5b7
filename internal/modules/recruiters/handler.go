package recruiters

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	coreauth "github.com/Nithya675/Consultant---Tracker/internal/auth"
)

type profileStore interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, userID string, upd ProfileUpdate) (*Profile, error)
}

type Handler struct {
	profiles profileStore
	logger   *slog.Logger
}

// Me returns the caller's profile, synthesizing an empty one when none
// has been stored yet.
func (h *Handler) Me(c *gin.Context) {
	user := coreauth.CurrentUser(c)

	profile, err := h.profiles.GetByUserID(c.Request.Context(), user.ID.Hex())
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusOK, &Profile{
			ID:     user.ID.Hex(),
			UserID: user.ID.Hex(),
			Email:  user.Email,
			Name:   user.Name,
		})
		return
	}
	if err != nil {
		h.logger.Error("loading recruiter profile failed", "user", user.Email, "error", err)
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
		h.logger.Error("updating recruiter profile failed", "user", user.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}
