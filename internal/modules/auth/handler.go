package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	coreauth "github.com/Nithya675/Consultant---Tracker/internal/auth"
	"github.com/Nithya675/Consultant---Tracker/internal/models"
)

type userStore interface {
	CreateUser(ctx context.Context, req models.UserCreate) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, skip, limit int64, role models.UserRole) ([]*models.User, error)
}

// Handler serves the authentication endpoints.
type Handler struct {
	users  userStore
	tokens *coreauth.TokenManager
	logger *slog.Logger
}

// Register handles self-service signup.
func (h *Handler) Register(c *gin.Context) {
	h.createAccount(c)
}

// CreateUser is the admin variant of Register; the role guard runs in
// the route chain.
func (h *Handler) CreateUser(c *gin.Context) {
	h.createAccount(c)
}

func (h *Handler) createAccount(c *gin.Context) {
	var req models.UserCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	// bcrypt input limit; reject instead of silently truncating new
	// passwords.
	if n := len(req.Password); n > 72 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("password is too long (%d bytes), maximum 72 bytes allowed", n),
		})
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already exists"})
			return
		}
		h.logger.Error("registration failed", "email", req.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	if actor := coreauth.CurrentUser(c); actor != nil {
		h.logger.Info("user created by admin", "email", user.Email, "admin", actor.Email)
	} else {
		h.logger.Info("user registered", "email", user.Email, "role", user.Role)
	}
	c.JSON(http.StatusCreated, user)
}

// Login verifies credentials and issues an access token.
func (h *Handler) Login(c *gin.Context) {
	var req models.UserLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, coreauth.ErrUserNotFound) {
			h.rejectLogin(c, req.Email)
			return
		}
		h.logger.Error("login lookup failed", "email", req.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	if !coreauth.VerifyPassword(req.Password, user.HashedPassword) {
		h.rejectLogin(c, req.Email)
		return
	}
	if !user.IsActive {
		h.logger.Warn("login attempt for deactivated account", "email", req.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user account is deactivated"})
		return
	}

	token, err := h.tokens.Create(user.Email)
	if err != nil {
		h.logger.Error("token creation failed", "email", user.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	h.logger.Info("login successful", "email", user.Email, "role", user.Role)
	c.JSON(http.StatusOK, models.Token{AccessToken: token, TokenType: "bearer"})
}

func (h *Handler) rejectLogin(c *gin.Context, email string) {
	h.logger.Warn("login rejected", "email", email)
	c.Header("WWW-Authenticate", "Bearer")
	c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect email or password"})
}

// Me returns the authenticated account.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, coreauth.CurrentUser(c))
}

// Refresh issues a fresh token for the authenticated account.
func (h *Handler) Refresh(c *gin.Context) {
	user := coreauth.CurrentUser(c)
	token, err := h.tokens.Create(user.Email)
	if err != nil {
		h.logger.Error("token refresh failed", "email", user.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token refresh failed"})
		return
	}
	c.JSON(http.StatusOK, models.Token{AccessToken: token, TokenType: "bearer"})
}

// Logout acknowledges; tokens are stateless, clients just discard them.
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// ListUsers returns accounts, optionally filtered by role (admin only).
func (h *Handler) ListUsers(c *gin.Context) {
	skip, err := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)
	if err != nil || skip < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid skip parameter"})
		return
	}
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "100"), 10, 64)
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})
		return
	}
	role := models.UserRole(c.Query("role"))
	if role != "" && !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role filter"})
		return
	}

	users, err := h.users.ListUsers(c.Request.Context(), skip, limit, role)
	if err != nil {
		h.logger.Error("listing users failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve users"})
		return
	}
	c.JSON(http.StatusOK, users)
}
