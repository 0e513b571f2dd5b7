package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Nithya675/Consultant---Tracker/internal/models"
)

// ErrUserNotFound is returned by UserSource implementations when no
// account exists for the requested email.
var ErrUserNotFound = errors.New("user not found")

// UserSource resolves the account behind a verified token subject.
// The auth module's repository satisfies it; tests use fakes.
type UserSource interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

const userContextKey = "currentUser"

// Middleware guards routes with bearer-token authentication.
type Middleware struct {
	tokens *TokenManager
	users  UserSource
	logger *slog.Logger
}

func NewMiddleware(tokens *TokenManager, users UserSource, logger *slog.Logger) *Middleware {
	return &Middleware{tokens: tokens, users: users, logger: logger}
}

// RequireUser rejects requests without a valid token for an active
// account and stores the account on the request context for handlers.
func (m *Middleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthorized(c, "not authenticated")
			return
		}
		email, err := m.tokens.Parse(token)
		if err != nil {
			m.logger.Debug("rejected bearer token", "error", err)
			abortUnauthorized(c, "could not validate credentials")
			return
		}
		user, err := m.users.FindByEmail(c.Request.Context(), email)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				abortUnauthorized(c, "could not validate credentials")
				return
			}
			m.logger.Error("user lookup failed", "email", email, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if !user.IsActive {
			abortUnauthorized(c, "user account is deactivated")
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireRole allows only users whose role is in the given set. It must
// run after RequireUser on the same chain.
func (m *Middleware) RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortUnauthorized(c, "not authenticated")
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	}
}

// CurrentUser returns the authenticated account set by RequireUser,
// or nil when the chain has not authenticated one.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}
