package auth

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	coreauth "github.com/Nithya675/Consultant---Tracker/internal/auth"
	"github.com/Nithya675/Consultant---Tracker/internal/models"
	"github.com/Nithya675/Consultant---Tracker/internal/registry"
)

// Deps carries the auth module's constructor-injected dependencies.
type Deps struct {
	Repo   *Repository
	Tokens *coreauth.TokenManager
	MW     *coreauth.Middleware
	Logger *slog.Logger
}

// Module builds the auth module descriptor: registration, login, token
// lifecycle and admin user management, plus the account collections.
func Module(deps Deps) *registry.Module {
	h := &Handler{users: deps.Repo, tokens: deps.Tokens, logger: deps.Logger}
	mw := deps.MW

	return &registry.Module{
		Name:   "auth",
		Prefix: "/auth",
		Tags:   []string{"authentication"},
		Routes: func(r gin.IRouter) {
			r.POST("/register", h.Register)
			r.POST("/login", h.Login)
			r.POST("/logout", h.Logout)
			r.GET("/me", mw.RequireUser(), h.Me)
			r.POST("/refresh", mw.RequireUser(), h.Refresh)

			admin := r.Group("", mw.RequireUser(), mw.RequireRole(models.RoleAdmin))
			admin.GET("/users", h.ListUsers)
			admin.POST("/users", h.CreateUser)
		},
		Schemas: schemas(),
	}
}
