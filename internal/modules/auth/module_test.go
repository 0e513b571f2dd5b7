package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreauth "github.com/Nithya675/Consultant---Tracker/internal/auth"
)

func TestModuleDescriptor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tm := coreauth.NewTokenManager("unit-test-secret", time.Minute)

	mod := Module(Deps{
		Tokens: tm,
		MW:     coreauth.NewMiddleware(tm, newFakeStore(), logger),
		Logger: logger,
	})

	assert.Equal(t, "auth", mod.Name)
	assert.Equal(t, "/auth", mod.Prefix)
	assert.Equal(t, []string{"authentication"}, mod.Tags)

	collections := make([]string, 0, len(mod.Schemas))
	for _, s := range mod.Schemas {
		collections = append(collections, s.Collection)
	}
	assert.Equal(t, []string{"admins", "recruiters", "consultants"}, collections)

	for _, s := range mod.Schemas {
		require.Len(t, s.Indexes, 2, s.Collection)
		assert.True(t, s.Indexes[0].Unique, s.Collection)
		assert.Equal(t, "email_1", s.Indexes[0].Name(), s.Collection)
		assert.Equal(t, "is_active_1", s.Indexes[1].Name(), s.Collection)
	}

	// The route table mounts cleanly and the open endpoints answer.
	engine := gin.New()
	mod.Routes(engine.Group("/api" + mod.Prefix))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
