package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreauth "github.com/Nithya675/Consultant---Tracker/internal/auth"
	"github.com/Nithya675/Consultant---Tracker/internal/models"
)

type fakeStore struct {
	users map[string]*models.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]*models.User{}}
}

func (f *fakeStore) CreateUser(_ context.Context, req models.UserCreate) (*models.User, error) {
	if _, ok := f.users[req.Email]; ok {
		return nil, ErrEmailTaken
	}
	hashed, err := coreauth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:          req.Email,
		Name:           req.Name,
		Role:           req.Role,
		IsActive:       true,
		HashedPassword: hashed,
	}
	f.users[req.Email] = user
	return user, nil
}

func (f *fakeStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, coreauth.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeStore) ListUsers(_ context.Context, skip, limit int64, role models.UserRole) ([]*models.User, error) {
	out := []*models.User{}
	for _, u := range f.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	if skip >= int64(len(out)) {
		return []*models.User{}, nil
	}
	end := skip + limit
	if end > int64(len(out)) {
		end = int64(len(out))
	}
	return out[skip:end], nil
}

func newTestHandler(t *testing.T) (*gin.Engine, *fakeStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newFakeStore()
	h := &Handler{
		users:  store,
		tokens: coreauth.NewTokenManager("unit-test-secret", 30*time.Minute),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.GET("/auth/users", h.ListUsers)
	return r, store
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	r, store := newTestHandler(t)

	w := postJSON(r, "/auth/register", `{
		"email": "new@example.com",
		"name": "New User",
		"role": "CONSULTANT",
		"password": "s3cret-pass"
	}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "new@example.com")
	assert.NotContains(t, w.Body.String(), "hashed_password")
	assert.Contains(t, store.users, "new@example.com")
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	r, _ := newTestHandler(t)

	body := `{"email": "dup@example.com", "name": "A", "role": "RECRUITER", "password": "s3cret-pass"}`
	require.Equal(t, http.StatusCreated, postJSON(r, "/auth/register", body).Code)

	w := postJSON(r, "/auth/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email already exists")
}

func TestRegisterValidation(t *testing.T) {
	r, _ := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"bad email", `{"email": "nope", "name": "A", "role": "ADMIN", "password": "s3cret-pass"}`},
		{"bad role", `{"email": "a@b.com", "name": "A", "role": "WIZARD", "password": "s3cret-pass"}`},
		{"short password", `{"email": "a@b.com", "name": "A", "role": "ADMIN", "password": "short"}`},
		{"missing name", `{"email": "a@b.com", "role": "ADMIN", "password": "s3cret-pass"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, postJSON(r, "/auth/register", tt.body).Code)
		})
	}
}

func TestRegisterRejectsOversizedPassword(t *testing.T) {
	r, _ := newTestHandler(t)

	body := `{"email": "a@b.com", "name": "A", "role": "ADMIN", "password": "` +
		strings.Repeat("a", 73) + `"}`
	w := postJSON(r, "/auth/register", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "maximum 72 bytes")
}

func TestLogin(t *testing.T) {
	r, _ := newTestHandler(t)
	require.Equal(t, http.StatusCreated, postJSON(r, "/auth/register",
		`{"email": "login@example.com", "name": "L", "role": "RECRUITER", "password": "s3cret-pass"}`).Code)

	w := postJSON(r, "/auth/login", `{"email": "login@example.com", "password": "s3cret-pass"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "access_token")
	assert.Contains(t, w.Body.String(), `"token_type":"bearer"`)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r, _ := newTestHandler(t)
	require.Equal(t, http.StatusCreated, postJSON(r, "/auth/register",
		`{"email": "login@example.com", "name": "L", "role": "RECRUITER", "password": "s3cret-pass"}`).Code)

	w := postJSON(r, "/auth/login", `{"email": "login@example.com", "password": "wrong-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "incorrect email or password")

	w = postJSON(r, "/auth/login", `{"email": "ghost@example.com", "password": "s3cret-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "incorrect email or password")
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	r, store := newTestHandler(t)
	require.Equal(t, http.StatusCreated, postJSON(r, "/auth/register",
		`{"email": "off@example.com", "name": "O", "role": "CONSULTANT", "password": "s3cret-pass"}`).Code)
	store.users["off@example.com"].IsActive = false

	w := postJSON(r, "/auth/login", `{"email": "off@example.com", "password": "s3cret-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "deactivated")
}

func TestListUsersRoleFilter(t *testing.T) {
	r, store := newTestHandler(t)
	store.users["a@x.com"] = &models.User{Email: "a@x.com", Role: models.RoleAdmin}
	store.users["b@x.com"] = &models.User{Email: "b@x.com", Role: models.RoleConsultant}

	req := httptest.NewRequest(http.MethodGet, "/auth/users?role=ADMIN", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@x.com")
	assert.NotContains(t, w.Body.String(), "b@x.com")

	req = httptest.NewRequest(http.MethodGet, "/auth/users?role=WIZARD", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/auth/users?skip=oops", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
