package consultants

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	coreauth "github.com/Nithya675/Consultant---Tracker/internal/auth"
	"github.com/Nithya675/Consultant---Tracker/internal/models"
	"github.com/Nithya675/Consultant---Tracker/internal/storage"
)

type fakeProfiles struct {
	byUser map[string]*Profile
	stats  *Stats
}

func (f *fakeProfiles) GetByUserID(_ context.Context, userID string) (*Profile, error) {
	p, ok := f.byUser[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, userID string, upd ProfileUpdate) (*Profile, error) {
	p, ok := f.byUser[userID]
	if !ok {
		p = &Profile{
			ID: primitive.NewObjectID().Hex(), UserID: userID,
			TechStack: []string{}, Available: true,
		}
		f.byUser[userID] = p
	}
	if upd.ExperienceYears != nil {
		p.ExperienceYears = *upd.ExperienceYears
	}
	if upd.TechStack != nil {
		p.TechStack = *upd.TechStack
	}
	if upd.Available != nil {
		p.Available = *upd.Available
	}
	if upd.Location != nil {
		p.Location = *upd.Location
	}
	return p, nil
}

func (f *fakeProfiles) List(_ context.Context, filter ListFilter, _, _ int64) ([]*Profile, error) {
	out := []*Profile{}
	for _, p := range f.byUser {
		if filter.Available != nil && p.Available != *filter.Available {
			continue
		}
		if filter.Tech != "" {
			match := false
			for _, tech := range p.TechStack {
				if strings.EqualFold(tech, filter.Tech) {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProfiles) SetResumeKey(_ context.Context, userID, key string) (string, error) {
	p, ok := f.byUser[userID]
	if !ok {
		p = &Profile{ID: primitive.NewObjectID().Hex(), UserID: userID}
		f.byUser[userID] = p
	}
	old := p.ResumeKey
	p.ResumeKey = key
	return old, nil
}

func (f *fakeProfiles) StatsByConsultant(_ context.Context, _ string) (*Stats, error) {
	if f.stats != nil {
		return f.stats, nil
	}
	return &Stats{ByStatus: map[string]int{}}, nil
}

type fakeUsers struct {
	users map[string]*models.User
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, coreauth.ErrUserNotFound
	}
	return u, nil
}

type testEnv struct {
	engine     *gin.Engine
	profiles   *fakeProfiles
	files      storage.Store
	consultant *models.User
	recruiter  *models.User
	tokens     *coreauth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	consultant := &models.User{
		ID: primitive.NewObjectID(), Email: "con@example.com", Name: "Consultant",
		Role: models.RoleConsultant, IsActive: true,
	}
	recruiter := &models.User{
		ID: primitive.NewObjectID(), Email: "rec@example.com", Name: "Recruiter",
		Role: models.RoleRecruiter, IsActive: true,
	}
	tm := coreauth.NewTokenManager("unit-test-secret", 30*time.Minute)
	mw := coreauth.NewMiddleware(tm, &fakeUsers{users: map[string]*models.User{
		consultant.Email: consultant, recruiter.Email: recruiter,
	}}, logger)

	files, err := storage.NewLocalStore(t.TempDir(), 1<<20, []string{".pdf", ".doc", ".docx"})
	require.NoError(t, err)

	profiles := &fakeProfiles{byUser: map[string]*Profile{}}
	h := &Handler{profiles: profiles, files: files, logger: logger}

	engine := gin.New()
	grp := engine.Group("/consultants")
	me := grp.Group("/me", mw.RequireUser(), mw.RequireRole(models.RoleConsultant))
	me.GET("", h.Me)
	me.PUT("", h.UpdateMe)
	me.POST("/resume", h.UploadResume)
	me.GET("/resume", h.DownloadMyResume)
	me.GET("/stats", h.Stats)
	staff := grp.Group("", mw.RequireUser(), mw.RequireRole(models.RoleRecruiter, models.RoleAdmin))
	staff.GET("", h.List)
	staff.GET("/:user_id", h.GetByID)
	staff.GET("/:user_id/resume", h.DownloadResumeFor)

	return &testEnv{
		engine: engine, profiles: profiles, files: files,
		consultant: consultant, recruiter: recruiter, tokens: tm,
	}
}

func (e *testEnv) request(t *testing.T, method, path, body string, user *models.User) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	token, err := e.tokens.Create(user.Email)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) upload(t *testing.T, user *models.User, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mp := multipart.NewWriter(&buf)
	fw, err := mp.CreateFormFile("resume", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mp.Close())

	req := httptest.NewRequest(http.MethodPost, "/consultants/me/resume", &buf)
	req.Header.Set("Content-Type", mp.FormDataContentType())
	token, err := e.tokens.Create(user.Email)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func TestMeAutoCreatesProfile(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/consultants/me", "", env.consultant)

	require.Equal(t, http.StatusOK, w.Code)
	created := env.profiles.byUser[env.consultant.ID.Hex()]
	require.NotNil(t, created)
	assert.True(t, created.Available)
}

func TestUpdateMeAppliesFields(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPut, "/consultants/me",
		`{"experience_years": 4.5, "tech_stack": ["Go", "MongoDB"], "available": false}`,
		env.consultant)

	require.Equal(t, http.StatusOK, w.Code)
	stored := env.profiles.byUser[env.consultant.ID.Hex()]
	require.NotNil(t, stored)
	assert.InDelta(t, 4.5, stored.ExperienceYears, 0.001)
	assert.Equal(t, []string{"Go", "MongoDB"}, stored.TechStack)
	assert.False(t, stored.Available)
}

func TestUpdateMeRejectsNegativeExperience(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPut, "/consultants/me",
		`{"experience_years": -1}`, env.consultant)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListFiltersByAvailabilityAndTech(t *testing.T) {
	env := newTestEnv(t)
	env.profiles.byUser["a"] = &Profile{UserID: "a", Available: true, TechStack: []string{"Go"}}
	env.profiles.byUser["b"] = &Profile{UserID: "b", Available: false, TechStack: []string{"Java"}}

	w := env.request(t, http.MethodGet, "/consultants?available=true", "", env.recruiter)
	require.Equal(t, http.StatusOK, w.Code)
	var got []Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].UserID)

	w = env.request(t, http.MethodGet, "/consultants?tech=java", "", env.recruiter)
	require.Equal(t, http.StatusOK, w.Code)
	got = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].UserID)
}

func TestListRejectsConsultants(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/consultants", "", env.consultant)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetByIDNotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/consultants/missing", "", env.recruiter)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "consultant profile not found")
}

func TestUploadAndDownloadResume(t *testing.T) {
	env := newTestEnv(t)
	content := []byte("%PDF-1.4 resume body")

	w := env.upload(t, env.consultant, "resume.pdf", content)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Resume uploaded successfully")

	stored := env.profiles.byUser[env.consultant.ID.Hex()]
	require.NotNil(t, stored)
	require.NotEmpty(t, stored.ResumeKey)
	assert.True(t, strings.HasSuffix(stored.ResumeKey, ".pdf"))

	w = env.request(t, http.MethodGet, "/consultants/me/resume", "", env.consultant)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, content, w.Body.Bytes())

	// Recruiters can pull the same file by consultant id.
	w = env.request(t, http.MethodGet, "/consultants/"+env.consultant.ID.Hex()+"/resume", "", env.recruiter)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, content, w.Body.Bytes())
}

func TestUploadReplacesOldResume(t *testing.T) {
	env := newTestEnv(t)

	w := env.upload(t, env.consultant, "first.pdf", []byte("first"))
	require.Equal(t, http.StatusOK, w.Code)
	oldKey := env.profiles.byUser[env.consultant.ID.Hex()].ResumeKey

	w = env.upload(t, env.consultant, "second.pdf", []byte("second"))
	require.Equal(t, http.StatusOK, w.Code)
	newKey := env.profiles.byUser[env.consultant.ID.Hex()].ResumeKey
	require.NotEqual(t, oldKey, newKey)

	_, err := env.files.Open(context.Background(), oldKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	env := newTestEnv(t)

	w := env.upload(t, env.consultant, "malware.exe", []byte("nope"))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid file type")
}

func TestDownloadResumeMissing(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/consultants/me/resume", "", env.consultant)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "resume not found")
}

func TestStatsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.profiles.stats = &Stats{
		Total: 4, Pending: 2, Interviews: 1, Joined: 1,
		SuccessRate: 25.0, Recent30Days: 3,
		ByStatus: map[string]int{"SUBMITTED": 2, "INTERVIEW": 1, "JOINED": 1},
	}

	w := env.request(t, http.MethodGet, "/consultants/me/stats", "", env.consultant)

	require.Equal(t, http.StatusOK, w.Code)
	var got Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 4, got.Total)
	assert.InDelta(t, 25.0, got.SuccessRate, 0.001)
	assert.Equal(t, 3, got.Recent30Days)
}
