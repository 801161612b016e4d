package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mkravets/auth-service/internal/apperror"
	"github.com/mkravets/auth-service/internal/models"
	"github.com/mkravets/auth-service/internal/repo"
	"github.com/mkravets/auth-service/internal/service"
	"github.com/mkravets/auth-service/internal/token"
	"github.com/mkravets/auth-service/internal/transport"
)

type fakeMailer struct {
	sent int
}

func (m *fakeMailer) SendActivationMail(_, _ string) error {
	m.sent++
	return nil
}

type noopPublisher struct{}

func (noopPublisher) PublishEvent(context.Context, string, string, any) error { return nil }
func (noopPublisher) Close() error                                            { return nil }

type testEnv struct {
	E      *echo.Echo
	DB     *gorm.DB
	Repo   *repo.GormRepo
	Mailer *fakeMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Token{}))

	gormRepo := repo.New(db)
	tokens := &token.Service{
		Repo:          gormRepo,
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	}
	mailer := &fakeMailer{}

	users := &service.UsersService{
		Repo:     gormRepo,
		Tokens:   tokens,
		Mail:     mailer,
		Producer: noopPublisher{},
		APIURL:   "http://localhost:8080",
	}

	e := echo.New()
	e.HTTPErrorHandler = apperror.HTTPErrorHandler
	Register(e, &Deps{
		AuthHandler: &AuthHTTP{Svc: users, RefreshTTL: 24 * time.Hour},
		Tokens:      tokens,
	})

	return &testEnv{E: e, DB: db, Repo: gormRepo, Mailer: mailer}
}

func (env *testEnv) doJSON(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func refreshCookieOf(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == refreshCookieName {
			return ck
		}
	}
	t.Fatalf("no %s cookie in response", refreshCookieName)
	return nil
}

func register(t *testing.T, env *testEnv, email, password string) (transport.AuthResponse, *http.Cookie) {
	t.Helper()

	rec := env.doJSON(t, http.MethodPost, "/api/registration", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res transport.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res, refreshCookieOf(t, rec)
}

func TestRegistration_ReturnsTokensAndSetsCookie(t *testing.T) {
	env := newTestEnv(t)

	res, cookie := register(t, env, "a@x.com", "pw1")

	require.NotEmpty(t, res.AccessToken)
	require.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, "a@x.com", res.User.Email)
	assert.False(t, res.User.IsActivated)
	assert.Equal(t, res.RefreshToken, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 1, env.Mailer.sent)
}

func TestRegistration_Duplicate_ErrorContract(t *testing.T) {
	env := newTestEnv(t)

	register(t, env, "a@x.com", "pw1")

	rec := env.doJSON(t, http.MethodPost, "/api/registration", map[string]string{
		"email":    "a@x.com",
		"password": "pw1",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["message"], "already exists")
}

func TestRegistration_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/api/registration", map[string]string{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)

	register(t, env, "a@x.com", "pw1")

	rec := env.doJSON(t, http.MethodPost, "/api/login", map[string]string{
		"email":    "a@x.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefresh_WithoutCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/api/refresh", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "User is not authorized", body["message"])
}

func TestRefresh_RotatesCookie(t *testing.T) {
	env := newTestEnv(t)

	res, cookie := register(t, env, "a@x.com", "pw1")

	rec := env.doJSON(t, http.MethodPost, "/api/refresh", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var refreshed transport.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refreshed))
	assert.NotEqual(t, res.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, refreshed.RefreshToken, refreshCookieOf(t, rec).Value)

	// The superseded cookie no longer matches the stored token.
	rec = env.doJSON(t, http.MethodPost, "/api/refresh", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_ClearsSession(t *testing.T) {
	env := newTestEnv(t)

	_, cookie := register(t, env, "a@x.com", "pw1")

	rec := env.doJSON(t, http.MethodPost, "/api/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", refreshCookieOf(t, rec).Value)

	rec = env.doJSON(t, http.MethodPost, "/api/refresh", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Logging out twice is fine.
	rec = env.doJSON(t, http.MethodPost, "/api/logout", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestActivate_KnownAndUnknownLink(t *testing.T) {
	env := newTestEnv(t)

	register(t, env, "a@x.com", "pw1")

	user, err := env.Repo.UserByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)

	rec := env.doJSON(t, http.MethodGet, "/api/activate/"+user.ActivationLink, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	activated, err := env.Repo.UserByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.True(t, activated.IsActivated)

	rec = env.doJSON(t, http.MethodGet, "/api/activate/nope", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUsers_RequiresAccessToken(t *testing.T) {
	env := newTestEnv(t)

	res, _ := register(t, env, "a@x.com", "pw1")

	rec := env.doJSON(t, http.MethodGet, "/api/users", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+res.AccessToken)
	recOK := httptest.NewRecorder()
	env.E.ServeHTTP(recOK, req)
	require.Equal(t, http.StatusOK, recOK.Code)

	var users []transport.UserDTO
	require.NoError(t, json.Unmarshal(recOK.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "a@x.com", users[0].Email)
}
