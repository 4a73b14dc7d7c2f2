package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/database/testdb"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/stretchr/testify/require"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "Sup3rSecret"
)

type testEnv struct {
	db     database.Database
	router http.Handler
	token  string
	images *services.LocalImageStore
}

type testEnvelope struct {
	Success      bool                `json:"success"`
	Data         json.RawMessage     `json:"data"`
	Message      string              `json:"message"`
	Count        *int                `json:"count"`
	Total        *int64              `json:"total"`
	Pagination   *Pagination         `json:"pagination"`
	UnreadCount  *int64              `json:"unreadCount"`
	Grouped      map[string][]any    `json:"grouped"`
	RelativePath string              `json:"relativePath"`
	Errors       []map[string]string `json:"errors"`
}

// newTestEnv builds the full router over a fresh in-memory database with a seeded admin.
func newTestEnv(t *testing.T, overrides map[string]string) *testEnv {
	t.Helper()

	cfg := map[string]string{
		"APP_ENV":          "test",
		"JWT_SECRET":       "test-secret",
		"ACCEPTED_ORIGINS": "http://localhost:3000",
	}
	for k, v := range overrides {
		cfg[k] = v
	}

	db := testdb.New(t)
	ctx := context.Background()

	identity, err := services.NewIdentity(db, cfg["JWT_SECRET"], time.Hour)
	require.NoError(t, err)
	_, err = identity.SeedAdmin(ctx, testAdminEmail, testAdminPassword, "Admin")
	require.NoError(t, err)
	session, err := identity.Login(ctx, testAdminEmail, testAdminPassword)
	require.NoError(t, err)

	images, err := services.NewLocalImageStore(t.TempDir(), "http://localhost:5000")
	require.NoError(t, err)

	router, err := newRouter(db,
		WithConfig(cfg),
		WithIdentity(identity),
		WithImageStore(images),
	)
	require.NoError(t, err)

	return &testEnv{db: db, router: router, token: session.Token, images: images}
}

type requestOption func(*http.Request)

func withToken(token string) requestOption {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func withHeader(key, value string) requestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, opts ...requestOption) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) admin() requestOption {
	return withToken(e.token)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData(t *testing.T, env testEnvelope, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst), string(env.Data))
}

func i18n(text string) map[string]string {
	return map[string]string{"uz": text + " uz", "en": text, "ru": text + " ru"}
}
