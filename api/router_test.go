package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_UnknownRoute(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	got := decodeEnvelope(t, rec)
	assert.False(t, got.Success)
	assert.Equal(t, "Route /api/nope not found", got.Message)
}

func TestRouter_Health(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status healthStatus
	decodeData(t, decodeEnvelope(t, rec), &status)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "connected", status.Database)
}

func TestRouter_HealthWithoutDatabase(t *testing.T) {
	env := newTestEnv(t, nil)
	require.NoError(t, env.db.Close())

	rec := env.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	got := decodeEnvelope(t, rec)
	assert.False(t, got.Success)
	var status healthStatus
	decodeData(t, got, &status)
	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "disconnected", status.Database)
}

func TestRouter_CORS(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/health", nil, withHeader("Origin", "http://localhost:3000"))
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = env.do(t, http.MethodOptions, "/api/health", nil,
		withHeader("Origin", "https://evil.example"),
		withHeader("Access-Control-Request-Method", "GET"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_APILimit(t *testing.T) {
	env := newTestEnv(t, map[string]string{"RATE_LIMIT_API_MAX": "3"})
	from := withHeader("X-Forwarded-For", "203.0.113.9")

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/skills", nil, from).Code)
	}
	rec := env.do(t, http.MethodGet, "/api/skills", nil, from)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "300", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/skills", nil).Code)
}

func TestClientAddress(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{name: "forwarded chain", forwarded: " 203.0.113.1 , 10.0.0.1", remoteAddr: "10.0.0.2:1234", want: "203.0.113.1"},
		{name: "real ip", realIP: "198.51.100.4", remoteAddr: "10.0.0.2:1234", want: "198.51.100.4"},
		{name: "remote addr", remoteAddr: "192.0.2.8:5555", want: "192.0.2.8"},
		{name: "remote addr without port", remoteAddr: "192.0.2.9", want: "192.0.2.9"},
		{name: "nothing usable", remoteAddr: "", want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			assert.Equal(t, tt.want, clientAddress(r))
		})
	}
}

func TestAddressLimiter_RefillsOverWindow(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newAddressLimiter(2, time.Minute, "slow down")
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"), "addresses are limited independently")

	now = now.Add(30 * time.Second)
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
}

func TestAddressLimiter_CheckDoesNotConsume(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newAddressLimiter(1, time.Minute, "slow down")
	l.now = func() time.Time { return now }

	assert.True(t, l.Check("a"))
	assert.True(t, l.Check("a"))
	l.Record("a")
	assert.False(t, l.Check("a"))

	now = now.Add(time.Minute)
	assert.True(t, l.Check("a"))
}

func TestAddressLimiter_SweepsIdleAddresses(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newAddressLimiter(1, time.Minute, "slow down")
	l.now = func() time.Time { return now }
	l.lastSweep = now

	l.Allow("a")
	now = now.Add(2 * time.Minute)
	l.Allow("b")

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.visitors, "a")
	assert.Contains(t, l.visitors, "b")
}

func TestResponder_HidesServerFaults(t *testing.T) {
	responder := NewResponder(zerolog.Nop())

	rec := httptest.NewRecorder()
	responder.WriteError(rec, errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.Contains(t, rec.Body.String(), `"message":"Server Error"`)

	rec = httptest.NewRecorder()
	responder.WriteError(rec, errs.NewServiceUnavailableError("database", errors.New("dial tcp: timeout")))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "dial tcp")

	rec = httptest.NewRecorder()
	responder.WriteError(rec, errs.NewRateLimitError("slow down", 90*time.Second))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "90", rec.Header().Get("Retry-After"))
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestRecoverer_TurnsPanicIntoEnvelope(t *testing.T) {
	h := LogInternalServerErrors(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Server Error"}`, rec.Body.String())
}
