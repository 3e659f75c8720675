package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"codeberg.org/vyra/server/internal/auth"
	"codeberg.org/vyra/server/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.Load(func(key string) string {
		switch key {
		case "JWT_SECRET":
			return "test-secret"
		case "LEDGER_BACKEND":
			return config.LedgerBackendMemory
		}
		return ""
	})
	require.NoError(t, err)

	return cfg
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	srv, err := NewServer(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	return srv
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func TestServer_PublicRoutes(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/health", "/api/v1/ping", "/metrics", "/api/docs/swagger.json"} {
		t.Run(path, func(t *testing.T) {
			w := serve(srv, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestServer_SwaggerDocument(t *testing.T) {
	srv := newTestServer(t)

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/api/docs/swagger.json", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/api/v1/generate"`)
	assert.Contains(t, w.Body.String(), `"title": "Vyra API"`)
}

func TestServer_GenerateRequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", strings.NewReader(`{"prompt":"a fox"}`))
	req.Header.Set("Content-Type", "application/json")

	w := serve(srv, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"unauthenticated"`)
}

func TestServer_UsageForNewUser(t *testing.T) {
	srv := newTestServer(t)

	token, err := auth.New("test-secret").GenerateJWT("user-1", "user@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/usage", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := serve(srv, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"limit":5`)
	assert.Contains(t, w.Body.String(), `"remaining":5`)
}

func TestServer_GenerateWithoutProviderKeys(t *testing.T) {
	srv := newTestServer(t)

	token, err := auth.New("test-secret").GenerateJWT("user-1", "user@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", strings.NewReader(`{"prompt":"a fox"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := serve(srv, req)

	// the optimizer falls back, then the image provider reports a configuration error
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Generation failed. Please try again.")

	usage, err := srv.store.GetUsage(req.Context(), "user-1")
	require.NoError(t, err)
	assert.Zero(t, usage.DailyGenerationCount)
}

func TestServer_RequestID(t *testing.T) {
	srv := newTestServer(t)

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("X-Request-ID", "req-123")

	w = serve(srv, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestServer_UnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not-found","message":"route not found"}`, w.Body.String())
}
