package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/phrazzld/task-api/internal/api"
	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:                   8080,
			LogLevel:               "debug",
			ShutdownTimeoutSeconds: 1,
		},
		Database: config.DatabaseConfig{
			Backend:                config.BackendMemory,
			MaxOpenConns:           1,
			ConnMaxLifetimeMinutes: 1,
		},
		Auth: config.AuthConfig{
			TokenLifetimeMinutes: 5,
		},
		RateLimit: config.RateLimitConfig{
			RequestsPerSecond: 1000,
			Burst:             1000,
		},
		Redis: config.RedisConfig{
			IdempotencyTTLMinutes: 5,
		},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) (*application, *httptest.Server) {
	t.Helper()

	log, _ := logger.NewTestLogger(t)
	app, err := newApplication(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(app.cleanup)

	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)
	return app, srv
}

func doRequest(t *testing.T, method, url, body string, headers map[string]string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeTask(t *testing.T, resp *http.Response) api.TaskResponse {
	t.Helper()

	var task api.TaskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&task))
	return task
}

func TestApplication_TaskLifecycle(t *testing.T) {
	t.Parallel()

	_, srv := newTestServer(t, testConfig())

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/tasks",
		`{"title": "Buy milk", "description": "2 liters"}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
	created := decodeTask(t, resp)
	assert.Equal(t, "Buy milk", created.Title)
	assert.False(t, created.Done)

	resp = doRequest(t, http.MethodGet, srv.URL+"/api/tasks", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all []api.TaskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&all))
	require.Len(t, all, 1)
	assert.Equal(t, created.ID, all[0].ID)

	resp = doRequest(t, http.MethodPatch, srv.URL+"/api/tasks/"+created.ID, `{"done": true}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeTask(t, resp)
	assert.True(t, updated.Done)
	assert.Equal(t, "Buy milk", updated.Title)

	resp = doRequest(t, http.MethodGet, srv.URL+"/api/tasks/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decodeTask(t, resp).Done)

	resp = doRequest(t, http.MethodDelete, srv.URL+"/api/tasks/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created.ID, decodeTask(t, resp).ID)

	resp = doRequest(t, http.MethodGet, srv.URL+"/api/tasks/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, srv.URL+"/api/tasks/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestApplication_HealthAndMetrics(t *testing.T) {
	t.Parallel()

	_, srv := newTestServer(t, testConfig())

	resp := doRequest(t, http.MethodGet, srv.URL+"/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	doRequest(t, http.MethodGet, srv.URL+"/api/tasks", "", nil)

	resp = doRequest(t, http.MethodGet, srv.URL+"/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := new(strings.Builder)
	_, err := io.Copy(body, resp.Body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), `taskapi_http_requests_total{method="GET",route="/api/tasks",status="200"} 1`)
	assert.Contains(t, body.String(), "go_goroutines")
}

func TestApplication_AuthEnabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Auth.Enabled = true
	cfg.Auth.JWTSecret = testSecret
	app, srv := newTestServer(t, cfg)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := app.jwtService.GenerateToken(context.Background(), "client-1")
	require.NoError(t, err)

	resp = doRequest(t, http.MethodGet, srv.URL+"/api/tasks", "",
		map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Health stays public.
	resp = doRequest(t, http.MethodGet, srv.URL+"/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestApplication_IdempotentCreate(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Redis.URL = "redis://" + mr.Addr()
	_, srv := newTestServer(t, cfg)

	headers := map[string]string{"Idempotency-Key": "create-1"}
	first := doRequest(t, http.MethodPost, srv.URL+"/api/tasks",
		`{"title": "Buy milk", "description": "2 liters"}`, headers)
	require.Equal(t, http.StatusCreated, first.StatusCode)
	created := decodeTask(t, first)

	second := doRequest(t, http.MethodPost, srv.URL+"/api/tasks",
		`{"title": "Buy milk", "description": "2 liters"}`, headers)
	require.Equal(t, http.StatusOK, second.StatusCode)
	assert.Equal(t, created.ID, decodeTask(t, second).ID)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/tasks", "", nil)
	var all []api.TaskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&all))
	assert.Len(t, all, 1)
}

func TestApplication_RateLimited(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.RateLimit.RequestsPerSecond = 0.001
	cfg.RateLimit.Burst = 1
	_, srv := newTestServer(t, cfg)

	assert.Equal(t, http.StatusOK, doRequest(t, http.MethodGet, srv.URL+"/api/tasks", "", nil).StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(t, http.MethodGet, srv.URL+"/api/tasks", "", nil).StatusCode)
	assert.Equal(t, http.StatusOK, doRequest(t, http.MethodGet, srv.URL+"/health", "", nil).StatusCode)
}

func TestNewApplication_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(cfg *config.Config)
	}{
		{
			name:   "unknown backend",
			mutate: func(cfg *config.Config) { cfg.Database.Backend = "sqlite" },
		},
		{
			name: "short jwt secret",
			mutate: func(cfg *config.Config) {
				cfg.Auth.Enabled = true
				cfg.Auth.JWTSecret = "short"
			},
		},
		{
			name:   "invalid redis url",
			mutate: func(cfg *config.Config) { cfg.Redis.URL = "http://localhost:6379" },
		},
		{
			name:   "unreachable redis",
			mutate: func(cfg *config.Config) { cfg.Redis.URL = "redis://127.0.0.1:1" },
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig()
			tc.mutate(cfg)
			log, _ := logger.NewTestLogger(t)

			app, err := newApplication(context.Background(), cfg, log)
			assert.Error(t, err)
			assert.Nil(t, app)
		})
	}
}

func TestApplication_RunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Server.Port = 0
	log, _ := logger.NewTestLogger(t)
	app, err := newApplication(context.Background(), cfg, log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, app.Run(ctx))
}

func TestHandleMigrations_UnknownCommand(t *testing.T) {
	t.Parallel()

	log, _ := logger.NewTestLogger(t)
	err := handleMigrations(context.Background(), testConfig(), log, "explode")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migration command")
}

func TestHandleMigrations_MemoryBackend(t *testing.T) {
	t.Parallel()

	log, _ := logger.NewTestLogger(t)
	err := handleMigrations(context.Background(), testConfig(), log, "status")
	assert.Error(t, err)
}

func TestLoadConfig_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "database:\n  backend: memory\nserver:\n  port: 9191\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, config.BackendMemory, cfg.Database.Backend)
}
