package server

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

// mockHealthChecker implements HealthChecker for testing
type mockHealthChecker struct {
	healthy bool
}

func (m *mockHealthChecker) IsHealthy() bool {
	return m.healthy
}

func serveHealth(t *testing.T, h *HealthHandler) (int, HealthResponse) {
	t.Helper()

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI("/health")

	h.Handle(&ctx)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	return ctx.Response.StatusCode(), resp
}

func TestHealthHandler_AllHealthy(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	h := NewHealthHandler(dir, &mockHealthChecker{healthy: true}, zerolog.Nop())

	code, resp := serveHealth(t, h)

	assert.Equal(t, fasthttp.StatusOK, code)
	assert.Equal(t, HealthStatusHealthy, resp.Status)
	require.Len(t, resp.Components, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file must be removed")
}

func TestHealthHandler_NoEventsChecker(t *testing.T) {
	h := NewHealthHandler(t.TempDir(), nil, zerolog.Nop())

	code, resp := serveHealth(t, h)

	assert.Equal(t, fasthttp.StatusOK, code)
	assert.Equal(t, HealthStatusHealthy, resp.Status)
}

func TestHealthHandler_Degraded(t *testing.T) {
	h := NewHealthHandler(t.TempDir(), &mockHealthChecker{healthy: false}, zerolog.Nop())

	code, resp := serveHealth(t, h)

	assert.Equal(t, fasthttp.StatusOK, code)
	assert.Equal(t, HealthStatusDegraded, resp.Status)
}

func TestHealthHandler_Unhealthy(t *testing.T) {
	// a regular file where the directory should be
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	h := NewHealthHandler(blocker, &mockHealthChecker{healthy: false}, zerolog.Nop())

	code, resp := serveHealth(t, h)

	assert.Equal(t, fasthttp.StatusServiceUnavailable, code)
	assert.Equal(t, HealthStatusUnhealthy, resp.Status)
}

func TestDetermineOverallStatus(t *testing.T) {
	assert.Equal(t, HealthStatusHealthy, determineOverallStatus([]ComponentHealth{{Healthy: true}}))
	assert.Equal(t, HealthStatusDegraded, determineOverallStatus([]ComponentHealth{{Healthy: true}, {Healthy: false}}))
	assert.Equal(t, HealthStatusUnhealthy, determineOverallStatus([]ComponentHealth{{Healthy: false}}))
}
