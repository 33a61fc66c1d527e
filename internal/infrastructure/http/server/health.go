package server

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// HealthChecker reports whether a dependency can serve
type HealthChecker interface {
	IsHealthy() bool
}

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth represents health status of a single component
type ComponentHealth struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the JSON response for health check
type HealthResponse struct {
	Status     HealthStatus      `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components []ComponentHealth `json:"components"`
}

// HealthHandler reports scratch directory and job event health
type HealthHandler struct {
	downloadDir string
	events      HealthChecker
	logger      zerolog.Logger
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(downloadDir string, events HealthChecker, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		downloadDir: downloadDir,
		events:      events,
		logger:      logger,
	}
}

// Handle serves GET /health
func (h *HealthHandler) Handle(ctx *fasthttp.RequestCtx) {
	components := []ComponentHealth{
		h.checkScratchDir(),
		h.checkEvents(),
	}

	status := determineOverallStatus(components)

	statusCode := fasthttp.StatusOK
	if status == HealthStatusUnhealthy {
		statusCode = fasthttp.StatusServiceUnavailable
	}

	logEvent := h.logger.Debug()
	if status != HealthStatusHealthy {
		logEvent = h.logger.Warn()
	}
	logEvent.
		Str("status", string(status)).
		Int("status_code", statusCode).
		Msg("Health check completed")

	body, err := json.Marshal(HealthResponse{
		Status:     status,
		Timestamp:  time.Now().UTC(),
		Components: components,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode health check response")
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetContentType("application/json")
	ctx.SetStatusCode(statusCode)
	ctx.SetBody(body)
}

// checkScratchDir verifies files can be created in the download directory
func (h *HealthHandler) checkScratchDir() ComponentHealth {
	component := ComponentHealth{Name: "scratch_dir", Healthy: true}

	if err := os.MkdirAll(h.downloadDir, 0o755); err != nil {
		component.Healthy = false
		component.Message = err.Error()
		return component
	}

	probe, err := os.CreateTemp(h.downloadDir, ".health-*")
	if err != nil {
		component.Healthy = false
		component.Message = err.Error()
		return component
	}
	probe.Close()
	_ = os.Remove(filepath.Clean(probe.Name()))

	return component
}

func (h *HealthHandler) checkEvents() ComponentHealth {
	component := ComponentHealth{Name: "job_events", Healthy: true}

	if h.events != nil && !h.events.IsHealthy() {
		component.Healthy = false
		component.Message = "Job event producer is not healthy"
	}

	return component
}

// determineOverallStatus determines overall health status based on component health
func determineOverallStatus(components []ComponentHealth) HealthStatus {
	allHealthy := true
	anyHealthy := false

	for _, component := range components {
		if !component.Healthy {
			allHealthy = false
		} else {
			anyHealthy = true
		}
	}

	if allHealthy {
		return HealthStatusHealthy
	} else if anyHealthy {
		return HealthStatusDegraded
	}

	return HealthStatusUnhealthy
}
