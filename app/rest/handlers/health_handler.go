package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"console-core/app/port"
)

// HealthHandler handles health check HTTP requests.
type HealthHandler struct {
	kv     port.KeyValueStore
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(kv port.KeyValueStore, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		kv:     kv,
		logger: logger,
	}
}

// HealthCheck performs a basic health check.
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Service:   "console-core",
		Version:   "1.0.0",
		Uptime:    time.Since(startTime).String(),
	}

	return c.JSON(http.StatusOK, response)
}

// ReadinessCheck verifies the durable store answers a write/read round trip.
func (h *HealthHandler) ReadinessCheck(c echo.Context) error {
	checks := make(map[string]HealthStatus)

	probeStart := time.Now()
	storeStatus := HealthStatus{Status: "healthy", Message: "read/write ok"}
	if err := h.kv.Set("health_probe", probeStart.Format(time.RFC3339Nano)); err != nil {
		storeStatus = HealthStatus{Status: "unhealthy", Message: err.Error()}
	} else if _, ok := h.kv.Get("health_probe"); !ok {
		storeStatus = HealthStatus{Status: "unhealthy", Message: "probe key not readable"}
	}
	storeStatus.Latency = time.Since(probeStart).String()
	checks["kvstore"] = storeStatus

	allHealthy := true
	for _, check := range checks {
		if check.Status != "healthy" {
			allHealthy = false
			break
		}
	}

	response := ReadinessResponse{
		Status:    getOverallStatus(allHealthy),
		Timestamp: time.Now(),
		Service:   "console-core",
		Checks:    checks,
	}

	statusCode := http.StatusOK
	if !allHealthy {
		statusCode = http.StatusServiceUnavailable
	}

	return c.JSON(statusCode, response)
}

// LivenessCheck performs a liveness check.
func (h *HealthHandler) LivenessCheck(c echo.Context) error {
	response := HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Service:   "console-core",
		Version:   "1.0.0",
		Uptime:    time.Since(startTime).String(),
	}

	return c.JSON(http.StatusOK, response)
}

func getOverallStatus(allHealthy bool) string {
	if allHealthy {
		return "ready"
	}
	return "not_ready"
}

// Response types
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
}

type ReadinessResponse struct {
	Status    string                  `json:"status"`
	Timestamp time.Time               `json:"timestamp"`
	Service   string                  `json:"service"`
	Checks    map[string]HealthStatus `json:"checks"`
}

type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Latency string `json:"latency,omitempty"`
}

// startTime is set when the service starts
var startTime = time.Now()
