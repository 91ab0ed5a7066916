package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/myeconomy/backend/internal/application/adapter"
)

// HealthChecker pings a dependency.
type HealthChecker func(ctx context.Context) error

// HealthController reports liveness and the state of each dependency.
type HealthController struct {
	checks map[string]HealthChecker
	now    adapter.Clock
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
	Timestamp    string            `json:"timestamp"`
}

// NewHealthController creates a health controller over the named checks.
func NewHealthController(checks map[string]HealthChecker, now adapter.Clock) *HealthController {
	return &HealthController{checks: checks, now: now}
}

// Check handles GET /health requests. It answers 503 when a dependency is down.
func (h *HealthController) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	response := HealthResponse{
		Status:       "ok",
		Dependencies: make(map[string]string, len(h.checks)),
		Timestamp:    h.now().UTC().Format(time.RFC3339),
	}

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			response.Dependencies[name] = "disconnected"
			response.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		response.Dependencies[name] = "connected"
	}

	c.JSON(status, response)
}
