package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

const readinessTimeout = 3 * time.Second

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	probes map[string]Pinger
}

// NewHealthHandler builds a HealthHandler. probes is keyed by dependency name
// (e.g. "mongodb", "redis").
func NewHealthHandler(probes map[string]Pinger) *HealthHandler {
	return &HealthHandler{probes: probes}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Liveness handles GET /health. It returns 200 while the process is alive.
//
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Readiness handles GET /health/ready. Every registered dependency must
// answer a ping for the service to be ready.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(h.probes))
	for name := range h.probes {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make(map[string]dependencyStatus, len(names))
	healthy := true
	for _, name := range names {
		if err := h.probes[name].Ping(ctx); err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
