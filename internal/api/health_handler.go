package api

import (
	"context"
	"net/http"

	"github.com/eduforge/aigen-api/internal/api/shared"
	"github.com/eduforge/aigen-api/internal/health"
)

// HealthChecker runs the subsystem probes. It is satisfied by
// health.Checker.
type HealthChecker interface {
	Check(ctx context.Context) health.Report
}

// HealthHandler handles health check HTTP requests
type HealthHandler struct {
	checker HealthChecker
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{
		checker: checker,
	}
}

// GetHealth handles GET /health requests. The full report is returned
// with 200 when every check passes and 503 when any check is degraded,
// so load balancers can act on the status code alone.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	report := h.checker.Check(r.Context())

	status := http.StatusOK
	if report.Status != health.StatusOK {
		status = http.StatusServiceUnavailable
	}

	shared.RespondWithJSON(w, r, status, report)
}
