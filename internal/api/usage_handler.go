package api

import (
	"context"
	"net/http"

	"github.com/eduforge/aigen-api/internal/api/shared"
	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/usage"
)

// UsageReporter reports a user's monthly quota standing. It is satisfied
// by generation.Service.
type UsageReporter interface {
	// UsageDecision reports quota standing and per-kind counts without
	// consuming a rate-limit slot.
	UsageDecision(ctx context.Context, user *domain.User) (usage.MonthlyStats, error)
}

// UsageHandler handles usage reporting HTTP requests
type UsageHandler struct {
	reporter UsageReporter
}

// NewUsageHandler creates a new UsageHandler
func NewUsageHandler(reporter UsageReporter) *UsageHandler {
	return &UsageHandler{
		reporter: reporter,
	}
}

// GetUsage handles GET /api/usage requests. It returns the caller's
// current quota decision plus successful generations this month broken
// down by service kind.
func (h *UsageHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	stats, err := h.reporter.UsageDecision(r.Context(), user)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
