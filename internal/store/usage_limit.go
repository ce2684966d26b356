package store

import (
	"context"

	"github.com/eduforge/aigen-api/internal/domain"
)

// UsageLimitStore defines the interface for per-role usage limit persistence.
type UsageLimitStore interface {
	// GetMonthlyLimit retrieves the monthly allowance for a role.
	// Returns ErrUsageLimitNotFound if no row exists; callers fall back to
	// the configured defaults.
	GetMonthlyLimit(ctx context.Context, role domain.Role) (int, error)

	// Upsert creates or replaces the limit row for limit.Role.
	// Returns validation errors from the domain UsageLimit if data is invalid.
	Upsert(ctx context.Context, limit *domain.UsageLimit) error
}
