package store

import (
	"context"

	"github.com/eduforge/aigen-api/internal/domain"
)

// ServiceConfigStore defines the interface for service configuration persistence.
type ServiceConfigStore interface {
	// GetByKind retrieves the configuration row for a service kind.
	// Returns ErrServiceConfigNotFound if no row exists; callers fall back
	// to domain.DefaultServiceConfig.
	GetByKind(ctx context.Context, kind domain.ServiceKind) (*domain.ServiceConfig, error)

	// Upsert creates or replaces the configuration row for cfg.Kind.
	// Returns validation errors from the domain ServiceConfig if data is invalid.
	Upsert(ctx context.Context, cfg *domain.ServiceConfig) error
}
