package mocks

import (
	"context"

	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/store"
)

// MockServiceConfigStore implements store.ServiceConfigStore for testing
type MockServiceConfigStore struct {
	// Function fields for customizable behavior
	GetByKindFn func(ctx context.Context, kind domain.ServiceKind) (*domain.ServiceConfig, error)
	UpsertFn    func(ctx context.Context, cfg *domain.ServiceConfig) error

	// Data for default implementation
	Configs  map[domain.ServiceKind]*domain.ServiceConfig
	GetError error
}

// NewMockServiceConfigStore creates a new mock store with initialized defaults
func NewMockServiceConfigStore() *MockServiceConfigStore {
	return &MockServiceConfigStore{
		Configs: make(map[domain.ServiceKind]*domain.ServiceConfig),
	}
}

// GetByKind implements the ServiceConfigStore interface
func (m *MockServiceConfigStore) GetByKind(ctx context.Context, kind domain.ServiceKind) (*domain.ServiceConfig, error) {
	if m.GetByKindFn != nil {
		return m.GetByKindFn(ctx, kind)
	}

	if m.GetError != nil {
		return nil, m.GetError
	}

	cfg, exists := m.Configs[kind]
	if !exists {
		return nil, store.ErrServiceConfigNotFound
	}
	return cfg, nil
}

// Upsert implements the ServiceConfigStore interface
func (m *MockServiceConfigStore) Upsert(ctx context.Context, cfg *domain.ServiceConfig) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, cfg)
	}

	m.Configs[cfg.Kind] = cfg
	return nil
}
