package mocks

import (
	"context"

	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/store"
)

// MockUsageLimitStore implements store.UsageLimitStore for testing
type MockUsageLimitStore struct {
	// Function fields for customizable behavior
	GetMonthlyLimitFn func(ctx context.Context, role domain.Role) (int, error)
	UpsertFn          func(ctx context.Context, limit *domain.UsageLimit) error

	// Data for default implementation
	Limits   map[domain.Role]int
	GetError error
}

// NewMockUsageLimitStore creates a new mock store with initialized defaults
func NewMockUsageLimitStore() *MockUsageLimitStore {
	return &MockUsageLimitStore{
		Limits: make(map[domain.Role]int),
	}
}

// GetMonthlyLimit implements the UsageLimitStore interface
func (m *MockUsageLimitStore) GetMonthlyLimit(ctx context.Context, role domain.Role) (int, error) {
	if m.GetMonthlyLimitFn != nil {
		return m.GetMonthlyLimitFn(ctx, role)
	}

	if m.GetError != nil {
		return 0, m.GetError
	}

	limit, exists := m.Limits[role]
	if !exists {
		return 0, store.ErrUsageLimitNotFound
	}
	return limit, nil
}

// Upsert implements the UsageLimitStore interface
func (m *MockUsageLimitStore) Upsert(ctx context.Context, limit *domain.UsageLimit) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, limit)
	}

	m.Limits[limit.Role] = limit.MonthlyLimit
	return nil
}
