package mocks

import (
	"context"
	"sync"
	"time"
)

// MockCounterStore implements ratelimit.CounterStore with in-memory
// counters. Expiry is not simulated; tests that need window expiry use
// a purpose-built fake with a manual clock.
type MockCounterStore struct {
	// Function fields for customizable behavior
	IncrementWithExpiryFn func(ctx context.Context, key string, window time.Duration) (int64, error)
	GetFn                 func(ctx context.Context, key string) (int64, error)

	mu     sync.Mutex
	Counts map[string]int64

	IncrementError error
}

// NewMockCounterStore creates a new mock counter store with initialized defaults
func NewMockCounterStore() *MockCounterStore {
	return &MockCounterStore{
		Counts: make(map[string]int64),
	}
}

// IncrementWithExpiry implements the CounterStore interface
func (m *MockCounterStore) IncrementWithExpiry(ctx context.Context, key string, window time.Duration) (int64, error) {
	if m.IncrementWithExpiryFn != nil {
		return m.IncrementWithExpiryFn(ctx, key, window)
	}

	if m.IncrementError != nil {
		return 0, m.IncrementError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Counts[key]++
	return m.Counts[key], nil
}

// Get implements the CounterStore interface
func (m *MockCounterStore) Get(ctx context.Context, key string) (int64, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Counts[key], nil
}
