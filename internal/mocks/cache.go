package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MockCache implements the generation service's Cache interface with an
// in-memory map. Stored values round-trip through JSON like the Redis
// implementation does.
type MockCache struct {
	// Function fields for customizable behavior
	GetFn func(ctx context.Context, key string, dest any) (bool, error)
	SetFn func(ctx context.Context, key string, val any, ttl time.Duration) error

	mu      sync.Mutex
	Entries map[string][]byte
	TTLs    map[string]time.Duration

	GetError error
	SetError error
}

// NewMockCache creates a new mock cache with initialized defaults
func NewMockCache() *MockCache {
	return &MockCache{
		Entries: make(map[string][]byte),
		TTLs:    make(map[string]time.Duration),
	}
}

// Get implements the Cache interface
func (m *MockCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, key, dest)
	}

	if m.GetError != nil {
		return false, m.GetError
	}

	m.mu.Lock()
	raw, exists := m.Entries[key]
	m.mu.Unlock()
	if !exists {
		return false, nil
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set implements the Cache interface
func (m *MockCache) Set(ctx context.Context, key string, val any, ttl time.Duration) error {
	if m.SetFn != nil {
		return m.SetFn(ctx, key, val, ttl)
	}

	if m.SetError != nil {
		return m.SetError
	}

	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.Entries[key] = raw
	m.TTLs[key] = ttl
	m.mu.Unlock()
	return nil
}

// Len returns the number of cached entries.
func (m *MockCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Entries)
}
