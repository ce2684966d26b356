package mocks

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/store"
)

// MockUsageRecordStore implements store.UsageRecordStore for testing
type MockUsageRecordStore struct {
	// Function fields for customizable behavior
	CreateFn                     func(ctx context.Context, record *domain.UsageRecord) error
	CountSuccessfulSinceFn       func(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
	CountSuccessfulByKindSinceFn func(ctx context.Context, userID uuid.UUID, since time.Time) (map[domain.ServiceKind]int, error)
	ListByUserFn                 func(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.UsageRecord, error)

	// Data for default implementation
	Records     []*domain.UsageRecord
	CreateError error
	CountError  error
}

// NewMockUsageRecordStore creates a new mock store with initialized defaults
func NewMockUsageRecordStore() *MockUsageRecordStore {
	return &MockUsageRecordStore{}
}

// Create implements the UsageRecordStore interface
func (m *MockUsageRecordStore) Create(ctx context.Context, record *domain.UsageRecord) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, record)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	m.Records = append(m.Records, record)
	return nil
}

// CountSuccessfulSince implements the UsageRecordStore interface
func (m *MockUsageRecordStore) CountSuccessfulSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) (int, error) {
	if m.CountSuccessfulSinceFn != nil {
		return m.CountSuccessfulSinceFn(ctx, userID, since)
	}

	if m.CountError != nil {
		return 0, m.CountError
	}

	count := 0
	for _, record := range m.Records {
		if record.UserID == userID && record.Success && !record.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// CountSuccessfulByKindSince implements the UsageRecordStore interface
func (m *MockUsageRecordStore) CountSuccessfulByKindSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) (map[domain.ServiceKind]int, error) {
	if m.CountSuccessfulByKindSinceFn != nil {
		return m.CountSuccessfulByKindSinceFn(ctx, userID, since)
	}

	if m.CountError != nil {
		return nil, m.CountError
	}

	counts := make(map[domain.ServiceKind]int)
	for _, record := range m.Records {
		if record.UserID == userID && record.Success && !record.CreatedAt.Before(since) {
			counts[record.ServiceKind]++
		}
	}
	return counts, nil
}

// ListByUser implements the UsageRecordStore interface
func (m *MockUsageRecordStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.UsageRecord, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, limit)
	}

	matched := make([]*domain.UsageRecord, 0)
	for _, record := range m.Records {
		if record.UserID == userID {
			matched = append(matched, record)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// WithTx implements the UsageRecordStore interface for transaction support
func (m *MockUsageRecordStore) WithTx(tx *sql.Tx) store.UsageRecordStore {
	// For mock purposes, just return the same mock
	return m
}

// SuccessfulRecords returns the created records with Success set,
// useful for asserting what was charged.
func (m *MockUsageRecordStore) SuccessfulRecords() []*domain.UsageRecord {
	out := make([]*domain.UsageRecord, 0)
	for _, record := range m.Records {
		if record.Success {
			out = append(out, record)
		}
	}
	return out
}
