package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/eduforge/aigen-api/internal/domain"
)

// UsageRecordStore defines the interface for usage record persistence.
type UsageRecordStore interface {
	// Create saves a new usage record to the store.
	// Returns validation errors from the domain UsageRecord if data is invalid.
	Create(ctx context.Context, record *domain.UsageRecord) error

	// CountSuccessfulSince counts the user's successful records created at or
	// after the given instant. Failed attempts never count against quota.
	CountSuccessfulSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)

	// CountSuccessfulByKindSince is CountSuccessfulSince broken down per
	// service kind, used by the usage stats endpoint.
	CountSuccessfulByKindSince(
		ctx context.Context,
		userID uuid.UUID,
		since time.Time,
	) (map[domain.ServiceKind]int, error)

	// ListByUser returns the user's most recent records, newest first,
	// limited to the given count.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.UsageRecord, error)

	// WithTx returns a new UsageRecordStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) UsageRecordStore
}
