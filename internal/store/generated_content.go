package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/eduforge/aigen-api/internal/domain"
)

// GeneratedContentStore defines the interface for generated content persistence.
type GeneratedContentStore interface {
	// Create saves a new generated content record to the store.
	// Returns validation errors from the domain GeneratedContent if data is invalid.
	Create(ctx context.Context, content *domain.GeneratedContent) error

	// GetByID retrieves a generated content record by its unique ID.
	// Returns ErrGeneratedContentNotFound if the record does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GeneratedContent, error)

	// UpdateReview persists the review fields (status, reviewer, notes,
	// review time) of an existing record.
	// Returns ErrGeneratedContentNotFound if the record does not exist.
	UpdateReview(ctx context.Context, content *domain.GeneratedContent) error

	// ListByUser returns the user's content records, newest first,
	// limited to the given count.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.GeneratedContent, error)

	// WithTx returns a new GeneratedContentStore instance that uses the
	// provided transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) GeneratedContentStore
}
