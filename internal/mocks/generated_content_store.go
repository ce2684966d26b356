package mocks

import (
	"context"
	"database/sql"
	"sort"

	"github.com/google/uuid"

	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/store"
)

// MockGeneratedContentStore implements store.GeneratedContentStore for testing
type MockGeneratedContentStore struct {
	// Function fields for customizable behavior
	CreateFn       func(ctx context.Context, content *domain.GeneratedContent) error
	GetByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.GeneratedContent, error)
	UpdateReviewFn func(ctx context.Context, content *domain.GeneratedContent) error
	ListByUserFn   func(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.GeneratedContent, error)

	// Data for default implementation
	Contents    map[uuid.UUID]*domain.GeneratedContent
	CreateError error
}

// NewMockGeneratedContentStore creates a new mock store with initialized defaults
func NewMockGeneratedContentStore() *MockGeneratedContentStore {
	return &MockGeneratedContentStore{
		Contents: make(map[uuid.UUID]*domain.GeneratedContent),
	}
}

// Create implements the GeneratedContentStore interface
func (m *MockGeneratedContentStore) Create(ctx context.Context, content *domain.GeneratedContent) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, content)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	m.Contents[content.ID] = content
	return nil
}

// GetByID implements the GeneratedContentStore interface
func (m *MockGeneratedContentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.GeneratedContent, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	content, exists := m.Contents[id]
	if !exists {
		return nil, store.ErrGeneratedContentNotFound
	}
	return content, nil
}

// UpdateReview implements the GeneratedContentStore interface
func (m *MockGeneratedContentStore) UpdateReview(ctx context.Context, content *domain.GeneratedContent) error {
	if m.UpdateReviewFn != nil {
		return m.UpdateReviewFn(ctx, content)
	}

	if _, exists := m.Contents[content.ID]; !exists {
		return store.ErrGeneratedContentNotFound
	}
	m.Contents[content.ID] = content
	return nil
}

// ListByUser implements the GeneratedContentStore interface
func (m *MockGeneratedContentStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.GeneratedContent, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, limit)
	}

	matched := make([]*domain.GeneratedContent, 0)
	for _, content := range m.Contents {
		if content.UserID == userID {
			matched = append(matched, content)
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

// WithTx implements the GeneratedContentStore interface for transaction support
func (m *MockGeneratedContentStore) WithTx(tx *sql.Tx) store.GeneratedContentStore {
	// For mock purposes, just return the same mock
	return m
}
