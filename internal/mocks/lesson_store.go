package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/store"
)

// MockLessonStore implements store.LessonStore for testing
type MockLessonStore struct {
	// Function fields for customizable behavior
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)

	// Data for default implementation
	Lessons map[uuid.UUID]*domain.Lesson
}

// NewMockLessonStore creates a new mock store with initialized defaults
func NewMockLessonStore() *MockLessonStore {
	return &MockLessonStore{
		Lessons: make(map[uuid.UUID]*domain.Lesson),
	}
}

// GetByID implements the LessonStore interface
func (m *MockLessonStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	lesson, exists := m.Lessons[id]
	if !exists {
		return nil, store.ErrLessonNotFound
	}
	return lesson, nil
}

// Add stores a lesson for later retrieval.
func (m *MockLessonStore) Add(lesson *domain.Lesson) {
	m.Lessons[lesson.ID] = lesson
}
