package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/eduforge/aigen-api/internal/domain"
)

// LessonStore defines the interface for lesson retrieval. Lessons are
// authored on the course platform; this service only reads them.
type LessonStore interface {
	// GetByID retrieves a lesson by its unique ID.
	// Returns ErrLessonNotFound if the lesson does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)
}
