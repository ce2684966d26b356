package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Lesson
var (
	ErrEmptyLessonID      = errors.New("lesson ID cannot be empty")
	ErrEmptyLessonTitle   = errors.New("lesson title cannot be empty")
	ErrEmptyLessonContent = errors.New("lesson content cannot be empty")
)

// Lesson is the source material for a generation request. Lessons are
// authored on the course platform; this service only reads them.
type Lesson struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewLesson creates a new Lesson with the given title and content.
// It generates a new UUID for the lesson ID and sets the creation timestamp.
// Returns an error if validation fails.
func NewLesson(title, content string) (*Lesson, error) {
	lesson := &Lesson{
		ID:        uuid.New(),
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := lesson.Validate(); err != nil {
		return nil, err
	}

	return lesson, nil
}

// Validate checks if the Lesson has valid data.
// Returns an error if any field fails validation.
func (l *Lesson) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyLessonID
	}

	if l.Title == "" {
		return ErrEmptyLessonTitle
	}

	if l.Content == "" {
		return ErrEmptyLessonContent
	}

	return nil
}
