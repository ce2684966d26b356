package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewLesson(t *testing.T) {
	t.Parallel() // Enable parallel execution
	lesson, err := NewLesson("Recursion Basics", "A function that calls itself is recursive.")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if lesson.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if lesson.Title != "Recursion Basics" {
		t.Errorf("Expected title to be set, got %q", lesson.Title)
	}

	if lesson.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	// Test empty title
	_, err = NewLesson("", "content")
	if err != ErrEmptyLessonTitle {
		t.Errorf("Expected error %v, got %v", ErrEmptyLessonTitle, err)
	}

	// Test empty content
	_, err = NewLesson("title", "")
	if err != ErrEmptyLessonContent {
		t.Errorf("Expected error %v, got %v", ErrEmptyLessonContent, err)
	}
}
