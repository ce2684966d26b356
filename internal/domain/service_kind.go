package domain

import (
	"errors"
	"strings"
)

// ServiceKind identifies one of the AI generation services.
type ServiceKind string

// Known service kinds
const (
	ServiceQuizGeneration      ServiceKind = "quiz_generation"
	ServiceLessonSummary       ServiceKind = "lesson_summary"
	ServiceFlashcardGeneration ServiceKind = "flashcard_generation"
)

// ErrInvalidServiceKind is returned when a service kind is not recognized.
var ErrInvalidServiceKind = errors.New("invalid service kind")

// ServiceKinds returns all known service kinds in a stable order.
func ServiceKinds() []ServiceKind {
	return []ServiceKind{
		ServiceQuizGeneration,
		ServiceLessonSummary,
		ServiceFlashcardGeneration,
	}
}

// ParseServiceKind converts a string into a ServiceKind.
// Returns ErrInvalidServiceKind for unknown values.
func ParseServiceKind(s string) (ServiceKind, error) {
	kind := ServiceKind(strings.ToLower(s))
	if !kind.Valid() {
		return "", ErrInvalidServiceKind
	}
	return kind, nil
}

// Valid checks if the ServiceKind is one of the known values.
func (k ServiceKind) Valid() bool {
	switch k {
	case ServiceQuizGeneration, ServiceLessonSummary, ServiceFlashcardGeneration:
		return true
	default:
		return false
	}
}

// String returns the string form of the ServiceKind.
func (k ServiceKind) String() string {
	return string(k)
}

// ContentType returns the kind of content this service produces.
func (k ServiceKind) ContentType() ContentType {
	switch k {
	case ServiceQuizGeneration:
		return ContentTypeQuiz
	case ServiceLessonSummary:
		return ContentTypeSummary
	case ServiceFlashcardGeneration:
		return ContentTypeFlashcards
	default:
		return ""
	}
}

// ContentType identifies the shape of a generated content record.
type ContentType string

// Known content types
const (
	ContentTypeQuiz       ContentType = "quiz"
	ContentTypeSummary    ContentType = "summary"
	ContentTypeFlashcards ContentType = "flashcards"
)

// Valid checks if the ContentType is one of the known values.
func (c ContentType) Valid() bool {
	switch c {
	case ContentTypeQuiz, ContentTypeSummary, ContentTypeFlashcards:
		return true
	default:
		return false
	}
}
