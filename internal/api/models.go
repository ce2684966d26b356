package api

import (
	"github.com/google/uuid"
)

// Common request/response structures

// GenerateQuizRequest defines the payload for the quiz generation endpoint.
// Zero-valued tuning parameters fall back to the service defaults.
type GenerateQuizRequest struct {
	LessonID      uuid.UUID `json:"lesson_id"      validate:"required"`
	NumQuestions  int       `json:"num_questions"  validate:"omitempty,gt=0,lte=50"`
	Difficulty    string    `json:"difficulty"     validate:"omitempty,oneof=easy medium hard"`
	QuestionTypes []string  `json:"question_types" validate:"omitempty,dive,oneof=multiple_choice true_false short_answer"`
}

// GenerateSummaryRequest defines the payload for the summary generation endpoint.
type GenerateSummaryRequest struct {
	LessonID   uuid.UUID `json:"lesson_id"      validate:"required"`
	Length     string    `json:"summary_length" validate:"omitempty,oneof=short medium long"`
	FocusAreas []string  `json:"focus_areas"    validate:"omitempty,max=10,dive,min=1,max=100"`
}

// GenerateFlashcardsRequest defines the payload for the flashcard generation endpoint.
type GenerateFlashcardsRequest struct {
	LessonID   uuid.UUID `json:"lesson_id"  validate:"required"`
	NumCards   int       `json:"num_cards"  validate:"omitempty,gt=0,lte=100"`
	Difficulty string    `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

// GenerateAsyncRequest defines the payload for the background generation
// endpoint. ServiceKind selects which parameter block applies; the other
// blocks are ignored.
type GenerateAsyncRequest struct {
	ServiceKind string    `json:"service_kind" validate:"required,oneof=quiz_generation lesson_summary flashcard_generation"`
	LessonID    uuid.UUID `json:"lesson_id"    validate:"required"`

	NumQuestions  int      `json:"num_questions"  validate:"omitempty,gt=0,lte=50"`
	Difficulty    string   `json:"difficulty"     validate:"omitempty,oneof=easy medium hard"`
	QuestionTypes []string `json:"question_types" validate:"omitempty,dive,oneof=multiple_choice true_false short_answer"`
	Length        string   `json:"summary_length" validate:"omitempty,oneof=short medium long"`
	FocusAreas    []string `json:"focus_areas"    validate:"omitempty,max=10,dive,min=1,max=100"`
	NumCards      int      `json:"num_cards"      validate:"omitempty,gt=0,lte=100"`
}

// GenerateAsyncResponse defines the successful response for the background
// generation endpoint. The task ID can be used to correlate worker logs.
type GenerateAsyncResponse struct {
	TaskID uuid.UUID `json:"task_id"`
	Status string    `json:"status"`
}

// ReviewContentRequest defines the payload for the content review endpoint.
type ReviewContentRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Notes  string `json:"notes"  validate:"max=2000"`
}
