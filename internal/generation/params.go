package generation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Parameter defaults shared by the typed operations.
const (
	DefaultNumQuestions = 5
	DefaultNumCards     = 10
	DefaultDifficulty   = "medium"
	DefaultLength       = "medium"
)

// DefaultQuestionTypes is applied when a quiz request names no types.
var DefaultQuestionTypes = []string{"multiple_choice"}

// QuizParams tune a quiz generation request. Zero values fall back to
// the defaults above.
type QuizParams struct {
	NumQuestions  int      `json:"num_questions"`
	Difficulty    string   `json:"difficulty"`
	QuestionTypes []string `json:"question_types"`
}

func (p *QuizParams) applyDefaults() {
	if p.NumQuestions <= 0 {
		p.NumQuestions = DefaultNumQuestions
	}
	if p.Difficulty == "" {
		p.Difficulty = DefaultDifficulty
	}
	if len(p.QuestionTypes) == 0 {
		p.QuestionTypes = DefaultQuestionTypes
	}
}

// SummaryParams tune a summary generation request.
type SummaryParams struct {
	Length     string   `json:"summary_length"`
	FocusAreas []string `json:"focus_areas"`
}

func (p *SummaryParams) applyDefaults() {
	if p.Length == "" {
		p.Length = DefaultLength
	}
}

// FlashcardParams tune a flashcard generation request.
type FlashcardParams struct {
	NumCards   int    `json:"num_cards"`
	Difficulty string `json:"difficulty"`
}

func (p *FlashcardParams) applyDefaults() {
	if p.NumCards <= 0 {
		p.NumCards = DefaultNumCards
	}
	if p.Difficulty == "" {
		p.Difficulty = DefaultDifficulty
	}
}

// Cache keys serialize every request parameter in a fixed order, so two
// identical requests always land on the same entry and list order stays
// significant.

func quizCacheKey(lessonID uuid.UUID, p QuizParams) string {
	return fmt.Sprintf("quiz_gen:%s:%d:%s:%s",
		lessonID, p.NumQuestions, p.Difficulty, strings.Join(p.QuestionTypes, ","))
}

func summaryCacheKey(lessonID uuid.UUID, p SummaryParams) string {
	return fmt.Sprintf("summary:%s:%s:%s",
		lessonID, p.Length, strings.Join(p.FocusAreas, ","))
}

func flashcardCacheKey(lessonID uuid.UUID, p FlashcardParams) string {
	return fmt.Sprintf("flashcards:%s:%d:%s", lessonID, p.NumCards, p.Difficulty)
}
