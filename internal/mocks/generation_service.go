package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/generation"
)

// MockGenerationService implements the generation operation interfaces
// consumed by the API handlers and background tasks. Calls are recorded
// so tests can assert on the parameters handed to the service.
type MockGenerationService struct {
	mu sync.Mutex

	// Function fields for customizable behavior
	GenerateQuizFn       func(ctx context.Context, user *domain.User, lessonID uuid.UUID, params generation.QuizParams) (*generation.QuizResult, error)
	GenerateSummaryFn    func(ctx context.Context, user *domain.User, lessonID uuid.UUID, params generation.SummaryParams) (*generation.SummaryResult, error)
	GenerateFlashcardsFn func(ctx context.Context, user *domain.User, lessonID uuid.UUID, params generation.FlashcardParams) (*generation.FlashcardResult, error)

	// Recorded calls
	QuizCalls      []GenerationCall
	SummaryCalls   []GenerationCall
	FlashcardCalls []GenerationCall
}

// GenerationCall captures the arguments of one recorded operation call.
type GenerationCall struct {
	User            *domain.User
	LessonID        uuid.UUID
	QuizParams      generation.QuizParams
	SummaryParams   generation.SummaryParams
	FlashcardParams generation.FlashcardParams
}

// GenerateQuiz implements the quiz operation
func (m *MockGenerationService) GenerateQuiz(
	ctx context.Context,
	user *domain.User,
	lessonID uuid.UUID,
	params generation.QuizParams,
) (*generation.QuizResult, error) {
	m.mu.Lock()
	m.QuizCalls = append(m.QuizCalls, GenerationCall{User: user, LessonID: lessonID, QuizParams: params})
	m.mu.Unlock()

	if m.GenerateQuizFn != nil {
		return m.GenerateQuizFn(ctx, user, lessonID, params)
	}
	return &generation.QuizResult{GeneratedContentID: uuid.New()}, nil
}

// GenerateSummary implements the summary operation
func (m *MockGenerationService) GenerateSummary(
	ctx context.Context,
	user *domain.User,
	lessonID uuid.UUID,
	params generation.SummaryParams,
) (*generation.SummaryResult, error) {
	m.mu.Lock()
	m.SummaryCalls = append(m.SummaryCalls, GenerationCall{User: user, LessonID: lessonID, SummaryParams: params})
	m.mu.Unlock()

	if m.GenerateSummaryFn != nil {
		return m.GenerateSummaryFn(ctx, user, lessonID, params)
	}
	return &generation.SummaryResult{GeneratedContentID: uuid.New()}, nil
}

// GenerateFlashcards implements the flashcard operation
func (m *MockGenerationService) GenerateFlashcards(
	ctx context.Context,
	user *domain.User,
	lessonID uuid.UUID,
	params generation.FlashcardParams,
) (*generation.FlashcardResult, error) {
	m.mu.Lock()
	m.FlashcardCalls = append(m.FlashcardCalls, GenerationCall{User: user, LessonID: lessonID, FlashcardParams: params})
	m.mu.Unlock()

	if m.GenerateFlashcardsFn != nil {
		return m.GenerateFlashcardsFn(ctx, user, lessonID, params)
	}
	return &generation.FlashcardResult{GeneratedContentID: uuid.New()}, nil
}
