// Package mocks provides mock implementations for testing task components.
package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/generation"
)

// GenerationService is a mock implementation of task.GenerationService.
type GenerationService struct {
	GenerateQuizFn       func(ctx context.Context, user *domain.User, lessonID uuid.UUID, params generation.QuizParams) (*generation.QuizResult, error)
	GenerateSummaryFn    func(ctx context.Context, user *domain.User, lessonID uuid.UUID, params generation.SummaryParams) (*generation.SummaryResult, error)
	GenerateFlashcardsFn func(ctx context.Context, user *domain.User, lessonID uuid.UUID, params generation.FlashcardParams) (*generation.FlashcardResult, error)
}

// GenerateQuiz implements task.GenerationService.
func (m *GenerationService) GenerateQuiz(
	ctx context.Context,
	user *domain.User,
	lessonID uuid.UUID,
	params generation.QuizParams,
) (*generation.QuizResult, error) {
	if m.GenerateQuizFn != nil {
		return m.GenerateQuizFn(ctx, user, lessonID, params)
	}
	return &generation.QuizResult{}, nil
}

// GenerateSummary implements task.GenerationService.
func (m *GenerationService) GenerateSummary(
	ctx context.Context,
	user *domain.User,
	lessonID uuid.UUID,
	params generation.SummaryParams,
) (*generation.SummaryResult, error) {
	if m.GenerateSummaryFn != nil {
		return m.GenerateSummaryFn(ctx, user, lessonID, params)
	}
	return &generation.SummaryResult{}, nil
}

// GenerateFlashcards implements task.GenerationService.
func (m *GenerationService) GenerateFlashcards(
	ctx context.Context,
	user *domain.User,
	lessonID uuid.UUID,
	params generation.FlashcardParams,
) (*generation.FlashcardResult, error) {
	if m.GenerateFlashcardsFn != nil {
		return m.GenerateFlashcardsFn(ctx, user, lessonID, params)
	}
	return &generation.FlashcardResult{}, nil
}
