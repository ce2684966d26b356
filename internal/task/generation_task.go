package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/generation"
)

// Common errors
var (
	ErrNilGenerationService = errors.New("generation service cannot be nil")
	ErrNilLogger            = errors.New("logger cannot be nil")
)

// GenerationService defines the generation operations a task can
// dispatch to. It is satisfied by generation.Service.
type GenerationService interface {
	// GenerateQuiz builds a quiz from the lesson's content
	GenerateQuiz(ctx context.Context, user *domain.User, lessonID uuid.UUID, params generation.QuizParams) (*generation.QuizResult, error)

	// GenerateSummary produces a summary of the lesson's content
	GenerateSummary(ctx context.Context, user *domain.User, lessonID uuid.UUID, params generation.SummaryParams) (*generation.SummaryResult, error)

	// GenerateFlashcards produces study flashcards from the lesson's content
	GenerateFlashcards(ctx context.Context, user *domain.User, lessonID uuid.UUID, params generation.FlashcardParams) (*generation.FlashcardResult, error)
}

// GenerationRequest is the payload of a generation task. It carries the
// requesting user's identity and role, the target lesson, and the
// parameters for the requested service kind. Only the params field
// matching ServiceType is consulted.
type GenerationRequest struct {
	UserID      uuid.UUID                   `json:"user_id"`
	UserRole    domain.Role                 `json:"user_role"`
	ServiceType domain.ServiceKind          `json:"service_type"`
	LessonID    uuid.UUID                   `json:"lesson_id"`
	Quiz        *generation.QuizParams      `json:"quiz_params,omitempty"`
	Summary     *generation.SummaryParams   `json:"summary_params,omitempty"`
	Flashcards  *generation.FlashcardParams `json:"flashcard_params,omitempty"`
}

// Validate checks that the request names a user, a lesson, a known
// service kind, and a known role.
func (r GenerationRequest) Validate() error {
	if r.UserID == uuid.Nil {
		return domain.ErrEmptyUserID
	}
	if r.LessonID == uuid.Nil {
		return domain.ErrEmptyLessonID
	}
	if !r.ServiceType.Valid() {
		return domain.ErrInvalidServiceKind
	}
	if _, err := domain.ParseRole(string(r.UserRole)); err != nil {
		return err
	}
	return nil
}

func (r GenerationRequest) quizParams() generation.QuizParams {
	if r.Quiz != nil {
		return *r.Quiz
	}
	return generation.QuizParams{}
}

func (r GenerationRequest) summaryParams() generation.SummaryParams {
	if r.Summary != nil {
		return *r.Summary
	}
	return generation.SummaryParams{}
}

func (r GenerationRequest) flashcardParams() generation.FlashcardParams {
	if r.Flashcards != nil {
		return *r.Flashcards
	}
	return generation.FlashcardParams{}
}

// GenerationTask implements the Task interface for running an AI content
// generation in the background
type GenerationTask struct {
	id      uuid.UUID
	request GenerationRequest
	service GenerationService
	logger  *slog.Logger
	status  TaskStatus
}

// NewGenerationTask creates a new generation task for the given request
func NewGenerationTask(
	request GenerationRequest,
	service GenerationService,
	logger *slog.Logger,
) (*GenerationTask, error) {
	// Validate dependencies
	if service == nil {
		return nil, ErrNilGenerationService
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	// Validate the request itself
	if err := request.Validate(); err != nil {
		return nil, err
	}

	return &GenerationTask{
		id:      uuid.New(),
		request: request,
		service: service,
		logger: logger.With(
			"task_type", TaskTypeGeneration,
			"service_type", request.ServiceType,
			"lesson_id", request.LessonID),
		status: TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *GenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *GenerationTask) Type() string {
	return TaskTypeGeneration
}

// Payload returns the serialized request so the task can be restored
// from the database after a restart
func (t *GenerationTask) Payload() []byte {
	data, err := json.Marshal(t.request)
	if err != nil {
		// If marshal fails, return an empty payload with error logged
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}

	return data
}

// Status returns the current task status
func (t *GenerationTask) Status() TaskStatus {
	return t.status
}

// Execute runs the generation by dispatching to the service operation
// matching the requested kind. Rate limits, quota checks, validation,
// usage logging, and review records are all handled inside the
// generation service; the task only tracks its own lifecycle.
func (t *GenerationTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting generation task")

	// Check for context cancellation
	if err := ctx.Err(); err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("task cancelled by context", "error", err)
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	// The generation service only needs identity and role; the rest of
	// the user record lives on the course platform.
	user := &domain.User{
		ID:   t.request.UserID,
		Role: t.request.UserRole,
	}

	outcome, err := t.generate(ctx, user)
	if err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("generation failed", "error", err)
		return fmt.Errorf("generation failed: %w", err)
	}

	t.status = TaskStatusCompleted
	t.logger.Info("generation task completed successfully",
		"generated_content_id", outcome.contentID,
		"review_status", outcome.reviewStatus,
		"validation_score", outcome.score,
		"cache_hit", outcome.cacheHit)
	return nil
}

// generationOutcome collects the fields worth logging regardless of
// which service kind produced the result
type generationOutcome struct {
	contentID    uuid.UUID
	reviewStatus domain.ReviewStatus
	score        int
	cacheHit     bool
}

func (t *GenerationTask) generate(ctx context.Context, user *domain.User) (generationOutcome, error) {
	switch t.request.ServiceType {
	case domain.ServiceQuizGeneration:
		result, err := t.service.GenerateQuiz(ctx, user, t.request.LessonID, t.request.quizParams())
		if err != nil {
			return generationOutcome{}, err
		}
		return generationOutcome{
			contentID:    result.GeneratedContentID,
			reviewStatus: result.Status,
			score:        result.Validation.Score,
			cacheHit:     result.CacheHit,
		}, nil

	case domain.ServiceLessonSummary:
		result, err := t.service.GenerateSummary(ctx, user, t.request.LessonID, t.request.summaryParams())
		if err != nil {
			return generationOutcome{}, err
		}
		return generationOutcome{
			contentID:    result.GeneratedContentID,
			reviewStatus: result.Status,
			score:        result.Validation.Score,
			cacheHit:     result.CacheHit,
		}, nil

	case domain.ServiceFlashcardGeneration:
		result, err := t.service.GenerateFlashcards(ctx, user, t.request.LessonID, t.request.flashcardParams())
		if err != nil {
			return generationOutcome{}, err
		}
		return generationOutcome{
			contentID:    result.GeneratedContentID,
			reviewStatus: result.Status,
			score:        result.Validation.Score,
			cacheHit:     result.CacheHit,
		}, nil

	default:
		// Validate catches this at construction; a restored task with a
		// corrupted payload can still land here.
		return generationOutcome{}, fmt.Errorf("%w: %q", domain.ErrInvalidServiceKind, t.request.ServiceType)
	}
}
