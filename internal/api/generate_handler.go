package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/eduforge/aigen-api/internal/api/shared"
	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/events"
	"github.com/eduforge/aigen-api/internal/generation"
	"github.com/eduforge/aigen-api/internal/task"
)

// GenerationService defines the generation operations the handlers
// dispatch to. It is satisfied by generation.Service.
type GenerationService interface {
	// GenerateQuiz builds a quiz from the lesson's content
	GenerateQuiz(ctx context.Context, user *domain.User, lessonID uuid.UUID, params generation.QuizParams) (*generation.QuizResult, error)

	// GenerateSummary produces a summary of the lesson's content
	GenerateSummary(ctx context.Context, user *domain.User, lessonID uuid.UUID, params generation.SummaryParams) (*generation.SummaryResult, error)

	// GenerateFlashcards produces study flashcards from the lesson's content
	GenerateFlashcards(ctx context.Context, user *domain.User, lessonID uuid.UUID, params generation.FlashcardParams) (*generation.FlashcardResult, error)
}

// GenerateHandler handles content generation HTTP requests
type GenerateHandler struct {
	generationService GenerationService
	emitter           events.EventEmitter
	validator         *validator.Validate
}

// NewGenerateHandler creates a new GenerateHandler
func NewGenerateHandler(
	generationService GenerationService,
	emitter events.EventEmitter,
) *GenerateHandler {
	return &GenerateHandler{
		generationService: generationService,
		emitter:           emitter,
		validator:         validator.New(),
	}
}

// GenerateQuiz handles POST /api/generate/quiz requests
func (h *GenerateHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	// Extract user identity from context (set by auth middleware)
	user, ok := userFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	// Parse request body
	var req GenerateQuizRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	// Validate request
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.generationService.GenerateQuiz(r.Context(), user, req.LessonID, generation.QuizParams{
		NumQuestions:  req.NumQuestions,
		Difficulty:    req.Difficulty,
		QuestionTypes: req.QuestionTypes,
	})
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// GenerateSummary handles POST /api/generate/summary requests
func (h *GenerateHandler) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req GenerateSummaryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.generationService.GenerateSummary(r.Context(), user, req.LessonID, generation.SummaryParams{
		Length:     req.Length,
		FocusAreas: req.FocusAreas,
	})
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// GenerateFlashcards handles POST /api/generate/flashcards requests
func (h *GenerateHandler) GenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req GenerateFlashcardsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.generationService.GenerateFlashcards(r.Context(), user, req.LessonID, generation.FlashcardParams{
		NumCards:   req.NumCards,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// GenerateAsync handles POST /api/generate/async requests. The request
// is validated here, then handed off through the event emitter; a
// handler in the composition root turns the event into a queued task
// whose ID matches the event ID returned to the client.
func (h *GenerateHandler) GenerateAsync(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req GenerateAsyncRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	kind, err := domain.ParseServiceKind(req.ServiceKind)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	payload := task.GenerationRequest{
		UserID:      user.ID,
		UserRole:    user.Role,
		ServiceType: kind,
		LessonID:    req.LessonID,
	}
	switch kind {
	case domain.ServiceQuizGeneration:
		payload.Quiz = &generation.QuizParams{
			NumQuestions:  req.NumQuestions,
			Difficulty:    req.Difficulty,
			QuestionTypes: req.QuestionTypes,
		}
	case domain.ServiceLessonSummary:
		payload.Summary = &generation.SummaryParams{
			Length:     req.Length,
			FocusAreas: req.FocusAreas,
		}
	case domain.ServiceFlashcardGeneration:
		payload.Flashcards = &generation.FlashcardParams{
			NumCards:   req.NumCards,
			Difficulty: req.Difficulty,
		}
	}

	event, err := events.NewGenerationRequestedEvent(task.TaskTypeGeneration, payload)
	if err != nil {
		slog.Error("failed to build generation event",
			"error", err,
			"user_id", user.ID,
			"service_kind", kind)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to queue generation")
		return
	}

	if err := h.emitter.EmitEvent(r.Context(), event); err != nil {
		slog.Error("failed to emit generation event",
			"error", err,
			"event_id", event.ID,
			"user_id", user.ID,
			"service_kind", kind)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to queue generation")
		return
	}

	// Processing happens in the background, so answer 202 Accepted
	shared.RespondWithJSON(w, r, http.StatusAccepted, GenerateAsyncResponse{
		TaskID: event.ID,
		Status: string(task.TaskStatusPending),
	})
}
