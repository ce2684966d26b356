package generation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/eduforge/aigen-api/internal/content"
	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/provider"
	"github.com/eduforge/aigen-api/internal/resilience"
	"github.com/eduforge/aigen-api/internal/store"
	"github.com/eduforge/aigen-api/internal/usage"
)

// Cache TTLs and the validation scores a result must clear to be cached.
// Quizzes are held to a higher bar because they are served to students
// verbatim.
const (
	quizCacheTTL      = 2 * time.Hour
	quizCacheScore    = 80
	defaultCacheTTL   = 4 * time.Hour
	defaultCacheScore = 70
)

// Credentials maps provider ids to their API keys. Keys come from the
// environment at startup; a missing key surfaces as a provider
// construction failure and triggers the fallback path.
type Credentials map[string]string

// QuizResult is the outcome of a quiz generation request. Quiz carries
// the generated payload verbatim, so fields beyond the validated
// contract survive the round trip.
type QuizResult struct {
	Quiz               json.RawMessage          `json:"quiz_data"`
	GeneratedContentID uuid.UUID                `json:"generated_content_id"`
	Status             domain.ReviewStatus      `json:"status"`
	TokensUsed         int                      `json:"tokens_used"`
	CostEstimate       float64                  `json:"cost_estimate"`
	Provider           string                   `json:"provider"`
	Model              string                   `json:"model_used"`
	Validation         content.ValidationResult `json:"validation"`
	CacheHit           bool                     `json:"cache_hit"`
}

// SummaryResult is the outcome of a summary generation request.
type SummaryResult struct {
	Summary            string                   `json:"summary"`
	GeneratedContentID uuid.UUID                `json:"generated_content_id"`
	Status             domain.ReviewStatus      `json:"status"`
	TokensUsed         int                      `json:"tokens_used"`
	CostEstimate       float64                  `json:"cost_estimate"`
	Provider           string                   `json:"provider"`
	Model              string                   `json:"model_used"`
	Validation         content.ValidationResult `json:"validation"`
	CacheHit           bool                     `json:"cache_hit"`
}

// FlashcardResult is the outcome of a flashcard generation request.
type FlashcardResult struct {
	Flashcards         json.RawMessage          `json:"flashcards"`
	GeneratedContentID uuid.UUID                `json:"generated_content_id"`
	Status             domain.ReviewStatus      `json:"status"`
	TokensUsed         int                      `json:"tokens_used"`
	CostEstimate       float64                  `json:"cost_estimate"`
	Provider           string                   `json:"provider"`
	Model              string                   `json:"model_used"`
	Validation         content.ValidationResult `json:"validation"`
	CacheHit           bool                     `json:"cache_hit"`
}

// Service orchestrates AI content generation: it resolves configuration
// and a working provider per call, enforces usage limits, runs the
// provider behind the circuit breaker and retry policy, validates and
// parses the output, and persists exactly one usage record per logical
// attempt.
type Service struct {
	registry    *provider.Registry
	credentials Credentials
	configs     store.ServiceConfigStore
	lessons     store.LessonStore
	contents    store.GeneratedContentStore
	db          *sql.DB
	tracker     *usage.Tracker
	validator   *content.Validator
	breakers    *resilience.BreakerRegistry
	retry       resilience.RetryPolicy
	cache       Cache
	logger      *slog.Logger
	now         func() time.Time
}

// NewService wires the orchestration service. The db handle is used for
// the success-path transaction that couples the usage record to the
// content row. A nil logger falls back to slog.Default, and a nil clock
// to time.Now.
func NewService(
	registry *provider.Registry,
	credentials Credentials,
	configs store.ServiceConfigStore,
	lessons store.LessonStore,
	contents store.GeneratedContentStore,
	db *sql.DB,
	tracker *usage.Tracker,
	validator *content.Validator,
	breakers *resilience.BreakerRegistry,
	retry resilience.RetryPolicy,
	cache Cache,
	logger *slog.Logger,
	now func() time.Time,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}

	return &Service{
		registry:    registry,
		credentials: credentials,
		configs:     configs,
		lessons:     lessons,
		contents:    contents,
		db:          db,
		tracker:     tracker,
		validator:   validator,
		breakers:    breakers,
		retry:       retry,
		cache:       cache,
		logger:      logger.With(slog.String("component", "generation_service")),
		now:         now,
	}
}

// GenerateQuiz builds a quiz from the lesson's content. Student-requested
// quizzes are stored pending review; instructor-requested quizzes are
// auto-approved. Results with a validation score of at least 80 are
// cached for two hours.
func (s *Service) GenerateQuiz(
	ctx context.Context,
	user *domain.User,
	lessonID uuid.UUID,
	params QuizParams,
) (*QuizResult, error) {
	params.applyDefaults()

	result, err := s.generateQuiz(ctx, user, lessonID, params)
	if err != nil {
		s.recordFailure(ctx, user, domain.ServiceQuizGeneration, err, map[string]any{
			"lesson_id":     lessonID.String(),
			"num_questions": params.NumQuestions,
			"difficulty":    params.Difficulty,
		})
		return nil, err
	}
	return result, nil
}

func (s *Service) generateQuiz(
	ctx context.Context,
	user *domain.User,
	lessonID uuid.UUID,
	params QuizParams,
) (*QuizResult, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson: %w", err)
	}

	key := quizCacheKey(lessonID, params)
	var cached QuizResult
	if s.cacheGet(ctx, key, &cached) {
		cached.CacheHit = true
		return &cached, nil
	}

	systemPrompt := buildQuizSystemPrompt(params.Difficulty, params.QuestionTypes, params.NumQuestions)
	humanPrompt := buildQuizHumanPrompt(lesson.Content, params.NumQuestions)

	core, err := s.generateContent(ctx, user, domain.ServiceQuizGeneration, humanPrompt, systemPrompt,
		map[string]any{"lesson_id": lessonID.String()})
	if err != nil {
		return nil, err
	}

	quizData, err := parseQuizPayload(core.content)
	if err != nil {
		return nil, err
	}

	status := domain.ReviewStatusPending
	if user.IsInstructor() {
		status = domain.ReviewStatusAutoApproved
	}

	record, err := s.persistGeneration(ctx, user, lesson, domain.ServiceQuizGeneration,
		quizData, status, systemPrompt, humanPrompt, core)
	if err != nil {
		return nil, err
	}

	result := &QuizResult{
		Quiz:               quizData,
		GeneratedContentID: record.ID,
		Status:             record.Status,
		TokensUsed:         core.tokensUsed,
		CostEstimate:       core.costEstimate,
		Provider:           core.provider,
		Model:              core.model,
		Validation:         core.validation,
	}

	if core.validation.Score >= quizCacheScore {
		s.cacheSet(ctx, key, result, quizCacheTTL)
	}
	return result, nil
}

// GenerateSummary produces a summary of the lesson's content at the
// requested length. Summaries are auto-approved and cached for four
// hours when the validation score is at least 70.
func (s *Service) GenerateSummary(
	ctx context.Context,
	user *domain.User,
	lessonID uuid.UUID,
	params SummaryParams,
) (*SummaryResult, error) {
	params.applyDefaults()

	result, err := s.generateSummary(ctx, user, lessonID, params)
	if err != nil {
		s.recordFailure(ctx, user, domain.ServiceLessonSummary, err, map[string]any{
			"lesson_id": lessonID.String(),
		})
		return nil, err
	}
	return result, nil
}

func (s *Service) generateSummary(
	ctx context.Context,
	user *domain.User,
	lessonID uuid.UUID,
	params SummaryParams,
) (*SummaryResult, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson: %w", err)
	}

	key := summaryCacheKey(lessonID, params)
	var cached SummaryResult
	if s.cacheGet(ctx, key, &cached) {
		cached.CacheHit = true
		return &cached, nil
	}

	systemPrompt := buildSummarySystemPrompt(params.Length, params.FocusAreas)
	humanPrompt := buildSummaryHumanPrompt(lesson.Content)

	core, err := s.generateContent(ctx, user, domain.ServiceLessonSummary, humanPrompt, systemPrompt,
		map[string]any{"lesson_id": lessonID.String()})
	if err != nil {
		return nil, err
	}

	summaryData, err := json.Marshal(map[string]string{"summary": core.content})
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary payload: %w", err)
	}

	record, err := s.persistGeneration(ctx, user, lesson, domain.ServiceLessonSummary,
		summaryData, domain.ReviewStatusAutoApproved, systemPrompt, humanPrompt, core)
	if err != nil {
		return nil, err
	}

	result := &SummaryResult{
		Summary:            core.content,
		GeneratedContentID: record.ID,
		Status:             record.Status,
		TokensUsed:         core.tokensUsed,
		CostEstimate:       core.costEstimate,
		Provider:           core.provider,
		Model:              core.model,
		Validation:         core.validation,
	}

	if core.validation.Score >= defaultCacheScore {
		s.cacheSet(ctx, key, result, defaultCacheTTL)
	}
	return result, nil
}

// GenerateFlashcards produces study flashcards from the lesson's
// content. Flashcards are auto-approved and cached for four hours when
// the validation score is at least 70.
func (s *Service) GenerateFlashcards(
	ctx context.Context,
	user *domain.User,
	lessonID uuid.UUID,
	params FlashcardParams,
) (*FlashcardResult, error) {
	params.applyDefaults()

	result, err := s.generateFlashcards(ctx, user, lessonID, params)
	if err != nil {
		s.recordFailure(ctx, user, domain.ServiceFlashcardGeneration, err, map[string]any{
			"lesson_id": lessonID.String(),
		})
		return nil, err
	}
	return result, nil
}

func (s *Service) generateFlashcards(
	ctx context.Context,
	user *domain.User,
	lessonID uuid.UUID,
	params FlashcardParams,
) (*FlashcardResult, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson: %w", err)
	}

	key := flashcardCacheKey(lessonID, params)
	var cached FlashcardResult
	if s.cacheGet(ctx, key, &cached) {
		cached.CacheHit = true
		return &cached, nil
	}

	systemPrompt := buildFlashcardSystemPrompt(params.Difficulty)
	humanPrompt := buildFlashcardHumanPrompt(lesson.Content, params.NumCards)

	core, err := s.generateContent(ctx, user, domain.ServiceFlashcardGeneration, humanPrompt, systemPrompt,
		map[string]any{"lesson_id": lessonID.String()})
	if err != nil {
		return nil, err
	}

	cardData, err := parseFlashcardPayload(core.content)
	if err != nil {
		return nil, err
	}

	record, err := s.persistGeneration(ctx, user, lesson, domain.ServiceFlashcardGeneration,
		cardData, domain.ReviewStatusAutoApproved, systemPrompt, humanPrompt, core)
	if err != nil {
		return nil, err
	}

	result := &FlashcardResult{
		Flashcards:         cardData,
		GeneratedContentID: record.ID,
		Status:             record.Status,
		TokensUsed:         core.tokensUsed,
		CostEstimate:       core.costEstimate,
		Provider:           core.provider,
		Model:              core.model,
		Validation:         core.validation,
	}

	if core.validation.Score >= defaultCacheScore {
		s.cacheSet(ctx, key, result, defaultCacheTTL)
	}
	return result, nil
}

// CircuitStatus reports the breaker state for one service kind.
func (s *Service) CircuitStatus(kind domain.ServiceKind) resilience.CircuitStatus {
	return s.breakers.Status(kind)
}

// CircuitStatuses reports the breaker state for every service kind.
func (s *Service) CircuitStatuses() map[domain.ServiceKind]resilience.CircuitStatus {
	return s.breakers.AllStatuses()
}

// UsageDecision reports the user's monthly quota standing and per-kind
// counts without consuming a rate-limit slot, for pre-flight checks.
func (s *Service) UsageDecision(ctx context.Context, user *domain.User) (usage.MonthlyStats, error) {
	return s.tracker.MonthlyUsage(ctx, user, s.now())
}

// coreResult carries what the shared pipeline learned about one
// successful provider call.
type coreResult struct {
	content         string
	tokensUsed      int
	costEstimate    float64
	provider        string
	model           string
	validation      content.ValidationResult
	requestSummary  map[string]any
	responseSummary map[string]any
}

// generateContent runs the shared pipeline: configuration, usage limits,
// provider resolution, sanitization, and the breaker-wrapped retried
// provider call, then output validation. It writes nothing; the typed
// operations own persistence.
func (s *Service) generateContent(
	ctx context.Context,
	user *domain.User,
	kind domain.ServiceKind,
	prompt, systemPrompt string,
	meta map[string]any,
) (coreResult, error) {
	cfg, err := s.resolveConfig(ctx, kind)
	if err != nil {
		return coreResult{}, err
	}

	decision, err := s.tracker.CheckUsageLimit(ctx, user, kind, s.now())
	if err != nil {
		return coreResult{}, fmt.Errorf("usage check failed: %w", err)
	}
	if !decision.Allowed {
		if decision.RetryAfter > 0 {
			return coreResult{}, &RateLimitedError{Reason: decision.Reason, RetryAfter: decision.RetryAfter}
		}
		return coreResult{}, ErrQuotaExceeded
	}

	prov, err := s.resolveProvider(ctx, cfg)
	if err != nil {
		return coreResult{}, err
	}

	prompt = s.validator.SanitizeInput(prompt)
	if systemPrompt != "" {
		systemPrompt = s.validator.SanitizeInput(systemPrompt)
	}

	var resp provider.Response
	err = s.breakers.Execute(kind, func() error {
		return s.retry.Do(ctx, func(ctx context.Context) error {
			resp = prov.GenerateText(ctx, prompt, provider.Options{SystemPrompt: systemPrompt})
			if !resp.Success {
				return errors.New(resp.ErrorMessage)
			}
			return nil
		})
	})
	if err != nil {
		return coreResult{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	validation := s.validator.ValidateOutput(resp.Content)

	requestSummary := map[string]any{
		"prompt_length":        len(prompt),
		"system_prompt_length": len(systemPrompt),
	}
	for k, v := range meta {
		requestSummary[k] = v
	}
	responseSummary := map[string]any{
		"content_length":    len(resp.Content),
		"validation_score":  validation.Score,
		"validation_issues": validation.Issues,
	}

	return coreResult{
		content:         resp.Content,
		tokensUsed:      resp.TokensUsed,
		costEstimate:    resp.CostEstimate,
		provider:        resp.Provider,
		model:           resp.Model,
		validation:      validation,
		requestSummary:  requestSummary,
		responseSummary: responseSummary,
	}, nil
}

// resolveConfig loads the service configuration row. A missing row means
// the built-in defaults; a present-but-disabled row blocks the call.
func (s *Service) resolveConfig(ctx context.Context, kind domain.ServiceKind) (domain.ServiceConfig, error) {
	cfg, err := s.configs.GetByKind(ctx, kind)
	if err != nil {
		if store.IsNotFoundError(err) {
			return domain.DefaultServiceConfig(kind), nil
		}
		return domain.ServiceConfig{}, fmt.Errorf("failed to load service config: %w", err)
	}
	if !cfg.Enabled {
		return domain.ServiceConfig{}, fmt.Errorf("%s %w", kind, ErrServiceDisabled)
	}
	return *cfg, nil
}

// resolveProvider builds the configured primary provider and checks its
// credentials with a live call. Any failure falls back to the fallback
// provider, constructed without the live check so a fallback is usable
// even when its quota is tight.
func (s *Service) resolveProvider(ctx context.Context, cfg domain.ServiceConfig) (provider.Provider, error) {
	primary, err := s.buildProvider(ctx, cfg.Provider, cfg.Model, cfg)
	if err == nil {
		if err = primary.ValidateConfig(ctx); err == nil {
			return primary, nil
		}
	}
	s.logger.WarnContext(ctx, "primary provider unavailable, trying fallback",
		slog.String("provider", cfg.Provider),
		slog.String("fallback", cfg.FallbackProvider),
		slog.String("error", err.Error()))

	fallback, err := s.buildProvider(ctx, cfg.FallbackProvider, cfg.FallbackModel, cfg)
	if err != nil {
		s.logger.ErrorContext(ctx, "fallback provider construction failed",
			slog.String("provider", cfg.FallbackProvider),
			slog.String("error", err.Error()))
		return nil, ErrNoProviderAvailable
	}
	return fallback, nil
}

func (s *Service) buildProvider(ctx context.Context, id, model string, cfg domain.ServiceConfig) (provider.Provider, error) {
	return s.registry.Create(ctx, id, provider.Config{
		APIKey:      s.credentials[id],
		Model:       model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
}

// persistGeneration writes the success usage record and the reviewable
// content row in one transaction, so a storage failure can never leave
// a success record without its content, or vice versa.
func (s *Service) persistGeneration(
	ctx context.Context,
	user *domain.User,
	lesson *domain.Lesson,
	kind domain.ServiceKind,
	data json.RawMessage,
	status domain.ReviewStatus,
	systemPrompt, humanPrompt string,
	core coreResult,
) (*domain.GeneratedContent, error) {
	record, err := domain.NewGeneratedContent(user.ID, lesson.ID, kind.ContentType(), data, status)
	if err != nil {
		return nil, fmt.Errorf("failed to build content record: %w", err)
	}
	record.SourceText = clipRunes(lesson.Content, sourceExcerptRunes)
	record.PromptUsed = systemPrompt + "\n\n" + humanPrompt
	record.ValidationScore = core.validation.Score

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		usageRecord, err := s.tracker.WithTx(tx).LogUsage(ctx, usage.LogEntry{
			UserID:       user.ID,
			Kind:         kind,
			TokensUsed:   core.tokensUsed,
			CostEstimate: core.costEstimate,
			Success:      true,
			Provider:     core.provider,
			Model:        core.model,
			RequestData:  core.requestSummary,
			ResponseData: core.responseSummary,
		})
		if err != nil {
			return err
		}

		record.UsageRecordID = usageRecord.ID
		return s.contents.WithTx(tx).Create(ctx, record)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist generated content: %w", err)
	}

	s.logger.InfoContext(ctx, "generation persisted",
		slog.String("service", string(kind)),
		slog.String("content_id", record.ID.String()),
		slog.String("status", string(record.Status)),
		slog.Int("validation_score", record.ValidationScore))
	return record, nil
}

// recordFailure writes the single terminal usage record for a failed
// attempt. Problems while recording are logged, never returned, so the
// generation error already on its way to the caller stays intact.
func (s *Service) recordFailure(
	ctx context.Context,
	user *domain.User,
	kind domain.ServiceKind,
	genErr error,
	requestData map[string]any,
) {
	if user == nil {
		return
	}

	s.logger.ErrorContext(ctx, "generation failed",
		slog.String("service", string(kind)),
		slog.String("error", genErr.Error()))

	if _, err := s.tracker.LogUsage(ctx, usage.LogEntry{
		UserID:       user.ID,
		Kind:         kind,
		Success:      false,
		ErrorMessage: genErr.Error(),
		RequestData:  requestData,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to record usage for failed generation",
			slog.String("service", string(kind)),
			slog.String("error", err.Error()))
	}
}

func (s *Service) cacheGet(ctx context.Context, key string, dest any) bool {
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.WarnContext(ctx, "cache read failed, treating as miss",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return false
	}
	if hit {
		s.logger.InfoContext(ctx, "returning cached result", slog.String("key", key))
	}
	return hit
}

func (s *Service) cacheSet(ctx context.Context, key string, val any, ttl time.Duration) {
	if err := s.cache.Set(ctx, key, val, ttl); err != nil {
		s.logger.WarnContext(ctx, "cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}
