package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/eduforge/aigen-api/internal/api"
	"github.com/eduforge/aigen-api/internal/config"
	"github.com/eduforge/aigen-api/internal/content"
	"github.com/eduforge/aigen-api/internal/crypto"
	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/events"
	"github.com/eduforge/aigen-api/internal/generation"
	"github.com/eduforge/aigen-api/internal/health"
	"github.com/eduforge/aigen-api/internal/platform/postgres"
	redisplatform "github.com/eduforge/aigen-api/internal/platform/redis"
	"github.com/eduforge/aigen-api/internal/provider"
	"github.com/eduforge/aigen-api/internal/provider/anthropic"
	"github.com/eduforge/aigen-api/internal/provider/gemini"
	"github.com/eduforge/aigen-api/internal/provider/openai"
	"github.com/eduforge/aigen-api/internal/ratelimit"
	"github.com/eduforge/aigen-api/internal/resilience"
	"github.com/eduforge/aigen-api/internal/service/auth"
	"github.com/eduforge/aigen-api/internal/store"
	"github.com/eduforge/aigen-api/internal/task"
	"github.com/eduforge/aigen-api/internal/usage"
)

// application holds the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core infrastructure
	logger *slog.Logger
	db     *sql.DB
	redis  *goredis.Client

	// Services consumed by the HTTP layer (interfaces at the point of use)
	jwtService        auth.JWTService
	generationService api.GenerationService
	usageReporter     api.UsageReporter
	healthChecker     api.HealthChecker
	contentStore      store.GeneratedContentStore

	// Event system
	eventEmitter events.EventEmitter

	// Task handling
	taskRunner *task.TaskRunner
}

// newApplication creates a new application instance with all
// dependencies initialized: redis, crypto, the provider registry,
// stores, usage tracking, resilience, the generation service, health
// checks, and the background task runner. The caller-provided db handle
// is owned by the returned application and closed during cleanup.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// JWT service
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	app.jwtService = jwtService
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Redis backs rate-limit counters and the result cache
	app.redis, err = redisplatform.NewClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	// Payload encryption for usage logs. Outside production a missing
	// key degrades to an ephemeral one with a warning.
	cryptoManager, err := crypto.NewManager(cfg.AI.EncryptionKey, !cfg.AI.IsProduction(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize crypto manager: %w", err)
	}

	// Provider registry with every backend the platform supports
	registry := provider.NewRegistry()
	registry.Register(openai.ID, openai.Factory)
	registry.Register(anthropic.ID, anthropic.Factory)
	registry.Register(gemini.ID, gemini.Factory)

	credentials := providerCredentials(cfg)
	if len(credentials) == 0 {
		return nil, fmt.Errorf("no provider API key configured: set at least one of the AI provider keys")
	}
	logger.Info("provider registry initialized", "configured_providers", len(credentials))

	// Stores
	lessonStore := postgres.NewPostgresLessonStore(db, logger)
	contentStore := postgres.NewPostgresGeneratedContentStore(db, logger)
	serviceConfigStore := postgres.NewPostgresServiceConfigStore(db, logger)
	usageRecordStore := postgres.NewPostgresUsageRecordStore(db, logger)
	usageLimitStore := postgres.NewPostgresUsageLimitStore(db, logger)
	app.contentStore = contentStore

	// Usage limiting: hourly fixed window in front of the monthly quota
	counters := redisplatform.NewCounters(app.redis)
	limiter := ratelimit.NewLimiter(
		counters,
		cfg.AI.RateLimitRequests,
		time.Duration(cfg.AI.RateLimitWindowSeconds)*time.Second,
	)
	tracker := usage.NewTracker(
		usageRecordStore,
		usageLimitStore,
		limiter,
		cryptoManager,
		map[domain.Role]int{
			domain.RoleStudent:    cfg.AI.StudentMonthlyLimit,
			domain.RoleInstructor: cfg.AI.InstructorMonthlyLimit,
			domain.RoleAdmin:      cfg.AI.AdminMonthlyLimit,
		},
		logger,
	)

	// Content validation, resilience, and the result cache
	validator := content.NewValidator(cfg.AI.MaxInputLength)
	breakers := resilience.NewBreakerRegistry(resilience.BreakerSettings{}, logger)
	retryPolicy := resilience.NewRetryPolicy()
	cache := redisplatform.NewContentCache(app.redis)

	// Orchestration service
	generationService := generation.NewService(
		registry,
		credentials,
		serviceConfigStore,
		lessonStore,
		contentStore,
		db,
		tracker,
		validator,
		breakers,
		retryPolicy,
		cache,
		logger,
		nil,
	)
	app.generationService = generationService
	app.usageReporter = generationService

	// Health checks probe each configured provider with its credentials
	app.healthChecker = health.NewChecker(
		db,
		app.redis,
		registry,
		providerProbeConfigs(credentials),
		generationService,
		tracker,
		logger,
	)

	// Event emitter
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)

	// Task handling: the factory rebuilds queued tasks, the store
	// persists them, and the runner works them off
	taskFactory := task.NewGenerationTaskFactory(generationService, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger, taskFactory)
	app.taskRunner = task.NewTaskRunner(taskStore, task.TaskRunnerConfig{
		QueueSize:    cfg.Task.QueueSize,
		WorkerCount:  cfg.Task.WorkerCount,
		StuckTaskAge: time.Duration(cfg.Task.StuckTaskAgeMinutes) * time.Minute,
	}, logger)
	if err := app.taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	// Route generation-requested events into the task queue
	taskFactoryHandler := task.NewTaskFactoryEventHandler(taskFactory, app.taskRunner, logger)
	if emitter, ok := app.eventEmitter.(*events.InMemoryEventEmitter); ok {
		emitter.RegisterHandler(taskFactoryHandler)
	} else {
		return nil, fmt.Errorf("unexpected event emitter type, cannot register task handler")
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// providerCredentials collects the API keys that are actually set,
// keyed by provider id.
func providerCredentials(cfg *config.Config) generation.Credentials {
	credentials := generation.Credentials{}
	if cfg.AI.OpenAIAPIKey != "" {
		credentials[openai.ID] = cfg.AI.OpenAIAPIKey
	}
	if cfg.AI.AnthropicAPIKey != "" {
		credentials[anthropic.ID] = cfg.AI.AnthropicAPIKey
	}
	if cfg.AI.GeminiAPIKey != "" {
		credentials[gemini.ID] = cfg.AI.GeminiAPIKey
	}
	return credentials
}

// providerProbeConfigs builds the per-provider configs the health
// checker validates. Models are left empty so each provider probes with
// its default model.
func providerProbeConfigs(credentials generation.Credentials) map[string]provider.Config {
	configs := make(map[string]provider.Config, len(credentials))
	for id, key := range credentials {
		configs[id] = provider.Config{APIKey: key}
	}
	return configs
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
