package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/platform/logger"
	"github.com/eduforge/aigen-api/internal/store"
)

// PostgresServiceConfigStore implements the store.ServiceConfigStore
// interface using a PostgreSQL database as the storage backend.
type PostgresServiceConfigStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresServiceConfigStore creates a new PostgreSQL implementation of
// the ServiceConfigStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresServiceConfigStore(db store.DBTX, logger *slog.Logger) *PostgresServiceConfigStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresServiceConfigStore{
		db:     db,
		logger: logger.With(slog.String("component", "service_config_store")),
	}
}

// Ensure PostgresServiceConfigStore implements store.ServiceConfigStore interface
var _ store.ServiceConfigStore = (*PostgresServiceConfigStore)(nil)

// GetByKind implements store.ServiceConfigStore.GetByKind
// It retrieves the configuration row for a service kind.
// Returns store.ErrServiceConfigNotFound if no row exists.
func (s *PostgresServiceConfigStore) GetByKind(ctx context.Context, kind domain.ServiceKind) (*domain.ServiceConfig, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT service_name, is_enabled, provider, model, fallback_provider,
			fallback_model, temperature, max_tokens, updated_at
		FROM service_configs
		WHERE service_name = $1
	`

	var cfg domain.ServiceConfig
	err := s.db.QueryRowContext(ctx, query, kind).Scan(
		&cfg.Kind,
		&cfg.Enabled,
		&cfg.Provider,
		&cfg.Model,
		&cfg.FallbackProvider,
		&cfg.FallbackModel,
		&cfg.Temperature,
		&cfg.MaxTokens,
		&cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("service config not found, caller falls back to defaults",
				slog.String("service", string(kind)))
			return nil, store.ErrServiceConfigNotFound
		}
		log.Error("failed to get service config",
			slog.String("error", err.Error()),
			slog.String("service", string(kind)))
		return nil, err
	}

	return &cfg, nil
}

// Upsert implements store.ServiceConfigStore.Upsert
// It creates or replaces the configuration row for cfg.Kind.
// Returns validation errors from the domain ServiceConfig if data is invalid.
func (s *PostgresServiceConfigStore) Upsert(ctx context.Context, cfg *domain.ServiceConfig) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := cfg.Validate(); err != nil {
		log.Warn("service config validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("service", string(cfg.Kind)))
		return err
	}

	if cfg.UpdatedAt.IsZero() {
		cfg.UpdatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO service_configs (service_name, is_enabled, provider, model,
			fallback_provider, fallback_model, temperature, max_tokens, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (service_name) DO UPDATE SET
			is_enabled = EXCLUDED.is_enabled,
			provider = EXCLUDED.provider,
			model = EXCLUDED.model,
			fallback_provider = EXCLUDED.fallback_provider,
			fallback_model = EXCLUDED.fallback_model,
			temperature = EXCLUDED.temperature,
			max_tokens = EXCLUDED.max_tokens,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		cfg.Kind,
		cfg.Enabled,
		cfg.Provider,
		cfg.Model,
		cfg.FallbackProvider,
		cfg.FallbackModel,
		cfg.Temperature,
		cfg.MaxTokens,
		cfg.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert service config",
			slog.String("error", err.Error()),
			slog.String("service", string(cfg.Kind)))
		return MapError(err)
	}

	log.Info("service config upserted",
		slog.String("service", string(cfg.Kind)),
		slog.Bool("enabled", cfg.Enabled),
		slog.String("provider", cfg.Provider),
		slog.String("model", cfg.Model))
	return nil
}
