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

// PostgresUsageLimitStore implements the store.UsageLimitStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUsageLimitStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUsageLimitStore creates a new PostgreSQL implementation of the
// UsageLimitStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresUsageLimitStore(db store.DBTX, logger *slog.Logger) *PostgresUsageLimitStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUsageLimitStore{
		db:     db,
		logger: logger.With(slog.String("component", "usage_limit_store")),
	}
}

// Ensure PostgresUsageLimitStore implements store.UsageLimitStore interface
var _ store.UsageLimitStore = (*PostgresUsageLimitStore)(nil)

// GetMonthlyLimit implements store.UsageLimitStore.GetMonthlyLimit
// It retrieves the monthly allowance for a role.
// Returns store.ErrUsageLimitNotFound if no row exists.
func (s *PostgresUsageLimitStore) GetMonthlyLimit(ctx context.Context, role domain.Role) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT monthly_limit
		FROM usage_limits
		WHERE role = $1
	`

	var limit int
	if err := s.db.QueryRowContext(ctx, query, role).Scan(&limit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("usage limit not found, caller falls back to defaults",
				slog.String("role", string(role)))
			return 0, store.ErrUsageLimitNotFound
		}
		log.Error("failed to get usage limit",
			slog.String("error", err.Error()),
			slog.String("role", string(role)))
		return 0, err
	}

	return limit, nil
}

// Upsert implements store.UsageLimitStore.Upsert
// It creates or replaces the limit row for limit.Role.
// Returns validation errors from the domain UsageLimit if data is invalid.
func (s *PostgresUsageLimitStore) Upsert(ctx context.Context, limit *domain.UsageLimit) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := limit.Validate(); err != nil {
		log.Warn("usage limit validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("role", string(limit.Role)))
		return err
	}

	if limit.UpdatedAt.IsZero() {
		limit.UpdatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO usage_limits (role, monthly_limit, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (role) DO UPDATE SET
			monthly_limit = EXCLUDED.monthly_limit,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, limit.Role, limit.MonthlyLimit, limit.UpdatedAt)
	if err != nil {
		log.Error("failed to upsert usage limit",
			slog.String("error", err.Error()),
			slog.String("role", string(limit.Role)))
		return MapError(err)
	}

	log.Info("usage limit upserted",
		slog.String("role", string(limit.Role)),
		slog.Int("monthly_limit", limit.MonthlyLimit))
	return nil
}
