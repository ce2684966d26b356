package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/platform/logger"
	"github.com/eduforge/aigen-api/internal/store"
)

// defaultListLimit caps list queries when the caller passes no limit.
const defaultListLimit = 50

// PostgresUsageRecordStore implements the store.UsageRecordStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUsageRecordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUsageRecordStore creates a new PostgreSQL implementation of the
// UsageRecordStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUsageRecordStore(db store.DBTX, logger *slog.Logger) *PostgresUsageRecordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUsageRecordStore{
		db:     db,
		logger: logger.With(slog.String("component", "usage_record_store")),
	}
}

// Ensure PostgresUsageRecordStore implements store.UsageRecordStore interface
var _ store.UsageRecordStore = (*PostgresUsageRecordStore)(nil)

// Create implements store.UsageRecordStore.Create
// It saves a new usage record to the database, handling domain validation.
// Returns validation errors from the domain UsageRecord if data is invalid.
func (s *PostgresUsageRecordStore) Create(ctx context.Context, record *domain.UsageRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		log.Warn("usage record validation failed during create",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()))
		return err
	}

	query := `
		INSERT INTO usage_logs (id, user_id, service_type, tokens_used, cost_estimate,
			success, error_message, request_data, response_data, provider, model_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		record.ID,
		record.UserID,
		record.ServiceKind,
		record.TokensUsed,
		record.CostEstimate,
		record.Success,
		record.ErrorMessage,
		record.RequestData,
		record.ResponseData,
		record.Provider,
		record.ModelUsed,
		record.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create usage record",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()),
			slog.String("user_id", record.UserID.String()))
		return MapError(err)
	}

	log.Debug("usage record created",
		slog.String("record_id", record.ID.String()),
		slog.String("service_type", string(record.ServiceKind)),
		slog.Bool("success", record.Success))
	return nil
}

// CountSuccessfulSince implements store.UsageRecordStore.CountSuccessfulSince
// It counts the user's successful records created at or after the given
// instant. Failed attempts never count against quota.
func (s *PostgresUsageRecordStore) CountSuccessfulSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*)
		FROM usage_logs
		WHERE user_id = $1 AND success = TRUE AND created_at >= $2
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID, since).Scan(&count); err != nil {
		log.Error("failed to count usage records",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, MapError(err)
	}

	return count, nil
}

// CountSuccessfulByKindSince implements store.UsageRecordStore.CountSuccessfulByKindSince
// It breaks the successful-record count down per service kind.
func (s *PostgresUsageRecordStore) CountSuccessfulByKindSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) (map[domain.ServiceKind]int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT service_type, COUNT(*)
		FROM usage_logs
		WHERE user_id = $1 AND success = TRUE AND created_at >= $2
		GROUP BY service_type
	`

	rows, err := s.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		log.Error("failed to count usage records by kind",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[domain.ServiceKind]int)
	for rows.Next() {
		var kind domain.ServiceKind
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			log.Error("failed to scan usage count row",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, err
		}
		counts[kind] = count
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating usage count rows",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	return counts, nil
}

// ListByUser implements store.UsageRecordStore.ListByUser
// It returns the user's most recent records, newest first.
func (s *PostgresUsageRecordStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.UsageRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `
		SELECT id, user_id, service_type, tokens_used, cost_estimate, success,
			error_message, request_data, response_data, provider, model_used, created_at
		FROM usage_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		log.Error("failed to list usage records",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var records []*domain.UsageRecord
	for rows.Next() {
		var record domain.UsageRecord
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.ServiceKind,
			&record.TokensUsed,
			&record.CostEstimate,
			&record.Success,
			&record.ErrorMessage,
			&record.RequestData,
			&record.ResponseData,
			&record.Provider,
			&record.ModelUsed,
			&record.CreatedAt,
		); err != nil {
			log.Error("failed to scan usage record row",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, err
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating usage record rows",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	return records, nil
}

// WithTx implements store.UsageRecordStore.WithTx
// It returns a new store instance whose operations run on the given
// transaction. The transaction is created and managed by the caller.
func (s *PostgresUsageRecordStore) WithTx(tx *sql.Tx) store.UsageRecordStore {
	return &PostgresUsageRecordStore{
		db:     tx,
		logger: s.logger,
	}
}
