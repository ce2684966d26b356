package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/platform/logger"
	"github.com/eduforge/aigen-api/internal/store"
)

// PostgresGeneratedContentStore implements the store.GeneratedContentStore
// interface using a PostgreSQL database as the storage backend.
type PostgresGeneratedContentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGeneratedContentStore creates a new PostgreSQL implementation of
// the GeneratedContentStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresGeneratedContentStore(db store.DBTX, logger *slog.Logger) *PostgresGeneratedContentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGeneratedContentStore{
		db:     db,
		logger: logger.With(slog.String("component", "generated_content_store")),
	}
}

// Ensure PostgresGeneratedContentStore implements store.GeneratedContentStore interface
var _ store.GeneratedContentStore = (*PostgresGeneratedContentStore)(nil)

// Create implements store.GeneratedContentStore.Create
// It saves a new generated content record, handling domain validation.
// Returns validation errors from the domain GeneratedContent if data is invalid.
func (s *PostgresGeneratedContentStore) Create(ctx context.Context, content *domain.GeneratedContent) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := content.Validate(); err != nil {
		log.Warn("generated content validation failed during create",
			slog.String("error", err.Error()),
			slog.String("content_id", content.ID.String()))
		return err
	}

	query := `
		INSERT INTO generated_contents (id, user_id, content_type, lesson_id, source_text,
			generated_data, prompt_used, usage_log_id, status, validation_score,
			reviewed_by, review_notes, reviewed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	// usage_log_id is a nullable foreign key; a zero UUID means the link
	// was never set.
	var usageLogID any
	if content.UsageRecordID != uuid.Nil {
		usageLogID = content.UsageRecordID
	}

	_, err := s.db.ExecContext(
		ctx,
		query,
		content.ID,
		content.UserID,
		content.ContentType,
		content.LessonID,
		content.SourceText,
		[]byte(content.GeneratedData),
		content.PromptUsed,
		usageLogID,
		content.Status,
		content.ValidationScore,
		content.ReviewedBy,
		content.ReviewNotes,
		content.ReviewedAt,
		content.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create generated content",
			slog.String("error", err.Error()),
			slog.String("content_id", content.ID.String()),
			slog.String("user_id", content.UserID.String()))
		return MapError(err)
	}

	log.Info("generated content created",
		slog.String("content_id", content.ID.String()),
		slog.String("content_type", string(content.ContentType)),
		slog.String("status", string(content.Status)))
	return nil
}

// GetByID implements store.GeneratedContentStore.GetByID
// It retrieves a generated content record by its unique ID.
// Returns store.ErrGeneratedContentNotFound if the record does not exist.
func (s *PostgresGeneratedContentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.GeneratedContent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, content_type, lesson_id, source_text, generated_data,
			prompt_used, usage_log_id, status, validation_score, reviewed_by,
			review_notes, reviewed_at, created_at
		FROM generated_contents
		WHERE id = $1
	`

	content, err := scanGeneratedContent(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("generated content not found", slog.String("content_id", id.String()))
			return nil, store.ErrGeneratedContentNotFound
		}
		log.Error("failed to get generated content",
			slog.String("error", err.Error()),
			slog.String("content_id", id.String()))
		return nil, err
	}

	return content, nil
}

// UpdateReview implements store.GeneratedContentStore.UpdateReview
// It persists the review fields of an existing record.
// Returns store.ErrGeneratedContentNotFound if the record does not exist.
func (s *PostgresGeneratedContentStore) UpdateReview(ctx context.Context, content *domain.GeneratedContent) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE generated_contents
		SET status = $1, reviewed_by = $2, review_notes = $3, reviewed_at = $4
		WHERE id = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		content.Status,
		content.ReviewedBy,
		content.ReviewNotes,
		content.ReviewedAt,
		content.ID,
	)
	if err != nil {
		log.Error("failed to update generated content review",
			slog.String("error", err.Error()),
			slog.String("content_id", content.ID.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("content_id", content.ID.String()))
		return err
	}
	if rowsAffected == 0 {
		log.Debug("generated content not found for review update",
			slog.String("content_id", content.ID.String()))
		return store.ErrGeneratedContentNotFound
	}

	log.Info("generated content review updated",
		slog.String("content_id", content.ID.String()),
		slog.String("status", string(content.Status)))
	return nil
}

// ListByUser implements store.GeneratedContentStore.ListByUser
// It returns the user's content records, newest first.
func (s *PostgresGeneratedContentStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.GeneratedContent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `
		SELECT id, user_id, content_type, lesson_id, source_text, generated_data,
			prompt_used, usage_log_id, status, validation_score, reviewed_by,
			review_notes, reviewed_at, created_at
		FROM generated_contents
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		log.Error("failed to list generated contents",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var contents []*domain.GeneratedContent
	for rows.Next() {
		content, err := scanGeneratedContent(rows)
		if err != nil {
			log.Error("failed to scan generated content row",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, err
		}
		contents = append(contents, content)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating generated content rows",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	return contents, nil
}

// WithTx implements store.GeneratedContentStore.WithTx
// It returns a new store instance whose operations run on the given
// transaction. The transaction is created and managed by the caller.
func (s *PostgresGeneratedContentStore) WithTx(tx *sql.Tx) store.GeneratedContentStore {
	return &PostgresGeneratedContentStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanGeneratedContent(row rowScanner) (*domain.GeneratedContent, error) {
	var content domain.GeneratedContent
	var generatedData []byte
	var usageLogID uuid.NullUUID
	var reviewedBy uuid.NullUUID
	var reviewedAt sql.NullTime

	if err := row.Scan(
		&content.ID,
		&content.UserID,
		&content.ContentType,
		&content.LessonID,
		&content.SourceText,
		&generatedData,
		&content.PromptUsed,
		&usageLogID,
		&content.Status,
		&content.ValidationScore,
		&reviewedBy,
		&content.ReviewNotes,
		&reviewedAt,
		&content.CreatedAt,
	); err != nil {
		return nil, err
	}

	content.GeneratedData = generatedData
	if usageLogID.Valid {
		content.UsageRecordID = usageLogID.UUID
	}
	if reviewedBy.Valid {
		id := reviewedBy.UUID
		content.ReviewedBy = &id
	}
	if reviewedAt.Valid {
		at := reviewedAt.Time
		content.ReviewedAt = &at
	}

	return &content, nil
}
