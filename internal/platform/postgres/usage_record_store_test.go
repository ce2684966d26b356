package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/platform/postgres"
	"github.com/eduforge/aigen-api/internal/store"
)

func validUsageRecord(t *testing.T) *domain.UsageRecord {
	t.Helper()

	record, err := domain.NewUsageRecord(uuid.New(), domain.ServiceQuizGeneration)
	require.NoError(t, err)

	record.TokensUsed = 512
	record.CostEstimate = 0.0012
	record.Success = true
	record.Provider = "openai"
	record.ModelUsed = "gpt-3.5-turbo"
	record.RequestData = `{"prompt": "..."}`
	record.ResponseData = `{"content": "..."}`
	return record
}

func TestPostgresUsageRecordStore_Create_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	record := validUsageRecord(t)

	mock.ExpectExec("INSERT INTO usage_logs").
		WithArgs(
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
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := postgres.NewPostgresUsageRecordStore(db, nil)
	err = s.Create(context.Background(), record)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUsageRecordStore_Create_ValidationError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	record := validUsageRecord(t)
	record.UserID = uuid.Nil

	s := postgres.NewPostgresUsageRecordStore(db, nil)
	err = s.Create(context.Background(), record)

	// The invalid record never reaches the database.
	assert.ErrorIs(t, err, domain.ErrEmptyRecordUserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUsageRecordStore_Create_MapsDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	record := validUsageRecord(t)

	mock.ExpectExec("INSERT INTO usage_logs").
		WillReturnError(newPgError("23505"))

	s := postgres.NewPostgresUsageRecordStore(db, nil)
	err = s.Create(context.Background(), record)

	assert.ErrorIs(t, err, store.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUsageRecordStore_CountSuccessfulSince(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	userID := uuid.New()
	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(userID, since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	s := postgres.NewPostgresUsageRecordStore(db, nil)
	count, err := s.CountSuccessfulSince(context.Background(), userID, since)

	assert.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUsageRecordStore_CountSuccessfulByKindSince(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	userID := uuid.New()
	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"service_type", "count"}).
		AddRow("quiz_generation", 4).
		AddRow("lesson_summary", 2)

	mock.ExpectQuery("SELECT service_type, COUNT").
		WithArgs(userID, since).
		WillReturnRows(rows)

	s := postgres.NewPostgresUsageRecordStore(db, nil)
	counts, err := s.CountSuccessfulByKindSince(context.Background(), userID, since)

	assert.NoError(t, err)
	assert.Equal(t, map[domain.ServiceKind]int{
		domain.ServiceQuizGeneration: 4,
		domain.ServiceLessonSummary:  2,
	}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUsageRecordStore_ListByUser_DefaultLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	userID := uuid.New()
	recordID := uuid.New()
	createdAt := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "service_type", "tokens_used", "cost_estimate", "success",
		"error_message", "request_data", "response_data", "provider", "model_used", "created_at",
	}).AddRow(
		recordID.String(), userID.String(), "quiz_generation", 512, 0.0012, true,
		"", `{"prompt": "..."}`, `{"content": "..."}`, "openai", "gpt-3.5-turbo", createdAt,
	)

	// A non-positive limit falls back to the package default of 50.
	mock.ExpectQuery("SELECT id, user_id, service_type").
		WithArgs(userID, 50).
		WillReturnRows(rows)

	s := postgres.NewPostgresUsageRecordStore(db, nil)
	records, err := s.ListByUser(context.Background(), userID, 0)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, recordID, records[0].ID)
	assert.Equal(t, userID, records[0].UserID)
	assert.Equal(t, domain.ServiceQuizGeneration, records[0].ServiceKind)
	assert.Equal(t, 512, records[0].TokensUsed)
	assert.InDelta(t, 0.0012, records[0].CostEstimate, 1e-9)
	assert.True(t, records[0].Success)
	assert.Equal(t, "openai", records[0].Provider)
	assert.Equal(t, createdAt, records[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUsageRecordStore_WithTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	record := validUsageRecord(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO usage_logs").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	s := postgres.NewPostgresUsageRecordStore(db, nil)
	err = s.WithTx(tx).Create(context.Background(), record)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.NoError(t, mock.ExpectationsWereMet())
}
