package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/platform/postgres"
	"github.com/eduforge/aigen-api/internal/store"
)

func TestPostgresUsageLimitStore_GetMonthlyLimit_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT monthly_limit").
		WithArgs(domain.RoleInstructor).
		WillReturnRows(sqlmock.NewRows([]string{"monthly_limit"}).AddRow(200))

	s := postgres.NewPostgresUsageLimitStore(db, nil)
	limit, err := s.GetMonthlyLimit(context.Background(), domain.RoleInstructor)

	assert.NoError(t, err)
	assert.Equal(t, 200, limit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUsageLimitStore_GetMonthlyLimit_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT monthly_limit").
		WithArgs(domain.RoleStudent).
		WillReturnError(sql.ErrNoRows)

	s := postgres.NewPostgresUsageLimitStore(db, nil)
	limit, err := s.GetMonthlyLimit(context.Background(), domain.RoleStudent)

	assert.Zero(t, limit)
	assert.ErrorIs(t, err, store.ErrUsageLimitNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUsageLimitStore_Upsert_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	limit := &domain.UsageLimit{Role: domain.RoleInstructor, MonthlyLimit: 300}

	mock.ExpectExec("INSERT INTO usage_limits").
		WithArgs(domain.RoleInstructor, 300, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := postgres.NewPostgresUsageLimitStore(db, nil)
	err = s.Upsert(context.Background(), limit)

	assert.NoError(t, err)
	assert.False(t, limit.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUsageLimitStore_Upsert_ValidationError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	limit := &domain.UsageLimit{Role: domain.RoleStudent, MonthlyLimit: 0}

	s := postgres.NewPostgresUsageLimitStore(db, nil)
	err = s.Upsert(context.Background(), limit)

	assert.ErrorIs(t, err, domain.ErrInvalidMonthlyLimit)
	assert.NoError(t, mock.ExpectationsWereMet())
}
