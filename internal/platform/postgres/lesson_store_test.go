package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduforge/aigen-api/internal/platform/postgres"
	"github.com/eduforge/aigen-api/internal/store"
)

func TestPostgresLessonStore_GetByID_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	lessonID := uuid.New()
	createdAt := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "title", "content", "created_at"}).
		AddRow(lessonID.String(), "Photosynthesis", "Plants convert light into chemical energy.", createdAt)

	mock.ExpectQuery("SELECT id, title, content, created_at").
		WithArgs(lessonID).
		WillReturnRows(rows)

	s := postgres.NewPostgresLessonStore(db, nil)
	lesson, err := s.GetByID(context.Background(), lessonID)

	require.NoError(t, err)
	assert.Equal(t, lessonID, lesson.ID)
	assert.Equal(t, "Photosynthesis", lesson.Title)
	assert.Equal(t, "Plants convert light into chemical energy.", lesson.Content)
	assert.Equal(t, createdAt, lesson.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLessonStore_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	lessonID := uuid.New()

	mock.ExpectQuery("SELECT id, title, content, created_at").
		WithArgs(lessonID).
		WillReturnError(sql.ErrNoRows)

	s := postgres.NewPostgresLessonStore(db, nil)
	lesson, err := s.GetByID(context.Background(), lessonID)

	assert.Nil(t, lesson)
	assert.ErrorIs(t, err, store.ErrLessonNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
