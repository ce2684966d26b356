package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduforge/aigen-api/internal/platform/postgres"
	"github.com/eduforge/aigen-api/internal/task"
)

// stubTask is a minimal task.Task for exercising the store.
type stubTask struct {
	id      uuid.UUID
	typ     string
	payload []byte
	status  task.TaskStatus
}

func (t *stubTask) ID() uuid.UUID                     { return t.id }
func (t *stubTask) Type() string                      { return t.typ }
func (t *stubTask) Payload() []byte                   { return t.payload }
func (t *stubTask) Status() task.TaskStatus           { return t.status }
func (t *stubTask) Execute(ctx context.Context) error { return nil }

// stubFactory restores rows into stubTasks, or fails when told to.
type stubFactory struct {
	restoreErr error
	restored   []uuid.UUID
}

func (f *stubFactory) RestoreTask(
	id uuid.UUID,
	taskType string,
	payload []byte,
	status task.TaskStatus,
) (task.Task, error) {
	if f.restoreErr != nil {
		return nil, f.restoreErr
	}
	f.restored = append(f.restored, id)
	return &stubTask{id: id, typ: taskType, payload: payload, status: status}, nil
}

func TestPostgresTaskStore_SaveTask(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	st := &stubTask{
		id:      uuid.New(),
		typ:     task.TaskTypeGeneration,
		payload: []byte(`{"user_id":"x"}`),
		status:  task.TaskStatusPending,
	}

	mock.ExpectExec("INSERT INTO tasks").
		WithArgs(
			st.id,
			st.typ,
			st.payload,
			st.status,
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := postgres.NewPostgresTaskStore(db, nil, &stubFactory{})
	err = s.SaveTask(context.Background(), st)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_UpdateTaskStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	taskID := uuid.New()

	mock.ExpectExec("UPDATE tasks").
		WithArgs(task.TaskStatusFailed, "provider unavailable", sqlmock.AnyArg(), taskID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := postgres.NewPostgresTaskStore(db, nil, &stubFactory{})
	err = s.UpdateTaskStatus(context.Background(), taskID, task.TaskStatusFailed, "provider unavailable")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_UpdateTaskStatus_MissingRowIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	taskID := uuid.New()

	mock.ExpectExec("UPDATE tasks").
		WithArgs(task.TaskStatusCompleted, "", sqlmock.AnyArg(), taskID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := postgres.NewPostgresTaskStore(db, nil, &stubFactory{})
	err = s.UpdateTaskStatus(context.Background(), taskID, task.TaskStatusCompleted, "")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_GetPendingTasks_RestoresThroughFactory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	id1 := uuid.New()
	id2 := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "type", "payload", "status"}).
		AddRow(id1, task.TaskTypeGeneration, []byte(`{}`), task.TaskStatusPending).
		AddRow(id2, task.TaskTypeGeneration, []byte(`{}`), task.TaskStatusPending)

	mock.ExpectQuery("SELECT id, type, payload, status").
		WithArgs(task.TaskStatusPending).
		WillReturnRows(rows)

	factory := &stubFactory{}
	s := postgres.NewPostgresTaskStore(db, nil, factory)
	tasks, err := s.GetPendingTasks(context.Background())

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, []uuid.UUID{id1, id2}, factory.restored)
	assert.Equal(t, id1, tasks[0].ID())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_GetPendingTasks_UnrestorableRowStillReturned(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	id := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "type", "payload", "status"}).
		AddRow(id, "unknown_type", []byte(`{}`), task.TaskStatusPending)

	mock.ExpectQuery("SELECT id, type, payload, status").
		WithArgs(task.TaskStatusPending).
		WillReturnRows(rows)

	factory := &stubFactory{restoreErr: errors.New("unsupported task type")}
	s := postgres.NewPostgresTaskStore(db, nil, factory)
	tasks, err := s.GetPendingTasks(context.Background())

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, id, tasks[0].ID())

	// The placeholder fails on execution so the runner marks the row failed.
	execErr := tasks[0].Execute(context.Background())
	assert.Error(t, execErr)
	assert.Contains(t, execErr.Error(), "unsupported task type")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_GetProcessingTasks_OlderThanFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows([]string{"id", "type", "payload", "status"})

	mock.ExpectQuery("SELECT id, type, payload, status").
		WithArgs(task.TaskStatusProcessing, sqlmock.AnyArg()).
		WillReturnRows(rows)

	s := postgres.NewPostgresTaskStore(db, nil, &stubFactory{})
	tasks, err := s.GetProcessingTasks(context.Background(), 10*time.Minute)

	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}
