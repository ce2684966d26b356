package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/eduforge/aigen-api/internal/platform/logger"
	"github.com/eduforge/aigen-api/internal/store"
	"github.com/eduforge/aigen-api/internal/task"
)

// PostgresTaskStore implements the task.TaskStore interface using a
// PostgreSQL database as the storage backend. Recovered rows are turned
// back into executable tasks through the configured task factory.
type PostgresTaskStore struct {
	db      store.DBTX
	logger  *slog.Logger
	factory task.TaskFactory
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// task.TaskStore interface. The factory is used to re-materialize
// executable tasks from persisted rows during recovery.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger, factory task.TaskFactory) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if factory == nil {
		panic("factory cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:      db,
		logger:  logger.With(slog.String("component", "task_store")),
		factory: factory,
	}
}

// Ensure PostgresTaskStore implements task.TaskStore interface
var _ task.TaskStore = (*PostgresTaskStore)(nil)

// SaveTask persists a task to the database
func (s *PostgresTaskStore) SaveTask(ctx context.Context, t task.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO tasks (id, type, payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, query,
		t.ID(),
		t.Type(),
		t.Payload(),
		t.Status(),
		now,
		now,
	)
	if err != nil {
		log.Error("failed to save task",
			slog.String("task_id", t.ID().String()),
			slog.String("task_type", t.Type()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return nil
}

// UpdateTaskStatus updates the status of a task in the database.
// A missing task is treated as a no-op so recovery paths do not fail on
// rows deleted out from under them.
func (s *PostgresTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status task.TaskStatus,
	errorMsg string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query,
		status,
		errorMsg,
		time.Now().UTC(),
		taskID,
	)
	if err != nil {
		log.Error("failed to update task status",
			slog.String("task_id", taskID.String()),
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		log.Warn("no task found with ID to update status",
			slog.String("task_id", taskID.String()))
	}

	return nil
}

// GetPendingTasks retrieves all tasks with "pending" status
func (s *PostgresTaskStore) GetPendingTasks(ctx context.Context) ([]task.Task, error) {
	return s.getTasksByStatus(ctx, task.TaskStatusPending, 0)
}

// GetProcessingTasks retrieves tasks with "processing" status, optionally
// limited to tasks that have sat in that state longer than olderThan.
func (s *PostgresTaskStore) GetProcessingTasks(
	ctx context.Context,
	olderThan time.Duration,
) ([]task.Task, error) {
	return s.getTasksByStatus(ctx, task.TaskStatusProcessing, olderThan)
}

// WithTx implements task.TaskStore.WithTx
// It returns a new store instance using the provided transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) task.TaskStore {
	return &PostgresTaskStore{
		db:      tx,
		logger:  s.logger,
		factory: s.factory,
	}
}

// getTasksByStatus loads tasks in the given status and re-materializes
// them through the factory. Rows the factory cannot restore become
// failing placeholder tasks so the runner records the problem instead of
// leaving the row stuck forever.
func (s *PostgresTaskStore) getTasksByStatus(
	ctx context.Context,
	status task.TaskStatus,
	olderThan time.Duration,
) ([]task.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var query string
	var args []interface{}

	if olderThan > 0 {
		query = `
			SELECT id, type, payload, status
			FROM tasks
			WHERE status = $1 AND updated_at < $2
			ORDER BY created_at ASC
		`
		args = []interface{}{status, time.Now().UTC().Add(-olderThan)}
	} else {
		query = `
			SELECT id, type, payload, status
			FROM tasks
			WHERE status = $1
			ORDER BY created_at ASC
		`
		args = []interface{}{status}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks by status",
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []task.Task

	for rows.Next() {
		var id uuid.UUID
		var taskType string
		var payload []byte
		var taskStatus task.TaskStatus

		if err := rows.Scan(&id, &taskType, &payload, &taskStatus); err != nil {
			log.Error("failed to scan task row",
				slog.String("status", string(status)),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}

		restored, err := s.factory.RestoreTask(id, taskType, payload, taskStatus)
		if err != nil {
			log.Warn("failed to restore task from stored row",
				slog.String("task_id", id.String()),
				slog.String("task_type", taskType),
				slog.String("error", err.Error()))
			restored = &unrestorableTask{
				id:       id,
				taskType: taskType,
				payload:  payload,
				status:   taskStatus,
				cause:    err,
			}
		}

		tasks = append(tasks, restored)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows",
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

// unrestorableTask stands in for a persisted task the factory could not
// rebuild. Executing it fails with the restore error, which moves the row
// to the failed state through the runner's normal error path.
type unrestorableTask struct {
	id       uuid.UUID
	taskType string
	payload  []byte
	status   task.TaskStatus
	cause    error
}

var _ task.Task = (*unrestorableTask)(nil)

func (t *unrestorableTask) ID() uuid.UUID           { return t.id }
func (t *unrestorableTask) Type() string            { return t.taskType }
func (t *unrestorableTask) Payload() []byte         { return t.payload }
func (t *unrestorableTask) Status() task.TaskStatus { return t.status }

func (t *unrestorableTask) Execute(ctx context.Context) error {
	return fmt.Errorf("cannot execute unrestorable task of type %q: %w", t.taskType, t.cause)
}
