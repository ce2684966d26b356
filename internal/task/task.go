package task

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of a background task.
type TaskStatus string

// Lifecycle states persisted in the tasks table.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task types recognized by the runner and the task factory.
const (
	// TaskTypeGeneration labels background AI content generation jobs.
	TaskTypeGeneration = "generation"
)

// Task is a unit of background work. Implementations carry their own
// payload and know how to execute themselves.
type Task interface {
	// ID returns the task's unique identifier.
	ID() uuid.UUID

	// Type identifies the implementation for persistence and restore.
	Type() string

	// Payload returns the task's data in its persisted form.
	Payload() []byte

	// Status returns the task's current lifecycle state.
	Status() TaskStatus

	// Execute runs the task.
	Execute(ctx context.Context) error
}

// TaskQueueReader is the consuming side of a task queue. Workers receive
// from it without being able to enqueue.
type TaskQueueReader interface {
	// GetChannel returns a read-only channel for consuming tasks.
	GetChannel() <-chan Task
}

// TaskQueueWriter is the producing side of a task queue.
type TaskQueueWriter interface {
	// Enqueue adds a task without blocking; it reports ErrQueueFull or
	// ErrQueueClosed instead.
	Enqueue(task Task) error

	// Close rejects further submissions and lets draining workers finish.
	Close()
}

// TaskStore persists task state so in-flight work survives restarts.
type TaskStore interface {
	// SaveTask persists a new task.
	SaveTask(ctx context.Context, task Task) error

	// UpdateTaskStatus moves a task to status. errorMsg records the
	// failure for failed tasks and the reset reason when a task goes
	// back to pending.
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error

	// GetPendingTasks returns every task still waiting to run.
	GetPendingTasks(ctx context.Context) ([]Task, error)

	// GetProcessingTasks returns tasks in the processing state. A
	// non-zero olderThan restricts the result to tasks in that state
	// longer than the given duration.
	GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error)

	// WithTx returns a TaskStore bound to tx so task writes can join a
	// caller-managed transaction.
	WithTx(tx *sql.Tx) TaskStore
}

// TaskFactory restores executable tasks from their persisted type and
// payload. Stores use it so that tasks recovered after a restart can
// actually run instead of failing with an unknown implementation.
type TaskFactory interface {
	// RestoreTask rebuilds an executable task from its stored form,
	// preserving the persisted identity and status.
	RestoreTask(id uuid.UUID, taskType string, payload []byte, status TaskStatus) (Task, error)
}
