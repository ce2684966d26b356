package task

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Sentinel errors reported by Enqueue.
var (
	ErrQueueClosed = errors.New("task queue is closed")
	ErrQueueFull   = errors.New("task queue is full")
)

// TaskQueue is the bounded in-memory queue that feeds the runner's
// workers. It satisfies both TaskQueueReader and TaskQueueWriter.
type TaskQueue struct {
	tasks  chan Task
	logger *slog.Logger
	mu     sync.Mutex
	closed bool
}

// NewTaskQueue returns a queue holding at most size tasks.
func NewTaskQueue(size int, logger *slog.Logger) *TaskQueue {
	return &TaskQueue{
		tasks:  make(chan Task, size),
		logger: logger,
	}
}

// Enqueue adds task without blocking. A full queue reports ErrQueueFull
// with the capacity attached, a closed one ErrQueueClosed.
func (q *TaskQueue) Enqueue(task Task) error {
	// The lock covers the closed check and the send, so Enqueue can never
	// race with Close and write to a closed channel.
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.tasks <- task:
		q.logger.Debug("task enqueued",
			"task_id", task.ID(),
			"task_type", task.Type(),
			"queue_len", len(q.tasks),
			"queue_cap", cap(q.tasks))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.tasks))
	}
}

// Close rejects further submissions and closes the channel so draining
// workers observe the end of the stream. Calling it again is a no-op.
func (q *TaskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.tasks)
		q.logger.Info("task queue closed")
	}
}

// GetChannel exposes the consuming side of the queue.
func (q *TaskQueue) GetChannel() <-chan Task {
	return q.tasks
}
