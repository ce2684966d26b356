package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/eduforge/aigen-api/internal/events"
)

// TaskFactoryEventHandler implements the events.EventHandler interface
// to handle generation request events and delegate them to the task factory.
// The task keeps the event's ID, so the identifier returned to the API
// client matches the persisted row.
type TaskFactoryEventHandler struct {
	// Narrow structural interfaces keep the handler mockable in tests.
	// The expected implementations are *GenerationTaskFactory and *TaskRunner.
	taskFactory interface {
		RestoreTask(id uuid.UUID, taskType string, payload []byte, status TaskStatus) (Task, error)
	}
	taskRunner interface {
		Submit(ctx context.Context, task Task) error
	}
	logger *slog.Logger
}

// NewTaskFactoryEventHandler creates a new event handler that uses the given task factory
// to build tasks from event payloads, and submits them to the provided task runner.
func NewTaskFactoryEventHandler(
	taskFactory interface {
		RestoreTask(id uuid.UUID, taskType string, payload []byte, status TaskStatus) (Task, error)
	},
	taskRunner interface {
		Submit(ctx context.Context, task Task) error
	},
	logger *slog.Logger,
) *TaskFactoryEventHandler {
	return &TaskFactoryEventHandler{
		taskFactory: taskFactory,
		taskRunner:  taskRunner,
		logger:      logger.With("component", "task_factory_event_handler"),
	}
}

// HandleEvent processes events by creating and submitting tasks.
// It builds the task straight from the event's type and payload, keeping
// the event ID as the task ID, and submits it to the runner for execution.
func (h *TaskFactoryEventHandler) HandleEvent(
	ctx context.Context,
	event *events.GenerationRequestedEvent,
) error {
	if event.Type != TaskTypeGeneration {
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	// Build the task from the event payload
	h.logger.Debug("creating generation task",
		"event_id", event.ID)
	task, err := h.taskFactory.RestoreTask(event.ID, event.Type, event.Payload, TaskStatusPending)
	if err != nil {
		h.logger.Error("failed to create task",
			"error", err,
			"event_id", event.ID)
		return fmt.Errorf("failed to create task: %w", err)
	}

	// Submit the task to the runner
	h.logger.Debug("submitting task to runner",
		"task_id", task.ID(),
		"event_id", event.ID)
	if err := h.taskRunner.Submit(ctx, task); err != nil {
		h.logger.Error("failed to submit task",
			"error", err,
			"task_id", task.ID(),
			"event_id", event.ID)
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Info("task created and submitted successfully",
		"task_id", task.ID(),
		"task_type", task.Type(),
		"event_id", event.ID)
	return nil
}

// Ensure TaskFactoryEventHandler implements events.EventHandler
var _ events.EventHandler = (*TaskFactoryEventHandler)(nil)
