package task

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// GenerationTaskFactory creates GenerationTask instances
type GenerationTaskFactory struct {
	service GenerationService
	logger  *slog.Logger
}

// NewGenerationTaskFactory creates a new factory for GenerationTasks
func NewGenerationTaskFactory(
	service GenerationService,
	logger *slog.Logger,
) *GenerationTaskFactory {
	return &GenerationTaskFactory{
		service: service,
		logger:  logger.With("component", "generation_task_factory"),
	}
}

// CreateTask creates a new GenerationTask for the given request
func (f *GenerationTaskFactory) CreateTask(request GenerationRequest) (Task, error) {
	task, err := NewGenerationTask(request, f.service, f.logger)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// RestoreTask rebuilds a GenerationTask from its persisted form so that
// recovery can requeue it with the original identity and status.
func (f *GenerationTaskFactory) RestoreTask(
	id uuid.UUID,
	taskType string,
	payload []byte,
	status TaskStatus,
) (Task, error) {
	if taskType != TaskTypeGeneration {
		return nil, fmt.Errorf("unsupported task type %q", taskType)
	}

	var request GenerationRequest
	if err := json.Unmarshal(payload, &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	task, err := NewGenerationTask(request, f.service, f.logger)
	if err != nil {
		return nil, err
	}

	// Keep the persisted identity rather than the freshly minted one
	task.id = id
	task.status = status
	return task, nil
}

// Ensure GenerationTaskFactory implements TaskFactory
var _ TaskFactory = (*GenerationTaskFactory)(nil)
