package task

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MockTask is a Task test double. Tests assign ExecuteFn to control the
// execution outcome.
type MockTask struct {
	TaskID      uuid.UUID
	TaskType    string
	TaskPayload []byte
	TaskStatus  TaskStatus
	ExecuteFn   func(ctx context.Context) error
}

// NewMockTask returns a pending MockTask with the given identity and payload.
func NewMockTask(id uuid.UUID, taskType string, payload []byte) *MockTask {
	return &MockTask{
		TaskID:      id,
		TaskType:    taskType,
		TaskPayload: payload,
		TaskStatus:  TaskStatusPending,
	}
}

func (t *MockTask) ID() uuid.UUID {
	return t.TaskID
}

func (t *MockTask) Type() string {
	return t.TaskType
}

func (t *MockTask) Payload() []byte {
	return t.TaskPayload
}

func (t *MockTask) Status() TaskStatus {
	return t.TaskStatus
}

// Execute runs the task logic. Tasks built as bare struct literals get a
// no-op execution.
func (t *MockTask) Execute(ctx context.Context) error {
	if t.ExecuteFn == nil {
		return nil
	}
	return t.ExecuteFn(ctx)
}

// MockPayload is the structured payload CreateMockTaskWithPayload encodes.
type MockPayload struct {
	Message string    `json:"message"`
	Created time.Time `json:"created"`
}

// CreateMockTaskWithPayload builds a MockTask whose payload is a
// JSON-encoded MockPayload around message.
func CreateMockTaskWithPayload(message string) *MockTask {
	payload := MockPayload{
		Message: message,
		Created: time.Now().UTC(),
	}

	data, _ := json.Marshal(payload)
	return NewMockTask(uuid.New(), "mock_task", data)
}
