// Package events decouples the API layer from background task execution.
// The generation endpoints emit a GenerationRequestedEvent through an
// EventEmitter; the task package's handler receives it and enqueues the
// matching task. Neither side imports the other, which keeps the API free
// of task runner dependencies.
package events
