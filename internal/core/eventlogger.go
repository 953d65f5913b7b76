package core

// Event types emitted by the task repository.
const (
	EventTaskCreated    = "task.created"
	EventTaskUpdated    = "task.updated"
	EventTaskCompleted  = "task.completed"
	EventTaskRemoved    = "task.removed"
	EventTasksCleared   = "tasks.cleared"
	EventStoreReadError = "store.read_failed"
)

// EventLogger is the subset of the observability event log that core
// services need. Defining it here avoids importing the observability package.
type EventLogger interface {
	LogEvent(eventType string, data map[string]any) error
}
