package observability

import (
	"fmt"
	"time"
)

// Event types counted by the metrics calculator.
const (
	typeTaskCreated     = "task.created"
	typeTaskUpdated     = "task.updated"
	typeTaskCompleted   = "task.completed"
	typeTaskRemoved     = "task.removed"
	typeTasksCleared    = "tasks.cleared"
	typeStoreReadFailed = "store.read_failed"
)

// Metrics holds counts derived from the event log over a time window.
type Metrics struct {
	TasksCreated   int `json:"tasks_created"`
	TasksUpdated   int `json:"tasks_updated"`
	TasksCompleted int `json:"tasks_completed"`
	TasksRemoved   int `json:"tasks_removed"`
	Clears         int `json:"clears"`
	ReadFailures   int `json:"read_failures"`
	// CreatedByPriority counts task.created events by their priority.
	CreatedByPriority map[string]int `json:"created_by_priority"`
	// StatusTransitions counts "old->new" status changes.
	StatusTransitions map[string]int `json:"status_transitions"`
	EventCount        int            `json:"event_count"`
	OldestEvent       *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent       *time.Time     `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a MetricsCalculator reading from eventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate aggregates every event at or after since.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{
		CreatedByPriority: make(map[string]int),
		StatusTransitions: make(map[string]int),
		EventCount:        len(events),
	}

	for _, event := range events {
		t := event.Time
		if m.OldestEvent == nil || t.Before(*m.OldestEvent) {
			m.OldestEvent = &t
		}
		if m.NewestEvent == nil || t.After(*m.NewestEvent) {
			m.NewestEvent = &t
		}

		switch event.Type {
		case typeTaskCreated:
			m.TasksCreated++
			if p, ok := event.Data["priority"].(string); ok {
				m.CreatedByPriority[p]++
			}
		case typeTaskUpdated:
			m.TasksUpdated++
			oldStatus, okOld := event.Data["old_status"].(string)
			newStatus, okNew := event.Data["new_status"].(string)
			if okOld && okNew {
				m.StatusTransitions[oldStatus+"->"+newStatus]++
			}
		case typeTaskCompleted:
			m.TasksCompleted++
		case typeTaskRemoved:
			m.TasksRemoved++
		case typeTasksCleared:
			m.Clears++
		case typeStoreReadFailed:
			m.ReadFailures++
		}
	}

	return m, nil
}
