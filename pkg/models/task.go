package models

import (
	"fmt"
	"strings"
	"time"
)

// TaskStatus represents the current lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// AllStatuses lists every status in display order.
var AllStatuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ParseTaskStatus parses user input into a TaskStatus. Matching ignores case,
// treats '-' and ' ' like '_', and accepts "todo" and "done" as aliases.
func ParseTaskStatus(s string) (TaskStatus, error) {
	norm := strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch norm {
	case "todo":
		return StatusPending, nil
	case "done":
		return StatusCompleted, nil
	}
	if st := TaskStatus(norm); st.Valid() {
		return st, nil
	}
	return "", fmt.Errorf("invalid status %q: must be one of pending, in_progress, completed", s)
}

// Priority represents the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// AllPriorities lists every priority from most to least urgent.
var AllPriorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority parses user input into a Priority, ignoring case.
func ParsePriority(s string) (Priority, error) {
	if p := Priority(strings.ToLower(strings.TrimSpace(s))); p.Valid() {
		return p, nil
	}
	return "", fmt.Errorf("invalid priority %q: must be one of high, medium, low", s)
}

// Task is a unit of user work. ID and CreatedAt never change after creation.
// CompletedAt is set the first time the task reaches StatusCompleted and is
// kept even if the status later moves away from completed.
type Task struct {
	ID          string     `yaml:"id" json:"id"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description" json:"description"`
	Status      TaskStatus `yaml:"status" json:"status"`
	Priority    Priority   `yaml:"priority" json:"priority"`
	CreatedAt   time.Time  `yaml:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `yaml:"updated_at" json:"updatedAt"`
	CompletedAt *time.Time `yaml:"completed_at,omitempty" json:"completedAt,omitempty"`
}

// NewTask holds the caller-supplied fields for a task being created.
type NewTask struct {
	Title       string
	Description string
	Status      TaskStatus
	Priority    Priority
}

// TaskPatch carries a partial update. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *Priority
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Priority == nil
}

// PriorityCounts breaks the collection down by priority.
type PriorityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// TaskStatistics is a derived, never-persisted summary of the collection.
type TaskStatistics struct {
	Total                int            `json:"total"`
	Pending              int            `json:"pending"`
	InProgress           int            `json:"in_progress"`
	Completed            int            `json:"completed"`
	CompletionPercentage int            `json:"completion_percentage"`
	CreatedToday         int            `json:"created_today"`
	CreatedThisWeek      int            `json:"created_this_week"`
	ByPriority           PriorityCounts `json:"by_priority"`
}

// TaskFilter selects tasks for listing. All set criteria must match.
type TaskFilter struct {
	Statuses   []TaskStatus
	Priorities []Priority
	// Search matches title or description, case-insensitively.
	Search string
}
