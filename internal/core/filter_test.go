package core

import (
	"testing"
	"time"

	"github.com/valter-silva-au/datawork/pkg/models"
)

func filterFixture() []models.Task {
	return []models.Task{
		{ID: "a", Title: "Write report", Description: "quarterly numbers", Status: models.StatusPending,
			Priority: models.PriorityHigh, CreatedAt: wednesday.Add(-3 * time.Hour)},
		{ID: "b", Title: "Call supplier", Status: models.StatusInProgress,
			Priority: models.PriorityLow, CreatedAt: wednesday.Add(-1 * time.Hour)},
		{ID: "c", Title: "Review REPORT draft", Status: models.StatusCompleted,
			Priority: models.PriorityMedium, CreatedAt: wednesday.Add(-2 * time.Hour)},
		{ID: "d", Title: "Plan sprint", Status: models.StatusPending,
			Priority: models.PriorityMedium, CreatedAt: wednesday.Add(-1 * time.Hour)},
	}
}

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterTasks(t *testing.T) {
	tests := []struct {
		name   string
		filter models.TaskFilter
		want   []string
	}{
		{"no filter sorts newest first, ties by id", models.TaskFilter{}, []string{"b", "d", "c", "a"}},
		{"status", models.TaskFilter{Statuses: []models.TaskStatus{models.StatusPending}}, []string{"d", "a"}},
		{"several statuses", models.TaskFilter{Statuses: []models.TaskStatus{models.StatusPending, models.StatusCompleted}}, []string{"d", "c", "a"}},
		{"priority", models.TaskFilter{Priorities: []models.Priority{models.PriorityMedium}}, []string{"d", "c"}},
		{"search is case-insensitive", models.TaskFilter{Search: "report"}, []string{"c", "a"}},
		{"search matches description", models.TaskFilter{Search: "Quarterly"}, []string{"a"}},
		{"combined", models.TaskFilter{Statuses: []models.TaskStatus{models.StatusPending}, Search: "report"}, []string{"a"}},
		{"no match", models.TaskFilter{Search: "nothing like this"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterTasks(filterFixture(), tt.filter))
			if !equalIDs(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFilterTasks_DoesNotMutateInput(t *testing.T) {
	in := filterFixture()
	_ = FilterTasks(in, models.TaskFilter{})
	if !equalIDs(ids(in), []string{"a", "b", "c", "d"}) {
		t.Fatalf("input reordered: %v", ids(in))
	}
}
