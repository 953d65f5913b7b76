package core

import (
	"sort"
	"strings"

	"github.com/valter-silva-au/datawork/pkg/models"
)

// FilterTasks returns the tasks matching filter, newest first. Tasks created
// at the same instant are ordered by ID so the output is stable.
func FilterTasks(tasks []models.Task, filter models.TaskFilter) []models.Task {
	result := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if matchesFilter(t, filter) {
			result = append(result, t)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func matchesFilter(t models.Task, filter models.TaskFilter) bool {
	if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, t.Status) {
		return false
	}
	if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, t.Priority) {
		return false
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		q = strings.ToLower(q)
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	return true
}

func containsStatus(haystack []models.TaskStatus, needle models.TaskStatus) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsPriority(haystack []models.Priority, needle models.Priority) bool {
	for _, p := range haystack {
		if p == needle {
			return true
		}
	}
	return false
}
