package core

import (
	"math"
	"time"

	"github.com/valter-silva-au/datawork/pkg/models"
)

// StartOfDay returns midnight of now's calendar day in loc.
func StartOfDay(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// StartOfWeek returns midnight of the most recent Sunday (today included) in loc.
func StartOfWeek(now time.Time, loc *time.Location) time.Time {
	day := StartOfDay(now, loc)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// ComputeStatistics derives TaskStatistics from tasks as seen at now.
// Day and week boundaries are taken in loc.
func ComputeStatistics(tasks []models.Task, now time.Time, loc *time.Location) models.TaskStatistics {
	if loc == nil {
		loc = time.Local
	}
	dayStart := StartOfDay(now, loc)
	weekStart := StartOfWeek(now, loc)

	var stats models.TaskStatistics
	stats.Total = len(tasks)
	for _, t := range tasks {
		switch t.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusInProgress:
			stats.InProgress++
		case models.StatusCompleted:
			stats.Completed++
		}

		switch t.Priority {
		case models.PriorityHigh:
			stats.ByPriority.High++
		case models.PriorityMedium:
			stats.ByPriority.Medium++
		case models.PriorityLow:
			stats.ByPriority.Low++
		}

		if !t.CreatedAt.Before(dayStart) {
			stats.CreatedToday++
		}
		if !t.CreatedAt.Before(weekStart) {
			stats.CreatedThisWeek++
		}
	}

	if stats.Total > 0 {
		stats.CompletionPercentage = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}
	return stats
}
