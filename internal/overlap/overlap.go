// Package overlap detects overlapping task schedules for visualization.
// Everything here is pure: identical input yields identical output, no
// state is kept, and nothing is persisted. Results feed warnings on the
// read path only and never influence derived project status.
package overlap

import (
	"time"

	"github.com/thenoetrevino/rumbo/internal/models"
)

// DatesOverlap reports whether the closed intervals [start1, end1] and
// [start2, end2] intersect. Touching endpoints count as overlapping.
func DatesOverlap(start1, end1, start2, end2 time.Time) bool {
	return !start1.After(end2) && !start2.After(end1)
}

// TasksOverlap reports whether two tasks' schedules overlap. A task with
// a missing or malformed start or end date never overlaps anything.
func TasksOverlap(a, b models.Task) bool {
	if !a.HasSchedule() || !b.HasSchedule() {
		return false
	}

	// HasSchedule guarantees these parse
	startA, _ := models.ParseDate(a.StartDate)
	endA, _ := models.ParseDate(a.EndDate)
	startB, _ := models.ParseDate(b.StartDate)
	endB, _ := models.ParseDate(b.EndDate)

	return DatesOverlap(startA, endA, startB, endB)
}

// FindOverlapping returns the ids of every other task in all whose
// schedule overlaps task's. The task itself is excluded by id.
func FindOverlapping(task models.Task, all []models.Task) []string {
	var ids []string
	for _, other := range all {
		if other.ID == task.ID {
			continue
		}
		if TasksOverlap(task, other) {
			ids = append(ids, other.ID)
		}
	}
	return ids
}

// Warnings computes, for every task with a valid schedule, the ids of the
// tasks it overlaps with. Tasks without a valid schedule or without any
// overlap are absent from the map. Pairwise comparison is O(n²), which is
// fine at single-workspace task counts.
func Warnings(tasks []models.Task) map[string][]string {
	warnings := make(map[string][]string)
	for _, task := range tasks {
		if !task.HasSchedule() {
			continue
		}
		if ids := FindOverlapping(task, tasks); len(ids) > 0 {
			warnings[task.ID] = ids
		}
	}
	return warnings
}
