package task

import "time"

type ConflictCheck struct {
	HasConflicts bool   `json:"hasConflicts"`
	Tasks        []Task `json:"conflictingTasks,omitempty"`
}

// Overlaps reports whether the task's date range intersects [start, end],
// inclusive on both sides.
func (t Task) Overlaps(start, end time.Time) bool {
	return !t.StartDate.After(end) && !start.After(t.EndDate)
}

// CheckConflicts filters a candidate set down to the non-terminal tasks that
// overlap the window. The storage layer pre-filters by assignee and range;
// this keeps the decision itself in one place.
func CheckConflicts(candidates []Task, start, end time.Time) ConflictCheck {
	var conflicting []Task
	for _, t := range candidates {
		if Terminal(t.Status) {
			continue
		}
		if t.Overlaps(start, end) {
			conflicting = append(conflicting, t)
		}
	}
	return ConflictCheck{HasConflicts: len(conflicting) > 0, Tasks: conflicting}
}
