package task

import "time"

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusCancelled  = "cancelled"
)

type Task struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	AssigneeID   string    `json:"assigneeId"`
	Status       string    `json:"status"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	RecurrenceID string    `json:"recurrenceId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Terminal statuses never count as conflicts and accept no further edits.
func Terminal(status string) bool {
	return status == StatusDone || status == StatusCancelled
}

// Recurrence describes a rule the generator expands into concrete tasks.
type Recurrence struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	AssigneeID  string    `json:"assigneeId"`
	Frequency   string    `json:"frequency"` // daily, weekly, monthly
	LastRunDate time.Time `json:"lastRunDate"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NextAfter returns the first occurrence date strictly after the given day,
// or a zero time when the frequency is unknown.
func (r Recurrence) NextAfter(day time.Time) time.Time {
	switch r.Frequency {
	case "daily":
		return day.AddDate(0, 0, 1)
	case "weekly":
		return day.AddDate(0, 0, 7)
	case "monthly":
		return day.AddDate(0, 1, 0)
	}
	return time.Time{}
}
