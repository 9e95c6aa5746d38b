package leave

import (
	"errors"
	"fmt"
	"strings"

	"wfm/internal/domain/task"
)

var (
	// ErrStaleState is returned when a transition loses the race against a
	// concurrent caller; the request is no longer in the expected status.
	ErrStaleState = errors.New("leave request already transitioned")

	ErrForbidden = errors.New("caller may not perform this transition")
	ErrNotFound  = errors.New("leave request not found")
)

// ValidationError carries every violated rule, not just the first.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "leave request validation failed: " + strings.Join(e.Violations, "; ")
}

// ConflictError blocks approval while the requester still has overlapping
// task assignments. The tasks are included so the caller can display them.
type ConflictError struct {
	Tasks []task.Task
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("requester has %d conflicting task(s) in the requested window", len(e.Tasks))
}

// InvalidTransitionError names both states so the caller can report the
// attempted move precisely.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}
