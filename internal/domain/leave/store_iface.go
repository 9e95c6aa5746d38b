package leave

import (
	"context"
	"time"

	"wfm/internal/domain/org"
	"wfm/internal/domain/task"
)

// StoreAPI is the persistence contract for leave requests. Reads for one
// employee/year must be at least serializable with respect to concurrent
// creates for the same employee, otherwise two racing requests can both see
// enough remaining quota; the engine does not lock on its own.
type StoreAPI interface {
	FindRequests(ctx context.Context, filter RequestFilter) ([]Request, error)
	GetRequest(ctx context.Context, id string) (Request, error)
	CreateRequest(ctx context.Context, req Request) (Request, error)

	// TransitionRequest updates the status conditionally on fromStatus and
	// returns ErrStaleState when a concurrent caller got there first.
	TransitionRequest(ctx context.Context, id, fromStatus, toStatus string, fields TransitionFields) (Request, error)
}

type TransitionFields struct {
	ApproverID   string
	ApproverNote string
}

// ProfileDirectory supplies the organizational data the engine consumes but
// never owns.
type ProfileDirectory interface {
	FindEmployee(ctx context.Context, id string) (org.EmployeeProfile, error)
	FindEmployeesByRole(ctx context.Context, role string, activeOnly bool) ([]org.EmployeeProfile, error)
}

// TaskSource feeds the conflict gate.
type TaskSource interface {
	FindOverlappingTasks(ctx context.Context, employeeID string, start, end time.Time) ([]task.Task, error)
}
