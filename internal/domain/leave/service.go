package leave

import (
	"context"
	"fmt"
	"time"

	"wfm/internal/domain/org"
	"wfm/internal/domain/task"
)

type Service struct {
	Store     StoreAPI
	Directory ProfileDirectory
	Tasks     TaskSource

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewService(store StoreAPI, directory ProfileDirectory, tasks TaskSource) *Service {
	return &Service{Store: store, Directory: directory, Tasks: tasks, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Actor identifies who is driving a transition.
type Actor struct {
	EmployeeID string
	Role       string
}

type CreateResult struct {
	Request Request `json:"request"`

	// Unroutable is set when no approver could be resolved; the request is
	// still created and must be escalated manually.
	Unroutable bool `json:"unroutable,omitempty"`

	// Conflicts is advisory at creation time; it only hard-blocks approval.
	Conflicts task.ConflictCheck `json:"conflicts"`

	RequesterName string `json:"requesterName"`
}

type TransitionResult struct {
	Request       Request `json:"request"`
	RequesterName string  `json:"requesterName"`
}

// CreateRequest validates a draft and creates it in PENDING. The total day
// count is recomputed from the date and time fields; validation errors are
// returned as a single ValidationError carrying every violation.
func (s *Service) CreateRequest(ctx context.Context, draft Draft) (CreateResult, error) {
	profile, err := s.Directory.FindEmployee(ctx, draft.EmployeeID)
	if err != nil {
		return CreateResult{}, fmt.Errorf("employee lookup failed: %w", err)
	}

	now := s.now()
	year := draft.StartDate.Year()

	minutes, durationErr := MinutesOfAbsence(draft.StartDate, draft.EndDate, draft.DurationType, draft.StartTime, draft.EndTime)
	totalDays := DaysEquivalent(minutes)

	balance, err := s.balanceFor(ctx, profile, year, now)
	if err != nil {
		return CreateResult{}, err
	}

	result := Validate(draft.Category, draft.StartDate, totalDays, draft.DurationType, balance, profile.BirthMonth, now)
	if durationErr != nil {
		result.Errors = append(result.Errors, durationErr.Error())
	}
	if draft.DurationType == DurationHalfDay {
		switch draft.HalfDayPeriod {
		case PeriodMorning, PeriodAfternoon:
		default:
			result.Errors = append(result.Errors, "half_day requests require a morning or afternoon period")
		}
	}
	if !result.Valid() {
		return CreateResult{}, &ValidationError{Violations: result.Errors}
	}

	approverID := org.FirstApprover(profile, func(role string) []org.EmployeeProfile {
		candidates, lookupErr := s.Directory.FindEmployeesByRole(ctx, role, true)
		if lookupErr != nil {
			return nil
		}
		return candidates
	})

	req := Request{
		EmployeeID:        draft.EmployeeID,
		Category:          draft.Category,
		Status:            StatusPending,
		StartDate:         draft.StartDate,
		EndDate:           draft.EndDate,
		DurationType:      draft.DurationType,
		HalfDayPeriod:     draft.HalfDayPeriod,
		StartTime:         draft.StartTime,
		EndTime:           draft.EndTime,
		TotalDays:         totalDays,
		Reason:            draft.Reason,
		CurrentApproverID: approverID,
		ApprovalLevel:     1,
		Warnings:          result.Warnings,
	}
	if req.DurationType != DurationHalfDay {
		req.HalfDayPeriod = ""
	}

	created, err := s.Store.CreateRequest(ctx, req)
	if err != nil {
		return CreateResult{}, fmt.Errorf("create leave request failed: %w", err)
	}

	out := CreateResult{
		Request:       created,
		Unroutable:    approverID == "",
		RequesterName: profile.FirstName + " " + profile.LastName,
	}
	if conflicts, checkErr := s.checkConflicts(ctx, draft.EmployeeID, draft.StartDate, draft.EndDate); checkErr == nil {
		out.Conflicts = conflicts
	}
	return out, nil
}

// Approve moves a PENDING request to APPROVED. It fails with ConflictError
// while the owner has overlapping non-terminal tasks, and with ErrStaleState
// when a concurrent caller already transitioned the request.
func (s *Service) Approve(ctx context.Context, requestID string, actor Actor, note string) (TransitionResult, error) {
	req, owner, err := s.loadForTransition(ctx, requestID, StatusApproved)
	if err != nil {
		return TransitionResult{}, err
	}
	if err := s.authorizeDecision(ctx, req, actor); err != nil {
		return TransitionResult{}, err
	}

	conflicts, err := s.checkConflicts(ctx, req.EmployeeID, req.StartDate, req.EndDate)
	if err != nil {
		return TransitionResult{}, fmt.Errorf("conflict check failed: %w", err)
	}
	if conflicts.HasConflicts {
		return TransitionResult{}, &ConflictError{Tasks: conflicts.Tasks}
	}

	updated, err := s.Store.TransitionRequest(ctx, requestID, StatusPending, StatusApproved, TransitionFields{
		ApproverID:   actor.EmployeeID,
		ApproverNote: note,
	})
	if err != nil {
		return TransitionResult{}, err
	}
	return TransitionResult{Request: updated, RequesterName: owner.FirstName + " " + owner.LastName}, nil
}

// Reject moves a PENDING request to REJECTED. Same authorization as Approve;
// no conflict check applies.
func (s *Service) Reject(ctx context.Context, requestID string, actor Actor, note string) (TransitionResult, error) {
	req, owner, err := s.loadForTransition(ctx, requestID, StatusRejected)
	if err != nil {
		return TransitionResult{}, err
	}
	if err := s.authorizeDecision(ctx, req, actor); err != nil {
		return TransitionResult{}, err
	}

	updated, err := s.Store.TransitionRequest(ctx, requestID, StatusPending, StatusRejected, TransitionFields{
		ApproverID:   actor.EmployeeID,
		ApproverNote: note,
	})
	if err != nil {
		return TransitionResult{}, err
	}
	return TransitionResult{Request: updated, RequesterName: owner.FirstName + " " + owner.LastName}, nil
}

// Cancel is available to the owning employee only, while still PENDING.
func (s *Service) Cancel(ctx context.Context, requestID string, actor Actor) (TransitionResult, error) {
	req, owner, err := s.loadForTransition(ctx, requestID, StatusCancelled)
	if err != nil {
		return TransitionResult{}, err
	}
	if req.EmployeeID != actor.EmployeeID {
		return TransitionResult{}, ErrForbidden
	}

	updated, err := s.Store.TransitionRequest(ctx, requestID, StatusPending, StatusCancelled, TransitionFields{})
	if err != nil {
		return TransitionResult{}, err
	}
	return TransitionResult{Request: updated, RequesterName: owner.FirstName + " " + owner.LastName}, nil
}

// BalanceForEmployee recomputes the employee's balance for a year from the
// current request set.
func (s *Service) BalanceForEmployee(ctx context.Context, employeeID string, year int) (Balance, error) {
	profile, err := s.Directory.FindEmployee(ctx, employeeID)
	if err != nil {
		return Balance{}, fmt.Errorf("employee lookup failed: %w", err)
	}
	return s.balanceFor(ctx, profile, year, s.now())
}

// ConflictPreview runs the conflict gate without touching any request.
func (s *Service) ConflictPreview(ctx context.Context, employeeID string, start, end time.Time) (task.ConflictCheck, error) {
	return s.checkConflicts(ctx, employeeID, start, end)
}

func (s *Service) GetRequest(ctx context.Context, id string) (Request, error) {
	return s.Store.GetRequest(ctx, id)
}

// VisibleRequests lists requests the viewer's scope admits. The store
// filters by employee where possible; the predicate is re-applied here so
// scope decisions stay in the resolver.
func (s *Service) VisibleRequests(ctx context.Context, viewerEmployeeID string, year int) ([]Request, error) {
	viewer, err := s.Directory.FindEmployee(ctx, viewerEmployeeID)
	if err != nil {
		return nil, fmt.Errorf("viewer lookup failed: %w", err)
	}
	visibility := org.VisibilityFor(viewer)

	if visibility.Scope == org.ScopeSelf {
		return s.Store.FindRequests(ctx, RequestFilter{EmployeeID: viewerEmployeeID, Year: year})
	}

	all, err := s.Store.FindRequests(ctx, RequestFilter{Year: year})
	if err != nil {
		return nil, err
	}

	profiles := map[string]org.EmployeeProfile{viewerEmployeeID: viewer}
	var visible []Request
	for _, req := range all {
		owner, ok := profiles[req.EmployeeID]
		if !ok {
			owner, err = s.Directory.FindEmployee(ctx, req.EmployeeID)
			if err != nil {
				continue
			}
			profiles[req.EmployeeID] = owner
		}
		if visibility.Covers(owner) {
			visible = append(visible, req)
		}
	}
	return visible, nil
}

func (s *Service) balanceFor(ctx context.Context, profile org.EmployeeProfile, year int, reference time.Time) (Balance, error) {
	requests, err := s.Store.FindRequests(ctx, RequestFilter{
		EmployeeID: profile.ID,
		Year:       year,
		StatusIn:   []string{StatusApproved, StatusPending},
	})
	if err != nil {
		return Balance{}, fmt.Errorf("request scan failed: %w", err)
	}

	var tenureStart time.Time
	if profile.EmploymentStartDate != nil {
		tenureStart = *profile.EmploymentStartDate
	}
	return BalanceFor(profile.ID, requests, tenureStart, year, reference), nil
}

// loadForTransition fetches the request plus its owner and rejects any move
// out of a non-PENDING state up front, naming both states.
func (s *Service) loadForTransition(ctx context.Context, requestID, toStatus string) (Request, org.EmployeeProfile, error) {
	req, err := s.Store.GetRequest(ctx, requestID)
	if err != nil {
		return Request{}, org.EmployeeProfile{}, err
	}
	if req.Status != StatusPending {
		return Request{}, org.EmployeeProfile{}, &InvalidTransitionError{From: req.Status, To: toStatus}
	}
	owner, err := s.Directory.FindEmployee(ctx, req.EmployeeID)
	if err != nil {
		return Request{}, org.EmployeeProfile{}, fmt.Errorf("owner lookup failed: %w", err)
	}
	return req, owner, nil
}

// authorizeDecision admits the assigned approver, or any actor whose scope
// covers the owner. Self-approval is never allowed.
func (s *Service) authorizeDecision(ctx context.Context, req Request, actor Actor) error {
	if actor.EmployeeID == req.EmployeeID {
		return ErrForbidden
	}
	if req.CurrentApproverID != "" && actor.EmployeeID == req.CurrentApproverID {
		return nil
	}

	actorProfile, err := s.Directory.FindEmployee(ctx, actor.EmployeeID)
	if err != nil {
		return ErrForbidden
	}
	visibility := org.VisibilityFor(actorProfile)
	if visibility.Scope == org.ScopeSelf {
		return ErrForbidden
	}
	owner, err := s.Directory.FindEmployee(ctx, req.EmployeeID)
	if err != nil {
		return ErrForbidden
	}
	if !visibility.Covers(owner) {
		return ErrForbidden
	}
	return nil
}

func (s *Service) checkConflicts(ctx context.Context, employeeID string, start, end time.Time) (task.ConflictCheck, error) {
	candidates, err := s.Tasks.FindOverlappingTasks(ctx, employeeID, start, end)
	if err != nil {
		return task.ConflictCheck{}, err
	}
	return task.CheckConflicts(candidates, start, end), nil
}
