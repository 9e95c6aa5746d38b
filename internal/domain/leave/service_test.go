package leave

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"wfm/internal/domain/org"
	"wfm/internal/domain/task"
)

type fakeStore struct {
	requests       map[string]Request
	seq            int
	snapshotStatus map[string]string
}

func (f *fakeStore) FindRequests(_ context.Context, filter RequestFilter) ([]Request, error) {
	var out []Request
	for _, r := range f.requests {
		if filter.EmployeeID != "" && r.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Year != 0 && r.StartDate.Year() != filter.Year {
			continue
		}
		if len(filter.StatusIn) > 0 {
			match := false
			for _, s := range filter.StatusIn {
				if r.Status == s {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) GetRequest(_ context.Context, id string) (Request, error) {
	r, ok := f.requests[id]
	if !ok {
		return Request{}, ErrNotFound
	}
	// snapshotStatus simulates a stale read racing a concurrent transition.
	if status, ok := f.snapshotStatus[id]; ok {
		r.Status = status
	}
	return r, nil
}

func (f *fakeStore) CreateRequest(_ context.Context, req Request) (Request, error) {
	if f.requests == nil {
		f.requests = map[string]Request{}
	}
	f.seq++
	req.ID = fmt.Sprintf("req-%d", f.seq)
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeStore) TransitionRequest(_ context.Context, id, fromStatus, toStatus string, fields TransitionFields) (Request, error) {
	r, ok := f.requests[id]
	if !ok {
		return Request{}, ErrNotFound
	}
	if r.Status != fromStatus {
		return Request{}, ErrStaleState
	}
	r.Status = toStatus
	r.ApproverID = fields.ApproverID
	r.ApproverNote = fields.ApproverNote
	f.requests[id] = r
	return r, nil
}

type fakeDirectory struct {
	employees map[string]org.EmployeeProfile
	byRole    map[string][]org.EmployeeProfile
}

func (f *fakeDirectory) FindEmployee(_ context.Context, id string) (org.EmployeeProfile, error) {
	if p, ok := f.employees[id]; ok {
		return p, nil
	}
	return org.EmployeeProfile{}, errors.New("employee not found")
}

func (f *fakeDirectory) FindEmployeesByRole(_ context.Context, role string, _ bool) ([]org.EmployeeProfile, error) {
	return f.byRole[role], nil
}

type fakeTasks struct {
	tasks []task.Task
}

func (f *fakeTasks) FindOverlappingTasks(_ context.Context, employeeID string, _, _ time.Time) ([]task.Task, error) {
	var out []task.Task
	for _, t := range f.tasks {
		if t.AssigneeID == employeeID {
			out = append(out, t)
		}
	}
	return out, nil
}

func newTestService() (*Service, *fakeStore, *fakeDirectory, *fakeTasks) {
	tenure := date(2020, time.January, 1)
	directory := &fakeDirectory{
		employees: map[string]org.EmployeeProfile{
			"emp-1": {ID: "emp-1", FirstName: "Mira", LastName: "Sato", Role: "employee", SupervisorID: "sup-1", SubUnitID: "su-1", DepartmentID: "dep-1", Status: "active", EmploymentStartDate: &tenure},
			"emp-2": {ID: "emp-2", FirstName: "Rob", LastName: "Keane", Role: "employee", SubUnitID: "su-1", DepartmentID: "dep-1", Status: "active", EmploymentStartDate: &tenure},
			"sup-1": {ID: "sup-1", FirstName: "Ana", LastName: "Leme", Role: "supervisor", SubUnitID: "su-1", DepartmentID: "dep-1", Status: "active"},
			"hr-1":  {ID: "hr-1", FirstName: "Dee", LastName: "Wong", Role: "hr", Status: "active"},
			"adm-1": {ID: "adm-1", FirstName: "Sol", LastName: "Ruiz", Role: "admin", Status: "active"},
		},
		byRole: map[string][]org.EmployeeProfile{},
	}
	store := &fakeStore{}
	tasks := &fakeTasks{}
	svc := NewService(store, directory, tasks)
	svc.Now = func() time.Time { return date(2025, time.June, 1) }
	return svc, store, directory, tasks
}

func sickDraft(employeeID string) Draft {
	return Draft{
		EmployeeID:   employeeID,
		Category:     CategorySick,
		StartDate:    date(2025, time.July, 7),
		EndDate:      date(2025, time.July, 8),
		DurationType: DurationFullDay,
		Reason:       "flu",
	}
}

func TestCreateRequestRoutesToSupervisor(t *testing.T) {
	svc, _, _, _ := newTestService()

	out, err := svc.CreateRequest(context.Background(), sickDraft("emp-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Request.Status != StatusPending {
		t.Fatalf("expected pending, got %s", out.Request.Status)
	}
	if out.Request.CurrentApproverID != "sup-1" {
		t.Fatalf("expected supervisor as approver, got %q", out.Request.CurrentApproverID)
	}
	if out.Unroutable {
		t.Fatal("request with a supervisor must be routable")
	}
	if out.Request.TotalDays.String() != "2" {
		t.Fatalf("expected 2 total days, got %s", out.Request.TotalDays)
	}
	if out.RequesterName != "Mira Sato" {
		t.Fatalf("unexpected requester name %q", out.RequesterName)
	}
}

func TestCreateRequestChainFallback(t *testing.T) {
	svc, _, directory, _ := newTestService()

	older := org.EmployeeProfile{ID: "sup-old", Role: "supervisor", Status: "active", CreatedAt: date(2021, time.January, 1)}
	newer := org.EmployeeProfile{ID: "sup-new", Role: "supervisor", Status: "active", CreatedAt: date(2023, time.January, 1)}
	inactive := org.EmployeeProfile{ID: "sup-gone", Role: "supervisor", Status: "inactive", CreatedAt: date(2019, time.January, 1)}
	directory.byRole["supervisor"] = []org.EmployeeProfile{newer, inactive, older}

	out, err := svc.CreateRequest(context.Background(), sickDraft("emp-2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Request.CurrentApproverID != "sup-old" {
		t.Fatalf("expected oldest active chain member, got %q", out.Request.CurrentApproverID)
	}
}

func TestCreateRequestUnroutable(t *testing.T) {
	svc, store, _, _ := newTestService()

	out, err := svc.CreateRequest(context.Background(), sickDraft("adm-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Unroutable {
		t.Fatal("admin with no chain should be unroutable")
	}
	if out.Request.CurrentApproverID != "" {
		t.Fatalf("unroutable request must have no approver, got %q", out.Request.CurrentApproverID)
	}
	if _, ok := store.requests[out.Request.ID]; !ok {
		t.Fatal("unroutable request must still be created")
	}
}

func TestCreateRequestValidationError(t *testing.T) {
	svc, store, _, _ := newTestService()

	draft := Draft{
		EmployeeID:   "emp-1",
		Category:     CategoryVacation,
		StartDate:    date(2025, time.July, 7),
		EndDate:      date(2025, time.July, 16),
		DurationType: DurationFullDay,
	}
	_, err := svc.CreateRequest(context.Background(), draft)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	// Ten days against a capped quota of 6 breaks both the balance and the
	// consecutive-day rule; both must be reported together.
	if len(verr.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %v", verr.Violations)
	}
	if len(store.requests) != 0 {
		t.Fatal("nothing may be persisted on validation failure")
	}
}

func TestCreateRequestHalfDayPeriodRequired(t *testing.T) {
	svc, store, _, _ := newTestService()

	draft := Draft{
		EmployeeID:   "emp-1",
		Category:     CategorySick,
		StartDate:    date(2025, time.July, 7),
		EndDate:      date(2025, time.July, 7),
		DurationType: DurationHalfDay,
	}
	_, err := svc.CreateRequest(context.Background(), draft)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("half-day without a period must fail validation, got %v", err)
	}
	if len(store.requests) != 0 {
		t.Fatal("nothing may be persisted without a period")
	}

	draft.HalfDayPeriod = PeriodMorning
	out, err := svc.CreateRequest(context.Background(), draft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Request.HalfDayPeriod != PeriodMorning {
		t.Fatalf("period not retained, got %q", out.Request.HalfDayPeriod)
	}
	if out.Request.TotalDays.String() != "0.5" {
		t.Fatalf("expected 0.5 days, got %s", out.Request.TotalDays)
	}
}

func TestCreateRequestPersistsWarnings(t *testing.T) {
	svc, _, _, _ := newTestService()

	draft := Draft{
		EmployeeID:   "emp-1",
		Category:     CategoryPersonal,
		StartDate:    date(2025, time.June, 2),
		EndDate:      date(2025, time.June, 2),
		DurationType: DurationFullDay,
	}
	out, err := svc.CreateRequest(context.Background(), draft)
	if err != nil {
		t.Fatalf("short notice must not block: %v", err)
	}
	if len(out.Request.Warnings) != 1 {
		t.Fatalf("expected one warning on the stored request, got %v", out.Request.Warnings)
	}
}

func TestApproveByAssignedApprover(t *testing.T) {
	svc, store, _, _ := newTestService()
	out, err := svc.CreateRequest(context.Background(), sickDraft("emp-1"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	res, err := svc.Approve(context.Background(), out.Request.ID, Actor{EmployeeID: "sup-1", Role: "supervisor"}, "ok")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if res.Request.Status != StatusApproved {
		t.Fatalf("expected approved, got %s", res.Request.Status)
	}
	if res.Request.ApproverID != "sup-1" || res.Request.ApproverNote != "ok" {
		t.Fatalf("approver fields not recorded: %+v", res.Request)
	}
	if store.requests[out.Request.ID].Status != StatusApproved {
		t.Fatal("store not updated")
	}
}

func TestApproveBlockedByTaskConflict(t *testing.T) {
	svc, store, _, tasks := newTestService()
	out, err := svc.CreateRequest(context.Background(), sickDraft("emp-1"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	tasks.tasks = []task.Task{
		{ID: "t-1", Title: "release", AssigneeID: "emp-1", Status: task.StatusOpen, StartDate: date(2025, time.July, 8), EndDate: date(2025, time.July, 10)},
		{ID: "t-2", Title: "done already", AssigneeID: "emp-1", Status: task.StatusDone, StartDate: date(2025, time.July, 7), EndDate: date(2025, time.July, 7)},
	}

	_, err = svc.Approve(context.Background(), out.Request.ID, Actor{EmployeeID: "sup-1"}, "")
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if len(cerr.Tasks) != 1 || cerr.Tasks[0].ID != "t-1" {
		t.Fatalf("terminal tasks must not conflict: %+v", cerr.Tasks)
	}
	if store.requests[out.Request.ID].Status != StatusPending {
		t.Fatal("blocked request must stay pending")
	}
}

func TestApproveSelfForbidden(t *testing.T) {
	svc, _, _, _ := newTestService()
	out, err := svc.CreateRequest(context.Background(), sickDraft("emp-1"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Approve(context.Background(), out.Request.ID, Actor{EmployeeID: "emp-1"}, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("self-approval must be forbidden, got %v", err)
	}
}

func TestApproveScopeAuthorization(t *testing.T) {
	svc, _, _, _ := newTestService()
	out, err := svc.CreateRequest(context.Background(), sickDraft("emp-1"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// A peer with self scope is rejected even though they are in the sub-unit.
	if _, err := svc.Approve(context.Background(), out.Request.ID, Actor{EmployeeID: "emp-2"}, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("peer must not approve, got %v", err)
	}

	// HR is not the assigned approver but its scope covers everyone.
	res, err := svc.Approve(context.Background(), out.Request.ID, Actor{EmployeeID: "hr-1"}, "")
	if err != nil {
		t.Fatalf("hr approve failed: %v", err)
	}
	if res.Request.Status != StatusApproved {
		t.Fatalf("expected approved, got %s", res.Request.Status)
	}
}

func TestApproveNonPending(t *testing.T) {
	svc, _, _, _ := newTestService()
	out, err := svc.CreateRequest(context.Background(), sickDraft("emp-1"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Reject(context.Background(), out.Request.ID, Actor{EmployeeID: "sup-1"}, "no"); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	_, err = svc.Approve(context.Background(), out.Request.ID, Actor{EmployeeID: "sup-1"}, "")
	var terr *InvalidTransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if terr.From != StatusRejected || terr.To != StatusApproved {
		t.Fatalf("unexpected transition detail: %+v", terr)
	}
}

func TestApproveStaleState(t *testing.T) {
	svc, store, _, _ := newTestService()
	out, err := svc.CreateRequest(context.Background(), sickDraft("emp-1"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// The read sees pending while the stored row has already moved on.
	req := store.requests[out.Request.ID]
	req.Status = StatusCancelled
	store.requests[out.Request.ID] = req
	store.snapshotStatus = map[string]string{out.Request.ID: StatusPending}

	if _, err := svc.Approve(context.Background(), out.Request.ID, Actor{EmployeeID: "sup-1"}, ""); !errors.Is(err, ErrStaleState) {
		t.Fatalf("expected ErrStaleState, got %v", err)
	}
}

func TestCancelOwnerOnly(t *testing.T) {
	svc, _, _, _ := newTestService()
	out, err := svc.CreateRequest(context.Background(), sickDraft("emp-1"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Cancel(context.Background(), out.Request.ID, Actor{EmployeeID: "sup-1"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner cancel must be forbidden, got %v", err)
	}

	res, err := svc.Cancel(context.Background(), out.Request.ID, Actor{EmployeeID: "emp-1"})
	if err != nil {
		t.Fatalf("owner cancel failed: %v", err)
	}
	if res.Request.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", res.Request.Status)
	}
}

func TestBalanceReflectsLifecycle(t *testing.T) {
	svc, _, _, _ := newTestService()
	out, err := svc.CreateRequest(context.Background(), sickDraft("emp-1"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	balance, err := svc.BalanceForEmployee(context.Background(), "emp-1", 2025)
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	quota, _ := balance.Quota(CategorySick)
	if quota.Pending.String() != "2" {
		t.Fatalf("expected pending 2 after create, got %s", quota.Pending)
	}

	if _, err := svc.Approve(context.Background(), out.Request.ID, Actor{EmployeeID: "sup-1"}, ""); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	balance, err = svc.BalanceForEmployee(context.Background(), "emp-1", 2025)
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	quota, _ = balance.Quota(CategorySick)
	if quota.Used.String() != "2" || !quota.Pending.IsZero() {
		t.Fatalf("expected used 2 pending 0 after approve, got used %s pending %s", quota.Used, quota.Pending)
	}
	if quota.Remaining.String() != "28" {
		t.Fatalf("expected remaining 28, got %s", quota.Remaining)
	}
}
