package leavehandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"wfm/internal/domain/auth"
	"wfm/internal/domain/leave"
	"wfm/internal/domain/org"
	"wfm/internal/domain/task"
	"wfm/internal/transport/http/middleware"
)

const testSecret = "test-secret"

type stubStore struct{}

func (stubStore) FindRequests(context.Context, leave.RequestFilter) ([]leave.Request, error) {
	return nil, nil
}

func (stubStore) GetRequest(context.Context, string) (leave.Request, error) {
	return leave.Request{}, leave.ErrNotFound
}

func (stubStore) CreateRequest(_ context.Context, req leave.Request) (leave.Request, error) {
	req.ID = "req-1"
	return req, nil
}

func (stubStore) TransitionRequest(context.Context, string, string, string, leave.TransitionFields) (leave.Request, error) {
	return leave.Request{}, leave.ErrNotFound
}

type stubDirectory struct{}

func (stubDirectory) FindEmployee(_ context.Context, id string) (org.EmployeeProfile, error) {
	return org.EmployeeProfile{ID: id, Role: auth.RoleEmployee, Status: "active"}, nil
}

func (stubDirectory) FindEmployeesByRole(context.Context, string, bool) ([]org.EmployeeProfile, error) {
	return nil, nil
}

type stubTasks struct{}

func (stubTasks) FindOverlappingTasks(context.Context, string, time.Time, time.Time) ([]task.Task, error) {
	return nil, nil
}

func newConflictRouter() http.Handler {
	svc := leave.NewService(stubStore{}, stubDirectory{}, stubTasks{})
	handler := NewHandler(svc, nil, nil)

	router := chi.NewRouter()
	router.Use(middleware.Auth(testSecret))
	router.Route("/api/v1", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})
	return router
}

func bearerFor(t *testing.T, role, employeeID string) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, auth.Claims{
		UserID:     "u-" + employeeID,
		EmployeeID: employeeID,
		RoleName:   role,
	}, time.Hour)
	if err != nil {
		t.Fatalf("token issue failed: %v", err)
	}
	return "Bearer " + token
}

func TestConflictPreviewScopeGate(t *testing.T) {
	router := newConflictRouter()

	get := func(role, employeeID, query string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/leave/conflicts?start=2025-07-07&end=2025-07-08"+query, nil)
		req.Header.Set("Authorization", bearerFor(t, role, employeeID))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	// A plain employee may preview their own window.
	if rec := get(auth.RoleEmployee, "e-1", ""); rec.Code != http.StatusOK {
		t.Fatalf("self preview: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if rec := get(auth.RoleEmployee, "e-1", "&employeeId=e-1"); rec.Code != http.StatusOK {
		t.Fatalf("explicit self preview: expected 200, got %d: %s", rec.Code, rec.Body)
	}

	// Peeking at someone else takes the approve permission.
	if rec := get(auth.RoleEmployee, "e-1", "&employeeId=e-2"); rec.Code != http.StatusForbidden {
		t.Fatalf("cross-employee preview: expected 403, got %d: %s", rec.Code, rec.Body)
	}
	if rec := get(auth.RoleSupervisor, "sup-1", "&employeeId=e-2"); rec.Code != http.StatusOK {
		t.Fatalf("supervisor preview: expected 200, got %d: %s", rec.Code, rec.Body)
	}
}
