package leave

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"wfm/internal/platform/db"
)

// Runs against a real database when TEST_DATABASE_URL is set.
func TestStoreRequestLifecycle(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, "../../../migrations"); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	var roleID string
	if err := pool.QueryRow(ctx, `
    INSERT INTO roles (name) VALUES ('employee')
    ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
    RETURNING id
  `).Scan(&roleID); err != nil {
		t.Fatalf("role seed failed: %v", err)
	}

	email := fmt.Sprintf("journey-%d@example.com", time.Now().UnixNano())
	var employeeID string
	if err := pool.QueryRow(ctx, `
    INSERT INTO employees (first_name, last_name, email, role_id, employment_start_date)
    VALUES ('Journey', 'Tester', $1, $2, '2020-01-01')
    RETURNING id
  `, email, roleID).Scan(&employeeID); err != nil {
		t.Fatalf("employee seed failed: %v", err)
	}

	store := NewStore(pool)
	created, err := store.CreateRequest(ctx, Request{
		EmployeeID:    employeeID,
		Category:      CategorySick,
		Status:        StatusPending,
		StartDate:     time.Date(2025, time.July, 7, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, time.July, 8, 0, 0, 0, 0, time.UTC),
		DurationType:  DurationFullDay,
		TotalDays:     decimal.NewFromInt(2),
		Reason:        "journey",
		ApprovalLevel: 1,
		Warnings:      []string{"sample warning"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" || created.Status != StatusPending {
		t.Fatalf("unexpected created request: %+v", created)
	}
	if created.TotalDays.String() != "2" {
		t.Fatalf("total_days round trip broke: %s", created.TotalDays)
	}
	if len(created.Warnings) != 1 || created.Warnings[0] != "sample warning" {
		t.Fatalf("warnings round trip broke: %v", created.Warnings)
	}

	fetched, err := store.GetRequest(ctx, created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if fetched.EmployeeID != employeeID {
		t.Fatalf("wrong owner: %s", fetched.EmployeeID)
	}

	approved, err := store.TransitionRequest(ctx, created.ID, StatusPending, StatusApproved, TransitionFields{
		ApproverNote: "ok",
	})
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if approved.Status != StatusApproved || approved.ApproverNote != "ok" {
		t.Fatalf("unexpected transitioned request: %+v", approved)
	}

	// The same conditional update loses the second time around.
	if _, err := store.TransitionRequest(ctx, created.ID, StatusPending, StatusRejected, TransitionFields{}); !errors.Is(err, ErrStaleState) {
		t.Fatalf("expected ErrStaleState, got %v", err)
	}

	if _, err := store.GetRequest(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	requests, err := store.FindRequests(ctx, RequestFilter{EmployeeID: employeeID, Year: 2025, StatusIn: []string{StatusApproved}})
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(requests) != 1 || requests[0].ID != created.ID {
		t.Fatalf("filter did not isolate the request: %+v", requests)
	}
}
