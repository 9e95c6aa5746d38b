package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"wfm/internal/domain/leave"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) PendingApprovals(ctx context.Context) (int, error) {
	var pending int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM leave_requests WHERE status = $1", leave.StatusPending).Scan(&pending); err != nil {
		return 0, err
	}
	return pending, nil
}

func (s *Store) EmployeesOnLeave(ctx context.Context, day time.Time) (int, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(DISTINCT employee_id)
    FROM leave_requests
    WHERE status = $1 AND start_date <= $2 AND $2 <= end_date
  `, leave.StatusApproved, day).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) OpenTasks(ctx context.Context) (int, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM tasks WHERE status IN ('open','in_progress')").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) ActiveEmployees(ctx context.Context) (int, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE status = 'active'").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ApprovedLeaveInRange returns approved requests that intersect the range,
// joined with the owner's name for report rows.
func (s *Store) ApprovedLeaveInRange(ctx context.Context, start, end time.Time) ([]CalendarEntry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT lr.id, lr.employee_id, e.first_name || ' ' || e.last_name,
           lr.category, lr.start_date, lr.end_date, lr.total_days::text
    FROM leave_requests lr
    JOIN employees e ON lr.employee_id = e.id
    WHERE lr.status = $1 AND lr.start_date <= $3 AND $2 <= lr.end_date
    ORDER BY lr.start_date, e.last_name
  `, leave.StatusApproved, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CalendarEntry
	for rows.Next() {
		var entry CalendarEntry
		if err := rows.Scan(&entry.RequestID, &entry.EmployeeID, &entry.EmployeeName, &entry.Category, &entry.StartDate, &entry.EndDate, &entry.TotalDays); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
