package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("task not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const taskColumns = `
    id, title, COALESCE(description, ''), assignee_id, status,
    start_date, end_date, COALESCE(recurrence_id::text, ''), created_at, updated_at`

// FindOverlappingTasks returns the assignee's non-terminal tasks whose range
// intersects [start, end], both ends inclusive.
func (s *Store) FindOverlappingTasks(ctx context.Context, employeeID string, start, end time.Time) ([]Task, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+taskColumns+`
    FROM tasks
    WHERE assignee_id = $1
      AND status NOT IN ($2, $3)
      AND start_date <= $5
      AND $4 <= end_date
    ORDER BY start_date
  `, employeeID, StatusDone, StatusCancelled, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (s *Store) GetTask(ctx context.Context, id string) (Task, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = $1", id)
	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

func (s *Store) ListTasks(ctx context.Context, assigneeID string, limit, offset int) ([]Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks"
	var args []any
	if assigneeID != "" {
		args = append(args, assigneeID)
		query += " WHERE assignee_id = $1"
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY start_date DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (s *Store) CreateTask(ctx context.Context, t Task) (Task, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO tasks (title, description, assignee_id, status, start_date, end_date, recurrence_id)
    VALUES ($1, NULLIF($2,''), $3, $4, $5, $6, NULLIF($7,'')::uuid)
    RETURNING `+taskColumns,
		t.Title, t.Description, t.AssigneeID, t.Status, t.StartDate, t.EndDate, t.RecurrenceID,
	)
	return scanTask(row)
}

func (s *Store) UpdateTaskStatus(ctx context.Context, id, status string) (Task, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE tasks SET status = $2, updated_at = now() WHERE id = $1
    RETURNING `+taskColumns, id, status)
	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

func (s *Store) ReassignTask(ctx context.Context, id, assigneeID string) (Task, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE tasks SET assignee_id = $2, updated_at = now() WHERE id = $1
    RETURNING `+taskColumns, id, assigneeID)
	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

func (s *Store) ListActiveRecurrences(ctx context.Context) ([]Recurrence, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, title, COALESCE(description, ''), assignee_id, frequency, last_run_date, active, created_at
    FROM task_recurrences
    WHERE active
    ORDER BY created_at
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Recurrence
	for rows.Next() {
		var r Recurrence
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.AssigneeID, &r.Frequency, &r.LastRunDate, &r.Active, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) CreateRecurrence(ctx context.Context, r Recurrence) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO task_recurrences (title, description, assignee_id, frequency, last_run_date, active)
    VALUES ($1, NULLIF($2,''), $3, $4, $5, $6)
    RETURNING id
  `, r.Title, r.Description, r.AssigneeID, r.Frequency, r.LastRunDate, r.Active).Scan(&id)
	return id, err
}

func (s *Store) MarkRecurrenceRun(ctx context.Context, id string, runDate time.Time) error {
	_, err := s.DB.Exec(ctx, "UPDATE task_recurrences SET last_run_date = $2 WHERE id = $1", id, runDate)
	return err
}

func collectTasks(rows pgx.Rows) ([]Task, error) {
	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	if err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.AssigneeID, &t.Status,
		&t.StartDate, &t.EndDate, &t.RecurrenceID, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return Task{}, err
	}
	return t, nil
}
