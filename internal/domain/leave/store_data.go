package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const requestColumns = `
    id, employee_id, category, status, start_date, end_date,
    duration_type, COALESCE(half_day_period, ''), COALESCE(start_time, ''), COALESCE(end_time, ''),
    total_days::text, COALESCE(reason, ''),
    COALESCE(current_approver_id::text, ''), approval_level,
    COALESCE(approver_id::text, ''), COALESCE(approver_note, ''),
    warnings, created_at, updated_at`

func (s *Store) FindRequests(ctx context.Context, filter RequestFilter) ([]Request, error) {
	query := "SELECT " + requestColumns + " FROM leave_requests WHERE 1=1"
	var args []any

	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.Year != 0 {
		args = append(args, filter.Year)
		query += fmt.Sprintf(" AND EXTRACT(YEAR FROM start_date) = $%d", len(args))
	}
	if len(filter.StatusIn) > 0 {
		args = append(args, filter.StatusIn)
		query += fmt.Sprintf(" AND status = ANY($%d)", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (s *Store) GetRequest(ctx context.Context, id string) (Request, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+requestColumns+" FROM leave_requests WHERE id = $1", id)
	req, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	return req, err
}

func (s *Store) CreateRequest(ctx context.Context, req Request) (Request, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (
      employee_id, category, status, start_date, end_date,
      duration_type, half_day_period, start_time, end_time,
      total_days, reason, current_approver_id, approval_level, warnings
    )
    VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7,''),NULLIF($8,''),NULLIF($9,''),$10::numeric,$11,NULLIF($12,'')::uuid,$13,$14)
    RETURNING `+requestColumns,
		req.EmployeeID, req.Category, req.Status, req.StartDate, req.EndDate,
		req.DurationType, string(req.HalfDayPeriod), req.StartTime, req.EndTime,
		req.TotalDays.String(), req.Reason, req.CurrentApproverID, req.ApprovalLevel, req.Warnings,
	)
	return scanRequest(row)
}

func (s *Store) TransitionRequest(ctx context.Context, id, fromStatus, toStatus string, fields TransitionFields) (Request, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE leave_requests
    SET status = $3,
        approver_id = NULLIF($4,'')::uuid,
        approver_note = NULLIF($5,''),
        updated_at = now()
    WHERE id = $1 AND status = $2
    RETURNING `+requestColumns,
		id, fromStatus, toStatus, fields.ApproverID, fields.ApproverNote,
	)
	req, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the row is gone or someone else transitioned it first.
		var current string
		if lookupErr := s.DB.QueryRow(ctx, "SELECT status FROM leave_requests WHERE id = $1", id).Scan(&current); lookupErr != nil {
			return Request{}, ErrNotFound
		}
		return Request{}, ErrStaleState
	}
	return req, err
}

func scanRequest(row pgx.Row) (Request, error) {
	var req Request
	var totalDays string
	var halfDay, startTime, endTime string
	if err := row.Scan(
		&req.ID, &req.EmployeeID, &req.Category, &req.Status, &req.StartDate, &req.EndDate,
		&req.DurationType, &halfDay, &startTime, &endTime,
		&totalDays, &req.Reason,
		&req.CurrentApproverID, &req.ApprovalLevel,
		&req.ApproverID, &req.ApproverNote,
		&req.Warnings, &req.CreatedAt, &req.UpdatedAt,
	); err != nil {
		return Request{}, err
	}
	req.HalfDayPeriod = HalfDayPeriod(halfDay)
	req.StartTime = startTime
	req.EndTime = endTime

	parsed, err := decimal.NewFromString(totalDays)
	if err != nil {
		return Request{}, fmt.Errorf("invalid total_days %q: %w", totalDays, err)
	}
	req.TotalDays = parsed
	return req, nil
}
