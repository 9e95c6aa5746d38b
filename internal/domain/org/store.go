package org

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("employee not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const profileColumns = `
    e.id, COALESCE(e.user_id::text, ''), e.first_name, e.last_name, e.email,
    r.name,
    e.employment_start_date, COALESCE(e.birth_month, 0),
    COALESCE(e.supervisor_id::text, ''), COALESCE(e.department_id::text, ''), COALESCE(e.sub_unit_id::text, ''),
    e.status, e.created_at`

func (s *Store) FindEmployee(ctx context.Context, id string) (EmployeeProfile, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+profileColumns+`
    FROM employees e
    JOIN roles r ON e.role_id = r.id
    WHERE e.id = $1
  `, id)
	profile, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return EmployeeProfile{}, ErrNotFound
	}
	return profile, err
}

func (s *Store) FindEmployeeByUserID(ctx context.Context, userID string) (EmployeeProfile, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+profileColumns+`
    FROM employees e
    JOIN roles r ON e.role_id = r.id
    WHERE e.user_id = $1
  `, userID)
	profile, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return EmployeeProfile{}, ErrNotFound
	}
	return profile, err
}

// FindEmployeesByRole lists holders of a role, oldest record first so the
// approver resolver picks deterministically.
func (s *Store) FindEmployeesByRole(ctx context.Context, role string, activeOnly bool) ([]EmployeeProfile, error) {
	query := `
    SELECT ` + profileColumns + `
    FROM employees e
    JOIN roles r ON e.role_id = r.id
    WHERE r.name = $1`
	if activeOnly {
		query += " AND e.status = 'active'"
	}
	query += " ORDER BY e.created_at"

	rows, err := s.DB.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EmployeeProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, profile)
	}
	return out, rows.Err()
}

func (s *Store) ListEmployees(ctx context.Context, limit, offset int) ([]EmployeeProfile, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+profileColumns+`
    FROM employees e
    JOIN roles r ON e.role_id = r.id
    ORDER BY e.created_at
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EmployeeProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, profile)
	}
	return out, rows.Err()
}

type EmployeeInput struct {
	UserID              string
	FirstName           string
	LastName            string
	Email               string
	Role                string
	EmploymentStartDate string
	BirthMonth          int
	SupervisorID        string
	DepartmentID        string
	SubUnitID           string
}

func (s *Store) CreateEmployee(ctx context.Context, input EmployeeInput) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (
      user_id, first_name, last_name, email, role_id,
      employment_start_date, birth_month, supervisor_id, department_id, sub_unit_id, status
    )
    VALUES (
      NULLIF($1,'')::uuid, $2, $3, $4,
      (SELECT id FROM roles WHERE name = $5),
      NULLIF($6,'')::date, NULLIF($7, 0),
      NULLIF($8,'')::uuid, NULLIF($9,'')::uuid, NULLIF($10,'')::uuid, 'active'
    )
    RETURNING id
  `, input.UserID, input.FirstName, input.LastName, input.Email, input.Role,
		input.EmploymentStartDate, input.BirthMonth, input.SupervisorID, input.DepartmentID, input.SubUnitID,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create employee failed: %w", err)
	}
	return id, nil
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, COALESCE(manager_id::text, ''), created_at
    FROM departments
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.ManagerID, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) ListSubUnits(ctx context.Context, departmentID string) ([]SubUnit, error) {
	query := `
    SELECT id, department_id, name, COALESCE(lead_id::text, ''), created_at
    FROM sub_units`
	var args []any
	if departmentID != "" {
		query += " WHERE department_id = $1"
		args = append(args, departmentID)
	}
	query += " ORDER BY name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SubUnit
	for rows.Next() {
		var u SubUnit
		if err := rows.Scan(&u.ID, &u.DepartmentID, &u.Name, &u.LeadID, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanProfile(row pgx.Row) (EmployeeProfile, error) {
	var p EmployeeProfile
	if err := row.Scan(
		&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Email,
		&p.Role,
		&p.EmploymentStartDate, &p.BirthMonth,
		&p.SupervisorID, &p.DepartmentID, &p.SubUnitID,
		&p.Status, &p.CreatedAt,
	); err != nil {
		return EmployeeProfile{}, err
	}
	return p, nil
}
