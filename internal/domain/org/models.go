package org

import "time"

// EmployeeProfile is the slice of an employee record the leave engine needs:
// tenure, birth month, supervisor link and organizational placement.
type EmployeeProfile struct {
	ID                  string     `json:"id"`
	UserID              string     `json:"userId"`
	FirstName           string     `json:"firstName"`
	LastName            string     `json:"lastName"`
	Email               string     `json:"email"`
	Role                string     `json:"role"`
	EmploymentStartDate *time.Time `json:"employmentStartDate,omitempty"`
	BirthMonth          int        `json:"birthMonth"` // 1-12, 0 when unknown
	SupervisorID        string     `json:"supervisorId,omitempty"`
	DepartmentID        string     `json:"departmentId,omitempty"`
	SubUnitID           string     `json:"subUnitId,omitempty"`
	Status              string     `json:"status"`
	CreatedAt           time.Time  `json:"createdAt"`
}

type Department struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ManagerID string    `json:"managerId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type SubUnit struct {
	ID           string    `json:"id"`
	DepartmentID string    `json:"departmentId"`
	Name         string    `json:"name"`
	LeadID       string    `json:"leadId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
