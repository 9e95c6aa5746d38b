package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategorySick     Category = "sick"
	CategoryPersonal Category = "personal"
	CategoryVacation Category = "vacation"
	CategoryBirthday Category = "birthday"
	CategoryOther    Category = "other"
)

type DurationType string

const (
	DurationFullDay   DurationType = "full_day"
	DurationHalfDay   DurationType = "half_day"
	DurationTimeBased DurationType = "time_based"
)

type HalfDayPeriod string

const (
	PeriodMorning   HalfDayPeriod = "morning"
	PeriodAfternoon HalfDayPeriod = "afternoon"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

type Request struct {
	ID                string          `json:"id"`
	EmployeeID        string          `json:"employeeId"`
	Category          Category        `json:"category"`
	Status            string          `json:"status"`
	StartDate         time.Time       `json:"startDate"`
	EndDate           time.Time       `json:"endDate"`
	DurationType      DurationType    `json:"durationType"`
	HalfDayPeriod     HalfDayPeriod   `json:"halfDayPeriod,omitempty"`
	StartTime         string          `json:"startTime,omitempty"`
	EndTime           string          `json:"endTime,omitempty"`
	TotalDays         decimal.Decimal `json:"totalDays"`
	Reason            string          `json:"reason"`
	CurrentApproverID string          `json:"currentApproverId,omitempty"`
	ApprovalLevel     int             `json:"approvalLevel"`
	ApproverID        string          `json:"approverId,omitempty"`
	ApproverNote      string          `json:"approverNote,omitempty"`
	Warnings          []string        `json:"warnings,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// Draft carries the caller-supplied fields of a new request. TotalDays is
// always recomputed by the service before anything is persisted.
type Draft struct {
	EmployeeID    string        `json:"employeeId"`
	Category      Category      `json:"category"`
	StartDate     time.Time     `json:"startDate"`
	EndDate       time.Time     `json:"endDate"`
	DurationType  DurationType  `json:"durationType"`
	HalfDayPeriod HalfDayPeriod `json:"halfDayPeriod,omitempty"`
	StartTime     string        `json:"startTime,omitempty"`
	EndTime       string        `json:"endTime,omitempty"`
	Reason        string        `json:"reason"`
}

type CategoryQuota struct {
	Category   Category        `json:"category"`
	TotalQuota decimal.Decimal `json:"totalQuota"`
	Used       decimal.Decimal `json:"used"`
	Pending    decimal.Decimal `json:"pending"`
	Remaining  decimal.Decimal `json:"remaining"`
}

type Balance struct {
	EmployeeID string          `json:"employeeId"`
	Year       int             `json:"year"`
	Quotas     []CategoryQuota `json:"quotas"`
}

func (b Balance) Quota(category Category) (CategoryQuota, bool) {
	for _, q := range b.Quotas {
		if q.Category == category {
			return q, true
		}
	}
	return CategoryQuota{}, false
}

type RequestFilter struct {
	EmployeeID string
	Year       int
	StatusIn   []string
}
