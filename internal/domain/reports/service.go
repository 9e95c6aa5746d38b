package reports

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"wfm/internal/domain/leave"
	"wfm/internal/domain/org"
)

type CalendarEntry struct {
	RequestID    string    `json:"requestId"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	Category     string    `json:"category"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	TotalDays    string    `json:"totalDays"`
}

type Dashboard struct {
	ActiveEmployees  int `json:"activeEmployees"`
	PendingApprovals int `json:"pendingApprovals"`
	OnLeaveToday     int `json:"onLeaveToday"`
	OpenTasks        int `json:"openTasks"`
}

type BalanceRow struct {
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	Category     string `json:"category"`
	TotalQuota   string `json:"totalQuota"`
	Used         string `json:"used"`
	Pending      string `json:"pending"`
	Remaining    string `json:"remaining"`
}

type BalanceSource interface {
	BalanceForEmployee(ctx context.Context, employeeID string, year int) (leave.Balance, error)
}

type EmployeeLister interface {
	ListEmployees(ctx context.Context, limit, offset int) ([]org.EmployeeProfile, error)
}

type Service struct {
	Store     *Store
	Balances  BalanceSource
	Employees EmployeeLister
}

func NewService(store *Store, balances BalanceSource, employees EmployeeLister) *Service {
	return &Service{Store: store, Balances: balances, Employees: employees}
}

func (s *Service) Dashboard(ctx context.Context, today time.Time) (Dashboard, error) {
	var out Dashboard
	var err error
	if out.ActiveEmployees, err = s.Store.ActiveEmployees(ctx); err != nil {
		return Dashboard{}, err
	}
	if out.PendingApprovals, err = s.Store.PendingApprovals(ctx); err != nil {
		return Dashboard{}, err
	}
	if out.OnLeaveToday, err = s.Store.EmployeesOnLeave(ctx, today); err != nil {
		return Dashboard{}, err
	}
	if out.OpenTasks, err = s.Store.OpenTasks(ctx); err != nil {
		return Dashboard{}, err
	}
	return out, nil
}

func (s *Service) LeaveCalendar(ctx context.Context, start, end time.Time) ([]CalendarEntry, error) {
	return s.Store.ApprovedLeaveInRange(ctx, start, end)
}

// BalanceSummary recomputes every active employee's balance for the year.
// One row per employee and category.
func (s *Service) BalanceSummary(ctx context.Context, year int) ([]BalanceRow, error) {
	employees, err := s.Employees.ListEmployees(ctx, 1000, 0)
	if err != nil {
		return nil, fmt.Errorf("employee scan failed: %w", err)
	}

	var rows []BalanceRow
	for _, emp := range employees {
		if emp.Status != "active" {
			continue
		}
		balance, err := s.Balances.BalanceForEmployee(ctx, emp.ID, year)
		if err != nil {
			return nil, fmt.Errorf("balance for %s failed: %w", emp.ID, err)
		}
		name := emp.FirstName + " " + emp.LastName
		for _, q := range balance.Quotas {
			rows = append(rows, BalanceRow{
				EmployeeID:   emp.ID,
				EmployeeName: name,
				Category:     string(q.Category),
				TotalQuota:   q.TotalQuota.String(),
				Used:         q.Used.String(),
				Pending:      q.Pending.String(),
				Remaining:    q.Remaining.String(),
			})
		}
	}
	return rows, nil
}

func (s *Service) WriteCalendarCSV(w io.Writer, entries []CalendarEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"request_id", "employee_id", "employee", "category", "start_date", "end_date", "total_days"}); err != nil {
		return err
	}
	for _, entry := range entries {
		record := []string{
			entry.RequestID, entry.EmployeeID, entry.EmployeeName, entry.Category,
			entry.StartDate.Format("2006-01-02"), entry.EndDate.Format("2006-01-02"), entry.TotalDays,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *Service) WriteBalanceCSV(w io.Writer, rows []BalanceRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"employee_id", "employee", "category", "quota", "used", "pending", "remaining"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write([]string{row.EmployeeID, row.EmployeeName, row.Category, row.TotalQuota, row.Used, row.Pending, row.Remaining}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *Service) WriteBalancePDF(w io.Writer, year int, rows []BalanceRow) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Leave Balances %d", year))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 10)
	widths := []float64{60, 28, 25, 25, 25, 25}
	headers := []string{"Employee", "Category", "Quota", "Used", "Pending", "Remaining"}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		cells := []string{row.EmployeeName, row.Category, row.TotalQuota, row.Used, row.Pending, row.Remaining}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, c, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
	return pdf.Output(w)
}
