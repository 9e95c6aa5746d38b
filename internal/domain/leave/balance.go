package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceFor folds an employee's requests into per-category used/pending/
// remaining figures for one year. Requests are attributed to the year of
// their start date; rejected and cancelled requests contribute nothing.
//
// The balance is derived on every call rather than stored, so a request
// created or transitioned a moment ago is reflected in the very next read.
func BalanceFor(employeeID string, requests []Request, tenureStart time.Time, year int, reference time.Time) Balance {
	balance := Balance{EmployeeID: employeeID, Year: year}

	for _, category := range Categories() {
		quota := CategoryQuota{
			Category:   category,
			TotalQuota: decimal.NewFromInt(int64(QuotaFor(category, tenureStart, reference))),
			Used:       decimal.Zero,
			Pending:    decimal.Zero,
		}

		for _, req := range requests {
			if req.Category != category || req.StartDate.Year() != year {
				continue
			}
			switch req.Status {
			case StatusApproved:
				quota.Used = quota.Used.Add(req.TotalDays)
			case StatusPending:
				quota.Pending = quota.Pending.Add(req.TotalDays)
			}
		}

		quota.Remaining = quota.TotalQuota.Sub(quota.Used).Sub(quota.Pending)
		if quota.Remaining.IsNegative() {
			quota.Remaining = decimal.Zero
		}
		balance.Quotas = append(balance.Quotas, quota)
	}

	return balance
}
