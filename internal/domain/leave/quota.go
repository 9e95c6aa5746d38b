package leave

import "time"

const (
	vacationQuotaCap = 6

	// Tenure is measured in flat 30-day months rather than calendar
	// months. This mirrors the original entitlement rule; it drifts near
	// month boundaries and must not be "fixed" without a product decision.
	tenureMonthDays = 30
)

// QuotaFor returns the yearly entitlement in days for a category.
// tenureStart is only consulted for tenure-derived categories; reference
// anchors the tenure measurement (normally today).
func QuotaFor(category Category, tenureStart time.Time, reference time.Time) int {
	cfg, ok := ConfigFor(category)
	if !ok {
		return 0
	}
	if !cfg.CalculatedByTenure {
		return cfg.QuotaPerYear
	}
	if tenureStart.IsZero() || reference.Before(tenureStart) {
		return 0
	}

	monthsEmployed := int(reference.Sub(tenureStart).Hours() / 24 / tenureMonthDays)
	quota := monthsEmployed / 2
	if quota > vacationQuotaCap {
		quota = vacationQuotaCap
	}
	return quota
}
