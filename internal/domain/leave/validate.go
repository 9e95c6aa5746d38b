package leave

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ValidationResult collects every violated rule and every advisory warning.
// Warnings never block creation; they are persisted with the request so the
// approver sees them.
type ValidationResult struct {
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

var sickCertificateThreshold = decimal.NewFromInt(3)

// Validate checks a proposed request against the category rules and the
// employee's current balance. All rules run; nothing short-circuits.
func Validate(category Category, startDate time.Time, totalDays decimal.Decimal, durationType DurationType, balance Balance, birthMonth int, now time.Time) ValidationResult {
	var result ValidationResult

	cfg, ok := ConfigFor(category)
	if !ok {
		result.errorf("unknown leave category %q", category)
		return result
	}

	if !cfg.AllowsDuration(durationType) {
		allowed := make([]string, 0, len(cfg.AllowedDurationTypes))
		for _, dt := range cfg.AllowedDurationTypes {
			allowed = append(allowed, string(dt))
		}
		result.errorf("duration type %s is not allowed for %s leave (allowed: %s)", durationType, category, strings.Join(allowed, ", "))
	}

	if quota, found := balance.Quota(category); found {
		if totalDays.GreaterThan(quota.Remaining) {
			result.errorf("insufficient %s quota: remaining %s, requested %s", category, quota.Remaining.String(), totalDays.String())
		}
	}

	if cfg.MaxConsecutiveDays > 0 && totalDays.GreaterThan(decimal.NewFromInt(int64(cfg.MaxConsecutiveDays))) {
		result.errorf("%s leave may not exceed %d consecutive day(s), requested %s", category, cfg.MaxConsecutiveDays, totalDays.String())
	}

	if cfg.BirthdayGated && birthMonth >= 1 && int(startDate.Month()) != birthMonth {
		result.errorf("birthday leave must start in your birth month (%s)", time.Month(birthMonth))
	}

	if cfg.MinDaysNotice > 0 {
		notice := int(startDate.Truncate(24*time.Hour).Sub(now.Truncate(24*time.Hour)).Hours() / 24)
		if notice < cfg.MinDaysNotice {
			result.warnf("%s leave should be requested at least %d day(s) in advance", category, cfg.MinDaysNotice)
		}
	}

	if cfg.RequiresDocumentation {
		result.warnf("%s leave requires supporting documentation", category)
	}

	if category == CategorySick && totalDays.GreaterThan(sickCertificateThreshold) {
		result.warnf("sick leave over %s days requires a medical certificate", sickCertificateThreshold.String())
	}

	return result
}
