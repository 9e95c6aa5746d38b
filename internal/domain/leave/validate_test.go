package leave

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func emptyBalance() Balance {
	return BalanceFor("emp-1", nil, time.Time{}, 2025, date(2025, time.June, 1))
}

func TestValidateCollectsEveryViolation(t *testing.T) {
	now := date(2025, time.June, 1)

	// Vacation with zero tenure: wrong duration type, no quota, too long.
	result := Validate(CategoryVacation, date(2025, time.July, 7), decimal.NewFromInt(6), DurationTimeBased, emptyBalance(), 0, now)
	if result.Valid() {
		t.Fatal("expected validation failure")
	}
	if len(result.Errors) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(result.Errors), result.Errors)
	}

	wants := []string{
		"duration type time_based is not allowed for vacation leave (allowed: full_day, half_day)",
		"insufficient vacation quota: remaining 0, requested 6",
		"vacation leave may not exceed 5 consecutive day(s), requested 6",
	}
	for i, want := range wants {
		if result.Errors[i] != want {
			t.Fatalf("violation %d:\n got %q\nwant %q", i, result.Errors[i], want)
		}
	}
}

func TestValidateBirthdayMonthGate(t *testing.T) {
	now := date(2025, time.June, 1)

	result := Validate(CategoryBirthday, date(2025, time.July, 7), decimal.NewFromInt(1), DurationFullDay, emptyBalance(), 3, now)
	found := false
	for _, msg := range result.Errors {
		if msg == "birthday leave must start in your birth month (March)" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected birth month violation, got %v", result.Errors)
	}

	result = Validate(CategoryBirthday, date(2025, time.March, 10), decimal.NewFromInt(1), DurationFullDay, emptyBalance(), 3, now)
	if !result.Valid() {
		t.Fatalf("start in birth month should pass, got %v", result.Errors)
	}
}

func TestValidateWarningsDoNotBlock(t *testing.T) {
	now := date(2025, time.June, 1)

	// One day of notice where three are expected.
	result := Validate(CategoryPersonal, date(2025, time.June, 2), decimal.NewFromInt(1), DurationFullDay, emptyBalance(), 0, now)
	if !result.Valid() {
		t.Fatalf("short notice must not block, got %v", result.Errors)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "at least 3 day(s) in advance") {
		t.Fatalf("expected notice warning, got %v", result.Warnings)
	}

	result = Validate(CategoryOther, date(2025, time.August, 4), decimal.NewFromInt(1), DurationFullDay, emptyBalance(), 0, now)
	if !result.Valid() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "supporting documentation") {
		t.Fatalf("expected documentation warning, got %v", result.Warnings)
	}
}

func TestValidateSickCertificateWarning(t *testing.T) {
	now := date(2025, time.June, 1)

	result := Validate(CategorySick, date(2025, time.August, 4), decimal.NewFromInt(4), DurationFullDay, emptyBalance(), 0, now)
	if !result.Valid() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "medical certificate") {
		t.Fatalf("expected certificate warning, got %v", result.Warnings)
	}

	result = Validate(CategorySick, date(2025, time.August, 4), decimal.NewFromInt(3), DurationFullDay, emptyBalance(), 0, now)
	if len(result.Warnings) != 0 {
		t.Fatalf("exactly 3 days should not warn, got %v", result.Warnings)
	}
}

func TestValidateUnknownCategory(t *testing.T) {
	result := Validate(Category("sabbatical"), date(2025, time.August, 4), decimal.NewFromInt(1), DurationFullDay, emptyBalance(), 0, date(2025, time.June, 1))
	if result.Valid() {
		t.Fatal("unknown category must fail")
	}
}
