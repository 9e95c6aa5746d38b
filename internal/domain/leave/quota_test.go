package leave

import (
	"testing"
	"time"
)

func TestQuotaForFixedCategories(t *testing.T) {
	reference := date(2025, time.June, 1)
	cases := []struct {
		category Category
		want     int
	}{
		{CategorySick, 30},
		{CategoryPersonal, 6},
		{CategoryBirthday, 1},
		{CategoryOther, 3},
	}
	for _, tc := range cases {
		if got := QuotaFor(tc.category, time.Time{}, reference); got != tc.want {
			t.Fatalf("quota for %s: expected %d, got %d", tc.category, tc.want, got)
		}
	}
	if got := QuotaFor(Category("sabbatical"), time.Time{}, reference); got != 0 {
		t.Fatalf("unknown category should have zero quota, got %d", got)
	}
}

func TestQuotaForVacationAccrual(t *testing.T) {
	reference := date(2025, time.June, 1)

	// 150 days is five 30-day months, earning half a day per month.
	start := reference.AddDate(0, 0, -150)
	if got := QuotaFor(CategoryVacation, start, reference); got != 2 {
		t.Fatalf("five months tenure: expected 2, got %d", got)
	}

	// 390 days is thirteen months; 13/2 = 6 hits the cap exactly.
	start = reference.AddDate(0, 0, -390)
	if got := QuotaFor(CategoryVacation, start, reference); got != 6 {
		t.Fatalf("thirteen months tenure: expected 6, got %d", got)
	}

	// Long tenure never exceeds the cap.
	start = reference.AddDate(-10, 0, 0)
	if got := QuotaFor(CategoryVacation, start, reference); got != 6 {
		t.Fatalf("ten years tenure: expected cap of 6, got %d", got)
	}
}

func TestQuotaForVacationNoTenure(t *testing.T) {
	reference := date(2025, time.June, 1)

	if got := QuotaFor(CategoryVacation, time.Time{}, reference); got != 0 {
		t.Fatalf("missing start date: expected 0, got %d", got)
	}
	if got := QuotaFor(CategoryVacation, reference.AddDate(0, 0, 10), reference); got != 0 {
		t.Fatalf("future start date: expected 0, got %d", got)
	}
	if got := QuotaFor(CategoryVacation, reference.AddDate(0, 0, -20), reference); got != 0 {
		t.Fatalf("under one month tenure: expected 0, got %d", got)
	}
}
