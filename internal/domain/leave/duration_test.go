package leave

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalendarDaysInclusive(t *testing.T) {
	days, err := CalendarDays(date(2025, time.March, 10), date(2025, time.March, 12))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 3 {
		t.Fatalf("expected 3 days, got %d", days)
	}

	days, err = CalendarDays(date(2025, time.March, 10), date(2025, time.March, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 1 {
		t.Fatalf("single-day range should count 1, got %d", days)
	}

	if _, err := CalendarDays(date(2025, time.March, 12), date(2025, time.March, 10)); !errors.Is(err, ErrEndBeforeStart) {
		t.Fatalf("expected ErrEndBeforeStart, got %v", err)
	}
}

func TestMinutesOfAbsenceFullAndHalfDays(t *testing.T) {
	minutes, err := MinutesOfAbsence(date(2025, time.March, 10), date(2025, time.March, 10), DurationFullDay, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != DayMinutes {
		t.Fatalf("one full day should be %d minutes, got %d", DayMinutes, minutes)
	}

	minutes, err = MinutesOfAbsence(date(2025, time.March, 10), date(2025, time.March, 12), DurationHalfDay, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 3*HalfDayMinutes {
		t.Fatalf("three half days should be %d minutes, got %d", 3*HalfDayMinutes, minutes)
	}

	if got := DaysEquivalent(3 * HalfDayMinutes).String(); got != "1.5" {
		t.Fatalf("expected 1.5 day equivalent, got %s", got)
	}
}

func TestTimeBasedLunchDeduction(t *testing.T) {
	day := date(2025, time.March, 10)

	// Two clock hours spanning lunch collapse to one effective hour.
	minutes, err := MinutesOfAbsence(day, day, DurationTimeBased, "11:30", "13:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 60 {
		t.Fatalf("expected 60 effective minutes, got %d", minutes)
	}
	if got := DaysEquivalent(minutes).String(); got != "0.125" {
		t.Fatalf("expected 0.125 day equivalent, got %s", got)
	}

	// No lunch overlap outside the window.
	minutes, err = MinutesOfAbsence(day, day, DurationTimeBased, "09:00", "10:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 60 {
		t.Fatalf("expected 60 minutes, got %d", minutes)
	}
}

func TestTimeBasedRejections(t *testing.T) {
	day := date(2025, time.March, 10)

	if _, err := MinutesOfAbsence(day, day, DurationTimeBased, "12:10", "12:50"); !errors.Is(err, ErrWithinLunch) {
		t.Fatalf("window inside lunch should fail, got %v", err)
	}
	if _, err := MinutesOfAbsence(day, day, DurationTimeBased, "09:00", "09:20"); !errors.Is(err, ErrBelowMinimum) {
		t.Fatalf("20 minute window should be below minimum, got %v", err)
	}
	if _, err := MinutesOfAbsence(day, day, DurationTimeBased, "10:00", "10:00"); !errors.Is(err, ErrEndNotAfterStart) {
		t.Fatalf("zero-length window should fail, got %v", err)
	}
	if _, err := MinutesOfAbsence(day, day, DurationTimeBased, "25:00", "26:00"); !errors.Is(err, ErrInvalidClock) {
		t.Fatalf("bad clock should fail, got %v", err)
	}
	if _, err := MinutesOfAbsence(day, day, DurationType("weekly"), "", ""); err == nil {
		t.Fatal("unknown duration type should fail")
	}
}

func TestTimeBasedSingleDayOnly(t *testing.T) {
	start := date(2025, time.March, 10)
	end := date(2025, time.March, 14)

	// A clock window describes one day; it must not stretch over a range.
	if _, err := MinutesOfAbsence(start, end, DurationTimeBased, "09:00", "17:00"); !errors.Is(err, ErrMultiDayClock) {
		t.Fatalf("multi-day clock window should fail, got %v", err)
	}

	minutes, err := MinutesOfAbsence(start, start, DurationTimeBased, "09:00", "11:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 120 {
		t.Fatalf("expected 120 minutes, got %d", minutes)
	}
}
