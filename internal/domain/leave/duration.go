package leave

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DayMinutes is the working length of one leave day.
	DayMinutes     = 480
	HalfDayMinutes = 240

	// MinLeaveMinutes is the smallest effective duration a time-based
	// request may have after the lunch deduction.
	MinLeaveMinutes = 30

	lunchStartMinute = 12 * 60
	lunchEndMinute   = 13 * 60
)

var (
	ErrEndBeforeStart   = errors.New("end date before start date")
	ErrInvalidClock     = errors.New("invalid clock time, expected HH:MM")
	ErrEndNotAfterStart = errors.New("end time must be after start time")
	ErrWithinLunch      = errors.New("requested window falls entirely within the lunch break")
	ErrMultiDayClock    = errors.New("time_based requests must start and end on the same day")
	ErrBelowMinimum     = fmt.Errorf("effective duration is below the %d minute minimum", MinLeaveMinutes)
)

// CalendarDays returns the inclusive day count between start and end.
func CalendarDays(start, end time.Time) (int, error) {
	startDay := start.Truncate(24 * time.Hour)
	endDay := end.Truncate(24 * time.Hour)
	if endDay.Before(startDay) {
		return 0, ErrEndBeforeStart
	}
	return int(endDay.Sub(startDay).Hours()/24) + 1, nil
}

// MinutesOfAbsence converts a requested absence into effective minutes.
// Full and half days derive from the calendar day count; time-based windows
// are measured on the clock with the 12:00-13:00 lunch overlap deducted.
func MinutesOfAbsence(startDate, endDate time.Time, durationType DurationType, startClock, endClock string) (int, error) {
	days, err := CalendarDays(startDate, endDate)
	if err != nil {
		return 0, err
	}

	switch durationType {
	case DurationFullDay:
		return days * DayMinutes, nil
	case DurationHalfDay:
		return days * HalfDayMinutes, nil
	case DurationTimeBased:
		if days > 1 {
			return 0, ErrMultiDayClock
		}
		return timeBasedMinutes(startClock, endClock)
	default:
		return 0, fmt.Errorf("unknown duration type %q", durationType)
	}
}

func timeBasedMinutes(startClock, endClock string) (int, error) {
	start, err := parseClock(startClock)
	if err != nil {
		return 0, err
	}
	end, err := parseClock(endClock)
	if err != nil {
		return 0, err
	}
	if end <= start {
		return 0, ErrEndNotAfterStart
	}

	effective := (end - start) - lunchOverlap(start, end)
	if effective == 0 {
		return 0, ErrWithinLunch
	}
	if effective < MinLeaveMinutes {
		return effective, ErrBelowMinimum
	}
	return effective, nil
}

// lunchOverlap returns the minutes of [start,end) that fall inside the
// fixed lunch window.
func lunchOverlap(start, end int) int {
	from := max(start, lunchStartMinute)
	to := min(end, lunchEndMinute)
	if to <= from {
		return 0
	}
	return to - from
}

// DaysEquivalent is the canonical day count used by quota and balance math.
func DaysEquivalent(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(DayMinutes))
}

func parseClock(value string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, ErrInvalidClock
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, ErrInvalidClock
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, ErrInvalidClock
	}
	return hour*60 + minute, nil
}
