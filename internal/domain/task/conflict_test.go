package task

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2025, time.July, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlapsInclusiveBounds(t *testing.T) {
	tk := Task{StartDate: day(10), EndDate: day(12)}

	cases := []struct {
		start, end time.Time
		want       bool
	}{
		{day(1), day(9), false},
		{day(1), day(10), true},  // touching the task start conflicts
		{day(12), day(20), true}, // touching the task end conflicts
		{day(11), day(11), true},
		{day(13), day(20), false},
		{day(1), day(20), true},
	}
	for i, tc := range cases {
		if got := tk.Overlaps(tc.start, tc.end); got != tc.want {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, got)
		}
	}
}

func TestCheckConflictsIgnoresTerminal(t *testing.T) {
	candidates := []Task{
		{ID: "t-1", Status: StatusOpen, StartDate: day(10), EndDate: day(12)},
		{ID: "t-2", Status: StatusInProgress, StartDate: day(11), EndDate: day(11)},
		{ID: "t-3", Status: StatusDone, StartDate: day(10), EndDate: day(12)},
		{ID: "t-4", Status: StatusCancelled, StartDate: day(10), EndDate: day(12)},
		{ID: "t-5", Status: StatusOpen, StartDate: day(20), EndDate: day(22)},
	}

	check := CheckConflicts(candidates, day(10), day(12))
	if !check.HasConflicts {
		t.Fatal("expected conflicts")
	}
	if len(check.Tasks) != 2 {
		t.Fatalf("expected 2 conflicting tasks, got %d", len(check.Tasks))
	}
	for _, tk := range check.Tasks {
		if tk.ID != "t-1" && tk.ID != "t-2" {
			t.Fatalf("unexpected conflicting task %s", tk.ID)
		}
	}
}

func TestCheckConflictsEmpty(t *testing.T) {
	check := CheckConflicts(nil, day(1), day(2))
	if check.HasConflicts || len(check.Tasks) != 0 {
		t.Fatalf("expected no conflicts, got %+v", check)
	}
}

func TestTerminal(t *testing.T) {
	if Terminal(StatusOpen) || Terminal(StatusInProgress) {
		t.Fatal("open statuses are not terminal")
	}
	if !Terminal(StatusDone) || !Terminal(StatusCancelled) {
		t.Fatal("done and cancelled are terminal")
	}
}
