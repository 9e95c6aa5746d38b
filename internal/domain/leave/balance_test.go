package leave

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestBalanceForAggregation(t *testing.T) {
	reference := date(2025, time.June, 1)
	requests := []Request{
		{Category: CategorySick, Status: StatusApproved, StartDate: date(2025, time.February, 3), TotalDays: decimal.NewFromInt(2)},
		{Category: CategorySick, Status: StatusPending, StartDate: date(2025, time.July, 14), TotalDays: decimal.NewFromInt(1)},
		{Category: CategorySick, Status: StatusRejected, StartDate: date(2025, time.March, 1), TotalDays: decimal.NewFromInt(5)},
		{Category: CategorySick, Status: StatusCancelled, StartDate: date(2025, time.April, 1), TotalDays: decimal.NewFromInt(5)},
		{Category: CategorySick, Status: StatusApproved, StartDate: date(2024, time.November, 4), TotalDays: decimal.NewFromInt(4)},
	}

	balance := BalanceFor("emp-1", requests, time.Time{}, 2025, reference)
	quota, ok := balance.Quota(CategorySick)
	if !ok {
		t.Fatal("sick quota missing from balance")
	}
	if quota.Used.String() != "2" {
		t.Fatalf("expected used 2, got %s", quota.Used)
	}
	if quota.Pending.String() != "1" {
		t.Fatalf("expected pending 1, got %s", quota.Pending)
	}
	if quota.Remaining.String() != "27" {
		t.Fatalf("expected remaining 27, got %s", quota.Remaining)
	}
}

func TestBalanceForRemainingClampedAtZero(t *testing.T) {
	reference := date(2025, time.June, 1)
	tenureStart := reference.AddDate(0, 0, -150) // quota 2

	requests := []Request{
		{Category: CategoryVacation, Status: StatusApproved, StartDate: date(2025, time.May, 5), TotalDays: decimal.NewFromInt(3)},
	}

	balance := BalanceFor("emp-1", requests, tenureStart, 2025, reference)
	quota, ok := balance.Quota(CategoryVacation)
	if !ok {
		t.Fatal("vacation quota missing from balance")
	}
	if quota.TotalQuota.String() != "2" {
		t.Fatalf("expected total quota 2, got %s", quota.TotalQuota)
	}
	if !quota.Remaining.IsZero() {
		t.Fatalf("overdrawn remaining should clamp to zero, got %s", quota.Remaining)
	}
}

func TestBalanceForCoversEveryCategory(t *testing.T) {
	balance := BalanceFor("emp-1", nil, time.Time{}, 2025, date(2025, time.June, 1))
	if len(balance.Quotas) != len(Categories()) {
		t.Fatalf("expected %d quota rows, got %d", len(Categories()), len(balance.Quotas))
	}
}
