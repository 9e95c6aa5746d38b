package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var (
	ErrInvalidRange  = errors.New("task end date before start date")
	ErrInvalidStatus = errors.New("unknown task status")
	ErrTerminalTask  = errors.New("task is in a terminal status")
)

type StoreAPI interface {
	FindOverlappingTasks(ctx context.Context, employeeID string, start, end time.Time) ([]Task, error)
	GetTask(ctx context.Context, id string) (Task, error)
	ListTasks(ctx context.Context, assigneeID string, limit, offset int) ([]Task, error)
	CreateTask(ctx context.Context, t Task) (Task, error)
	UpdateTaskStatus(ctx context.Context, id, status string) (Task, error)
	ReassignTask(ctx context.Context, id, assigneeID string) (Task, error)
	ListActiveRecurrences(ctx context.Context) ([]Recurrence, error)
	CreateRecurrence(ctx context.Context, r Recurrence) (string, error)
	MarkRecurrenceRun(ctx context.Context, id string, runDate time.Time) error
}

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

type Draft struct {
	Title       string
	Description string
	AssigneeID  string
	StartDate   time.Time
	EndDate     time.Time
}

func (s *Service) CreateTask(ctx context.Context, draft Draft) (Task, error) {
	if draft.EndDate.Before(draft.StartDate) {
		return Task{}, ErrInvalidRange
	}
	return s.Store.CreateTask(ctx, Task{
		Title:       draft.Title,
		Description: draft.Description,
		AssigneeID:  draft.AssigneeID,
		Status:      StatusOpen,
		StartDate:   draft.StartDate,
		EndDate:     draft.EndDate,
	})
}

func (s *Service) GetTask(ctx context.Context, id string) (Task, error) {
	return s.Store.GetTask(ctx, id)
}

func (s *Service) ListTasks(ctx context.Context, assigneeID string, limit, offset int) ([]Task, error) {
	return s.Store.ListTasks(ctx, assigneeID, limit, offset)
}

// UpdateStatus moves a task to a new status. Terminal tasks are frozen.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (Task, error) {
	switch status {
	case StatusOpen, StatusInProgress, StatusDone, StatusCancelled:
	default:
		return Task{}, ErrInvalidStatus
	}
	current, err := s.Store.GetTask(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if Terminal(current.Status) {
		return Task{}, ErrTerminalTask
	}
	return s.Store.UpdateTaskStatus(ctx, id, status)
}

func (s *Service) Reassign(ctx context.Context, id, assigneeID string) (Task, error) {
	current, err := s.Store.GetTask(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if Terminal(current.Status) {
		return Task{}, ErrTerminalTask
	}
	return s.Store.ReassignTask(ctx, id, assigneeID)
}

func (s *Service) CreateRecurrence(ctx context.Context, r Recurrence) (string, error) {
	switch r.Frequency {
	case "daily", "weekly", "monthly":
	default:
		return "", fmt.Errorf("unknown recurrence frequency %q", r.Frequency)
	}
	r.Active = true
	if r.LastRunDate.IsZero() {
		r.LastRunDate = time.Now().UTC().Truncate(24 * time.Hour)
	}
	return s.Store.CreateRecurrence(ctx, r)
}

// GenerateRecurringTasks expands every active recurrence up to the given day.
// Each occurrence becomes a one-day open task; failures on one rule do not
// stop the others. Returns how many tasks were created.
func (s *Service) GenerateRecurringTasks(ctx context.Context, upTo time.Time) (int, error) {
	rules, err := s.Store.ListActiveRecurrences(ctx)
	if err != nil {
		return 0, fmt.Errorf("list recurrences failed: %w", err)
	}

	created := 0
	for _, rule := range rules {
		day := rule.LastRunDate
		for {
			next := rule.NextAfter(day)
			if next.IsZero() || next.After(upTo) {
				break
			}
			_, err := s.Store.CreateTask(ctx, Task{
				Title:        rule.Title,
				Description:  rule.Description,
				AssigneeID:   rule.AssigneeID,
				Status:       StatusOpen,
				StartDate:    next,
				EndDate:      next,
				RecurrenceID: rule.ID,
			})
			if err != nil {
				slog.Warn("recurring task creation failed", "recurrence_id", rule.ID, "error", err)
				break
			}
			created++
			day = next
		}
		if day.After(rule.LastRunDate) {
			if err := s.Store.MarkRecurrenceRun(ctx, rule.ID, day); err != nil {
				slog.Warn("recurrence bookmark update failed", "recurrence_id", rule.ID, "error", err)
			}
		}
	}
	return created, nil
}
