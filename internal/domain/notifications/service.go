package notifications

import (
	"context"
	"log/slog"
	"time"
)

type Notification struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Service struct {
	store       StoreAPI
	Mailer      Mailer
	EmailFrom   string
	EmailActive bool
}

func New(store StoreAPI, mailer Mailer, emailFrom string) *Service {
	return &Service{
		store:       store,
		Mailer:      mailer,
		EmailFrom:   emailFrom,
		EmailActive: mailer != nil && emailFrom != "",
	}
}

// Notify records an in-app notification and, when email delivery is
// configured, mirrors it to the user's inbox. Email failures are logged and
// swallowed; the in-app record is the source of truth.
func (s *Service) Notify(ctx context.Context, employeeID, ntype, title, body string) error {
	if err := s.store.CreateNotification(ctx, employeeID, ntype, title, body); err != nil {
		return err
	}
	if !s.EmailActive {
		return nil
	}

	email, err := s.store.UserEmail(ctx, employeeID)
	if err != nil {
		slog.Warn("notification email lookup failed", "err", err)
		return nil
	}
	if email == "" {
		return nil
	}
	if err := s.Mailer.Send(ctx, s.EmailFrom, email, title, body); err != nil {
		slog.Warn("notification email send failed", "err", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, employeeID string, limit, offset int) ([]Notification, error) {
	return s.store.ListNotifications(ctx, employeeID, limit, offset)
}

func (s *Service) CountUnread(ctx context.Context, employeeID string) (int, error) {
	return s.store.CountUnread(ctx, employeeID)
}

func (s *Service) MarkRead(ctx context.Context, employeeID, notificationID string) error {
	return s.store.MarkRead(ctx, employeeID, notificationID)
}

func (s *Service) MarkAllRead(ctx context.Context, employeeID string) error {
	return s.store.MarkAllRead(ctx, employeeID)
}
