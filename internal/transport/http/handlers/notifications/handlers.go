package notificationhandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wfm/internal/domain/notifications"
	"wfm/internal/requestctx"
	"wfm/internal/transport/http/api"
	"wfm/internal/transport/http/middleware"
	"wfm/internal/transport/http/shared"
)

type Handler struct {
	Notifications *notifications.Service
}

func NewHandler(svc *notifications.Service) *Handler {
	return &Handler{Notifications: svc}
}

// Any authenticated employee may read their own notifications; no extra
// permission gate.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/{id}/read", h.HandleMarkRead)
		r.Post("/read-all", h.HandleMarkAllRead)
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok || user.EmployeeID == "" {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	items, err := h.Notifications.List(r.Context(), user.EmployeeID, page.Limit, page.Offset)
	if err != nil {
		slog.Error("notification list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
		return
	}
	unread, err := h.Notifications.CountUnread(r.Context(), user.EmployeeID)
	if err != nil {
		slog.Warn("notification unread count failed", "err", err)
	}
	api.Success(w, map[string]any{"notifications": items, "unread": unread}, requestID)
}

func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok || user.EmployeeID == "" {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	if err := h.Notifications.MarkRead(r.Context(), user.EmployeeID, chi.URLParam(r, "id")); err != nil {
		slog.Error("notification mark read failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
		return
	}
	api.Success(w, map[string]string{"status": "read"}, requestID)
}

func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok || user.EmployeeID == "" {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	if err := h.Notifications.MarkAllRead(r.Context(), user.EmployeeID); err != nil {
		slog.Error("notification mark all read failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
		return
	}
	api.Success(w, map[string]string{"status": "read"}, requestID)
}
