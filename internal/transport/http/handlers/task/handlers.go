package taskhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wfm/internal/domain/auth"
	"wfm/internal/domain/notifications"
	"wfm/internal/domain/task"
	"wfm/internal/requestctx"
	"wfm/internal/transport/http/api"
	"wfm/internal/transport/http/middleware"
	"wfm/internal/transport/http/shared"
)

type Handler struct {
	Tasks    *task.Service
	Notifier *notifications.Service
}

func NewHandler(tasks *task.Service, notifier *notifications.Service) *Handler {
	return &Handler{Tasks: tasks, Notifier: notifier}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTasksWrite)).Post("/", h.HandleCreate)
		r.With(middleware.RequirePermission(auth.PermTasksRead)).Get("/", h.HandleList)
		r.With(middleware.RequirePermission(auth.PermTasksRead)).Get("/{id}", h.HandleGet)
		r.With(middleware.RequirePermission(auth.PermTasksWrite)).Post("/{id}/status", h.HandleUpdateStatus)
		r.With(middleware.RequirePermission(auth.PermTasksAssign)).Post("/{id}/reassign", h.HandleReassign)
		r.With(middleware.RequirePermission(auth.PermTasksWrite)).Post("/recurrences", h.HandleCreateRecurrence)
	})
}

type createTaskPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AssigneeID  string `json:"assigneeId"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

type statusPayload struct {
	Status string `json:"status"`
}

type reassignPayload struct {
	AssigneeID string `json:"assigneeId"`
}

type recurrencePayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AssigneeID  string `json:"assigneeId"`
	Frequency   string `json:"frequency"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	var payload createTaskPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("title", payload.Title, "is required")
	v.Required("assigneeId", payload.AssigneeID, "is required")
	start, startOK := v.Date("startDate", payload.StartDate)
	end, endOK := v.Date("endDate", payload.EndDate)
	if startOK && endOK {
		v.DateOrder("startDate", start, "endDate", end)
	}
	if v.Reject(w, requestID) {
		return
	}

	created, err := h.Tasks.CreateTask(r.Context(), task.Draft{
		Title:       payload.Title,
		Description: payload.Description,
		AssigneeID:  payload.AssigneeID,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		h.writeTaskError(w, err, requestID)
		return
	}

	h.notifyAssignee(r, created, "You were assigned a new task: "+created.Title)
	api.Created(w, created, requestID)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	assigneeID := r.URL.Query().Get("assigneeId")
	// Plain employees only see their own assignments.
	if !hasPermission(user, auth.PermTasksWrite) {
		assigneeID = user.EmployeeID
	}

	page := shared.ParsePagination(r, 50, 200)
	tasks, err := h.Tasks.ListTasks(r.Context(), assigneeID, page.Limit, page.Offset)
	if err != nil {
		h.writeTaskError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"tasks": tasks}, requestID)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	found, err := h.Tasks.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeTaskError(w, err, requestID)
		return
	}
	api.Success(w, found, requestID)
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	var payload statusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	updated, err := h.Tasks.UpdateStatus(r.Context(), chi.URLParam(r, "id"), payload.Status)
	if err != nil {
		h.writeTaskError(w, err, requestID)
		return
	}
	h.notifyAssignee(r, updated, "Task "+updated.Title+" moved to "+updated.Status)
	api.Success(w, updated, requestID)
}

func (h *Handler) HandleReassign(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	var payload reassignPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.AssigneeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "assigneeId is required", requestID)
		return
	}

	updated, err := h.Tasks.Reassign(r.Context(), chi.URLParam(r, "id"), payload.AssigneeID)
	if err != nil {
		h.writeTaskError(w, err, requestID)
		return
	}
	h.notifyAssignee(r, updated, "Task reassigned to you: "+updated.Title)
	api.Success(w, updated, requestID)
}

func (h *Handler) HandleCreateRecurrence(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	var payload recurrencePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("title", payload.Title, "is required")
	v.Required("assigneeId", payload.AssigneeID, "is required")
	v.Required("frequency", payload.Frequency, "is required")
	v.Enum("frequency", payload.Frequency, []string{"daily", "weekly", "monthly"}, "must be daily, weekly or monthly")
	if v.Reject(w, requestID) {
		return
	}

	id, err := h.Tasks.CreateRecurrence(r.Context(), task.Recurrence{
		Title:       payload.Title,
		Description: payload.Description,
		AssigneeID:  payload.AssigneeID,
		Frequency:   payload.Frequency,
	})
	if err != nil {
		h.writeTaskError(w, err, requestID)
		return
	}
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) writeTaskError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, task.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "task not found", requestID)
	case errors.Is(err, task.ErrInvalidRange), errors.Is(err, task.ErrInvalidStatus):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestID)
	case errors.Is(err, task.ErrTerminalTask):
		api.Fail(w, http.StatusConflict, "terminal_task", err.Error(), requestID)
	default:
		slog.Error("task handler failure", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
	}
}

func (h *Handler) notifyAssignee(r *http.Request, t task.Task, body string) {
	if h.Notifier == nil || t.AssigneeID == "" {
		return
	}
	ntype := notifications.TypeTaskAssigned
	if err := h.Notifier.Notify(r.Context(), t.AssigneeID, ntype, "Task update", body); err != nil {
		slog.Warn("task notification failed", "taskId", t.ID, "err", err)
	}
}

func hasPermission(user auth.UserContext, permission string) bool {
	perms, ok := auth.RolePermissions[user.RoleName]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission || p == auth.PermSystemAdmin {
			return true
		}
	}
	return false
}
