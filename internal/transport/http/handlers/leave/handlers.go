package leavehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"wfm/internal/domain/audit"
	"wfm/internal/domain/auth"
	"wfm/internal/domain/leave"
	"wfm/internal/domain/notifications"
	"wfm/internal/requestctx"
	"wfm/internal/transport/http/api"
	"wfm/internal/transport/http/middleware"
	"wfm/internal/transport/http/shared"
)

type Handler struct {
	Leave    *leave.Service
	Notifier *notifications.Service
	Audit    *audit.Service
}

func NewHandler(leaveSvc *leave.Service, notifier *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Leave: leaveSvc, Notifier: notifier, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveWrite)).Post("/requests", h.HandleCreateRequest)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/requests", h.HandleListRequests)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/requests/{id}", h.HandleGetRequest)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove)).Post("/requests/{id}/approve", h.HandleApprove)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove)).Post("/requests/{id}/reject", h.HandleReject)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite)).Post("/requests/{id}/cancel", h.HandleCancel)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/balance", h.HandleBalance)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/conflicts", h.HandleConflictPreview)
	})
}

type createRequestPayload struct {
	EmployeeID    string `json:"employeeId"`
	Category      string `json:"category"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	DurationType  string `json:"durationType"`
	HalfDayPeriod string `json:"halfDayPeriod"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	Reason        string `json:"reason"`
}

type decisionPayload struct {
	Note string `json:"note"`
}

func (h *Handler) HandleCreateRequest(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok || user.EmployeeID == "" {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload createRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("category", payload.Category, "is required")
	v.Enum("category", payload.Category, []string{"sick", "personal", "vacation", "birthday", "other"}, "unknown leave category")
	v.Required("durationType", payload.DurationType, "is required")
	v.Enum("durationType", payload.DurationType, []string{"full_day", "half_day", "time_based"}, "unknown duration type")
	v.Enum("halfDayPeriod", payload.HalfDayPeriod, []string{"morning", "afternoon"}, "must be morning or afternoon")
	start, startOK := v.Date("startDate", payload.StartDate)
	end, endOK := v.Date("endDate", payload.EndDate)
	if startOK && endOK {
		v.DateOrder("startDate", start, "endDate", end)
	}
	if v.Reject(w, requestID) {
		return
	}

	// Submitting on behalf of someone else takes the approve permission.
	employeeID := user.EmployeeID
	if payload.EmployeeID != "" && payload.EmployeeID != user.EmployeeID {
		if !hasPermission(user, auth.PermLeaveApprove) {
			api.Fail(w, http.StatusForbidden, "forbidden", "cannot submit leave for another employee", requestID)
			return
		}
		employeeID = payload.EmployeeID
	}

	result, err := h.Leave.CreateRequest(r.Context(), leave.Draft{
		EmployeeID:    employeeID,
		Category:      leave.Category(strings.ToLower(payload.Category)),
		StartDate:     start,
		EndDate:       end,
		DurationType:  leave.DurationType(strings.ToLower(payload.DurationType)),
		HalfDayPeriod: leave.HalfDayPeriod(strings.ToLower(payload.HalfDayPeriod)),
		StartTime:     payload.StartTime,
		EndTime:       payload.EndTime,
		Reason:        payload.Reason,
	})
	if err != nil {
		h.writeLeaveError(w, err, requestID)
		return
	}

	h.recordAudit(r, user, "leave.request.created", result.Request.ID, nil, result.Request)
	h.notifyApprover(r, result)
	api.Created(w, result, requestID)
}

func (h *Handler) HandleListRequests(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok || user.EmployeeID == "" {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	year := parseYear(r, time.Now().Year())
	requests, err := h.Leave.VisibleRequests(r.Context(), user.EmployeeID, year)
	if err != nil {
		h.writeLeaveError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"requests": requests, "year": year}, requestID)
}

func (h *Handler) HandleGetRequest(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	req, err := h.Leave.GetRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeLeaveError(w, err, requestID)
		return
	}
	api.Success(w, req, requestID)
}

func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, "approve")
}

func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, "reject")
}

func (h *Handler) handleDecision(w http.ResponseWriter, r *http.Request, action string) {
	requestID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok || user.EmployeeID == "" {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload decisionPayload
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	actor := leave.Actor{EmployeeID: user.EmployeeID, Role: user.RoleName}
	id := chi.URLParam(r, "id")

	var result leave.TransitionResult
	var err error
	if action == "approve" {
		result, err = h.Leave.Approve(r.Context(), id, actor, payload.Note)
	} else {
		result, err = h.Leave.Reject(r.Context(), id, actor, payload.Note)
	}
	if err != nil {
		h.writeLeaveError(w, err, requestID)
		return
	}

	h.recordAudit(r, user, "leave.request."+pastTense(action), result.Request.ID, nil, result.Request)
	h.notifyOwner(r, result, action)
	api.Success(w, result, requestID)
}

func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok || user.EmployeeID == "" {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	result, err := h.Leave.Cancel(r.Context(), chi.URLParam(r, "id"), leave.Actor{EmployeeID: user.EmployeeID, Role: user.RoleName})
	if err != nil {
		h.writeLeaveError(w, err, requestID)
		return
	}

	h.recordAudit(r, user, "leave.request.cancelled", result.Request.ID, nil, result.Request)
	api.Success(w, result, requestID)
}

func (h *Handler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok || user.EmployeeID == "" {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	employeeID := user.EmployeeID
	if requested := r.URL.Query().Get("employeeId"); requested != "" && requested != user.EmployeeID {
		if !hasPermission(user, auth.PermLeaveApprove) {
			api.Fail(w, http.StatusForbidden, "forbidden", "cannot view another employee's balance", requestID)
			return
		}
		employeeID = requested
	}

	year := parseYear(r, time.Now().Year())
	balance, err := h.Leave.BalanceForEmployee(r.Context(), employeeID, year)
	if err != nil {
		h.writeLeaveError(w, err, requestID)
		return
	}
	api.Success(w, balance, requestID)
}

func (h *Handler) HandleConflictPreview(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok || user.EmployeeID == "" {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	v := shared.NewValidator()
	start, _ := v.Date("start", r.URL.Query().Get("start"))
	end, _ := v.Date("end", r.URL.Query().Get("end"))
	v.DateOrder("start", start, "end", end)
	if v.Reject(w, requestID) {
		return
	}

	employeeID := user.EmployeeID
	if requested := r.URL.Query().Get("employeeId"); requested != "" && requested != user.EmployeeID {
		if !hasPermission(user, auth.PermLeaveApprove) {
			api.Fail(w, http.StatusForbidden, "forbidden", "cannot preview another employee's conflicts", requestID)
			return
		}
		employeeID = requested
	}

	conflicts, err := h.Leave.ConflictPreview(r.Context(), employeeID, start, end)
	if err != nil {
		h.writeLeaveError(w, err, requestID)
		return
	}
	api.Success(w, conflicts, requestID)
}

func (h *Handler) writeLeaveError(w http.ResponseWriter, err error, requestID string) {
	var validationErr *leave.ValidationError
	var conflictErr *leave.ConflictError
	var transitionErr *leave.InvalidTransitionError

	switch {
	case errors.As(err, &validationErr):
		api.FailDetailed(w, http.StatusBadRequest, "validation_error", "leave request validation failed", validationErr.Violations, requestID)
	case errors.As(err, &conflictErr):
		api.FailDetailed(w, http.StatusConflict, "task_conflict", conflictErr.Error(), taskTitles(conflictErr), requestID)
	case errors.As(err, &transitionErr):
		api.Fail(w, http.StatusConflict, "invalid_transition", transitionErr.Error(), requestID)
	case errors.Is(err, leave.ErrStaleState):
		api.Fail(w, http.StatusConflict, "stale_state", "request was already transitioned by another caller", requestID)
	case errors.Is(err, leave.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed to perform this action", requestID)
	case errors.Is(err, leave.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", requestID)
	default:
		slog.Error("leave handler failure", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
	}
}

func (h *Handler) notifyApprover(r *http.Request, result leave.CreateResult) {
	if h.Notifier == nil {
		return
	}
	req := result.Request
	if result.Unroutable {
		if err := h.Notifier.Notify(r.Context(), req.EmployeeID, notifications.TypeLeaveUnroutable,
			"Leave request needs manual routing",
			"No approver could be resolved for your "+string(req.Category)+" leave request."); err != nil {
			slog.Warn("unroutable notification failed", "requestId", req.ID, "err", err)
		}
		return
	}
	if req.CurrentApproverID == "" {
		return
	}
	if err := h.Notifier.Notify(r.Context(), req.CurrentApproverID, notifications.TypeLeaveSubmitted,
		"Leave request awaiting your approval",
		result.RequesterName+" requested "+req.TotalDays.String()+" day(s) of "+string(req.Category)+" leave."); err != nil {
		slog.Warn("submit notification failed", "requestId", req.ID, "err", err)
	}
}

func (h *Handler) notifyOwner(r *http.Request, result leave.TransitionResult, action string) {
	if h.Notifier == nil {
		return
	}
	ntype := notifications.TypeLeaveApproved
	title := "Leave request approved"
	if action == "reject" {
		ntype = notifications.TypeLeaveRejected
		title = "Leave request rejected"
	}
	body := "Your " + string(result.Request.Category) + " leave request was " + pastTense(action) + "."
	if result.Request.ApproverNote != "" {
		body += " Note: " + result.Request.ApproverNote
	}
	if err := h.Notifier.Notify(r.Context(), result.Request.EmployeeID, ntype, title, body); err != nil {
		slog.Warn("decision notification failed", "requestId", result.Request.ID, "err", err)
	}
}

func (h *Handler) recordAudit(r *http.Request, user auth.UserContext, action, entityID string, before, after any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, action, "leave_request", entityID,
		requestctx.GetRequestID(r.Context()), r.RemoteAddr, before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func pastTense(action string) string {
	if action == "approve" {
		return "approved"
	}
	return "rejected"
}

func taskTitles(err *leave.ConflictError) []string {
	titles := make([]string, 0, len(err.Tasks))
	for _, t := range err.Tasks {
		titles = append(titles, t.Title+" ("+t.StartDate.Format("2006-01-02")+" to "+t.EndDate.Format("2006-01-02")+")")
	}
	return titles
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

func parseYear(r *http.Request, fallback int) int {
	if raw := r.URL.Query().Get("year"); raw != "" {
		if year, err := strconv.Atoi(raw); err == nil && year > 1900 {
			return year
		}
	}
	return fallback
}
