package orghandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"wfm/internal/domain/auth"
	"wfm/internal/domain/org"
	"wfm/internal/requestctx"
	"wfm/internal/transport/http/api"
	"wfm/internal/transport/http/middleware"
	"wfm/internal/transport/http/shared"
)

type Handler struct {
	Store *org.Store
	Auth  *auth.Service
}

func NewHandler(store *org.Store, authSvc *auth.Service) *Handler {
	return &Handler{Store: store, Auth: authSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/org", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead)).Get("/employees", h.HandleListEmployees)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead)).Get("/employees/{id}", h.HandleGetEmployee)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite)).Post("/employees", h.HandleCreateEmployee)
		r.With(middleware.RequirePermission(auth.PermOrgRead)).Get("/departments", h.HandleListDepartments)
		r.With(middleware.RequirePermission(auth.PermOrgRead)).Get("/sub-units", h.HandleListSubUnits)
	})
}

type createEmployeePayload struct {
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	Email               string `json:"email"`
	Password            string `json:"password"`
	Role                string `json:"role"`
	EmploymentStartDate string `json:"employmentStartDate"`
	BirthMonth          int    `json:"birthMonth"`
	SupervisorID        string `json:"supervisorId"`
	DepartmentID        string `json:"departmentId"`
	SubUnitID           string `json:"subUnitId"`
}

func (h *Handler) HandleListEmployees(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	employees, err := h.Store.ListEmployees(r.Context(), page.Limit, page.Offset)
	if err != nil {
		slog.Error("employee list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
		return
	}
	api.Success(w, map[string]any{"employees": employees}, requestID)
}

func (h *Handler) HandleGetEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	profile, err := h.Store.FindEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, org.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
			return
		}
		slog.Error("employee lookup failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
		return
	}
	api.Success(w, profile, requestID)
}

// HandleCreateEmployee provisions the login and the employee profile
// together.
func (h *Handler) HandleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	var payload createEmployeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("firstName", payload.FirstName, "is required")
	v.Required("lastName", payload.LastName, "is required")
	v.Required("email", payload.Email, "is required")
	v.Required("password", payload.Password, "is required")
	v.Required("role", payload.Role, "is required")
	v.Enum("role", payload.Role, []string{
		auth.RoleEmployee, auth.RoleSupervisor, auth.RoleManager, auth.RoleHR, auth.RoleAdmin,
	}, "unknown role")
	if payload.BirthMonth < 0 || payload.BirthMonth > 12 {
		v.Add("birthMonth", "must be between 1 and 12")
	}
	if payload.EmploymentStartDate != "" {
		v.Date("employmentStartDate", payload.EmploymentStartDate)
	}
	if v.Reject(w, requestID) {
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to hash password", requestID)
		return
	}
	userID, err := h.Auth.CreateUser(r.Context(), strings.ToLower(strings.TrimSpace(payload.Email)), hash, payload.Role)
	if err != nil {
		slog.Error("user provisioning failed", "err", err)
		api.Fail(w, http.StatusConflict, "user_exists", "a user with this email already exists", requestID)
		return
	}

	id, err := h.Store.CreateEmployee(r.Context(), org.EmployeeInput{
		UserID:              userID,
		FirstName:           payload.FirstName,
		LastName:            payload.LastName,
		Email:               strings.ToLower(strings.TrimSpace(payload.Email)),
		Role:                payload.Role,
		EmploymentStartDate: payload.EmploymentStartDate,
		BirthMonth:          payload.BirthMonth,
		SupervisorID:        payload.SupervisorID,
		DepartmentID:        payload.DepartmentID,
		SubUnitID:           payload.SubUnitID,
	})
	if err != nil {
		slog.Error("employee creation failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to create employee", requestID)
		return
	}
	api.Created(w, map[string]string{"id": id, "userId": userID}, requestID)
}

func (h *Handler) HandleListDepartments(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	departments, err := h.Store.ListDepartments(r.Context())
	if err != nil {
		slog.Error("department list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
		return
	}
	api.Success(w, map[string]any{"departments": departments}, requestID)
}

func (h *Handler) HandleListSubUnits(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	units, err := h.Store.ListSubUnits(r.Context(), r.URL.Query().Get("departmentId"))
	if err != nil {
		slog.Error("sub-unit list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
		return
	}
	api.Success(w, map[string]any{"subUnits": units}, requestID)
}
