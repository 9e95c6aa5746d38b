package reporthandler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"wfm/internal/domain/auth"
	"wfm/internal/domain/reports"
	"wfm/internal/requestctx"
	"wfm/internal/transport/http/api"
	"wfm/internal/transport/http/middleware"
	"wfm/internal/transport/http/shared"
)

type Handler struct {
	Reports *reports.Service
}

func NewHandler(svc *reports.Service) *Handler {
	return &Handler{Reports: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead)).Get("/dashboard", h.HandleDashboard)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/calendar", h.HandleCalendar)
		r.With(middleware.RequirePermission(auth.PermReportsRead)).Get("/balances", h.HandleBalanceSummary)
	})
}

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	dashboard, err := h.Reports.Dashboard(r.Context(), time.Now())
	if err != nil {
		slog.Error("dashboard report failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
		return
	}
	api.Success(w, dashboard, requestID)
}

// HandleCalendar lists approved leave intersecting the requested window,
// defaulting to the current month.
func (h *Handler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	v := shared.NewValidator()
	if raw := r.URL.Query().Get("start"); raw != "" {
		if parsed, ok := v.Date("start", raw); ok {
			start = parsed
		}
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		if parsed, ok := v.Date("end", raw); ok {
			end = parsed
		}
	}
	v.DateOrder("start", start, "end", end)
	if v.Reject(w, requestID) {
		return
	}

	entries, err := h.Reports.LeaveCalendar(r.Context(), start, end)
	if err != nil {
		slog.Error("calendar report failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="leave-calendar.csv"`)
		if err := h.Reports.WriteCalendarCSV(w, entries); err != nil {
			slog.Warn("calendar csv write failed", "err", err)
		}
		return
	}
	api.Success(w, map[string]any{"entries": entries, "start": start, "end": end}, requestID)
}

func (h *Handler) HandleBalanceSummary(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	year := currentOrRequestedYear(r)

	rows, err := h.Reports.BalanceSummary(r.Context(), year)
	if err != nil {
		slog.Error("balance summary failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
		return
	}

	switch r.URL.Query().Get("format") {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="balances.csv"`)
		if err := h.Reports.WriteBalanceCSV(w, rows); err != nil {
			slog.Warn("csv export write failed", "err", err)
		}
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="balances.pdf"`)
		if err := h.Reports.WriteBalancePDF(w, year, rows); err != nil {
			slog.Warn("pdf export write failed", "err", err)
		}
	default:
		api.Success(w, map[string]any{"rows": rows, "year": year}, requestID)
	}
}

func currentOrRequestedYear(r *http.Request) int {
	if raw := r.URL.Query().Get("year"); raw != "" {
		if year, err := strconv.Atoi(raw); err == nil && year > 1900 {
			return year
		}
	}
	return time.Now().Year()
}
