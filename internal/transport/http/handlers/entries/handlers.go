package entrieshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"kpitrack/internal/domain/audit"
	"kpitrack/internal/domain/auth"
	"kpitrack/internal/domain/kpi"
	"kpitrack/internal/domain/notifications"
	"kpitrack/internal/platform/metrics"
	"kpitrack/internal/transport/http/api"
	"kpitrack/internal/transport/http/middleware"
	"kpitrack/internal/transport/http/shared"
)

type Handler struct {
	Service *kpi.Service
	Perms   middleware.PermissionStore
	Notify  *notifications.Service
	Audit   *audit.Service
	Metrics *metrics.Collector
}

func NewHandler(service *kpi.Service, perms middleware.PermissionStore, notify *notifications.Service, auditSvc *audit.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Perms: perms, Notify: notify, Audit: auditSvc, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/entries", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEntriesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEntriesRead, h.Perms)).Get("/{entryID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermEntriesWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermEntriesWrite, h.Perms)).Put("/{entryID}", h.handleUpdate)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		KPITemplateID string               `json:"kpiTemplateId"`
		CreatedFor    string               `json:"createdFor"`
		Values        []kpi.SubmittedValue `json:"values"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.KPITemplateID == "" || payload.CreatedFor == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "kpiTemplateId and createdFor are required", middleware.GetRequestID(r.Context()))
		return
	}

	entry, err := h.Service.CreateEntry(r.Context(), kpi.CreateEntryInput{
		KPITemplateID: payload.KPITemplateID,
		CreatedFor:    payload.CreatedFor,
		CreatedBy:     user.UserID,
		Values:        payload.Values,
	})
	if err != nil {
		failEntryError(w, r, err)
		return
	}

	h.Metrics.RecordEntryCreated()
	if err := h.Audit.Record(r.Context(), user.UserID, "entry.create", "kpi_entry", entry.ID, middleware.GetRequestID(r.Context()), middleware.ClientIP(r), payload); err != nil {
		slog.Warn("audit record failed", "action", "entry.create", "err", err)
	}
	if err := h.Notify.Create(r.Context(), entry.CreatedFor, notifications.TypeEntryCreated, "KPI entry recorded", "A KPI entry was recorded for you for the current period."); err != nil {
		slog.Warn("notification create failed", "type", notifications.TypeEntryCreated, "err", err)
	}

	api.Created(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Values []kpi.SubmittedValue `json:"values"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	entryID := chi.URLParam(r, "entryID")
	entry, err := h.Service.UpdateEntry(r.Context(), entryID, payload.Values)
	if err != nil {
		failEntryError(w, r, err)
		return
	}

	h.Metrics.RecordEntryUpdated()
	if err := h.Audit.Record(r.Context(), user.UserID, "entry.update", "kpi_entry", entry.ID, middleware.GetRequestID(r.Context()), middleware.ClientIP(r), payload); err != nil {
		slog.Warn("audit record failed", "action", "entry.update", "err", err)
	}
	if err := h.Notify.Create(r.Context(), entry.CreatedFor, notifications.TypeEntryUpdated, "KPI entry updated", "Your KPI entry for the current period was updated."); err != nil {
		slog.Warn("notification create failed", "type", notifications.TypeEntryUpdated, "err", err)
	}

	api.Success(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	entry, err := h.Service.GetEntry(r.Context(), chi.URLParam(r, "entryID"))
	if err != nil {
		failEntryError(w, r, err)
		return
	}
	api.Success(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := kpi.EntryFilter{
		KPITemplateID: query.Get("kpiTemplateId"),
		CreatedFor:    query.Get("createdFor"),
		Status:        query.Get("status"),
	}
	if raw := query.Get("from"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "from must be a valid date", middleware.GetRequestID(r.Context()))
			return
		}
		filter.CreatedFrom = parsed
	}
	if raw := query.Get("to"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "to must be a valid date", middleware.GetRequestID(r.Context()))
			return
		}
		filter.CreatedTo = parsed
	}

	page := shared.ParsePagination(r, 50, 200)
	entries, total, err := h.Service.ListEntries(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "entry_list_failed", "failed to list entries", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, entries, middleware.GetRequestID(r.Context()))
}

// failEntryError maps engine errors onto the HTTP surface. Validation
// failures carry field details; lock and window errors use 423 so clients
// can distinguish "never" from "try again".
func failEntryError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())

	var missing *kpi.MissingValuesError
	if errors.As(err, &missing) {
		api.FailWithDetails(w, http.StatusUnprocessableEntity, "missing_values", err.Error(),
			map[string]any{"names": missing.Names}, requestID)
		return
	}
	var badType *kpi.InvalidValueTypeError
	if errors.As(err, &badType) {
		api.FailWithDetails(w, http.StatusUnprocessableEntity, "invalid_value_type", err.Error(),
			map[string]any{"name": badType.Name, "want": badType.Want, "got": badType.Got}, requestID)
		return
	}

	switch {
	case errors.Is(err, kpi.ErrEntryNotFound):
		api.Fail(w, http.StatusNotFound, "entry_not_found", "entry not found", requestID)
	case errors.Is(err, kpi.ErrTemplateNotFound):
		api.Fail(w, http.StatusNotFound, "template_not_found", "template not found", requestID)
	case errors.Is(err, kpi.ErrMemberNotFound):
		api.Fail(w, http.StatusNotFound, "member_not_found", "member not found", requestID)
	case errors.Is(err, kpi.ErrPeriodConflict):
		api.Fail(w, http.StatusConflict, "period_conflict", "an entry already exists for this period", requestID)
	case errors.Is(err, kpi.ErrReportAlreadyGenerated):
		api.Fail(w, http.StatusConflict, "report_already_generated", "a report was already generated for this pair", requestID)
	case errors.Is(err, kpi.ErrEntryLocked):
		api.Fail(w, http.StatusLocked, "entry_locked", "entry is locked by a generated report", requestID)
	case errors.Is(err, kpi.ErrUpdateWindowClosed):
		api.Fail(w, http.StatusLocked, "update_window_closed", "the entry's period is no longer open for updates", requestID)
	case errors.Is(err, kpi.ErrMissingBypassScore):
		api.Fail(w, http.StatusUnprocessableEntity, "missing_bypass_score", err.Error(), requestID)
	case errors.Is(err, kpi.ErrMissingRequiredValues), errors.Is(err, kpi.ErrInvalidValueType):
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_values", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "entry_operation_failed", "entry operation failed", requestID)
	}
}
