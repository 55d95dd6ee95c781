package templateshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kpitrack/internal/domain/audit"
	"kpitrack/internal/domain/auth"
	"kpitrack/internal/domain/template"
	"kpitrack/internal/transport/http/api"
	"kpitrack/internal/transport/http/middleware"
	"kpitrack/internal/transport/http/shared"
)

type Handler struct {
	Service *template.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
}

func NewHandler(service *template.Service, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/templates", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTemplatesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermTemplatesRead, h.Perms)).Get("/{templateID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermTemplatesWrite, h.Perms)).Post("/", h.handleCreate)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	templates, err := h.Service.List(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "template_list_failed", "failed to list templates", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, templates, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateID")
	tmpl, err := h.Service.Get(r.Context(), templateID)
	if err != nil {
		if errors.Is(err, template.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "template_not_found", "template not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "template_get_failed", "failed to load template", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, tmpl, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Name      string          `json:"name"`
		Role      string          `json:"role"`
		Frequency string          `json:"frequency"`
		Items     []template.Item `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("role", payload.Role, "role is required")
	v.Enum("frequency", payload.Frequency,
		[]string{"daily", "weekly", "monthly", "quarterly", "yearly"},
		"frequency must be one of daily, weekly, monthly, quarterly, yearly")
	if len(payload.Items) == 0 {
		v.Add("items", "at least one item is required")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.Create(r.Context(), template.Template{
		Name:      payload.Name,
		Role:      payload.Role,
		Frequency: template.Frequency(payload.Frequency),
		Items:     payload.Items,
		CreatedBy: user.UserID,
	})
	if err != nil {
		switch {
		case errors.Is(err, template.ErrInvalidFrequency),
			errors.Is(err, template.ErrInvalidKPIType),
			errors.Is(err, template.ErrDuplicateItem):
			api.Fail(w, http.StatusUnprocessableEntity, "invalid_template", err.Error(), middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "template_create_failed", "failed to create template", middleware.GetRequestID(r.Context()))
		}
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "template.create", "kpi_template", id, middleware.GetRequestID(r.Context()), middleware.ClientIP(r), payload); err != nil {
		slog.Warn("audit record failed", "action", "template.create", "err", err)
	}

	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}
