package membershandler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"kpitrack/internal/domain/auth"
	"kpitrack/internal/domain/member"
	"kpitrack/internal/transport/http/api"
	"kpitrack/internal/transport/http/middleware"
	"kpitrack/internal/transport/http/shared"
)

type Handler struct {
	Service *member.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *member.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/members", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermMembersRead, h.Perms)).Get("/", h.handleSearch)
		r.With(middleware.RequirePermission(auth.PermMembersRead, h.Perms)).Get("/{userID}", h.handleGet)
	})
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := member.SearchFilter{
		Department: query.Get("department"),
		Role:       query.Get("role"),
		Name:       query.Get("name"),
		Email:      query.Get("email"),
	}

	page := shared.ParsePagination(r, 50, 200)
	result, err := h.Service.Search(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "member_search_failed", "failed to search members", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(result.Total))
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	found, err := h.Service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, member.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "member_not_found", "member not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "member_get_failed", "failed to load member", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, found, middleware.GetRequestID(r.Context()))
}
