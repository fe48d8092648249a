package category

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/google/uuid"

	"github.com/RahulB-24/ExpenseOps/internal/auth"
	"github.com/RahulB-24/ExpenseOps/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	service *Service
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		service:     service,
	}
}

func (h *Handler) requestScope(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return user, true
}

func (h *Handler) categoryID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid category id")
		return uuid.Nil, false
	}
	return id, true
}

// ListActive handles GET /api/v1/categories: the picker set.
func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	categories, err := h.service.ListActive(user.TenantID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, categories)
}

// ListAll handles GET /api/v1/admin/categories, including deactivated ones.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	categories, err := h.service.ListAll(user.TenantID, user.Actor())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, categories)
}

// Create handles POST /api/v1/admin/categories.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	var dto CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cat, err := h.service.CreateCategory(user.TenantID, user.Actor(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, cat)
}

// Update handles PUT /api/v1/admin/categories/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	id, ok := h.categoryID(w, r)
	if !ok {
		return
	}

	var dto CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cat, err := h.service.UpdateCategory(user.TenantID, id, user.Actor(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, cat)
}

// ToggleActive handles POST /api/v1/admin/categories/{id}/toggle-active.
func (h *Handler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	id, ok := h.categoryID(w, r)
	if !ok {
		return
	}

	cat, err := h.service.ToggleActive(user.TenantID, id, user.Actor())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, cat)
}
