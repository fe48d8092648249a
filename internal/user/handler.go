package user

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

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return uuid.Nil, false
	}
	return id, true
}

// List handles GET /api/v1/admin/users.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	users, err := h.service.ListUsers(user.TenantID, user.Actor())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, users)
}

// UpdateRole handles PUT /api/v1/admin/users/{id}/role.
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	var dto UpdateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.service.UpdateRole(user.TenantID, id, user.Actor(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

// UpdateDepartment handles PUT /api/v1/admin/users/{id}/department.
func (h *Handler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	var dto UpdateDepartmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.service.UpdateDepartment(user.TenantID, id, user.Actor(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

// ToggleActive handles POST /api/v1/admin/users/{id}/toggle-active.
func (h *Handler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	updated, err := h.service.ToggleActive(user.TenantID, id, user.Actor())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

// ResetPassword handles POST /api/v1/admin/users/{id}/reset-password.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	var dto ResetPasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.ResetPassword(user.TenantID, id, user.Actor(), dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

// InviteCode handles GET /api/v1/admin/tenant/invite-code.
func (h *Handler) InviteCode(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	code, err := h.service.GetInviteCode(user.TenantID, user.Actor())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"inviteCode": code})
}
