package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/RahulB-24/ExpenseOps/internal"
	"github.com/RahulB-24/ExpenseOps/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	service ServiceAPI
}

func NewHandler(service ServiceAPI, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		service:     service,
	}
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.Login(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// Register handles POST /api/v1/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.Register(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, resp)
}

// Me handles GET /api/v1/auth/me, returning the authenticated profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	h.WriteJSON(w, http.StatusOK, user)
}

// AuthMiddleware validates the bearer token and loads the current user and
// tenant into the request context. Requests from deactivated users are
// refused even when their token is still valid.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := h.ExtractTokenFromHeader(r)
		if tokenString == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing or malformed authorization header")
			return
		}

		claims, err := h.service.ValidateAccessToken(tokenString)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			h.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		user, err := h.service.GetUserByID(userID)
		if err != nil {
			h.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		if !user.IsActive {
			h.HandleServiceError(w, internal.ErrUserInactive)
			return
		}

		ctx := ContextWithUser(r.Context(), user)
		ctx = internal.ContextWithTenant(ctx, user.TenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
