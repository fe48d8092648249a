package expense

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/google/uuid"

	"github.com/RahulB-24/ExpenseOps/internal"
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

// requestScope pulls the authenticated actor and tenant out of the request
// context. Both are installed by the auth middleware, so a miss means the
// route is wired outside the authenticated group.
func (h *Handler) requestScope(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return user, true
}

func (h *Handler) expenseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid expense id")
		return uuid.Nil, false
	}
	return id, true
}

// Create handles POST /api/v1/expenses.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	var dto CreateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := h.service.CreateExpense(user.TenantID, user.Actor(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, exp)
}

// ListMine handles GET /api/v1/expenses.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	expenses, err := h.service.GetMyExpenses(user.TenantID, user.Actor())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, expenses)
}

// ListPending handles GET /api/v1/expenses/pending.
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	expenses, err := h.service.GetPendingApprovals(user.TenantID, user.Actor())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, expenses)
}

// ListApproved handles GET /api/v1/expenses/approved: the reimbursement queue.
func (h *Handler) ListApproved(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	expenses, err := h.service.GetApprovedForReimbursement(user.TenantID, user.Actor())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, expenses)
}

// ListApprovalHistory handles GET /api/v1/expenses/approval-history.
func (h *Handler) ListApprovalHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	expenses, err := h.service.GetApprovalHistory(user.TenantID, user.Actor())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, expenses)
}

// Get handles GET /api/v1/expenses/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	id, ok := h.expenseID(w, r)
	if !ok {
		return
	}

	exp, err := h.service.GetExpenseByID(user.TenantID, id, user.Actor())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, exp)
}

// History handles GET /api/v1/expenses/{id}/history: the audit trail.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	id, ok := h.expenseID(w, r)
	if !ok {
		return
	}

	approvals, err := h.service.GetExpenseHistory(user.TenantID, id, user.Actor())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, approvals)
}

// Update handles PUT /api/v1/expenses/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	id, ok := h.expenseID(w, r)
	if !ok {
		return
	}

	var dto UpdateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := h.service.UpdateExpense(user.TenantID, id, user.Actor(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, exp)
}

// Delete handles DELETE /api/v1/expenses/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	id, ok := h.expenseID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteExpense(user.TenantID, id, user.Actor()); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Submit handles POST /api/v1/expenses/{id}/submit.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(user *auth.User, id uuid.UUID) (*Expense, error) {
		return h.service.SubmitExpense(user.TenantID, id, user.Actor())
	})
}

// Approve handles POST /api/v1/expenses/{id}/approve.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(user *auth.User, id uuid.UUID) (*Expense, error) {
		return h.service.ApproveExpense(user.TenantID, id, user.Actor())
	})
}

// Reject handles POST /api/v1/expenses/{id}/reject.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	id, ok := h.expenseID(w, r)
	if !ok {
		return
	}

	var dto RejectExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := h.service.RejectExpense(user.TenantID, id, user.Actor(), dto.Reason)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, exp)
}

// Reimburse handles POST /api/v1/expenses/{id}/reimburse.
func (h *Handler) Reimburse(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(user *auth.User, id uuid.UUID) (*Expense, error) {
		return h.service.ReimburseExpense(user.TenantID, id, user.Actor())
	})
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, apply func(*auth.User, uuid.UUID) (*Expense, error)) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	id, ok := h.expenseID(w, r)
	if !ok {
		return
	}

	exp, err := apply(user, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, exp)
}

// BulkRequestDTO is the request body of the bulk approve and reject routes.
type BulkRequestDTO struct {
	IDs    []uuid.UUID `json:"ids"`
	Reason string      `json:"reason,omitempty"`
}

// BulkResponseItem describes one failed item in a bulk response.
type BulkResponseItem struct {
	ID    uuid.UUID `json:"id"`
	Error string    `json:"error"`
}

// BulkResponseDTO reports a bulk outcome: the updated records that succeeded
// and a per-item error for each that did not.
type BulkResponseDTO struct {
	Succeeded []*Expense         `json:"succeeded"`
	Failed    []BulkResponseItem `json:"failed"`
}

func toBulkResponse(result BulkResult) BulkResponseDTO {
	resp := BulkResponseDTO{
		Succeeded: result.Succeeded,
		Failed:    make([]BulkResponseItem, 0, len(result.Failed)),
	}
	if resp.Succeeded == nil {
		resp.Succeeded = []*Expense{}
	}
	for _, f := range result.Failed {
		msg := f.Err.Error()
		if appErr, ok := internal.IsAppError(f.Err); ok {
			msg = appErr.Message
		}
		resp.Failed = append(resp.Failed, BulkResponseItem{ID: f.ID, Error: msg})
	}
	return resp
}

// BulkApprove handles POST /api/v1/expenses/bulk-approve. Items are processed
// independently; the response reports which succeeded and which failed.
func (h *Handler) BulkApprove(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	var dto BulkRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(dto.IDs) == 0 {
		h.WriteError(w, http.StatusBadRequest, "ids must not be empty")
		return
	}

	result := h.service.BulkApprove(user.TenantID, dto.IDs, user.Actor())
	h.WriteJSON(w, http.StatusOK, toBulkResponse(result))
}

// BulkReject handles POST /api/v1/expenses/bulk-reject. The one reason
// applies to every item.
func (h *Handler) BulkReject(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	var dto BulkRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(dto.IDs) == 0 {
		h.WriteError(w, http.StatusBadRequest, "ids must not be empty")
		return
	}

	result := h.service.BulkReject(user.TenantID, dto.IDs, user.Actor(), dto.Reason)
	h.WriteJSON(w, http.StatusOK, toBulkResponse(result))
}
