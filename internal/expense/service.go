package expense

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/RahulB-24/ExpenseOps/internal"
	"github.com/RahulB-24/ExpenseOps/internal/authz"
)

// Repository defines the data access methods for expenses. Every method is
// tenant-scoped; a record outside the tenant behaves as missing.
type Repository interface {
	Create(e *Expense) error
	GetByID(tenantID, id uuid.UUID) (*Expense, error)
	GetByUserID(tenantID, userID uuid.UUID) ([]*Expense, error)
	GetPending(tenantID, excludeUserID uuid.UUID) ([]*Expense, error)
	GetByStatuses(tenantID uuid.UUID, statuses []Status) ([]*Expense, error)
	Update(e *Expense) error
	Delete(tenantID, id uuid.UUID) error
	RecordApproval(tenantID uuid.UUID, a *Approval) error
	GetApprovals(tenantID, expenseID uuid.UUID) ([]*Approval, error)
}

// CategoryResolver supplies category display fields for created and edited
// expenses, and rejects inactive or foreign categories.
type CategoryResolver interface {
	ResolveCategory(tenantID, categoryID uuid.UUID) (name, icon string, err error)
}

// Service owns the expense lifecycle: it runs the authorization matrix, then
// the state machine, then persists and audits the result.
type Service struct {
	repo       Repository
	categories CategoryResolver
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo Repository, categories CategoryResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) CreateExpense(tenantID uuid.UUID, actor authz.Actor, dto CreateExpenseDTO) (*Expense, error) {
	if err := authz.Authorize(actor, authz.ActionCreate, uuid.Nil); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		s.logger.Warn("expense validation failed", "error", err, "user_id", actor.ID)
		return nil, err
	}

	name, icon, err := s.categories.ResolveCategory(tenantID, dto.CategoryID)
	if err != nil {
		return nil, err
	}

	exp := NewExpense(tenantID, actor, dto, s.now())
	exp.CategoryName = name
	exp.CategoryIcon = icon

	if err := s.repo.Create(exp); err != nil {
		s.logger.Error("failed to create expense", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to create expense", err)
	}

	s.logger.Info("expense created",
		"expense_id", exp.ID,
		"user_id", actor.ID,
		"amount", exp.Amount.String())

	return exp, nil
}

func (s *Service) GetMyExpenses(tenantID uuid.UUID, actor authz.Actor) ([]*Expense, error) {
	expenses, err := s.repo.GetByUserID(tenantID, actor.ID)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to list expenses", err)
	}
	return expenses, nil
}

// GetPendingApprovals returns submitted expenses awaiting a decision, minus
// the caller's own: self-approval is forbidden so their rows are noise here.
func (s *Service) GetPendingApprovals(tenantID uuid.UUID, actor authz.Actor) ([]*Expense, error) {
	if err := authz.Authorize(actor, authz.ActionApprove, uuid.Nil); err != nil {
		return nil, err
	}

	expenses, err := s.repo.GetPending(tenantID, actor.ID)
	if err != nil {
		s.logger.Error("failed to list pending approvals", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to list pending approvals", err)
	}
	return expenses, nil
}

func (s *Service) GetApprovedForReimbursement(tenantID uuid.UUID, actor authz.Actor) ([]*Expense, error) {
	if err := authz.Authorize(actor, authz.ActionReimburse, uuid.Nil); err != nil {
		return nil, err
	}

	expenses, err := s.repo.GetByStatuses(tenantID, []Status{StatusApproved})
	if err != nil {
		s.logger.Error("failed to list approved expenses", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to list approved expenses", err)
	}
	return expenses, nil
}

func (s *Service) GetApprovalHistory(tenantID uuid.UUID, actor authz.Actor) ([]*Expense, error) {
	if err := authz.Authorize(actor, authz.ActionApprove, uuid.Nil); err != nil {
		return nil, err
	}

	expenses, err := s.repo.GetByStatuses(tenantID, []Status{StatusApproved, StatusRejected, StatusReimbursed})
	if err != nil {
		s.logger.Error("failed to list approval history", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to list approval history", err)
	}
	return expenses, nil
}

// GetExpenseByID returns a single expense. Owners always see their own;
// anyone the matrix lets approve may see the rest of the tenant's.
func (s *Service) GetExpenseByID(tenantID, id uuid.UUID, actor authz.Actor) (*Expense, error) {
	exp, err := s.repo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	if exp.UserID != actor.ID && !authz.IsAllowed(actor.Role, authz.ActionApprove) {
		s.logger.Warn("unauthorized expense access", "expense_id", id, "user_id", actor.ID)
		return nil, internal.ErrExpenseNotFound
	}

	return exp, nil
}

func (s *Service) GetExpenseHistory(tenantID, id uuid.UUID, actor authz.Actor) ([]*Approval, error) {
	if _, err := s.GetExpenseByID(tenantID, id, actor); err != nil {
		return nil, err
	}
	approvals, err := s.repo.GetApprovals(tenantID, id)
	if err != nil {
		s.logger.Error("failed to load approval history", "error", err, "expense_id", id)
		return nil, internal.NewInternalError("failed to load approval history", err)
	}
	return approvals, nil
}

func (s *Service) UpdateExpense(tenantID, id uuid.UUID, actor authz.Actor, dto UpdateExpenseDTO) (*Expense, error) {
	exp, err := s.repo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionEditDraft, exp.UserID); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	name, icon, err := s.categories.ResolveCategory(tenantID, dto.CategoryID)
	if err != nil {
		return nil, err
	}

	if err := exp.ApplyEdit(dto, s.now()); err != nil {
		return nil, err
	}
	exp.CategoryName = name
	exp.CategoryIcon = icon

	if err := s.repo.Update(exp); err != nil {
		s.logger.Error("failed to update expense", "error", err, "expense_id", id)
		return nil, internal.NewInternalError("failed to update expense", err)
	}
	return exp, nil
}

func (s *Service) SubmitExpense(tenantID, id uuid.UUID, actor authz.Actor) (*Expense, error) {
	return s.transition(tenantID, id, actor, authz.ActionSubmit, func(exp *Expense, now time.Time) error {
		return exp.Submit(now)
	}, "")
}

func (s *Service) ApproveExpense(tenantID, id uuid.UUID, actor authz.Actor) (*Expense, error) {
	return s.transition(tenantID, id, actor, authz.ActionApprove, func(exp *Expense, now time.Time) error {
		return exp.Approve(actor, now)
	}, "")
}

func (s *Service) RejectExpense(tenantID, id uuid.UUID, actor authz.Actor, reason string) (*Expense, error) {
	return s.transition(tenantID, id, actor, authz.ActionReject, func(exp *Expense, now time.Time) error {
		return exp.Reject(actor, reason, now)
	}, reason)
}

func (s *Service) ReimburseExpense(tenantID, id uuid.UUID, actor authz.Actor) (*Expense, error) {
	return s.transition(tenantID, id, actor, authz.ActionReimburse, func(exp *Expense, now time.Time) error {
		return exp.Reimburse(actor, now)
	}, "")
}

// transition is the shared guard-then-mutate-then-audit path for every
// lifecycle action. The authorization matrix runs before the state machine;
// the audit row is written only after a successful persist.
func (s *Service) transition(tenantID, id uuid.UUID, actor authz.Actor, action authz.Action, apply func(*Expense, time.Time) error, comment string) (*Expense, error) {
	exp, err := s.repo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(actor, action, exp.UserID); err != nil {
		s.logger.Warn("transition denied",
			"expense_id", id,
			"action", action,
			"actor_id", actor.ID,
			"role", actor.Role)
		return nil, err
	}

	now := s.now()
	if err := apply(exp, now); err != nil {
		return nil, err
	}

	if err := s.repo.Update(exp); err != nil {
		s.logger.Error("failed to persist transition", "error", err, "expense_id", id, "action", action)
		return nil, internal.NewInternalError("failed to persist transition", err)
	}

	approval := NewApproval(exp, actor, action, comment, now)
	if err := s.repo.RecordApproval(tenantID, approval); err != nil {
		// The transition itself committed; a missing audit row is logged, not
		// surfaced as a failure of the action.
		s.logger.Error("failed to record approval entry", "error", err, "expense_id", id, "action", action)
	}

	s.logger.Info("expense transition",
		"expense_id", id,
		"action", action,
		"status", exp.Status,
		"actor_id", actor.ID)

	return exp, nil
}

func (s *Service) DeleteExpense(tenantID, id uuid.UUID, actor authz.Actor) error {
	exp, err := s.repo.GetByID(tenantID, id)
	if err != nil {
		return err
	}
	if err := authz.Authorize(actor, authz.ActionDeleteDraft, exp.UserID); err != nil {
		return err
	}
	if !exp.CanDelete() {
		return internal.NewInvalidTransitionError(string(exp.Status), string(authz.ActionDeleteDraft))
	}

	if err := s.repo.Delete(tenantID, id); err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id)
		return internal.NewInternalError("failed to delete expense", err)
	}

	s.logger.Info("draft expense deleted", "expense_id", id, "user_id", actor.ID)
	return nil
}

// BulkItemFailure reports one failed item of a bulk operation.
type BulkItemFailure struct {
	ID  uuid.UUID
	Err error
}

// BulkResult is the partial-success outcome of a bulk approve or reject.
type BulkResult struct {
	Succeeded []*Expense
	Failed    []BulkItemFailure
}

// BulkApprove folds the single-item approve over the id set sequentially.
// There is no atomicity across items: a failure on one item is recorded and
// the fold continues, so an "already decided" expense never aborts the batch.
func (s *Service) BulkApprove(tenantID uuid.UUID, ids []uuid.UUID, actor authz.Actor) BulkResult {
	var result BulkResult
	for _, id := range ids {
		exp, err := s.ApproveExpense(tenantID, id, actor)
		if err != nil {
			result.Failed = append(result.Failed, BulkItemFailure{ID: id, Err: err})
			continue
		}
		result.Succeeded = append(result.Succeeded, exp)
	}
	return result
}

// BulkReject is the reject counterpart of BulkApprove; the one reason applies
// to every item.
func (s *Service) BulkReject(tenantID uuid.UUID, ids []uuid.UUID, actor authz.Actor, reason string) BulkResult {
	var result BulkResult
	for _, id := range ids {
		exp, err := s.RejectExpense(tenantID, id, actor, reason)
		if err != nil {
			result.Failed = append(result.Failed, BulkItemFailure{ID: id, Err: err})
			continue
		}
		result.Succeeded = append(result.Succeeded, exp)
	}
	return result
}
