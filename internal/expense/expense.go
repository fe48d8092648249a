package expense

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RahulB-24/ExpenseOps/internal"
	"github.com/RahulB-24/ExpenseOps/internal/authz"
	expenseDatamodel "github.com/RahulB-24/ExpenseOps/internal/core/datamodel/expense"
)

// Status is the lifecycle state of an expense. DRAFT is the unique initial
// state; REJECTED and REIMBURSED are terminal.
type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusSubmitted  Status = "SUBMITTED"
	StatusApproved   Status = "APPROVED"
	StatusRejected   Status = "REJECTED"
	StatusReimbursed Status = "REIMBURSED"
)

// Statuses lists every lifecycle state.
var Statuses = []Status{StatusDraft, StatusSubmitted, StatusApproved, StatusRejected, StatusReimbursed}

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected, StatusReimbursed:
		return true
	}
	return false
}

// Terminal reports whether the status has no outgoing transitions.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusReimbursed
}

type Expense struct {
	ID               uuid.UUID       `json:"id"`
	TenantID         uuid.UUID       `json:"-"`
	UserID           uuid.UUID       `json:"userId"`
	UserName         string          `json:"userName"`
	UserDepartment   string          `json:"userDepartment,omitempty"`
	CategoryID       uuid.UUID       `json:"categoryId"`
	CategoryName     string          `json:"categoryName"`
	CategoryIcon     string          `json:"categoryIcon,omitempty"`
	Title            string          `json:"title"`
	Description      string          `json:"description,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Status           Status          `json:"status"`
	RejectionReason  string          `json:"rejectionReason,omitempty"`
	ReceiptURL       string          `json:"receiptUrl,omitempty"`
	ExpenseDate      *time.Time      `json:"expenseDate,omitempty"`
	SubmittedAt      *time.Time      `json:"submittedAt,omitempty"`
	ApprovedAt       *time.Time      `json:"approvedAt,omitempty"`
	ApprovedByName   string          `json:"approvedByName,omitempty"`
	ReimbursedAt     *time.Time      `json:"reimbursedAt,omitempty"`
	ReimbursedByName string          `json:"reimbursedByName,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`

	approvedByID   *uuid.UUID
	reimbursedByID *uuid.UUID
}

// EffectiveDate is the date an expense counts under for reporting: the
// declared expense date when present, creation time otherwise.
func (e *Expense) EffectiveDate() time.Time {
	if e.ExpenseDate != nil {
		return *e.ExpenseDate
	}
	return e.CreatedAt
}

func (e *Expense) IsDraft() bool {
	return e.Status == StatusDraft
}

// Submit moves a draft into the approval queue.
func (e *Expense) Submit(now time.Time) error {
	if e.Status != StatusDraft {
		return internal.NewInvalidTransitionError(string(e.Status), string(authz.ActionSubmit))
	}
	e.Status = StatusSubmitted
	e.SubmittedAt = &now
	e.UpdatedAt = now
	return nil
}

// Approve records the approver and moves a submitted expense to APPROVED.
func (e *Expense) Approve(actor authz.Actor, now time.Time) error {
	if e.Status != StatusSubmitted {
		return internal.NewInvalidTransitionError(string(e.Status), string(authz.ActionApprove))
	}
	e.Status = StatusApproved
	e.ApprovedAt = &now
	actorID := actor.ID
	e.approvedByID = &actorID
	e.ApprovedByName = actor.Name
	e.UpdatedAt = now
	return nil
}

// Reject moves a submitted expense to REJECTED. The reason is mandatory; a
// blank reason is a validation failure and leaves the expense untouched.
func (e *Expense) Reject(actor authz.Actor, reason string, now time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return internal.NewValidationFieldError("reason", "rejection reason is required", internal.ErrCodeReasonRequired)
	}
	if e.Status != StatusSubmitted {
		return internal.NewInvalidTransitionError(string(e.Status), string(authz.ActionReject))
	}
	e.Status = StatusRejected
	e.RejectionReason = reason
	actorID := actor.ID
	e.approvedByID = &actorID
	e.ApprovedByName = actor.Name
	e.UpdatedAt = now
	return nil
}

// Reimburse closes out an approved expense with the cash disbursement record.
func (e *Expense) Reimburse(actor authz.Actor, now time.Time) error {
	if e.Status != StatusApproved {
		return internal.NewInvalidTransitionError(string(e.Status), string(authz.ActionReimburse))
	}
	e.Status = StatusReimbursed
	e.ReimbursedAt = &now
	actorID := actor.ID
	e.reimbursedByID = &actorID
	e.ReimbursedByName = actor.Name
	e.UpdatedAt = now
	return nil
}

// ApplyEdit updates the mutable fields. Only drafts are editable; title,
// amount, category and expense date freeze on submit.
func (e *Expense) ApplyEdit(dto UpdateExpenseDTO, now time.Time) error {
	if e.Status != StatusDraft {
		return internal.NewInvalidTransitionError(string(e.Status), string(authz.ActionEditDraft))
	}
	e.Title = dto.Title
	e.Description = dto.Description
	e.Amount = dto.Amount
	e.CategoryID = dto.CategoryID
	e.ReceiptURL = dto.ReceiptURL
	e.ExpenseDate = dto.ExpenseDate
	e.UpdatedAt = now
	return nil
}

// CanDelete reports whether the expense is at its only legal deletion point.
func (e *Expense) CanDelete() bool {
	return e.Status == StatusDraft
}

func NewExpense(tenantID uuid.UUID, owner authz.Actor, dto CreateExpenseDTO, now time.Time) *Expense {
	return &Expense{
		ID:          uuid.New(),
		TenantID:    tenantID,
		UserID:      owner.ID,
		UserName:    owner.Name,
		CategoryID:  dto.CategoryID,
		Title:       dto.Title,
		Description: dto.Description,
		Amount:      dto.Amount,
		Status:      StatusDraft,
		ReceiptURL:  dto.ReceiptURL,
		ExpenseDate: dto.ExpenseDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:               e.ID,
		TenantID:         e.TenantID,
		UserID:           e.UserID,
		CategoryID:       e.CategoryID,
		Title:            e.Title,
		Description:      e.Description,
		Amount:           e.Amount,
		Status:           string(e.Status),
		RejectionReason:  e.RejectionReason,
		ReceiptURL:       e.ReceiptURL,
		ExpenseDate:      e.ExpenseDate,
		SubmittedAt:      e.SubmittedAt,
		ApprovedAt:       e.ApprovedAt,
		ApprovedByID:     e.approvedByID,
		ApprovedByName:   e.ApprovedByName,
		ReimbursedAt:     e.ReimbursedAt,
		ReimbursedByID:   e.reimbursedByID,
		ReimbursedByName: e.ReimbursedByName,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func FromDataModel(m *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:               m.ID,
		TenantID:         m.TenantID,
		UserID:           m.UserID,
		CategoryID:       m.CategoryID,
		Title:            m.Title,
		Description:      m.Description,
		Amount:           m.Amount,
		Status:           Status(m.Status),
		RejectionReason:  m.RejectionReason,
		ReceiptURL:       m.ReceiptURL,
		ExpenseDate:      m.ExpenseDate,
		SubmittedAt:      m.SubmittedAt,
		ApprovedAt:       m.ApprovedAt,
		ApprovedByName:   m.ApprovedByName,
		ReimbursedAt:     m.ReimbursedAt,
		ReimbursedByName: m.ReimbursedByName,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		approvedByID:     m.ApprovedByID,
		reimbursedByID:   m.ReimbursedByID,
	}
}

func FromDataModelSlice(models []*expenseDatamodel.Expense) []*Expense {
	result := make([]*Expense, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}

// Approval is one audit-trail entry for an expense.
type Approval struct {
	ID        uuid.UUID `json:"id"`
	ExpenseID uuid.UUID `json:"expenseId"`
	ActorID   uuid.UUID `json:"actorId"`
	ActorName string    `json:"actorName"`
	Action    string    `json:"action"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewApproval(e *Expense, actor authz.Actor, action authz.Action, comment string, now time.Time) *Approval {
	return &Approval{
		ID:        uuid.New(),
		ExpenseID: e.ID,
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Action:    string(action),
		Comment:   comment,
		CreatedAt: now,
	}
}

func ApprovalToDataModel(a *Approval, tenantID uuid.UUID) *expenseDatamodel.Approval {
	return &expenseDatamodel.Approval{
		ID:        a.ID,
		TenantID:  tenantID,
		ExpenseID: a.ExpenseID,
		ActorID:   a.ActorID,
		ActorName: a.ActorName,
		Action:    a.Action,
		Comment:   a.Comment,
		CreatedAt: a.CreatedAt,
	}
}

func ApprovalFromDataModel(m *expenseDatamodel.Approval) *Approval {
	return &Approval{
		ID:        m.ID,
		ExpenseID: m.ExpenseID,
		ActorID:   m.ActorID,
		ActorName: m.ActorName,
		Action:    m.Action,
		Comment:   m.Comment,
		CreatedAt: m.CreatedAt,
	}
}
