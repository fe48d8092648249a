package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is the persistence shape of an expense report.
type Expense struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	TenantID         uuid.UUID       `gorm:"column:tenant_id;type:uuid;not null;index"`
	UserID           uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	CategoryID       uuid.UUID       `gorm:"column:category_id;type:uuid;not null"`
	Title            string          `gorm:"column:title;size:200;not null"`
	Description      string          `gorm:"column:description"`
	Amount           decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Status           string          `gorm:"column:status;size:20;not null;default:DRAFT"`
	RejectionReason  string          `gorm:"column:rejection_reason"`
	ReceiptURL       string          `gorm:"column:receipt_url"`
	ExpenseDate      *time.Time      `gorm:"column:expense_date;type:date"`
	SubmittedAt      *time.Time      `gorm:"column:submitted_at"`
	ApprovedAt       *time.Time      `gorm:"column:approved_at"`
	ApprovedByID     *uuid.UUID      `gorm:"column:approved_by_id;type:uuid"`
	ApprovedByName   string          `gorm:"column:approved_by_name;size:100"`
	ReimbursedAt     *time.Time      `gorm:"column:reimbursed_at"`
	ReimbursedByID   *uuid.UUID      `gorm:"column:reimbursed_by_id;type:uuid"`
	ReimbursedByName string          `gorm:"column:reimbursed_by_name;size:100"`
	CreatedAt        time.Time       `gorm:"column:created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at"`
}

func (Expense) TableName() string {
	return "expenses"
}

// Approval is one row of an expense's audit trail: who did what, when.
type Approval struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	TenantID  uuid.UUID `gorm:"column:tenant_id;type:uuid;not null"`
	ExpenseID uuid.UUID `gorm:"column:expense_id;type:uuid;not null;index"`
	ActorID   uuid.UUID `gorm:"column:actor_id;type:uuid;not null"`
	ActorName string    `gorm:"column:actor_name;size:100"`
	Action    string    `gorm:"column:action;size:20;not null"`
	Comment   string    `gorm:"column:comment"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Approval) TableName() string {
	return "approvals"
}
