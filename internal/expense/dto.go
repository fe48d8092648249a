package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RahulB-24/ExpenseOps/internal"
)

// CreateExpenseDTO is the request payload for creating a draft expense.
type CreateExpenseDTO struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	CategoryID  uuid.UUID       `json:"categoryId"`
	ReceiptURL  string          `json:"receiptUrl,omitempty"`
	ExpenseDate *time.Time      `json:"expenseDate,omitempty"`
}

func (dto CreateExpenseDTO) Validate() error {
	if dto.Title == "" {
		return internal.NewValidationFieldError("title", "title is required", internal.ErrCodeInvalidTitle)
	}
	if len(dto.Title) > 200 {
		return internal.NewValidationFieldError("title", "title must not exceed 200 characters", internal.ErrCodeInvalidTitle)
	}
	if dto.Amount.IsNegative() {
		return internal.NewValidationFieldError("amount", "amount must not be negative", internal.ErrCodeInvalidAmount)
	}
	if dto.CategoryID == uuid.Nil {
		return internal.NewValidationFieldError("categoryId", "category is required", internal.ErrCodeInvalidCategory)
	}
	if dto.ExpenseDate != nil && dto.ExpenseDate.After(time.Now()) {
		return internal.NewValidationFieldError("expenseDate", "expense date cannot be in the future", internal.ErrCodeInvalidDate)
	}
	return nil
}

// UpdateExpenseDTO carries the fields that stay mutable while an expense is a
// draft. The same validation rules as creation apply.
type UpdateExpenseDTO struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	CategoryID  uuid.UUID       `json:"categoryId"`
	ReceiptURL  string          `json:"receiptUrl,omitempty"`
	ExpenseDate *time.Time      `json:"expenseDate,omitempty"`
}

func (dto UpdateExpenseDTO) Validate() error {
	return CreateExpenseDTO(dto).Validate()
}

// RejectExpenseDTO is the request body for rejecting a submitted expense.
type RejectExpenseDTO struct {
	Reason string `json:"reason"`
}
