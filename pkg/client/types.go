package client

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense mirrors the server's expense record. Amounts come back as decimal
// strings; timestamps absent from the current status are nil.
type Expense struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"userId"`
	UserName         string          `json:"userName"`
	UserDepartment   string          `json:"userDepartment,omitempty"`
	CategoryID       uuid.UUID       `json:"categoryId"`
	CategoryName     string          `json:"categoryName"`
	CategoryIcon     string          `json:"categoryIcon,omitempty"`
	Title            string          `json:"title"`
	Description      string          `json:"description,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Status           string          `json:"status"`
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
}

type ApprovalRecord struct {
	ID        uuid.UUID `json:"id"`
	ExpenseID uuid.UUID `json:"expenseId"`
	ActorID   uuid.UUID `json:"actorId"`
	ActorName string    `json:"actorName"`
	Action    string    `json:"action"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Icon        string    `json:"icon,omitempty"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
}

type Profile struct {
	ID         uuid.UUID `json:"id"`
	TenantID   uuid.UUID `json:"tenantId"`
	TenantName string    `json:"tenantName,omitempty"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department string    `json:"department,omitempty"`
	IsActive   bool      `json:"isActive"`
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

// ExpenseInput is the payload for creating or editing a draft.
type ExpenseInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	CategoryID  uuid.UUID       `json:"categoryId"`
	ReceiptURL  string          `json:"receiptUrl,omitempty"`
	ExpenseDate *time.Time      `json:"expenseDate,omitempty"`
}

type RegisterInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Department    string `json:"department,omitempty"`
	InviteCode    string `json:"inviteCode,omitempty"`
	NewTenantName string `json:"newTenantName,omitempty"`
}

type Summary struct {
	Total             decimal.Decimal            `json:"total"`
	Count             int                        `json:"count"`
	AveragePerExpense decimal.Decimal            `json:"averagePerExpense"`
	ThisMonthTotal    decimal.Decimal            `json:"thisMonthTotal"`
	LastMonthTotal    decimal.Decimal            `json:"lastMonthTotal"`
	MonthOverMonth    float64                    `json:"monthOverMonthChange"`
	ApprovalRate      float64                    `json:"approvalRate"`
	ApprovalLatency   *float64                   `json:"approvalLatencyDays"`
	TotalsByStatus    map[string]decimal.Decimal `json:"totalsByStatus"`
	TopCategories     []CategorySlice            `json:"topCategories"`
	CategoryBreakdown []CategorySlice            `json:"categoryBreakdown"`
	MonthlyTrend      []MonthBucket              `json:"monthlyTrend"`
	BiggestExpense    *Expense                   `json:"biggestExpense,omitempty"`
}

type CategorySlice struct {
	Name   string          `json:"name"`
	Icon   string          `json:"icon,omitempty"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

type MonthBucket struct {
	Month     string          `json:"month"`
	MonthFull string          `json:"monthFull"`
	Year      int             `json:"year"`
	Amount    decimal.Decimal `json:"amount"`
	Count     int             `json:"count"`
	SortKey   int             `json:"sortKey"`
}
