package analytics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/RahulB-24/ExpenseOps/internal"
	"github.com/RahulB-24/ExpenseOps/internal/auth"
	"github.com/RahulB-24/ExpenseOps/internal/expense"
	"github.com/RahulB-24/ExpenseOps/internal/transport"
)

// DateRange selects how far back the summary looks.
type DateRange string

const (
	RangeThisMonth   DateRange = "THIS_MONTH"
	RangeLast3Months DateRange = "LAST_3_MONTHS"
	RangeThisYear    DateRange = "THIS_YEAR"
	RangeAllTime     DateRange = "ALL_TIME"
)

// FilterByRange keeps expenses whose effective date falls inside the range,
// anchored at now. Unknown ranges behave as ALL_TIME.
func FilterByRange(expenses []*expense.Expense, r DateRange, now time.Time) []*expense.Expense {
	var cutoff time.Time
	switch r {
	case RangeThisMonth:
		cutoff = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case RangeLast3Months:
		cutoff = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -3, 0)
	case RangeThisYear:
		cutoff = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	default:
		return append([]*expense.Expense(nil), expenses...)
	}

	var kept []*expense.Expense
	for _, e := range expenses {
		if !e.EffectiveDate().Before(cutoff) {
			kept = append(kept, e)
		}
	}
	return kept
}

// ExpenseLister is the snapshot source the handler summarizes.
type ExpenseLister interface {
	GetByUserID(tenantID, userID uuid.UUID) ([]*expense.Expense, error)
}

type Handler struct {
	*transport.BaseHandler
	expenses ExpenseLister
	now      func() time.Time
}

func NewHandler(expenses ExpenseLister, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		expenses:    expenses,
		now:         time.Now,
	}
}

// Summary handles GET /api/v1/expenses/analytics. The optional "range" query
// parameter narrows the window; the month-over-month comparison always uses
// the full snapshot so a narrow range cannot zero out last month.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	snapshot, err := h.expenses.GetByUserID(user.TenantID, user.ID)
	if err != nil {
		h.HandleServiceError(w, internal.NewInternalError("failed to load expenses", err))
		return
	}

	now := h.now()
	dateRange := DateRange(r.URL.Query().Get("range"))
	filtered := FilterByRange(snapshot, dateRange, now)

	summary := Summarize(filtered, user.ID, now)

	// The month comparison is computed over the unfiltered snapshot.
	full := Summarize(snapshot, user.ID, now)
	summary.ThisMonthTotal = full.ThisMonthTotal
	summary.LastMonthTotal = full.LastMonthTotal
	summary.MonthOverMonth = full.MonthOverMonth

	h.WriteJSON(w, http.StatusOK, summary)
}
