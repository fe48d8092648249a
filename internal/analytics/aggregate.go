// Package analytics derives reporting aggregates from expense snapshots.
// Every function here is pure: no I/O, no mutation of the input slice, the
// same snapshot always yields the same result.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RahulB-24/ExpenseOps/internal/expense"
)

// TotalsByStatus sums amounts per lifecycle status over the subset of the
// snapshot owned by the given user. Statuses with no matching expenses are
// absent from the result.
func TotalsByStatus(expenses []*expense.Expense, userID uuid.UUID) map[expense.Status]decimal.Decimal {
	totals := make(map[expense.Status]decimal.Decimal)
	for _, e := range expenses {
		if e.UserID != userID {
			continue
		}
		totals[e.Status] = totals[e.Status].Add(e.Amount)
	}
	return totals
}

// CategorySlice is one category's share of the spend.
type CategorySlice struct {
	Name   string          `json:"name"`
	Icon   string          `json:"icon,omitempty"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// CategoryBreakdown sums amounts per category name. Slices appear in
// first-encounter order; categories with no matching expenses are simply
// never encountered, so zero entries cannot occur.
func CategoryBreakdown(expenses []*expense.Expense) []CategorySlice {
	index := make(map[string]int)
	var slices []CategorySlice
	for _, e := range expenses {
		name := e.CategoryName
		if name == "" {
			name = "Other"
		}
		if i, ok := index[name]; ok {
			slices[i].Amount = slices[i].Amount.Add(e.Amount)
			slices[i].Count++
			continue
		}
		index[name] = len(slices)
		slices = append(slices, CategorySlice{
			Name:   name,
			Icon:   e.CategoryIcon,
			Amount: e.Amount,
			Count:  1,
		})
	}
	return slices
}

// TopCategories returns the category breakdown sorted descending by amount
// and truncated to n. The sort is stable, so ties keep first-encounter order.
func TopCategories(expenses []*expense.Expense, n int) []CategorySlice {
	slices := CategoryBreakdown(expenses)
	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Amount.GreaterThan(slices[j].Amount)
	})
	if len(slices) > n {
		slices = slices[:n]
	}
	return slices
}

// MonthBucket is one calendar month of spend.
type MonthBucket struct {
	Month     string          `json:"month"`     // display key, e.g. "Dec '24"
	MonthFull string          `json:"monthFull"` // e.g. "December"
	Year      int             `json:"year"`
	Amount    decimal.Decimal `json:"amount"`
	Count     int             `json:"count"`
	SortKey   int             `json:"sortKey"`
}

func monthSortKey(t time.Time) int {
	return t.Year()*100 + int(t.Month()) - 1
}

// MonthlyTrend groups spend by calendar month of the effective date, sorted
// chronologically. The display key is "<Mon> '<YY>"; ordering uses the
// numeric sort key so month names never sort lexicographically.
func MonthlyTrend(expenses []*expense.Expense) []MonthBucket {
	index := make(map[int]int)
	var buckets []MonthBucket
	for _, e := range expenses {
		date := e.EffectiveDate()
		key := monthSortKey(date)
		if i, ok := index[key]; ok {
			buckets[i].Amount = buckets[i].Amount.Add(e.Amount)
			buckets[i].Count++
			continue
		}
		index[key] = len(buckets)
		buckets = append(buckets, MonthBucket{
			Month:     date.Format("Jan") + " '" + date.Format("06"),
			MonthFull: date.Month().String(),
			Year:      date.Year(),
			Amount:    e.Amount,
			Count:     1,
			SortKey:   key,
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].SortKey < buckets[j].SortKey
	})
	return buckets
}

// MonthOverMonthChange is the percentage change from last month's total to
// this month's. A zero last month yields 0, not a division error.
func MonthOverMonthChange(thisMonthTotal, lastMonthTotal decimal.Decimal) float64 {
	if lastMonthTotal.IsZero() {
		return 0
	}
	change, _ := thisMonthTotal.Sub(lastMonthTotal).
		Div(lastMonthTotal).
		Mul(decimal.NewFromInt(100)).
		Float64()
	return change
}

// ApprovalLatencyDays is the mean, over expenses carrying both a submission
// and a decision timestamp, of the day count between them (each rounded up).
// When no expense qualifies the latency is undefined and nil is returned,
// never zero.
func ApprovalLatencyDays(expenses []*expense.Expense) *float64 {
	var totalDays float64
	var qualified int
	for _, e := range expenses {
		if e.SubmittedAt == nil || e.ApprovedAt == nil {
			continue
		}
		diff := e.ApprovedAt.Sub(*e.SubmittedAt)
		if diff < 0 {
			diff = -diff
		}
		totalDays += math.Ceil(diff.Hours() / 24)
		qualified++
	}
	if qualified == 0 {
		return nil
	}
	mean := totalDays / float64(qualified)
	return &mean
}

// StatusCounts tallies how many expenses sit in each lifecycle state.
type StatusCounts struct {
	Draft      int `json:"draft"`
	Submitted  int `json:"submitted"`
	Approved   int `json:"approved"`
	Rejected   int `json:"rejected"`
	Reimbursed int `json:"reimbursed"`
}

// Summary is the full analytics payload for one user's snapshot.
type Summary struct {
	Total             decimal.Decimal                    `json:"total"`
	Count             int                                `json:"count"`
	AveragePerExpense decimal.Decimal                    `json:"averagePerExpense"`
	StatusCounts      StatusCounts                       `json:"statusCounts"`
	TotalsByStatus    map[expense.Status]decimal.Decimal `json:"totalsByStatus"`
	ThisMonthTotal    decimal.Decimal                    `json:"thisMonthTotal"`
	LastMonthTotal    decimal.Decimal                    `json:"lastMonthTotal"`
	MonthOverMonth    float64                            `json:"monthOverMonthChange"`
	ApprovalRate      float64                            `json:"approvalRate"`
	ApprovalLatency   *float64                           `json:"approvalLatencyDays"`
	TopCategories     []CategorySlice                    `json:"topCategories"`
	CategoryBreakdown []CategorySlice                    `json:"categoryBreakdown"`
	MonthlyTrend      []MonthBucket                      `json:"monthlyTrend"`
	BiggestExpense    *expense.Expense                   `json:"biggestExpense,omitempty"`
}

// TopCategoryCount is how many categories the summary surfaces.
const TopCategoryCount = 5

// Summarize computes the full analytics payload for the given user over the
// snapshot. The month-over-month comparison is anchored at now.
func Summarize(expenses []*expense.Expense, userID uuid.UUID, now time.Time) Summary {
	var mine []*expense.Expense
	for _, e := range expenses {
		if e.UserID == userID {
			mine = append(mine, e)
		}
	}

	total := decimal.Zero
	var counts StatusCounts
	var biggest *expense.Expense
	for _, e := range mine {
		total = total.Add(e.Amount)
		switch e.Status {
		case expense.StatusDraft:
			counts.Draft++
		case expense.StatusSubmitted:
			counts.Submitted++
		case expense.StatusApproved:
			counts.Approved++
		case expense.StatusRejected:
			counts.Rejected++
		case expense.StatusReimbursed:
			counts.Reimbursed++
		}
		if biggest == nil || e.Amount.GreaterThan(biggest.Amount) {
			biggest = e
		}
	}

	avg := decimal.Zero
	approvalRate := 0.0
	if len(mine) > 0 {
		avg = total.Div(decimal.NewFromInt(int64(len(mine)))).Round(2)
		approvalRate = float64(counts.Approved+counts.Reimbursed) / float64(len(mine)) * 100
	}

	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfLastMonth := startOfMonth.AddDate(0, -1, 0)

	thisMonthTotal := decimal.Zero
	lastMonthTotal := decimal.Zero
	for _, e := range mine {
		date := e.EffectiveDate()
		switch {
		case !date.Before(startOfMonth):
			thisMonthTotal = thisMonthTotal.Add(e.Amount)
		case !date.Before(startOfLastMonth):
			lastMonthTotal = lastMonthTotal.Add(e.Amount)
		}
	}

	return Summary{
		Total:             total,
		Count:             len(mine),
		AveragePerExpense: avg,
		StatusCounts:      counts,
		TotalsByStatus:    TotalsByStatus(mine, userID),
		ThisMonthTotal:    thisMonthTotal,
		LastMonthTotal:    lastMonthTotal,
		MonthOverMonth:    MonthOverMonthChange(thisMonthTotal, lastMonthTotal),
		ApprovalRate:      approvalRate,
		ApprovalLatency:   ApprovalLatencyDays(mine),
		TopCategories:     TopCategories(mine, TopCategoryCount),
		CategoryBreakdown: CategoryBreakdown(mine),
		MonthlyTrend:      MonthlyTrend(mine),
		BiggestExpense:    biggest,
	}
}
