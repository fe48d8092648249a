package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/RahulB-24/ExpenseOps/internal/expense"
)

// dateCandidates renders a date every way a user might type it: plain day
// number, full and abbreviated month name, and day/month combinations in
// both orders. All lower-cased.
func dateCandidates(t time.Time) []string {
	day := fmt.Sprintf("%d", t.Day())
	monthFull := strings.ToLower(t.Month().String())
	monthShort := strings.ToLower(t.Format("Jan"))
	return []string{
		day,
		monthFull,
		monthShort,
		day + " " + monthFull,
		monthFull + " " + day,
		day + " " + monthShort,
		monthShort + " " + day,
	}
}

func formatDayMonthYear(t time.Time) string {
	return fmt.Sprintf("%02d/%02d/%04d", t.Day(), int(t.Month()), t.Year())
}

// searchableText builds the haystack the query is matched against: the
// expense's text fields plus the date renderings of its effective date, its
// declared expense date and its creation time.
func searchableText(e *expense.Expense) string {
	parts := []string{
		e.Title,
		e.CategoryName,
		string(e.Status),
		e.Description,
		e.RejectionReason,
	}
	parts = append(parts, dateCandidates(e.EffectiveDate())...)
	if e.ExpenseDate != nil {
		parts = append(parts, formatDayMonthYear(*e.ExpenseDate))
	}
	parts = append(parts, formatDayMonthYear(e.CreatedAt))
	return strings.ToLower(strings.Join(parts, " "))
}

// MatchesSearch reports whether the expense matches a free-text query. The
// query is trimmed and lower-cased, then matched as a substring of the
// searchable text; a blank query matches everything.
func MatchesSearch(e *expense.Expense, query string) bool {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return true
	}
	return strings.Contains(searchableText(e), term)
}

// FilterBySearch returns the expenses matching the query, preserving order.
// The input slice is never mutated.
func FilterBySearch(expenses []*expense.Expense, query string) []*expense.Expense {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return append([]*expense.Expense(nil), expenses...)
	}
	var matched []*expense.Expense
	for _, e := range expenses {
		if strings.Contains(searchableText(e), term) {
			matched = append(matched, e)
		}
	}
	return matched
}
