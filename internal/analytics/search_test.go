package analytics_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/google/uuid"

	"github.com/RahulB-24/ExpenseOps/internal/analytics"
	"github.com/RahulB-24/ExpenseOps/internal/expense"
)

var _ = Describe("Search filter", func() {
	var e *expense.Expense

	BeforeEach(func() {
		e = &expense.Expense{
			ID:              uuid.New(),
			UserID:          uuid.New(),
			Title:           "Client dinner",
			CategoryName:    "Meals",
			Status:          expense.StatusRejected,
			Description:     "Dinner with the Hoffman account",
			RejectionReason: "missing itemized receipt",
			ExpenseDate:     datePtr(2024, time.December, 28),
			CreatedAt:       time.Date(2025, time.January, 2, 9, 0, 0, 0, time.UTC),
		}
	})

	DescribeTable("date queries against an expense dated 2024-12-28",
		func(query string, expected bool) {
			Expect(analytics.MatchesSearch(e, query)).To(Equal(expected))
		},
		Entry("full month and day", "december 28", true),
		Entry("abbreviated month and day", "dec 28", true),
		Entry("day and full month", "28 december", true),
		Entry("bare day number", "28", true),
		Entry("full month alone", "december", true),
		Entry("slash rendering", "28/12/2024", true),
		Entry("wrong month", "january 28", false),
	)

	It("matches on title, category, status, description and rejection reason", func() {
		Expect(analytics.MatchesSearch(e, "client")).To(BeTrue())
		Expect(analytics.MatchesSearch(e, "meals")).To(BeTrue())
		Expect(analytics.MatchesSearch(e, "rejected")).To(BeTrue())
		Expect(analytics.MatchesSearch(e, "hoffman")).To(BeTrue())
		Expect(analytics.MatchesSearch(e, "itemized")).To(BeTrue())
		Expect(analytics.MatchesSearch(e, "taxi")).To(BeFalse())
	})

	It("is case-insensitive and trims the query", func() {
		Expect(analytics.MatchesSearch(e, "  DINNER ")).To(BeTrue())
	})

	It("matches everything on a blank query", func() {
		Expect(analytics.MatchesSearch(e, "")).To(BeTrue())
		Expect(analytics.MatchesSearch(e, "   ")).To(BeTrue())
	})

	It("falls back to the creation date when no expense date is set", func() {
		e.ExpenseDate = nil

		Expect(analytics.MatchesSearch(e, "january")).To(BeTrue())
		Expect(analytics.MatchesSearch(e, "december")).To(BeFalse())
	})

	Describe("FilterBySearch", func() {
		It("keeps matching expenses in order without mutating the input", func() {
			other := &expense.Expense{
				ID:           uuid.New(),
				Title:        "Taxi to airport",
				CategoryName: "Travel",
				Status:       expense.StatusDraft,
				CreatedAt:    time.Date(2025, time.January, 3, 9, 0, 0, 0, time.UTC),
			}
			input := []*expense.Expense{e, other}

			matched := analytics.FilterBySearch(input, "dinner")

			Expect(matched).To(HaveLen(1))
			Expect(matched[0].ID).To(Equal(e.ID))
			Expect(input).To(HaveLen(2))
		})
	})
})
