package analytics_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RahulB-24/ExpenseOps/internal/analytics"
	"github.com/RahulB-24/ExpenseOps/internal/expense"
)

func amount(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	Expect(err).NotTo(HaveOccurred())
	return d
}

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

var _ = Describe("Aggregates", func() {
	var owner, other uuid.UUID

	BeforeEach(func() {
		owner = uuid.New()
		other = uuid.New()
	})

	fixture := func(cat, amt string) *expense.Expense {
		return &expense.Expense{
			ID:           uuid.New(),
			UserID:       owner,
			CategoryName: cat,
			Amount:       amount(amt),
			Status:       expense.StatusSubmitted,
			CreatedAt:    time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC),
		}
	}

	Describe("CategoryBreakdown", func() {
		It("sums amounts per category in first-encounter order", func() {
			expenses := []*expense.Expense{
				fixture("Travel", "450"),
				fixture("Meals", "85"),
				fixture("Travel", "32.5"),
			}

			breakdown := analytics.CategoryBreakdown(expenses)

			Expect(breakdown).To(HaveLen(2))
			Expect(breakdown[0].Name).To(Equal("Travel"))
			Expect(breakdown[0].Amount).To(Equal(amount("482.5")))
			Expect(breakdown[0].Count).To(Equal(2))
			Expect(breakdown[1].Name).To(Equal("Meals"))
			Expect(breakdown[1].Amount).To(Equal(amount("85")))
		})

		It("omits categories with no matching expenses", func() {
			breakdown := analytics.CategoryBreakdown(nil)

			Expect(breakdown).To(BeEmpty())
		})
	})

	Describe("TopCategories", func() {
		It("sorts descending by amount and truncates", func() {
			expenses := []*expense.Expense{
				fixture("A", "10"),
				fixture("B", "50"),
				fixture("C", "30"),
				fixture("D", "20"),
				fixture("E", "40"),
				fixture("F", "5"),
			}

			top := analytics.TopCategories(expenses, 5)

			Expect(top).To(HaveLen(5))
			Expect(top[0].Name).To(Equal("B"))
			Expect(top[4].Name).To(Equal("A"))
		})

		It("breaks ties by first-encounter order", func() {
			expenses := []*expense.Expense{
				fixture("First", "100"),
				fixture("Second", "100"),
			}

			top := analytics.TopCategories(expenses, 5)

			Expect(top[0].Name).To(Equal("First"))
			Expect(top[1].Name).To(Equal("Second"))
		})
	})

	Describe("TotalsByStatus", func() {
		It("only counts the given user's expenses", func() {
			mine := fixture("Travel", "100")
			theirs := fixture("Travel", "999")
			theirs.UserID = other

			totals := analytics.TotalsByStatus([]*expense.Expense{mine, theirs}, owner)

			Expect(totals).To(HaveLen(1))
			Expect(totals[expense.StatusSubmitted]).To(Equal(amount("100")))
		})
	})

	Describe("MonthlyTrend", func() {
		It("groups by calendar month with a numeric sort key", func() {
			jan := fixture("Travel", "10")
			jan.ExpenseDate = datePtr(2025, time.January, 15)
			dec := fixture("Travel", "20")
			dec.ExpenseDate = datePtr(2024, time.December, 3)
			dec2 := fixture("Travel", "5")
			dec2.ExpenseDate = datePtr(2024, time.December, 28)

			trend := analytics.MonthlyTrend([]*expense.Expense{jan, dec, dec2})

			Expect(trend).To(HaveLen(2))
			Expect(trend[0].Month).To(Equal("Dec '24"))
			Expect(trend[0].Amount).To(Equal(amount("25")))
			Expect(trend[0].Count).To(Equal(2))
			Expect(trend[1].Month).To(Equal("Jan '25"))
			Expect(trend[0].SortKey).To(BeNumerically("<", trend[1].SortKey))
		})

		It("falls back to creation time when the expense date is absent", func() {
			e := fixture("Travel", "10") // created June 2024, no expense date

			trend := analytics.MonthlyTrend([]*expense.Expense{e})

			Expect(trend).To(HaveLen(1))
			Expect(trend[0].Month).To(Equal("Jun '24"))
		})
	})

	Describe("MonthOverMonthChange", func() {
		It("computes the percentage change", func() {
			change := analytics.MonthOverMonthChange(amount("150"), amount("100"))

			Expect(change).To(BeNumerically("~", 50.0, 1e-9))
		})

		It("is exactly 0 when last month's total is 0, regardless of this month", func() {
			Expect(analytics.MonthOverMonthChange(amount("1234.56"), decimal.Zero)).To(BeZero())
			Expect(analytics.MonthOverMonthChange(decimal.Zero, decimal.Zero)).To(BeZero())
		})
	})

	Describe("ApprovalLatencyDays", func() {
		It("averages the ceiling of each submit-to-decision gap", func() {
			fast := fixture("Travel", "10")
			fast.SubmittedAt = datePtr(2024, time.June, 1)
			approvedFast := time.Date(2024, time.June, 1, 6, 0, 0, 0, time.UTC)
			fast.ApprovedAt = &approvedFast // 6h -> ceil 1 day

			slow := fixture("Travel", "20")
			slow.SubmittedAt = datePtr(2024, time.June, 1)
			slow.ApprovedAt = datePtr(2024, time.June, 4) // 3 days

			latency := analytics.ApprovalLatencyDays([]*expense.Expense{fast, slow})

			Expect(latency).NotTo(BeNil())
			Expect(*latency).To(BeNumerically("~", 2.0, 1e-9))
		})

		It("is undefined, not zero, when no expense has both timestamps", func() {
			submittedOnly := fixture("Travel", "10")
			submittedOnly.SubmittedAt = datePtr(2024, time.June, 1)

			expenses := []*expense.Expense{
				submittedOnly,
				fixture("Travel", "20"),
				fixture("Travel", "30"),
			}

			Expect(analytics.ApprovalLatencyDays(expenses)).To(BeNil())
		})

		It("ignores expenses missing either timestamp in the mean", func() {
			decided := fixture("Travel", "10")
			decided.SubmittedAt = datePtr(2024, time.June, 1)
			decided.ApprovedAt = datePtr(2024, time.June, 3)

			pending := fixture("Travel", "20")
			pending.SubmittedAt = datePtr(2024, time.June, 1)

			latency := analytics.ApprovalLatencyDays([]*expense.Expense{decided, pending})

			Expect(latency).NotTo(BeNil())
			Expect(*latency).To(BeNumerically("~", 2.0, 1e-9))
		})
	})

	Describe("Summarize", func() {
		It("does not mutate the input snapshot", func() {
			e := fixture("Travel", "100")
			before := *e

			analytics.Summarize([]*expense.Expense{e}, owner, time.Now())

			Expect(*e).To(Equal(before))
		})

		It("anchors the month comparison at the given time", func() {
			now := time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC)

			thisMonth := fixture("Travel", "150")
			thisMonth.ExpenseDate = datePtr(2024, time.July, 2)
			lastMonth := fixture("Travel", "100")
			lastMonth.ExpenseDate = datePtr(2024, time.June, 20)

			summary := analytics.Summarize([]*expense.Expense{thisMonth, lastMonth}, owner, now)

			Expect(summary.ThisMonthTotal).To(Equal(amount("150")))
			Expect(summary.LastMonthTotal).To(Equal(amount("100")))
			Expect(summary.MonthOverMonth).To(BeNumerically("~", 50.0, 1e-9))
		})
	})
})
