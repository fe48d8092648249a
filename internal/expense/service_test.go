package expense_test

import (
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RahulB-24/ExpenseOps/internal"
	"github.com/RahulB-24/ExpenseOps/internal/authz"
	"github.com/RahulB-24/ExpenseOps/internal/expense"
)

type mockRepo struct {
	expenses  map[uuid.UUID]*expense.Expense
	approvals []*expense.Approval
}

func newMockRepo() *mockRepo {
	return &mockRepo{expenses: make(map[uuid.UUID]*expense.Expense)}
}

func (m *mockRepo) Create(e *expense.Expense) error {
	copied := *e
	m.expenses[e.ID] = &copied
	return nil
}

func (m *mockRepo) GetByID(tenantID, id uuid.UUID) (*expense.Expense, error) {
	e, ok := m.expenses[id]
	if !ok || e.TenantID != tenantID {
		return nil, internal.ErrExpenseNotFound
	}
	copied := *e
	return &copied, nil
}

func (m *mockRepo) GetByUserID(tenantID, userID uuid.UUID) ([]*expense.Expense, error) {
	var result []*expense.Expense
	for _, e := range m.expenses {
		if e.TenantID == tenantID && e.UserID == userID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockRepo) GetPending(tenantID, excludeUserID uuid.UUID) ([]*expense.Expense, error) {
	var result []*expense.Expense
	for _, e := range m.expenses {
		if e.TenantID == tenantID && e.Status == expense.StatusSubmitted && e.UserID != excludeUserID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockRepo) GetByStatuses(tenantID uuid.UUID, statuses []expense.Status) ([]*expense.Expense, error) {
	want := make(map[expense.Status]bool)
	for _, s := range statuses {
		want[s] = true
	}
	var result []*expense.Expense
	for _, e := range m.expenses {
		if e.TenantID == tenantID && want[e.Status] {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockRepo) Update(e *expense.Expense) error {
	if _, ok := m.expenses[e.ID]; !ok {
		return internal.ErrExpenseNotFound
	}
	copied := *e
	m.expenses[e.ID] = &copied
	return nil
}

func (m *mockRepo) Delete(tenantID, id uuid.UUID) error {
	e, ok := m.expenses[id]
	if !ok || e.TenantID != tenantID {
		return internal.ErrExpenseNotFound
	}
	delete(m.expenses, id)
	return nil
}

func (m *mockRepo) RecordApproval(tenantID uuid.UUID, a *expense.Approval) error {
	m.approvals = append(m.approvals, a)
	return nil
}

func (m *mockRepo) GetApprovals(tenantID, expenseID uuid.UUID) ([]*expense.Approval, error) {
	var result []*expense.Approval
	for _, a := range m.approvals {
		if a.ExpenseID == expenseID {
			result = append(result, a)
		}
	}
	return result, nil
}

type staticCategories struct{}

func (staticCategories) ResolveCategory(tenantID, categoryID uuid.UUID) (string, string, error) {
	return "Travel", "✈️", nil
}

var _ = Describe("Expense Service", func() {
	var (
		repo     *mockRepo
		service  *expense.Service
		tenantID uuid.UUID
		employee authz.Actor
		manager  authz.Actor
		finance  authz.Actor
	)

	createDTO := func() expense.CreateExpenseDTO {
		return expense.CreateExpenseDTO{
			Title:      "Flight to Pune",
			Amount:     decimal.NewFromInt(300),
			CategoryID: uuid.New(),
		}
	}

	submitted := func(owner authz.Actor) *expense.Expense {
		e, err := service.CreateExpense(tenantID, owner, createDTO())
		Expect(err).NotTo(HaveOccurred())
		e, err = service.SubmitExpense(tenantID, e.ID, owner)
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	BeforeEach(func() {
		repo = newMockRepo()
		service = expense.NewService(repo, staticCategories{}, slog.Default())
		tenantID = uuid.New()
		employee = authz.Actor{ID: uuid.New(), Name: "Evan", Role: authz.RoleEmployee}
		manager = authz.Actor{ID: uuid.New(), Name: "Mara", Role: authz.RoleManager}
		finance = authz.Actor{ID: uuid.New(), Name: "Fiona", Role: authz.RoleFinance}
	})

	Describe("CreateExpense", func() {
		It("creates a draft with the resolved category fields", func() {
			e, err := service.CreateExpense(tenantID, employee, createDTO())

			Expect(err).NotTo(HaveOccurred())
			Expect(e.Status).To(Equal(expense.StatusDraft))
			Expect(e.CategoryName).To(Equal("Travel"))
			Expect(e.UserID).To(Equal(employee.ID))
		})
	})

	Describe("the approval flow", func() {
		It("lets a manager approve another user's submitted expense and audits it", func() {
			e := submitted(employee)

			approved, err := service.ApproveExpense(tenantID, e.ID, manager)

			Expect(err).NotTo(HaveOccurred())
			Expect(approved.Status).To(Equal(expense.StatusApproved))
			Expect(approved.ApprovedByName).To(Equal("Mara"))

			history, err := service.GetExpenseHistory(tenantID, e.ID, manager)
			Expect(err).NotTo(HaveOccurred())
			Expect(history).To(HaveLen(2)) // submit + approve
			Expect(history[1].Action).To(Equal("approve"))
		})

		It("never lets an owner decide their own expense, whatever their role", func() {
			e := submitted(manager)

			_, err := service.ApproveExpense(tenantID, e.ID, manager)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeSelfApproval))
			Expect(repo.expenses[e.ID].Status).To(Equal(expense.StatusSubmitted))
		})

		It("rejects an approval from an employee before touching the state machine", func() {
			e := submitted(manager)

			_, err := service.ApproveExpense(tenantID, e.ID, employee)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeActionForbidden))
		})

		It("surfaces a transition conflict against stale state", func() {
			e := submitted(employee)
			_, err := service.ApproveExpense(tenantID, e.ID, manager)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ApproveExpense(tenantID, e.ID, finance)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidTransition))
		})

		It("requires a reason to reject", func() {
			e := submitted(employee)

			_, err := service.RejectExpense(tenantID, e.ID, manager, "  ")

			Expect(err).To(HaveOccurred())
			Expect(repo.expenses[e.ID].Status).To(Equal(expense.StatusSubmitted))
		})

		It("only finance and admin may reimburse", func() {
			e := submitted(employee)
			_, err := service.ApproveExpense(tenantID, e.ID, manager)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ReimburseExpense(tenantID, e.ID, manager)
			Expect(err).To(HaveOccurred())

			reimbursed, err := service.ReimburseExpense(tenantID, e.ID, finance)
			Expect(err).NotTo(HaveOccurred())
			Expect(reimbursed.Status).To(Equal(expense.StatusReimbursed))
		})
	})

	Describe("GetPendingApprovals", func() {
		It("excludes the caller's own submissions", func() {
			mine := submitted(manager)
			theirs := submitted(employee)

			pending, err := service.GetPendingApprovals(tenantID, manager)

			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(HaveLen(1))
			Expect(pending[0].ID).To(Equal(theirs.ID))
			Expect(pending[0].ID).NotTo(Equal(mine.ID))
		})

		It("is closed to employees", func() {
			_, err := service.GetPendingApprovals(tenantID, employee)

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("UpdateExpense", func() {
		It("only the owner may edit, and only while draft", func() {
			e, err := service.CreateExpense(tenantID, employee, createDTO())
			Expect(err).NotTo(HaveOccurred())

			edit := expense.UpdateExpenseDTO{
				Title:      "Cheaper flight",
				Amount:     decimal.NewFromInt(250),
				CategoryID: uuid.New(),
			}

			_, err = service.UpdateExpense(tenantID, e.ID, manager, edit)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeNotExpenseOwner))

			updated, err := service.UpdateExpense(tenantID, e.ID, employee, edit)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Title).To(Equal("Cheaper flight"))
		})
	})

	Describe("DeleteExpense", func() {
		It("removes a draft and reports not-found on retry", func() {
			e, err := service.CreateExpense(tenantID, employee, createDTO())
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteExpense(tenantID, e.ID, employee)).To(Succeed())

			err = service.DeleteExpense(tenantID, e.ID, employee)
			Expect(err).To(MatchError(internal.ErrExpenseNotFound))
		})

		It("refuses to delete anything past draft", func() {
			e := submitted(employee)

			err := service.DeleteExpense(tenantID, e.ID, employee)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidTransition))
			Expect(repo.expenses).To(HaveKey(e.ID))
		})
	})

	Describe("bulk operations", func() {
		It("completes the rest of the batch when one item is already decided", func() {
			first := submitted(employee)
			second := submitted(employee)
			third := submitted(employee)

			// Another actor got to the second item first.
			_, err := service.ApproveExpense(tenantID, second.ID, finance)
			Expect(err).NotTo(HaveOccurred())

			result := service.BulkApprove(tenantID, []uuid.UUID{first.ID, second.ID, third.ID}, manager)

			Expect(result.Succeeded).To(HaveLen(2))
			Expect(result.Failed).To(HaveLen(1))
			Expect(result.Failed[0].ID).To(Equal(second.ID))
			appErr, ok := internal.IsAppError(result.Failed[0].Err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidTransition))

			Expect(repo.expenses[first.ID].Status).To(Equal(expense.StatusApproved))
			Expect(repo.expenses[third.ID].Status).To(Equal(expense.StatusApproved))
		})

		It("applies one reason across a bulk reject", func() {
			first := submitted(employee)
			second := submitted(employee)

			result := service.BulkReject(tenantID, []uuid.UUID{first.ID, second.ID}, manager, "policy violation")

			Expect(result.Failed).To(BeEmpty())
			Expect(result.Succeeded).To(HaveLen(2))
			for _, e := range result.Succeeded {
				Expect(e.Status).To(Equal(expense.StatusRejected))
				Expect(e.RejectionReason).To(Equal("policy violation"))
			}
		})
	})

	Describe("tenant isolation", func() {
		It("treats another tenant's expense as missing", func() {
			e := submitted(employee)

			_, err := service.GetExpenseByID(uuid.New(), e.ID, manager)

			Expect(err).To(MatchError(internal.ErrExpenseNotFound))
		})
	})

	Describe("GetExpenseByID visibility", func() {
		It("hides other users' expenses from employees", func() {
			e := submitted(employee)
			other := authz.Actor{ID: uuid.New(), Role: authz.RoleEmployee}

			_, err := service.GetExpenseByID(tenantID, e.ID, other)

			Expect(err).To(MatchError(internal.ErrExpenseNotFound))
		})

		It("shows any tenant expense to approver roles", func() {
			e := submitted(employee)

			got, err := service.GetExpenseByID(tenantID, e.ID, manager)

			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(e.ID))
		})
	})
})
