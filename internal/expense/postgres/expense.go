package postgres

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/RahulB-24/ExpenseOps/internal"
	categoryDatamodel "github.com/RahulB-24/ExpenseOps/internal/core/datamodel/category"
	expenseDatamodel "github.com/RahulB-24/ExpenseOps/internal/core/datamodel/expense"
	userDatamodel "github.com/RahulB-24/ExpenseOps/internal/core/datamodel/user"
	"github.com/RahulB-24/ExpenseOps/internal/expense"
)

// ExpenseRepository is the gorm-backed store for expenses and their audit
// trail. Every query is tenant-scoped.
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(e *expense.Expense) error {
	return r.db.Create(expense.ToDataModel(e)).Error
}

func (r *ExpenseRepository) GetByID(tenantID, id uuid.UUID) (*expense.Expense, error) {
	var dm expenseDatamodel.Expense
	err := r.db.First(&dm, "tenant_id = ? AND id = ?", tenantID, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrExpenseNotFound
		}
		return nil, err
	}

	result := expense.FromDataModel(&dm)
	r.hydrate([]*expense.Expense{result})
	return result, nil
}

func (r *ExpenseRepository) GetByUserID(tenantID, userID uuid.UUID) ([]*expense.Expense, error) {
	var models []*expenseDatamodel.Expense
	err := r.db.
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.convert(models), nil
}

// GetPending lists submitted expenses awaiting a decision, excluding the
// given user's own submissions.
func (r *ExpenseRepository) GetPending(tenantID, excludeUserID uuid.UUID) ([]*expense.Expense, error) {
	var models []*expenseDatamodel.Expense
	err := r.db.
		Where("tenant_id = ? AND status = ? AND user_id <> ?", tenantID, string(expense.StatusSubmitted), excludeUserID).
		Order("submitted_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.convert(models), nil
}

func (r *ExpenseRepository) GetByStatuses(tenantID uuid.UUID, statuses []expense.Status) ([]*expense.Expense, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}

	var models []*expenseDatamodel.Expense
	err := r.db.
		Where("tenant_id = ? AND status IN ?", tenantID, values).
		Order("updated_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.convert(models), nil
}

func (r *ExpenseRepository) GetAll(tenantID uuid.UUID) ([]*expense.Expense, error) {
	var models []*expenseDatamodel.Expense
	err := r.db.
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.convert(models), nil
}

func (r *ExpenseRepository) Update(e *expense.Expense) error {
	dm := expense.ToDataModel(e)
	result := r.db.Model(&expenseDatamodel.Expense{}).
		Where("tenant_id = ? AND id = ?", dm.TenantID, dm.ID).
		Select("*").
		Omit("id", "tenant_id", "created_at").
		Updates(dm)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrExpenseNotFound
	}
	return nil
}

func (r *ExpenseRepository) Delete(tenantID, id uuid.UUID) error {
	result := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&expenseDatamodel.Expense{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrExpenseNotFound
	}
	return nil
}

func (r *ExpenseRepository) RecordApproval(tenantID uuid.UUID, a *expense.Approval) error {
	return r.db.Create(expense.ApprovalToDataModel(a, tenantID)).Error
}

func (r *ExpenseRepository) GetApprovals(tenantID, expenseID uuid.UUID) ([]*expense.Approval, error) {
	var models []*expenseDatamodel.Approval
	err := r.db.
		Where("tenant_id = ? AND expense_id = ?", tenantID, expenseID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	approvals := make([]*expense.Approval, len(models))
	for i, m := range models {
		approvals[i] = expense.ApprovalFromDataModel(m)
	}
	return approvals, nil
}

func (r *ExpenseRepository) convert(models []*expenseDatamodel.Expense) []*expense.Expense {
	result := expense.FromDataModelSlice(models)
	r.hydrate(result)
	return result
}

// hydrate fills the display fields that live on other tables: owner name and
// department, category name and icon. A dangling reference leaves the fields
// blank rather than failing the read.
func (r *ExpenseRepository) hydrate(expenses []*expense.Expense) {
	if len(expenses) == 0 {
		return
	}

	userIDs := make([]uuid.UUID, 0, len(expenses))
	categoryIDs := make([]uuid.UUID, 0, len(expenses))
	seenUsers := make(map[uuid.UUID]bool)
	seenCategories := make(map[uuid.UUID]bool)
	for _, e := range expenses {
		if !seenUsers[e.UserID] {
			seenUsers[e.UserID] = true
			userIDs = append(userIDs, e.UserID)
		}
		if !seenCategories[e.CategoryID] {
			seenCategories[e.CategoryID] = true
			categoryIDs = append(categoryIDs, e.CategoryID)
		}
	}

	var users []userDatamodel.User
	r.db.Where("id IN ?", userIDs).Find(&users)
	usersByID := make(map[uuid.UUID]userDatamodel.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	var categories []categoryDatamodel.ExpenseCategory
	r.db.Where("id IN ?", categoryIDs).Find(&categories)
	categoriesByID := make(map[uuid.UUID]categoryDatamodel.ExpenseCategory, len(categories))
	for _, c := range categories {
		categoriesByID[c.ID] = c
	}

	for _, e := range expenses {
		if u, ok := usersByID[e.UserID]; ok {
			e.UserName = u.Name
			e.UserDepartment = u.Department
		}
		if c, ok := categoriesByID[e.CategoryID]; ok {
			e.CategoryName = c.Name
			e.CategoryIcon = c.Icon
		}
	}
}
