package postgres

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/RahulB-24/ExpenseOps/internal"
	"github.com/RahulB-24/ExpenseOps/internal/category"
	categoryDatamodel "github.com/RahulB-24/ExpenseOps/internal/core/datamodel/category"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(c *category.Category) error {
	return r.db.Create(category.ToDataModel(c)).Error
}

func (r *CategoryRepository) GetByID(tenantID, id uuid.UUID) (*category.Category, error) {
	var dm categoryDatamodel.ExpenseCategory
	err := r.db.First(&dm, "tenant_id = ? AND id = ?", tenantID, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrCategoryNotFound
		}
		return nil, err
	}
	return category.FromDataModel(&dm), nil
}

func (r *CategoryRepository) GetAll(tenantID uuid.UUID) ([]*category.Category, error) {
	var models []*categoryDatamodel.ExpenseCategory
	err := r.db.
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return category.FromDataModelSlice(models), nil
}

func (r *CategoryRepository) GetActive(tenantID uuid.UUID) ([]*category.Category, error) {
	var models []*categoryDatamodel.ExpenseCategory
	err := r.db.
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("name ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return category.FromDataModelSlice(models), nil
}

func (r *CategoryRepository) Update(c *category.Category) error {
	dm := category.ToDataModel(c)
	result := r.db.Model(&categoryDatamodel.ExpenseCategory{}).
		Where("tenant_id = ? AND id = ?", dm.TenantID, dm.ID).
		Select("name", "icon", "description", "is_active", "updated_at").
		Updates(dm)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrCategoryNotFound
	}
	return nil
}
