package postgres

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/RahulB-24/ExpenseOps/internal"
	"github.com/RahulB-24/ExpenseOps/internal/authz"
	userDatamodel "github.com/RahulB-24/ExpenseOps/internal/core/datamodel/user"
	"github.com/RahulB-24/ExpenseOps/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(tenantID, id uuid.UUID) (*user.User, error) {
	var dm userDatamodel.User
	err := r.db.First(&dm, "tenant_id = ? AND id = ?", tenantID, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&dm), nil
}

func (r *UserRepository) GetAll(tenantID uuid.UUID) ([]*user.User, error) {
	var models []*userDatamodel.User
	err := r.db.
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return user.FromDataModelSlice(models), nil
}

func (r *UserRepository) updateColumns(tenantID, id uuid.UUID, values map[string]interface{}) error {
	result := r.db.Model(&userDatamodel.User{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateRole(tenantID, id uuid.UUID, role authz.Role, updatedAt time.Time) error {
	return r.updateColumns(tenantID, id, map[string]interface{}{
		"role":       string(role),
		"updated_at": updatedAt,
	})
}

func (r *UserRepository) UpdateDepartment(tenantID, id uuid.UUID, department string, updatedAt time.Time) error {
	return r.updateColumns(tenantID, id, map[string]interface{}{
		"department": department,
		"updated_at": updatedAt,
	})
}

func (r *UserRepository) UpdateActive(tenantID, id uuid.UUID, active bool, updatedAt time.Time) error {
	return r.updateColumns(tenantID, id, map[string]interface{}{
		"is_active":  active,
		"updated_at": updatedAt,
	})
}

func (r *UserRepository) UpdatePasswordHash(tenantID, id uuid.UUID, hash string, updatedAt time.Time) error {
	return r.updateColumns(tenantID, id, map[string]interface{}{
		"password_hash": hash,
		"updated_at":    updatedAt,
	})
}
