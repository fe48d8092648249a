package postgres

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/RahulB-24/ExpenseOps/internal"
	"github.com/RahulB-24/ExpenseOps/internal/auth"
	"github.com/RahulB-24/ExpenseOps/internal/authz"
	tenantmodel "github.com/RahulB-24/ExpenseOps/internal/core/datamodel/tenant"
	usermodel "github.com/RahulB-24/ExpenseOps/internal/core/datamodel/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func toAuthUser(dm *usermodel.User, tenantName string) *auth.User {
	return &auth.User{
		ID:         dm.ID,
		TenantID:   dm.TenantID,
		TenantName: tenantName,
		Name:       dm.Name,
		Email:      dm.Email,
		Role:       authz.Role(dm.Role),
		Department: dm.Department,
		IsActive:   dm.IsActive,
	}
}

func (r *UserRepository) tenantName(tenantID uuid.UUID) string {
	var t tenantmodel.Tenant
	if err := r.db.Select("name").First(&t, "id = ?", tenantID).Error; err != nil {
		return ""
	}
	return t.Name
}

func (r *UserRepository) GetByEmail(email string) (*auth.User, string, error) {
	var dm usermodel.User
	if err := r.db.First(&dm, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", internal.ErrUserNotFound
		}
		return nil, "", err
	}
	return toAuthUser(&dm, r.tenantName(dm.TenantID)), dm.PasswordHash, nil
}

func (r *UserRepository) GetByID(id uuid.UUID) (*auth.User, error) {
	var dm usermodel.User
	if err := r.db.First(&dm, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return toAuthUser(&dm, r.tenantName(dm.TenantID)), nil
}

func (r *UserRepository) Create(u *auth.User, passwordHash string) error {
	dm := usermodel.User{
		ID:           u.ID,
		TenantID:     u.TenantID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: passwordHash,
		Role:         string(u.Role),
		Department:   u.Department,
		IsActive:     u.IsActive,
	}
	return r.db.Create(&dm).Error
}

func (r *UserRepository) CountInTenant(tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&usermodel.User{}).Where("tenant_id = ?", tenantID).Count(&count).Error
	return count, err
}

type TenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

func (r *TenantRepository) GetByInviteCode(code string) (uuid.UUID, string, error) {
	var dm tenantmodel.Tenant
	if err := r.db.First(&dm, "invite_code = ? AND is_active = ?", code, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, "", internal.ErrTenantNotFound
		}
		return uuid.Nil, "", err
	}
	return dm.ID, dm.Name, nil
}

func (r *TenantRepository) GetInviteCode(tenantID uuid.UUID) (string, error) {
	var dm tenantmodel.Tenant
	if err := r.db.Select("invite_code").First(&dm, "id = ?", tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", internal.ErrTenantNotFound
		}
		return "", err
	}
	return dm.InviteCode, nil
}

func (r *TenantRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&tenantmodel.Tenant{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *TenantRepository) Create(id uuid.UUID, name, slug, inviteCode string) error {
	dm := tenantmodel.Tenant{
		ID:         id,
		Name:       name,
		Slug:       slug,
		InviteCode: inviteCode,
		IsActive:   true,
	}
	return r.db.Create(&dm).Error
}
