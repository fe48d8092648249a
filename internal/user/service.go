package user

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/RahulB-24/ExpenseOps/internal"
	"github.com/RahulB-24/ExpenseOps/internal/authz"
)

// Repository is the tenant-scoped account store for management operations.
type Repository interface {
	GetByID(tenantID, id uuid.UUID) (*User, error)
	GetAll(tenantID uuid.UUID) ([]*User, error)
	UpdateRole(tenantID, id uuid.UUID, role authz.Role, updatedAt time.Time) error
	UpdateDepartment(tenantID, id uuid.UUID, department string, updatedAt time.Time) error
	UpdateActive(tenantID, id uuid.UUID, active bool, updatedAt time.Time) error
	UpdatePasswordHash(tenantID, id uuid.UUID, hash string, updatedAt time.Time) error
}

// PasswordHasher hashes replacement passwords for admin resets.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// TenantInfo exposes the tenant's join code for the admin screen.
type TenantInfo interface {
	GetInviteCode(tenantID uuid.UUID) (string, error)
}

type Service struct {
	repo    Repository
	hasher  PasswordHasher
	tenants TenantInfo
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo Repository, hasher PasswordHasher, tenants TenantInfo, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		hasher:  hasher,
		tenants: tenants,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Service) authorize(actor authz.Actor) error {
	return authz.Authorize(actor, authz.ActionManageUsers, uuid.Nil)
}

// ListUsers returns every account in the tenant. Admin only.
func (s *Service) ListUsers(tenantID uuid.UUID, actor authz.Actor) ([]*User, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}

	users, err := s.repo.GetAll(tenantID)
	if err != nil {
		s.logger.Error("failed to list users", "error", err, "tenant_id", tenantID)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}

func (s *Service) UpdateRole(tenantID, id uuid.UUID, actor authz.Actor, dto UpdateRoleDTO) (*User, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateRole(tenantID, id, dto.Role, s.now()); err != nil {
		return nil, err
	}

	s.logger.Info("user role changed", "user_id", id, "role", dto.Role, "actor_id", actor.ID)
	return s.repo.GetByID(tenantID, id)
}

func (s *Service) UpdateDepartment(tenantID, id uuid.UUID, actor authz.Actor, dto UpdateDepartmentDTO) (*User, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateDepartment(tenantID, id, dto.Department, s.now()); err != nil {
		return nil, err
	}
	return s.repo.GetByID(tenantID, id)
}

// ToggleActive flips an account's access. Admins cannot deactivate
// themselves; that would strand the tenant.
func (s *Service) ToggleActive(tenantID, id uuid.UUID, actor authz.Actor) (*User, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	if id == actor.ID {
		return nil, internal.NewValidationError("cannot deactivate your own account", internal.ErrCodeValidationFailed)
	}

	target, err := s.repo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateActive(tenantID, id, !target.IsActive, s.now()); err != nil {
		return nil, err
	}

	s.logger.Info("user access toggled", "user_id", id, "is_active", !target.IsActive, "actor_id", actor.ID)
	return s.repo.GetByID(tenantID, id)
}

func (s *Service) ResetPassword(tenantID, id uuid.UUID, actor authz.Actor, dto ResetPasswordDTO) error {
	if err := s.authorize(actor); err != nil {
		return err
	}
	if err := dto.Validate(); err != nil {
		return err
	}

	if _, err := s.repo.GetByID(tenantID, id); err != nil {
		return err
	}

	hash, err := s.hasher.HashPassword(dto.NewPassword)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}

	if err := s.repo.UpdatePasswordHash(tenantID, id, hash, s.now()); err != nil {
		return internal.NewInternalError("failed to reset password", err)
	}

	s.logger.Info("password reset", "user_id", id, "actor_id", actor.ID)
	return nil
}

// GetInviteCode returns the tenant's join code. Admin only.
func (s *Service) GetInviteCode(tenantID uuid.UUID, actor authz.Actor) (string, error) {
	if err := s.authorize(actor); err != nil {
		return "", err
	}
	code, err := s.tenants.GetInviteCode(tenantID)
	if err != nil {
		s.logger.Error("failed to load invite code", "error", err, "tenant_id", tenantID)
		return "", internal.NewInternalError("failed to load invite code", err)
	}
	return code, nil
}
