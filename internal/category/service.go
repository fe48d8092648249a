package category

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/RahulB-24/ExpenseOps/internal"
	"github.com/RahulB-24/ExpenseOps/internal/authz"
)

// Repository is the tenant-scoped category store.
type Repository interface {
	Create(c *Category) error
	GetByID(tenantID, id uuid.UUID) (*Category, error)
	GetAll(tenantID uuid.UUID) ([]*Category, error)
	GetActive(tenantID uuid.UUID) ([]*Category, error)
	Update(c *Category) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// ListActive returns the categories available in expense pickers.
func (s *Service) ListActive(tenantID uuid.UUID) ([]*Category, error) {
	categories, err := s.repo.GetActive(tenantID)
	if err != nil {
		s.logger.Error("failed to list categories", "error", err, "tenant_id", tenantID)
		return nil, internal.NewInternalError("failed to list categories", err)
	}
	return categories, nil
}

// ListAll returns every category including deactivated ones. Admin only.
func (s *Service) ListAll(tenantID uuid.UUID, actor authz.Actor) ([]*Category, error) {
	if err := authz.Authorize(actor, authz.ActionManageCategories, uuid.Nil); err != nil {
		return nil, err
	}
	categories, err := s.repo.GetAll(tenantID)
	if err != nil {
		s.logger.Error("failed to list categories", "error", err, "tenant_id", tenantID)
		return nil, internal.NewInternalError("failed to list categories", err)
	}
	return categories, nil
}

func (s *Service) CreateCategory(tenantID uuid.UUID, actor authz.Actor, dto CategoryDTO) (*Category, error) {
	if err := authz.Authorize(actor, authz.ActionManageCategories, uuid.Nil); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	cat := New(tenantID, dto, s.now())
	if err := s.repo.Create(cat); err != nil {
		s.logger.Error("failed to create category", "error", err, "tenant_id", tenantID)
		return nil, internal.NewInternalError("failed to create category", err)
	}

	s.logger.Info("category created", "category_id", cat.ID, "name", cat.Name, "actor_id", actor.ID)
	return cat, nil
}

func (s *Service) UpdateCategory(tenantID, id uuid.UUID, actor authz.Actor, dto CategoryDTO) (*Category, error) {
	if err := authz.Authorize(actor, authz.ActionManageCategories, uuid.Nil); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	cat, err := s.repo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	cat.Name = dto.Name
	cat.Icon = dto.Icon
	cat.Description = dto.Description
	cat.UpdatedAt = s.now()

	if err := s.repo.Update(cat); err != nil {
		s.logger.Error("failed to update category", "error", err, "category_id", id)
		return nil, internal.NewInternalError("failed to update category", err)
	}
	return cat, nil
}

// ToggleActive flips a category's availability. Expenses already referencing
// a deactivated category are unaffected.
func (s *Service) ToggleActive(tenantID, id uuid.UUID, actor authz.Actor) (*Category, error) {
	if err := authz.Authorize(actor, authz.ActionManageCategories, uuid.Nil); err != nil {
		return nil, err
	}

	cat, err := s.repo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	cat.IsActive = !cat.IsActive
	cat.UpdatedAt = s.now()

	if err := s.repo.Update(cat); err != nil {
		s.logger.Error("failed to toggle category", "error", err, "category_id", id)
		return nil, internal.NewInternalError("failed to toggle category", err)
	}

	s.logger.Info("category toggled", "category_id", id, "is_active", cat.IsActive, "actor_id", actor.ID)
	return cat, nil
}

// ResolveCategory supplies the display fields expenses denormalize at write
// time. Inactive and foreign categories resolve as missing.
func (s *Service) ResolveCategory(tenantID, categoryID uuid.UUID) (string, string, error) {
	cat, err := s.repo.GetByID(tenantID, categoryID)
	if err != nil {
		return "", "", err
	}
	if !cat.IsActive {
		return "", "", internal.ErrCategoryNotFound
	}
	return cat.Name, cat.Icon, nil
}

// SeedDefaults installs the starter category set for a new tenant.
func (s *Service) SeedDefaults(tenantID uuid.UUID) error {
	now := s.now()
	for _, d := range defaultCategories {
		cat := New(tenantID, CategoryDTO{Name: d.name, Icon: d.icon, Description: d.description}, now)
		if err := s.repo.Create(cat); err != nil {
			return err
		}
	}
	return nil
}
