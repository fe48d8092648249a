package category

import (
	"time"

	"github.com/google/uuid"

	categoryDatamodel "github.com/RahulB-24/ExpenseOps/internal/core/datamodel/category"
)

// Category is an expense classification owned by one tenant. Categories are
// never deleted; deactivating one hides it from pickers while existing
// expenses keep their reference.
type Category struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"-"`
	Name        string    `json:"name"`
	Icon        string    `json:"icon,omitempty"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func New(tenantID uuid.UUID, dto CategoryDTO, now time.Time) *Category {
	return &Category{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Name:        dto.Name,
		Icon:        dto.Icon,
		Description: dto.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func ToDataModel(c *Category) *categoryDatamodel.ExpenseCategory {
	return &categoryDatamodel.ExpenseCategory{
		ID:          c.ID,
		TenantID:    c.TenantID,
		Name:        c.Name,
		Icon:        c.Icon,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromDataModel(m *categoryDatamodel.ExpenseCategory) *Category {
	return &Category{
		ID:          m.ID,
		TenantID:    m.TenantID,
		Name:        m.Name,
		Icon:        m.Icon,
		Description: m.Description,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func FromDataModelSlice(models []*categoryDatamodel.ExpenseCategory) []*Category {
	result := make([]*Category, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}

// defaultCategories is the starter set every new tenant receives.
var defaultCategories = []struct {
	name, icon, description string
}{
	{"Travel", "✈️", "Flights, hotels, and transport"},
	{"Meals", "🍽️", "Business meals and entertainment"},
	{"Office Supplies", "📦", "Stationery, equipment, and supplies"},
	{"Software", "💻", "Software subscriptions and licenses"},
	{"Transport", "🚕", "Taxi, uber, and local transport"},
	{"Training", "📚", "Courses, books, and learning materials"},
	{"Equipment", "🖥️", "Hardware and office equipment"},
	{"Other", "📋", "Miscellaneous expenses"},
}
