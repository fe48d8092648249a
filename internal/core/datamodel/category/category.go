package category

import (
	"time"

	"github.com/google/uuid"
)

type ExpenseCategory struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	TenantID    uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;index"`
	Name        string    `gorm:"column:name;size:100;not null"`
	Icon        string    `gorm:"column:icon;size:16"`
	Description string    `gorm:"column:description"`
	IsActive    bool      `gorm:"column:is_active"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (ExpenseCategory) TableName() string {
	return "categories"
}
