package tenant

import (
	"time"

	"github.com/google/uuid"
)

type Tenant struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name       string    `gorm:"column:name;size:200;not null"`
	Slug       string    `gorm:"column:slug;size:200;uniqueIndex;not null"`
	InviteCode string    `gorm:"column:invite_code;size:16;uniqueIndex;not null"`
	IsActive   bool      `gorm:"column:is_active"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (Tenant) TableName() string {
	return "tenants"
}
