package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/RahulB-24/ExpenseOps/internal/authz"
	userDatamodel "github.com/RahulB-24/ExpenseOps/internal/core/datamodel/user"
)

// User is the management view of an account: everything an admin sees and
// edits, never the password hash.
type User struct {
	ID         uuid.UUID  `json:"id"`
	TenantID   uuid.UUID  `json:"-"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       authz.Role `json:"role"`
	Department string     `json:"department,omitempty"`
	IsActive   bool       `json:"isActive"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func FromDataModel(m *userDatamodel.User) *User {
	return &User{
		ID:         m.ID,
		TenantID:   m.TenantID,
		Name:       m.Name,
		Email:      m.Email,
		Role:       authz.Role(m.Role),
		Department: m.Department,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func FromDataModelSlice(models []*userDatamodel.User) []*User {
	result := make([]*User, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}
