package user

import (
	"github.com/RahulB-24/ExpenseOps/internal"
	"github.com/RahulB-24/ExpenseOps/internal/auth"
	"github.com/RahulB-24/ExpenseOps/internal/authz"
)

// UpdateRoleDTO assigns a new role to a user.
type UpdateRoleDTO struct {
	Role authz.Role `json:"role"`
}

func (d UpdateRoleDTO) Validate() error {
	if !d.Role.Valid() {
		return internal.NewValidationFieldError("role", "unknown role", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateDepartmentDTO reassigns a user's department.
type UpdateDepartmentDTO struct {
	Department string `json:"department"`
}

// ResetPasswordDTO carries the admin-set replacement password.
type ResetPasswordDTO struct {
	NewPassword string `json:"newPassword"`
}

func (d ResetPasswordDTO) Validate() error {
	if len(d.NewPassword) < auth.MinPasswordLength {
		return internal.NewValidationFieldError("newPassword", "password must be at least 8 characters", internal.ErrCodePasswordTooShort)
	}
	return nil
}
