package auth

import (
	"strings"

	"github.com/RahulB-24/ExpenseOps/internal"
)

// LoginDTO is the transport shape for login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	if d.Email == "" {
		return internal.NewValidationFieldError("email", "email is required", internal.ErrCodeValidationFailed)
	}
	if d.Password == "" {
		return internal.NewValidationFieldError("password", "password is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// RegisterDTO covers both registration paths: joining an existing tenant by
// invite code, or founding a new one by naming it. Exactly one of InviteCode
// and NewTenantName must be set.
type RegisterDTO struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Department    string `json:"department,omitempty"`
	InviteCode    string `json:"inviteCode,omitempty"`
	NewTenantName string `json:"newTenantName,omitempty"`
}

const MinPasswordLength = 8

func (d RegisterDTO) Validate() error {
	if d.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if d.Email == "" || !strings.Contains(d.Email, "@") {
		return internal.NewValidationFieldError("email", "a valid email is required", internal.ErrCodeValidationFailed)
	}
	if len(d.Password) < MinPasswordLength {
		return internal.NewValidationFieldError("password", "password must be at least 8 characters", internal.ErrCodePasswordTooShort)
	}
	hasInvite := strings.TrimSpace(d.InviteCode) != ""
	hasTenant := strings.TrimSpace(d.NewTenantName) != ""
	if hasInvite == hasTenant {
		return internal.NewValidationFieldError("inviteCode", "provide either an invite code or a new organization name", internal.ErrCodeValidationFailed)
	}
	return nil
}

// AuthResponse is returned from login and register: the bearer token plus the
// profile the client caches alongside it.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
