package category

import (
	"strings"

	"github.com/RahulB-24/ExpenseOps/internal"
)

// CategoryDTO is the request payload for creating or updating a category.
type CategoryDTO struct {
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
}

func (dto CategoryDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if len(dto.Name) > 100 {
		return internal.NewValidationFieldError("name", "name must not exceed 100 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}
