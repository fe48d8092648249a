package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeTransition   ErrorType = "INVALID_TRANSITION"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount    ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidTitle     ErrorCode = "INVALID_TITLE"
	ErrCodeInvalidCategory  ErrorCode = "INVALID_CATEGORY"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeReasonRequired   ErrorCode = "REJECTION_REASON_REQUIRED"
	ErrCodePasswordTooShort ErrorCode = "PASSWORD_TOO_SHORT"

	ErrCodeExpenseNotFound   ErrorCode = "EXPENSE_NOT_FOUND"
	ErrCodeCategoryNotFound  ErrorCode = "CATEGORY_NOT_FOUND"
	ErrCodeUserNotFound      ErrorCode = "USER_NOT_FOUND"
	ErrCodeTenantNotFound    ErrorCode = "TENANT_NOT_FOUND"
	ErrCodeActionForbidden   ErrorCode = "ACTION_FORBIDDEN"
	ErrCodeNotExpenseOwner   ErrorCode = "NOT_EXPENSE_OWNER"
	ErrCodeSelfApproval      ErrorCode = "SELF_APPROVAL_FORBIDDEN"
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeInvalidInviteCode  ErrorCode = "INVALID_INVITE_CODE"
	ErrCodeEmailTaken         ErrorCode = "EMAIL_TAKEN"
	ErrCodeTenantNameTaken    ErrorCode = "TENANT_NAME_TAKEN"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewValidationFieldError reports a single failed field. The code surfaces at
// the top level so clients can branch on it without digging through details.
func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

// NewInvalidTransitionError reports an expense lifecycle action attempted from a
// status that does not permit it. The status and action travel in the details so
// clients can refresh the stale record.
func NewInvalidTransitionError(currentStatus, attemptedAction string) *AppError {
	return &AppError{
		Type:       ErrorTypeTransition,
		Code:       ErrCodeInvalidTransition,
		Message:    fmt.Sprintf("cannot %s an expense in status %s", attemptedAction, currentStatus),
		StatusCode: http.StatusConflict,
		Details: map[string]string{
			"current_status":   currentStatus,
			"attempted_action": attemptedAction,
		},
	}
}

// NewAuthorizationError reports a role or ownership check failure. Role and
// action are carried in the details for the client to surface.
func NewAuthorizationError(role, action string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    fmt.Sprintf("role %s may not %s", role, action),
		StatusCode: http.StatusForbidden,
		Details: map[string]string{
			"role":   role,
			"action": action,
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

var (
	ErrExpenseNotFound  = NewNotFoundError("Expense not found", ErrCodeExpenseNotFound)
	ErrCategoryNotFound = NewNotFoundError("Category not found", ErrCodeCategoryNotFound)
	ErrUserNotFound     = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrTenantNotFound   = NewNotFoundError("Tenant not found", ErrCodeTenantNotFound)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("User account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
	ErrInvalidInviteCode  = NewUnauthorizedError("Invalid invite code", ErrCodeInvalidInviteCode)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
