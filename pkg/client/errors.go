package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError is a structured error returned by the server. The concrete wrapper
// types below let callers branch with errors.As without inspecting codes.
type APIError struct {
	StatusCode int            `json:"-"`
	Type       string         `json:"type"`
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

// AuthorizationError means the caller's role or relation to the record forbids
// the operation. Not retryable; surface it to the user as-is.
type AuthorizationError struct {
	APIError
}

// InvalidTransitionError means the record's current status does not permit the
// attempted operation, usually because the local snapshot is stale. The caller
// should refresh the record rather than retry.
type InvalidTransitionError struct {
	APIError
}

// ValidationError means the request payload was rejected before any state
// change. Corrected by the user, never retried automatically.
type ValidationError struct {
	APIError
}

// NotFoundError means the record does not exist in the caller's tenant.
type NotFoundError struct {
	APIError
}

// TransportError wraps a failure to complete the HTTP exchange at all:
// connection refused, timeout, or an unreadable response. Distinct from every
// server-originated error.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type errorEnvelope struct {
	Error *APIError `json:"error"`
}

// fallback shape used by plain transport-level rejections
type flatError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// decodeError turns a non-2xx response into the matching typed error.
func decodeError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &TransportError{Op: "read error response", Err: err}
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
	}

	var envelope errorEnvelope
	if jsonErr := json.Unmarshal(body, &envelope); jsonErr == nil && envelope.Error != nil {
		apiErr.Type = envelope.Error.Type
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Details = envelope.Error.Details
	} else {
		var flat flatError
		if jsonErr := json.Unmarshal(body, &flat); jsonErr == nil && flat.Message != "" {
			apiErr.Message = flat.Message
		} else if len(body) > 0 {
			apiErr.Message = string(body)
		}
	}

	switch apiErr.Type {
	case "FORBIDDEN", "UNAUTHORIZED":
		return &AuthorizationError{APIError: *apiErr}
	case "INVALID_TRANSITION":
		return &InvalidTransitionError{APIError: *apiErr}
	case "VALIDATION_ERROR":
		return &ValidationError{APIError: *apiErr}
	case "NOT_FOUND":
		return &NotFoundError{APIError: *apiErr}
	}

	// untyped bodies still map by status
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthorizationError{APIError: *apiErr}
	case http.StatusConflict:
		return &InvalidTransitionError{APIError: *apiErr}
	case http.StatusBadRequest:
		return &ValidationError{APIError: *apiErr}
	case http.StatusNotFound:
		return &NotFoundError{APIError: *apiErr}
	}

	return apiErr
}
