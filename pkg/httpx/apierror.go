package httpx

import (
	"fmt"
	"net/http"
)

// API error codes used across the service.
const (
	ErrorCodeValidationFailed = "validation_failed"
	ErrorCodeUnauthorized     = "unauthorized"
	ErrorCodeForbidden        = "forbidden"
	ErrorCodeNotFound         = "not_found"
	ErrorCodeLockedOut        = "locked_out"
	ErrorCodeServerError      = "server_error"
)

// APIError is the error body every failing endpoint returns. It implements
// the error interface so handlers and the SDK-facing side can share one type.
type APIError struct {
	// StatusCode is the HTTP status code for this error.
	StatusCode int `json:"-"`

	// Code is a stable machine-readable error code.
	Code string `json:"error"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// Fields carries field-level validation messages, when applicable.
	Fields map[string]string `json:"fields,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Write writes this APIError to an HTTP response writer.
func (e *APIError) Write(w http.ResponseWriter) {
	WriteJSON(w, e.StatusCode, e)
}

var (
	// ErrUnauthorized is returned for bad credentials, bad MFA codes and
	// invalid tokens. It is deliberately generic so callers cannot tell an
	// unknown account from a wrong password.
	ErrUnauthorized = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeUnauthorized,
		Message:    "Unauthorized",
	}

	// ErrForbidden is returned for ownership and role violations.
	ErrForbidden = &APIError{
		StatusCode: http.StatusForbidden,
		Code:       ErrorCodeForbidden,
		Message:    "You do not have access to this resource",
	}

	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Code:       ErrorCodeNotFound,
		Message:    "Resource not found",
	}

	// ErrServerError is returned for unexpected internal failures.
	ErrServerError = &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       ErrorCodeServerError,
		Message:    "Internal server error",
	}

	// ErrInvalidBody is returned when the request body cannot be decoded.
	ErrInvalidBody = &APIError{
		StatusCode: http.StatusUnprocessableEntity,
		Code:       ErrorCodeValidationFailed,
		Message:    "Invalid JSON body",
	}
)

// NewValidationError builds a 422 error carrying field-level messages.
func NewValidationError(fields map[string]string) *APIError {
	return &APIError{
		StatusCode: http.StatusUnprocessableEntity,
		Code:       ErrorCodeValidationFailed,
		Message:    "The request failed validation",
		Fields:     fields,
	}
}
