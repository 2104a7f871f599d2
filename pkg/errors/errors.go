package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType is the machine-readable kind of an application error
type ErrorType string

const (
	ErrorTypeInvalidArgument    ErrorType = "invalid_argument"
	ErrorTypeUnauthenticated    ErrorType = "unauthenticated"
	ErrorTypePermissionDenied   ErrorType = "permission_denied"
	ErrorTypeNotFound           ErrorType = "not_found"
	ErrorTypeFailedPrecondition ErrorType = "failed_precondition"
	ErrorTypeRateLimit          ErrorType = "rate_limit"
	ErrorTypeInternal           ErrorType = "internal"
	ErrorTypeExternal           ErrorType = "external"
)

// AppError is a structured application error with an HTTP status mapping
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	StatusCode int                    `json:"status_code"`
	Internal   error                  `json:"-"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Internal.Error())
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// NewInvalidArgumentError creates an invalid-argument error
func NewInvalidArgumentError(message string, details map[string]interface{}) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidArgument,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

// NewUnauthenticatedError creates an unauthenticated error
func NewUnauthenticatedError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthenticated,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewPermissionDeniedError creates a permission-denied error
func NewPermissionDeniedError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypePermissionDenied,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewNotFoundError creates a not-found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewFailedPreconditionError creates a failed-precondition error
func NewFailedPreconditionError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeFailedPrecondition,
		Message:    message,
		StatusCode: http.StatusPreconditionFailed,
	}
}

// NewRateLimitError creates a rate-limit error
func NewRateLimitError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeRateLimit,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
	}
}

// NewInternalError creates an internal server error wrapping the cause
func NewInternalError(message string, internal error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Internal:   internal,
	}
}

// NewExternalError creates an error for a failed collaborator call
func NewExternalError(message string, internal error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Internal:   internal,
	}
}

// FromError returns err as an *AppError, wrapping unknown errors as internal
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("Unexpected error", err)
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// ErrorResponse is the JSON error envelope returned to callers
type ErrorResponse struct {
	Success bool `json:"success"`
	Error   struct {
		Type      ErrorType              `json:"type"`
		Message   string                 `json:"message"`
		Details   map[string]interface{} `json:"details,omitempty"`
		RequestID string                 `json:"request_id,omitempty"`
		Timestamp string                 `json:"timestamp"`
	} `json:"error"`
}
