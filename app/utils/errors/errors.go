package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents specific error types
type ErrorCode string

const (
	// Authentication and authorization errors
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeCorruptSession     ErrorCode = "CORRUPT_SESSION"

	// Tenant errors
	ErrCodeTenantMissing  ErrorCode = "TENANT_MISSING"
	ErrCodeTenantMismatch ErrorCode = "TENANT_MISMATCH"

	// Provisioning errors
	ErrCodeSetupRequired   ErrorCode = "SETUP_REQUIRED"
	ErrCodeSetupIncomplete ErrorCode = "SETUP_INCOMPLETE"

	// Validation errors
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"

	// System errors
	ErrCodeTransportError ErrorCode = "TRANSPORT_ERROR"
	ErrCodeInternalError  ErrorCode = "INTERNAL_ERROR"
	ErrCodeConfigError    ErrorCode = "CONFIG_ERROR"

	// Rate limiting
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
)

// AppError represents an application error with additional context
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Details    string         `json:"details,omitempty"`
	StatusCode int            `json:"-"`
	Cause      error          `json:"-"`
	Context    map[string]any `json:"context,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a context value and returns the error for chaining.
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// New creates an AppError with an explicit code, message and HTTP status.
func New(code ErrorCode, message string, statusCode int) *AppError {
	return &AppError{Code: code, Message: message, StatusCode: statusCode}
}

// Wrap creates an AppError wrapping a cause.
func Wrap(cause error, code ErrorCode, message string, statusCode int) *AppError {
	return &AppError{Code: code, Message: message, StatusCode: statusCode, Cause: cause}
}

// Convenience constructors for the common cases.

func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

func InvalidCredentials(cause error) *AppError {
	return Wrap(cause, ErrCodeInvalidCredentials, "invalid credentials or server error", http.StatusUnauthorized)
}

func TenantMissing() *AppError {
	return New(ErrCodeTenantMissing, "no tenant domain bound to session", http.StatusUnauthorized)
}

func ValidationFailed(cause error) *AppError {
	return Wrap(cause, ErrCodeValidationFailed, "validation failed", http.StatusBadRequest)
}

func Transport(cause error, message string) *AppError {
	return Wrap(cause, ErrCodeTransportError, message, http.StatusBadGateway)
}

func Internal(cause error) *AppError {
	return Wrap(cause, ErrCodeInternalError, "internal error", http.StatusInternalServerError)
}

// AsAppError extracts an AppError from an error chain, or wraps the error as
// an internal AppError when none is found.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// HTTPStatus returns the HTTP status an error should map to.
func HTTPStatus(err error) int {
	return AsAppError(err).StatusCode
}
