package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message.
// Details optionally carries a list of human-readable messages, used by
// the identity pre-check to report every colliding field at once.
type DomainError struct {
	Code    string
	Message string
	Details []string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches by code so wrapped copies compare equal to their sentinel.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// WithDetails attaches a message list to a copy of the domain error.
func WithDetails(domainErr *DomainError, details []string) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Details: details,
	}
}

// Predefined domain errors
var (
	// Validation errors
	ErrInvalidInput       = NewDomainError("INVALID_INPUT", "invalid input")
	ErrMissingIdentity    = NewDomainError("MISSING_IDENTITY", "user's identification is missing")
	ErrIdentityConflict   = NewDomainError("IDENTITY_CONFLICT", "identity field already in use")
	ErrDuplicateIdentity  = NewDomainError("DUPLICATE_IDENTITY", "identity field already in use")

	// Authentication errors
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "invalid credentials")
	ErrUnauthorized       = NewDomainError("UNAUTHORIZED", "unauthorized")
	ErrInvalidToken       = NewDomainError("INVALID_TOKEN", "invalid or expired token")

	// ErrUserNotFound covers tokens referencing a user that no longer
	// exists. Mapped to 401, not 404, so callers cannot probe which
	// user ids exist.
	ErrUserNotFound = NewDomainError("USER_NOT_FOUND", "user not found")

	// System errors
	ErrInternal           = NewDomainError("INTERNAL_ERROR", "internal server error")
	ErrServiceUnavailable = NewDomainError("SERVICE_UNAVAILABLE", "service unavailable")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	// Default to internal server error for unknown errors
	return http.StatusInternalServerError
}

// domainErrorToHTTPStatus maps specific domain errors to HTTP status codes
func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request. The identity pre-check reports collisions as a
	// validation failure; only the insert-time race is a 409.
	case "INVALID_INPUT", "MISSING_IDENTITY", "IDENTITY_CONFLICT":
		return http.StatusBadRequest

	// 401 Unauthorized. USER_NOT_FOUND is deliberately 401: a valid
	// token for a missing user must be indistinguishable from a bad
	// token.
	case "UNAUTHORIZED", "INVALID_CREDENTIALS", "INVALID_TOKEN", "USER_NOT_FOUND":
		return http.StatusUnauthorized

	// 409 Conflict
	case "DUPLICATE_IDENTITY":
		return http.StatusConflict

	// 503 Service Unavailable
	case "SERVICE_UNAVAILABLE":
		return http.StatusServiceUnavailable

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message without exposing
// wrapped internals.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
