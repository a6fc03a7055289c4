package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents an application error with HTTP status and error code.
type Error struct {
	HTTPStatus int
	Code       string
	Message    string
	Internal   error
	Details    map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the internal error.
func (e *Error) Unwrap() error {
	return e.Internal
}

// Is matches errors by code so sentinel comparisons survive WithMessage copies.
func (e *Error) Is(target error) bool {
	var appErr *Error
	if errors.As(target, &appErr) {
		return e.Code == appErr.Code
	}
	return false
}

// WithInternal returns a copy of the error with an internal error attached.
func (e *Error) WithInternal(err error) *Error {
	return &Error{
		HTTPStatus: e.HTTPStatus,
		Code:       e.Code,
		Message:    e.Message,
		Internal:   err,
		Details:    e.Details,
	}
}

// WithMessage returns a copy of the error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	return &Error{
		HTTPStatus: e.HTTPStatus,
		Code:       e.Code,
		Message:    message,
		Internal:   e.Internal,
		Details:    e.Details,
	}
}

// WithDetails returns a copy of the error with details attached.
func (e *Error) WithDetails(details map[string]any) *Error {
	return &Error{
		HTTPStatus: e.HTTPStatus,
		Code:       e.Code,
		Message:    e.Message,
		Internal:   e.Internal,
		Details:    details,
	}
}

// New creates a new application error.
func New(status int, code, message string) *Error {
	return &Error{
		HTTPStatus: status,
		Code:       code,
		Message:    message,
	}
}

// Common error definitions.
var (
	// Resource errors
	ErrNotFound = New(http.StatusNotFound, "not_found", "Resource not found")
	ErrConflict = New(http.StatusConflict, "conflict", "Resource already exists")

	// Validation errors
	ErrBadRequest = New(http.StatusBadRequest, "bad_request", "Invalid request")
	ErrValidation = New(http.StatusBadRequest, "validation_error", "Validation failed")

	// Server errors
	ErrInternal = New(http.StatusInternalServerError, "internal_error", "An internal error occurred")
	ErrDatabase = New(http.StatusInternalServerError, "database_error", "Database operation failed")

	// Layer propagation errors.
	// ErrMissingProjectionTarget marks a best-effort attribute cascade that
	// could not locate its sibling-layer object; callers log and skip it, the
	// primary write still succeeds, so it never reaches the HTTP handler.
	ErrMissingProjectionTarget = New(http.StatusInternalServerError, "missing_projection_target", "Sibling-layer object for attribute propagation not found")

	// ErrCycleOrMissingRoot marks a broken or cyclic parentModelId chain.
	ErrCycleOrMissingRoot = New(http.StatusInternalServerError, "cycle_or_missing_root", "Model family has a cyclic or dangling parent chain")
)

// NewBadRequest creates a bad request error with a custom message.
func NewBadRequest(message string) *Error {
	return ErrBadRequest.WithMessage(message)
}

// NewNotFound creates a not found error for a resource type and ID.
func NewNotFound(resourceType, id string) *Error {
	return ErrNotFound.WithMessage(fmt.Sprintf("%s '%s' not found", resourceType, id))
}

// NewValidation creates a validation error with field-level details.
func NewValidation(message string, fields map[string]any) *Error {
	return ErrValidation.WithMessage(message).WithDetails(fields)
}

// NewConflict creates a conflict error with a custom message.
func NewConflict(message string) *Error {
	return ErrConflict.WithMessage(message)
}

// NewInternal creates an internal error with a message and optional wrapped error.
func NewInternal(message string, err error) *Error {
	return &Error{
		HTTPStatus: http.StatusInternalServerError,
		Code:       "internal_error",
		Message:    message,
		Internal:   err,
	}
}
