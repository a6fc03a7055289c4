package apperror

import (
	"errors"
	"net/http"
	"testing"
)

func TestErrorError(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name: "without internal error",
			err: &Error{
				HTTPStatus: http.StatusNotFound,
				Code:       "not_found",
				Message:    "Resource not found",
			},
			expected: "not_found: Resource not found",
		},
		{
			name: "with internal error",
			err: &Error{
				HTTPStatus: http.StatusInternalServerError,
				Code:       "database_error",
				Message:    "Database operation failed",
				Internal:   errors.New("connection refused"),
			},
			expected: "database_error: Database operation failed (connection refused)",
		},
		{
			name: "empty message",
			err: &Error{
				HTTPStatus: http.StatusBadRequest,
				Code:       "bad_request",
				Message:    "",
			},
			expected: "bad_request: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("broken parent chain")
	err := ErrCycleOrMissingRoot.WithInternal(inner)

	if got := errors.Unwrap(err); got != inner {
		t.Errorf("Unwrap() = %v, want %v", got, inner)
	}
	if got := errors.Unwrap(ErrNotFound); got != nil {
		t.Errorf("Unwrap() = %v, want nil", got)
	}
}

func TestErrorIs(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"sentinel matches itself", ErrNotFound, ErrNotFound, true},
		{"WithMessage copy matches sentinel", ErrConflict.WithMessage("domain name taken"), ErrConflict, true},
		{"WithInternal copy matches sentinel", ErrMissingProjectionTarget.WithInternal(errors.New("x")), ErrMissingProjectionTarget, true},
		{"different codes do not match", ErrNotFound, ErrConflict, false},
		{"plain error does not match", errors.New("not_found"), ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithDetails(t *testing.T) {
	details := map[string]any{"name": "is required"}
	err := NewValidation("missing required fields", details)

	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("HTTPStatus = %d, want %d", err.HTTPStatus, http.StatusBadRequest)
	}
	if err.Details["name"] != "is required" {
		t.Errorf("Details = %v, want field detail preserved", err.Details)
	}
	// The sentinel must not be mutated by the copy.
	if ErrValidation.Details != nil {
		t.Error("ErrValidation sentinel was mutated")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("data model", "abc-123")
	if err.Message != "data model 'abc-123' not found" {
		t.Errorf("Message = %q", err.Message)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("NewNotFound should match ErrNotFound")
	}
}
