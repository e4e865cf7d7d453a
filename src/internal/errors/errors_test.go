package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "error without cause",
			err:      &Error{Code: ErrCodeConfig, Message: "invalid configuration"},
			expected: "[CONFIG_ERROR] invalid configuration",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeFormat, "failed to encode body", errors.New("unsupported type")),
			expected: "[FORMAT_ERROR] failed to encode body: unsupported type",
		},
		{
			name:     "invalid status code",
			err:      NewInvalidStatusCodeError(42),
			expected: "[INVALID_STATUS_CODE] the HTTP status code is invalid: 42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, "wrapper", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestError_Is(t *testing.T) {
	err1 := &Error{Code: ErrCodeConfig, Message: "test error"}
	err2 := &Error{Code: ErrCodeConfig, Message: "another error"}
	err3 := &Error{Code: ErrCodeStore, Message: "store error"}

	if !err1.Is(err2) {
		t.Errorf("Expected errors with same code to match")
	}

	if err1.Is(err3) {
		t.Errorf("Expected errors with different codes to not match")
	}
}

func TestHasCode(t *testing.T) {
	wrapped := fmt.Errorf("handler failed: %w", NewAlreadySentError())

	if !HasCode(wrapped, ErrCodeAlreadySent) {
		t.Error("Expected wrapped error to carry ALREADY_SENT")
	}
	if HasCode(wrapped, ErrCodeNotFound) {
		t.Error("Expected wrapped error not to carry NOT_FOUND")
	}
	if HasCode(errors.New("plain"), ErrCodeInternal) {
		t.Error("Plain errors carry no code")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: NewNotFoundError("note 1 not found"), want: http.StatusNotFound},
		{name: "validation", err: NewValidationError("title is required", nil), want: http.StatusUnprocessableEntity},
		{name: "invalid status", err: NewInvalidStatusCodeError(700), want: http.StatusInternalServerError},
		{name: "too large", err: NewRequestTooLargeError(10), want: http.StatusRequestEntityTooLarge},
		{name: "wrapped", err: fmt.Errorf("x: %w", NewNotFoundError("gone")), want: http.StatusNotFound},
		{name: "plain", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewStoreError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStoreError("failed to load note", cause)

	if err.Code != ErrCodeStore {
		t.Errorf("Expected code %v, got %v", ErrCodeStore, err.Code)
	}

	if err.Message != "failed to load note" {
		t.Errorf("Expected message 'failed to load note', got %v", err.Message)
	}

	if err.Cause != cause {
		t.Errorf("Expected cause to be preserved")
	}
}
