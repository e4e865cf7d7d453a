// Package errors provides domain-specific error types for restd.
//
// Errors carry a code, which lets the dispatcher turn failures from handlers,
// hooks and the response pipeline into HTTP statuses consistently.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a category of error that can occur in the application.
type ErrorCode string

const (
	// ErrCodeConfig indicates an invalid dispatcher or application configuration.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeInvalidStatusCode indicates a status code outside 100..599.
	ErrCodeInvalidStatusCode ErrorCode = "INVALID_STATUS_CODE"

	// ErrCodeAlreadySent indicates a write after the response was sent.
	ErrCodeAlreadySent ErrorCode = "ALREADY_SENT"

	// ErrCodeFormat indicates that response data could not be formatted.
	ErrCodeFormat ErrorCode = "FORMAT_ERROR"

	// ErrCodeRouting indicates a routing miss.
	ErrCodeRouting ErrorCode = "ROUTING_ERROR"

	// ErrCodeNotFound indicates the requested resource does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeValidation indicates invalid request data.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrCodeStore indicates a storage backend failure.
	ErrCodeStore ErrorCode = "STORE_ERROR"

	// ErrCodeRequestTooLarge indicates a request body over the configured limit.
	ErrCodeRequestTooLarge ErrorCode = "REQUEST_TOO_LARGE"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Error represents a domain-specific error with an error code and optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new domain error with the specified code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, cause error) *Error {
	return Wrap(ErrCodeConfig, message, cause)
}

// NewInvalidStatusCodeError reports a status code outside the HTTP range.
func NewInvalidStatusCodeError(code int) *Error {
	return New(ErrCodeInvalidStatusCode, fmt.Sprintf("the HTTP status code is invalid: %d", code))
}

// NewInformationalStatusError reports a 1xx status used for a final response.
func NewInformationalStatusError(code int) *Error {
	return New(ErrCodeInvalidStatusCode, fmt.Sprintf("informational status %d cannot carry a final response", code))
}

// NewRequestTooLargeError reports a request body longer than limit bytes.
func NewRequestTooLargeError(limit int64) *Error {
	return New(ErrCodeRequestTooLarge, fmt.Sprintf("request body exceeds %d bytes", limit))
}

// NewAlreadySentError reports a write attempted after Send.
func NewAlreadySentError() *Error {
	return New(ErrCodeAlreadySent, "response has already been sent")
}

// NewFormatError creates a new response formatting error.
func NewFormatError(message string, cause error) *Error {
	return Wrap(ErrCodeFormat, message, cause)
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(message string) *Error {
	return New(ErrCodeNotFound, message)
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, cause error) *Error {
	return Wrap(ErrCodeValidation, message, cause)
}

// NewStoreError creates a new storage error.
func NewStoreError(message string, cause error) *Error {
	return Wrap(ErrCodeStore, message, cause)
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, cause error) *Error {
	return Wrap(ErrCodeInternal, message, cause)
}

// HasCode reports whether err or any error it wraps is an *Error with the given code.
func HasCode(err error, code ErrorCode) bool {
	return errors.Is(err, &Error{Code: code})
}

// HTTPStatus maps an error to the HTTP status a client should see.
// Errors that are not domain errors map to 500.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}

	switch e.Code {
	case ErrCodeNotFound, ErrCodeRouting:
		return http.StatusNotFound
	case ErrCodeValidation:
		return http.StatusUnprocessableEntity
	case ErrCodeRequestTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// As is errors.As, re-exported so callers need a single errors import.
func As(err error, target any) bool {
	return errors.As(err, target)
}
