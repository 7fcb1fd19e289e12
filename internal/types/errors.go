package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for content generation errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
	CONFIG_NOT_FOUND         ErrorCode = "CONFIG_NOT_FOUND"
)

// Campaign error codes
const (
	CAMPAIGN_INVALID       ErrorCode = "CAMPAIGN_INVALID"
	CAMPAIGN_STATE_INVALID ErrorCode = "CAMPAIGN_STATE_INVALID"
)

// ContentGenError represents a structured error with error code, message, and optional cause.
// It supports error wrapping and retryability hints for error handling logic.
type ContentGenError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *ContentGenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
// This enables using errors.Is() and errors.As() with wrapped errors.
func (e *ContentGenError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
// Returns true if target is a ContentGenError with the same Code.
func (e *ContentGenError) Is(target error) bool {
	var cgErr *ContentGenError
	if errors.As(target, &cgErr) {
		return e.Code == cgErr.Code
	}
	return false
}

// NewError creates a new non-retryable ContentGenError with the given code and message.
func NewError(code ErrorCode, message string) *ContentGenError {
	return &ContentGenError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     nil,
	}
}

// NewRetryableError creates a new retryable ContentGenError with the given code and message.
// Use this for transient errors that may succeed on retry (e.g., network timeouts).
func NewRetryableError(code ErrorCode, message string) *ContentGenError {
	return &ContentGenError{
		Code:      code,
		Message:   message,
		Retryable: true,
		Cause:     nil,
	}
}

// WrapError creates a new non-retryable ContentGenError that wraps an existing error.
// The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *ContentGenError {
	return &ContentGenError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     cause,
	}
}

// WrapRetryableError creates a retryable ContentGenError that wraps an existing error.
func WrapRetryableError(code ErrorCode, message string, cause error) *ContentGenError {
	return &ContentGenError{
		Code:      code,
		Message:   message,
		Retryable: true,
		Cause:     cause,
	}
}

// CodeOf extracts the ErrorCode from err if it is (or wraps) a ContentGenError.
// Returns an empty code when err carries no structured code.
func CodeOf(err error) ErrorCode {
	var cgErr *ContentGenError
	if errors.As(err, &cgErr) {
		return cgErr.Code
	}
	return ""
}

// IsRetryable reports whether err is (or wraps) a retryable ContentGenError.
func IsRetryable(err error) bool {
	var cgErr *ContentGenError
	if errors.As(err, &cgErr) {
		return cgErr.Retryable
	}
	return false
}
