// Package errors provides structured error types for nugetnpm.
//
// Every failure the converter can report falls into one of a small number of
// categories, each identified by a [Code]:
//   - INVALID_*: configuration or input that cannot be used (fatal, before traversal)
//   - PACKAGE_NOT_FOUND, NETWORK_ERROR, RATE_LIMITED: registry failures
//   - RESOLUTION_FAILED: a node of the dependency graph could not be resolved
//   - PAYLOAD_COPY_FAILED: a single payload file could not be written
//   - UNBOUNDED_RANGE: a dependency edge has no lower version bound to recurse on
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidVersion, "cannot parse %q", raw)
//	if errors.Is(err, errors.ErrCodeInvalidVersion) {
//	    // configuration error
//	}
//
//	err = errors.Wrap(errors.ErrCodeResolution, cause, "resolve %s", key)
package errors

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Input and configuration errors
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidVersion   Code = "INVALID_VERSION"
	ErrCodeInvalidRange     Code = "INVALID_RANGE"
	ErrCodeInvalidPackage   Code = "INVALID_PACKAGE"
	ErrCodeInvalidManifest  Code = "INVALID_MANIFEST"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeInvalidFramework Code = "INVALID_FRAMEWORK"

	// Registry errors
	ErrCodePackageNotFound Code = "PACKAGE_NOT_FOUND"
	ErrCodeNetwork         Code = "NETWORK_ERROR"
	ErrCodeRateLimited     Code = "RATE_LIMITED"

	// Conversion errors
	ErrCodeResolution     Code = "RESOLUTION_FAILED"
	ErrCodePayloadCopy    Code = "PAYLOAD_COPY_FAILED"
	ErrCodeUnboundedRange Code = "UNBOUNDED_RANGE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err carries the given code anywhere in its chain.
// Unlike errors.As, which stops at the outermost *Error, Is keeps
// unwrapping so that a resolution error wrapping a not-found error
// matches both codes.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// RateLimitedError is returned when the registry answers 429.
type RateLimitedError struct {
	RetryAfter time.Duration // Zero when the registry gave no hint
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}

// ParseRetryAfter reads a Retry-After header value given in seconds.
// Dates and malformed values yield zero.
func ParseRetryAfter(v string) time.Duration {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
