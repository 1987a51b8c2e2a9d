// Package errors provides structured error types for onboardqr.
//
// Errors carry a machine-readable [Code] next to a message meant for the
// operator, so the CLI can print something readable while logs keep the
// full cause chain.
//
// # Error Codes
//
//   - INVALID_*: input validation failures (slugs, URLs, flags)
//   - TENANT_NOT_FOUND, NO_RECORDS: lookups that came back empty
//   - ASSET_MISSING: a page drew its fallback instead of an asset
//   - DATABASE: connectivity or query failures in the data fetcher
//   - RENDER, OUTPUT: document generation and artifact writing
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "unknown variant %q", v)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	err = errors.Wrap(errors.ErrCodeDatabase, cause, "load onboardings for %s", tenant)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidVariant Code = "INVALID_VARIANT"
	ErrCodeInvalidURL     Code = "INVALID_URL"
	ErrCodeConfig         Code = "CONFIG"

	// Resource not found errors
	ErrCodeTenantNotFound Code = "TENANT_NOT_FOUND"
	ErrCodeNoRecords      Code = "NO_RECORDS"
	ErrCodeAssetMissing   Code = "ASSET_MISSING"

	// Data access errors
	ErrCodeDatabase Code = "DATABASE"
	ErrCodeTimeout  Code = "TIMEOUT"

	// Generation errors
	ErrCodeRender Code = "RENDER"
	ErrCodeOutput Code = "OUTPUT"

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

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message meant for the operator.
// For *Error types this is the message without the code prefix; an
// underlying cause is appended so the terminal still says what broke.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// Fatal reports whether err must abort document generation. Output and
// internal failures are fatal; everything else is recoverable per page.
func Fatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeOutput, ErrCodeInternal:
		return true
	}
	return false
}
