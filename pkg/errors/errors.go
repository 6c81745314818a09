// Package errors provides structured error types for entigraph.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP server and the engine
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages for the error banner
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The three error kinds of the interaction engine map to codes:
//
//	EMPTY_GRAPH        no usable nodes; render the empty-state placeholder
//	MALFORMED_EDGE     one edge dropped at ingest; never user visible
//	EXTRACTION_FAILED  the extraction service failed; prior state is kept
//
// The remaining codes cover input validation, lookups and infrastructure.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownNode, "unknown node %q", id)
//	if errors.Is(err, errors.ErrCodeUnknownNode) {
//	    // Handle lookup failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeExtraction, origErr, "extract entities")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Graph ingest
	ErrCodeEmptyGraph    Code = "EMPTY_GRAPH"
	ErrCodeMalformedEdge Code = "MALFORMED_EDGE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidEvent  Code = "INVALID_EVENT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Lookup errors
	ErrCodeUnknownNode     Code = "UNKNOWN_NODE"
	ErrCodeNoGraph         Code = "NO_GRAPH"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Extraction errors
	ErrCodeExtraction     Code = "EXTRACTION_FAILED"
	ErrCodeRequestPending Code = "REQUEST_PENDING"
	ErrCodeNetwork        Code = "NETWORK_ERROR"
	ErrCodeTimeout        Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// ExtractionFailedMessage is the generic message shown in the error banner
// when the extraction service fails.
const ExtractionFailedMessage = "Failed to extract entities. Please try again."

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

// UserMessage returns a user-friendly message for the error.
// Extraction failures always collapse to [ExtractionFailedMessage]; other
// *Error types return the message without the code prefix and plain errors
// return their string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Code == ErrCodeExtraction {
			return ExtractionFailedMessage
		}
		return e.Message
	}
	return err.Error()
}
