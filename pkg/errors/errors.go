// Package errors provides structured error types for svgmcp.
//
// Every failure the conversion pipeline or the tool dispatcher can report
// carries a machine-readable [Code], so transports can map failures onto
// their own status vocabulary (JSON-RPC error codes, HTTP statuses) without
// parsing messages.
//
// # Error Codes
//
//   - INVALID_PARAMS: the caller supplied a missing, malformed, wrong-typed
//     or out-of-range argument. Recoverable by correcting the input.
//   - PARSE_FAILURE: the SVG markup did not parse.
//   - INVALID_DIMENSIONS, ALLOCATION_FAILURE: the requested raster size is
//     invalid or cannot be allocated.
//   - IO_FAILURE: an output file could not be created or written.
//   - METHOD_NOT_FOUND: the tool name is unknown.
//   - INTERNAL_ERROR: a conversion failure surfaced through the dispatcher;
//     the original error is kept as the cause.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidParams, "missing %s", "svg_content")
//	if errors.Is(err, errors.ErrCodeInvalidParams) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeParseFailure, xmlErr, "parse svg")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the conversion pipeline and the dispatcher.
const (
	// Caller input errors
	ErrCodeInvalidParams Code = "INVALID_PARAMS"

	// Conversion errors
	ErrCodeParseFailure      Code = "PARSE_FAILURE"
	ErrCodeInvalidDimensions Code = "INVALID_DIMENSIONS"
	ErrCodeAllocation        Code = "ALLOCATION_FAILURE"
	ErrCodeIO                Code = "IO_FAILURE"

	// Dispatch errors
	ErrCodeMethodNotFound Code = "METHOD_NOT_FOUND"
	ErrCodeInternal       Code = "INTERNAL_ERROR"
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
// Only the outermost *Error in the chain is considered; use HasCode to
// search wrapped causes as well.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// HasCode reports whether any *Error in err's chain carries code.
// The dispatcher wraps conversion failures as INTERNAL_ERROR, so this is how
// callers recover the original PARSE_FAILURE, IO_FAILURE, etc.
func HasCode(err error, code Code) bool {
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
// For *Error types, returns the message without the code prefix,
// followed by the cause if there is one.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
