// Package errors provides structured error types for vendorpy.
//
// Every failure the tool can report carries a machine-readable [Code] so the
// CLI can tell a manifest that could not be written apart from an external
// tool that exited non-zero. Errors wrap their cause and remain compatible
// with the standard library's errors.Is and errors.As.
//
// # Error Codes
//
//   - INVALID_*: input validation failures
//   - *_NOT_FOUND: missing files or resources
//   - *_FAILED: an external collaborator (uv, python, pyodide, pip) failed
//   - MANIFEST_WRITE: the manifest destination is not writable
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "unsupported python version: %s", v)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	err := errors.Wrap(errors.ErrCodeManifestWrite, origErr, "write %s", path)
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
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidPackage  Code = "INVALID_PACKAGE"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Manifest errors
	ErrCodeManifestWrite Code = "MANIFEST_WRITE"
	ErrCodeEmptyManifest Code = "EMPTY_MANIFEST"

	// External collaborator errors
	ErrCodeExportFailed       Code = "EXPORT_FAILED"
	ErrCodeEnvFailed          Code = "ENV_FAILED"
	ErrCodeRuntimeUnavailable Code = "RUNTIME_UNAVAILABLE"
	ErrCodeInstallFailed      Code = "INSTALL_FAILED"

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

// UserMessage returns a user-friendly message for the error.
// For *Error types the code prefix is dropped and a cause that implements
// Diagnostic (such as an external tool's stderr) is appended.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	var d interface{ Diagnostic() string }
	if e.Cause != nil && errors.As(e.Cause, &d) {
		return e.Message + ": " + d.Diagnostic()
	}
	return e.Message
}
