// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
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

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Registry errors
	ErrMissingName       = &Error{Code: "MISSING_NAME", Message: "registrable type has no name"}
	ErrDuplicateName     = &Error{Code: "DUPLICATE_NAME", Message: "name already registered"}
	ErrToolNotFound      = &Error{Code: "TOOL_NOT_FOUND", Message: "benchmark tool not found"}
	ErrCollectorNotFound = &Error{Code: "COLLECTOR_NOT_FOUND", Message: "collector not found"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}

	// Execution errors
	ErrProcessFailed = &Error{Code: "PROCESS_FAILED", Message: "subprocess failed"}
	ErrSetupFailed   = &Error{Code: "SETUP_FAILED", Message: "benchmark setup failed"}
	ErrParseFailed   = &Error{Code: "PARSE_FAILED", Message: "stdout parsing failed"}

	// Export errors
	ErrExportFailed = &Error{Code: "EXPORT_FAILED", Message: "result export failed"}
)
