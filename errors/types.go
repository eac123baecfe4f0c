package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// Settings store errors
	ErrCodeUnknownKey   ErrorCode = "UNKNOWN_KEY"
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"

	// Binding and preset errors (programming defects, fatal at setup)
	ErrCodeBindingConflict ErrorCode = "BINDING_CONFLICT"
	ErrCodeUnknownPreset   ErrorCode = "UNKNOWN_PRESET"

	// Import/export errors
	ErrCodeImportMalformed ErrorCode = "IMPORT_MALFORMED"

	// Asset migration errors
	ErrCodeMigrationFailed     ErrorCode = "MIGRATION_FAILED"
	ErrCodeMigrationInProgress ErrorCode = "MIGRATION_IN_PROGRESS"

	// General errors
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
)

// PrefsError represents a structured error with context
type PrefsError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *PrefsError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PrefsError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *PrefsError) WithDetail(key string, value interface{}) *PrefsError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *PrefsError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new PrefsError
func New(code ErrorCode, message string) *PrefsError {
	return &PrefsError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a PrefsError
func Wrap(err error, code ErrorCode, message string) *PrefsError {
	return &PrefsError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific PrefsError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	prefsErr, ok := err.(*PrefsError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	if prefsErr.Code == code {
		return true
	}
	return prefsErr.Cause != nil && Is(prefsErr.Cause, code)
}

// GetCode extracts the outermost error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	prefsErr, ok := err.(*PrefsError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return prefsErr.Code
}
