package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Message errors
	ErrUnsupportedConversion ErrorCode = "UNSUPPORTED_CONVERSION"

	// Writer errors
	ErrByteWrite ErrorCode = "BYTE_WRITE"
	ErrFileCreate ErrorCode = "FILE_CREATE"
	ErrFileWrite  ErrorCode = "FILE_WRITE"

	// Destination errors
	ErrInvalidDescriptor ErrorCode = "INVALID_DESCRIPTOR"

	// Lifecycle errors
	ErrAlreadyInitialized ErrorCode = "ALREADY_INITIALIZED"
	ErrNotInitialized     ErrorCode = "NOT_INITIALIZED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"
)

// Sentinels for errors.Is checks. Matching is by code, so any ClioError
// carrying the same code satisfies errors.Is against these.
var (
	UnsupportedConversion = New(ErrUnsupportedConversion, "unsupported conversion")
	ByteWriteFailure      = New(ErrByteWrite, "writer cannot write bytes")
	AlreadyInitialized    = New(ErrAlreadyInitialized, "output already initialized")
	NotInitialized        = New(ErrNotInitialized, "output not initialized")
)

// ClioError represents a structured error with code and details
type ClioError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ClioError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ClioError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ClioError) Is(target error) bool {
	var targetErr *ClioError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ClioError with the given code and message
func New(code ErrorCode, message string) *ClioError {
	return &ClioError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ClioError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ClioError {
	return &ClioError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ClioError
func Wrap(err error, code ErrorCode, message string) *ClioError {
	if err == nil {
		return nil
	}
	return &ClioError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ClioError {
	if err == nil {
		return nil
	}
	return &ClioError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ClioError) WithDetail(key string, value interface{}) *ClioError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var clioErr *ClioError
	if errors.As(err, &clioErr) {
		return clioErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ClioError
func GetErrorCode(err error) ErrorCode {
	var clioErr *ClioError
	if errors.As(err, &clioErr) {
		return clioErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a ClioError
func GetErrorDetails(err error) map[string]interface{} {
	var clioErr *ClioError
	if errors.As(err, &clioErr) {
		return clioErr.Details
	}
	return nil
}
