package errors

import (
	stderrors "errors"
	"fmt"
)

// Error types for different categories of failures
const (
	// Token collection errors
	ErrIndexOutOfRange = "INDEX_OUT_OF_RANGE"

	// Rewrite errors
	ErrConstantNotFound = "CONSTANT_NOT_FOUND"
	ErrInvalidArgument  = "INVALID_ARGUMENT"

	// Input/File errors
	ErrInputRead   = "INPUT_READ_ERROR"
	ErrOutputWrite = "OUTPUT_WRITE_ERROR"

	// Remote repository errors
	ErrRemoteRead    = "REMOTE_READ_ERROR"
	ErrRemoteWrite   = "REMOTE_WRITE_ERROR"
	ErrReleaseCreate = "RELEASE_CREATE_ERROR"

	// Local environment errors
	ErrCredentials = "CREDENTIALS_ERROR"
	ErrCommitter   = "COMMITTER_ERROR"
	ErrConfig      = "CONFIG_ERROR"
)

// ReleaseError represents a structured error with type and context
type ReleaseError struct {
	Type    string
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *ReleaseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap allows error unwrapping
func (e *ReleaseError) Unwrap() error {
	return e.Cause
}

// New creates a new ReleaseError
func New(errorType, message string) *ReleaseError {
	return &ReleaseError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// Wrap creates a new ReleaseError wrapping an existing error
func Wrap(errorType, message string, cause error) *ReleaseError {
	return &ReleaseError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context information to the error
func (e *ReleaseError) WithContext(key string, value interface{}) *ReleaseError {
	e.Context[key] = value
	return e
}

// GetContext returns context value by key
func (e *ReleaseError) GetContext(key string) (interface{}, bool) {
	value, exists := e.Context[key]
	return value, exists
}

// Helper functions for common error scenarios

// NewOutOfRangeError reports a token index outside [0, size)
func NewOutOfRangeError(index, size int) *ReleaseError {
	return New(ErrIndexOutOfRange, fmt.Sprintf("token index %d out of range [0, %d)", index, size)).
		WithContext("index", index).
		WithContext("size", size)
}

// NewConstantNotFoundError reports a constant name that no declaration uses.
// suggestions holds similarly spelled constant names, possibly empty.
func NewConstantNotFoundError(name string, suggestions []string) *ReleaseError {
	return New(ErrConstantNotFound, fmt.Sprintf("constant '%s' not declared", name)).
		WithContext("constant", name).
		WithContext("suggestions", suggestions)
}

// NewInvalidArgumentError reports malformed user input
func NewInvalidArgumentError(argument, message string) *ReleaseError {
	return New(ErrInvalidArgument, message).
		WithContext("argument", argument)
}

// NewInputError creates an input-related error
func NewInputError(message string, cause error) *ReleaseError {
	return Wrap(ErrInputRead, message, cause)
}

// NewRemoteReadError wraps a failed read against the remote repository
func NewRemoteReadError(what string, cause error) *ReleaseError {
	return Wrap(ErrRemoteRead, fmt.Sprintf("failed to read %s", what), cause).
		WithContext("resource", what)
}

// NewRemoteWriteError wraps a failed write against the remote repository
func NewRemoteWriteError(path string, cause error) *ReleaseError {
	return Wrap(ErrRemoteWrite, fmt.Sprintf("Error updating %s", path), cause).
		WithContext("path", path)
}

// IsErrorType checks if err, or any error it wraps, is a ReleaseError of errorType
func IsErrorType(err error, errorType string) bool {
	var relErr *ReleaseError
	if stderrors.As(err, &relErr) {
		return relErr.Type == errorType
	}
	return false
}
