package errorwrapper

import (
	"errors"
	"fmt"
)

// Common error types used across the application
var (
	// ErrInvalidInput indicates invalid caller input
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidConfiguration indicates a broken deployment or config file
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrUploadFailed indicates a storage backend rejected or lost an asset
	ErrUploadFailed = errors.New("upload failed")
	// ErrRenderFailed indicates an image or document could not be produced
	ErrRenderFailed = errors.New("render failed")
	// ErrServiceUnavailable indicates the process is refusing new work
	ErrServiceUnavailable = errors.New("service unavailable")
)

// WrapError wraps an error with additional context information
func WrapError(err error, message string) error {
	if err == nil {
		return fmt.Errorf("%s: <nil>", message)
	}
	return fmt.Errorf("%s: %w", message, err)
}

// NewError creates a new error with a formatted message
func NewError(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// ValidationError represents validation errors with field-specific information
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

// Unwrap lets callers match validation failures against ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ConfigurationError reports a missing or unusable setting.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for '%s': %s", e.Setting, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(setting, reason string) *ConfigurationError {
	return &ConfigurationError{Setting: setting, Reason: reason}
}

// UploadError describes a storage backend failure for one asset key.
type UploadError struct {
	Backend    string
	Key        string
	StatusCode int
	Message    string
	Wrapped    error
}

func (e *UploadError) Error() string {
	msg := fmt.Sprintf("%s upload of '%s' failed", e.Backend, e.Key)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" with status %d", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Wrapped != nil {
		msg += fmt.Sprintf(": %v", e.Wrapped)
	}
	return msg
}

// Is reports ErrUploadFailed for every UploadError.
func (e *UploadError) Is(target error) bool {
	return target == ErrUploadFailed
}

func (e *UploadError) Unwrap() error {
	return e.Wrapped
}

// NewUploadError creates a new upload error
func NewUploadError(backend, key string, statusCode int, message string, wrapped error) *UploadError {
	return &UploadError{
		Backend:    backend,
		Key:        key,
		StatusCode: statusCode,
		Message:    message,
		Wrapped:    wrapped,
	}
}
