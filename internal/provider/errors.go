// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeNotFound is the sentinel error wrapped by TypeNotFoundError.
	ErrTypeNotFound = errors.New("provider type not found")
	// ErrAlreadyRegistered is the sentinel error wrapped by AlreadyRegisteredError.
	ErrAlreadyRegistered = errors.New("provider type already registered")
	// ErrInvalidConfig is the sentinel error wrapped by ConfigError.
	ErrInvalidConfig = errors.New("invalid provider configuration")
	// ErrCapture is the sentinel error wrapped by CaptureError.
	ErrCapture = errors.New("capture failed")
)

type (
	// TypeNotFoundError is returned when no factory is registered under Key.
	TypeNotFoundError struct {
		Key Key
	}

	// AlreadyRegisteredError is returned when a factory is registered under a
	// key that is already taken.
	AlreadyRegisteredError struct {
		Key Key
	}

	// ConfigError is returned by factories when a provider's configuration
	// payload does not match the shape the provider expects.
	ConfigError struct {
		Key   Key
		Cause error
	}

	// CaptureError is returned by providers that cannot complete a capture.
	// Path is set when the failure concerns a specific filesystem path.
	CaptureError struct {
		Key   Key
		Path  string
		Cause error
	}

	// BuildError identifies the spec that failed to resolve in a phase.
	BuildError struct {
		Index int
		Key   Key
		Cause error
	}

	// RunError identifies the provider that failed during a phase run.
	RunError struct {
		Index int
		Key   Key
		Cause error
	}
)

// Error implements the error interface.
func (e *TypeNotFoundError) Error() string {
	return fmt.Sprintf("provider type %q not found in registry", e.Key)
}

// Unwrap returns ErrTypeNotFound for errors.Is() compatibility.
func (e *TypeNotFoundError) Unwrap() error { return ErrTypeNotFound }

// Error implements the error interface.
func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("provider type %q already registered", e.Key)
}

// Unwrap returns ErrAlreadyRegistered for errors.Is() compatibility.
func (e *AlreadyRegisteredError) Unwrap() error { return ErrAlreadyRegistered }

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration for provider %q: %v", e.Key, e.Cause)
}

// Unwrap returns both ErrInvalidConfig and the underlying cause.
func (e *ConfigError) Unwrap() []error { return []error{ErrInvalidConfig, e.Cause} }

// NewCaptureError wraps cause as a CaptureError for the provider key.
func NewCaptureError(key Key, path string, cause error) *CaptureError {
	return &CaptureError{Key: key, Path: path, Cause: cause}
}

// Error implements the error interface.
func (e *CaptureError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s capture failed at %s: %v", e.Key, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s capture failed: %v", e.Key, e.Cause)
}

// Unwrap returns both ErrCapture and the underlying cause.
func (e *CaptureError) Unwrap() []error { return []error{ErrCapture, e.Cause} }

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("resolve provider #%d (%s): %v", e.Index, e.Key, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *BuildError) Unwrap() error { return e.Cause }

// Error implements the error interface.
func (e *RunError) Error() string {
	return fmt.Sprintf("run provider #%d (%s): %v", e.Index, e.Key, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *RunError) Unwrap() error { return e.Cause }
