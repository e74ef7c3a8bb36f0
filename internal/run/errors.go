// SPDX-License-Identifier: MPL-2.0

package run

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is the sentinel error for runs that cannot be executed
	// as requested.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyCommand is returned by Exec when the run has no command.
	ErrEmptyCommand = fmt.Errorf("%w: empty command", ErrInvalidInput)
)

// StreamError is returned when draining one of the child's output streams
// fails.
type StreamError struct {
	Stream string
	Cause  error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	return fmt.Sprintf("capture %s: %v", e.Stream, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StreamError) Unwrap() error { return e.Cause }
