// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// ExitCodeUnknown is reported when a process status carries neither an
	// exit code nor a terminating signal.
	ExitCodeUnknown ExitCode = 1

	// signalExitBase is added to a signal number to form the shell-style
	// exit code of a process killed by that signal.
	signalExitBase = 128
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a normalized process exit status.
	// Exit codes are in the range 0-255 on POSIX systems; codes above 128
	// conventionally mean "terminated by signal (code - 128)".
	// The zero value (0) means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// valid range (0-255).
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// ExitCodeFromSignal returns the exit code a shell reports for a process
// terminated by the given signal number.
func ExitCodeFromSignal(signal int) ExitCode {
	return ExitCode(signalExitBase + signal)
}

// Validate returns an error if the ExitCode is outside the valid range (0-255).
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// Signal returns the signal number encoded in the exit code and true when the
// code lies in the signal range (129-255).
func (c ExitCode) Signal() (int, bool) {
	if c > signalExitBase && c <= 255 {
		return int(c) - signalExitBase, true
	}
	return 0, false
}

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
