// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRunName is the sentinel error wrapped by InvalidRunNameError.
var ErrInvalidRunName = errors.New("invalid run name")

type (
	// RunName is the human-readable name of a run. It becomes part of the run
	// directory name, so it must be a single path element: non-blank, free of
	// path separators and NUL bytes, and not "." or "..".
	RunName string

	// InvalidRunNameError is returned when a RunName cannot be used as a
	// directory name component.
	InvalidRunNameError struct {
		Value  RunName
		Reason string
	}
)

// String returns the string representation of the RunName.
func (n RunName) String() string { return string(n) }

// Validate returns an error if the RunName cannot be embedded in a run
// directory name.
func (n RunName) Validate() error {
	s := string(n)
	switch {
	case strings.TrimSpace(s) == "":
		return &InvalidRunNameError{Value: n, Reason: "must not be blank"}
	case s == "." || s == "..":
		return &InvalidRunNameError{Value: n, Reason: "must not be a relative path element"}
	case strings.ContainsAny(s, "/\\\x00"):
		return &InvalidRunNameError{Value: n, Reason: "must not contain path separators or NUL bytes"}
	}
	return nil
}

// Error implements the error interface for InvalidRunNameError.
func (e *InvalidRunNameError) Error() string {
	return fmt.Sprintf("invalid run name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidRunName for errors.Is() compatibility.
func (e *InvalidRunNameError) Unwrap() error { return ErrInvalidRunName }
