// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidFilesystemPath is the sentinel error wrapped by InvalidFilesystemPathError.
var ErrInvalidFilesystemPath = errors.New("invalid filesystem path")

type (
	// FilesystemPath is an absolute or relative filesystem path taken from
	// configuration or flags. Relative paths are interpreted against a base
	// directory chosen by the caller, usually the project root.
	FilesystemPath string

	// InvalidFilesystemPathError is returned when a FilesystemPath value is
	// empty or whitespace-only.
	InvalidFilesystemPathError struct {
		Value FilesystemPath
	}
)

// String returns the string representation of the FilesystemPath.
func (p FilesystemPath) String() string { return string(p) }

// Validate returns an error if the path is empty or whitespace-only.
func (p FilesystemPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return &InvalidFilesystemPathError{Value: p}
	}
	return nil
}

// Resolve returns the cleaned path, joined to base when it is relative.
func (p FilesystemPath) Resolve(base string) string {
	path := filepath.FromSlash(string(p))
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

// Error implements the error interface for InvalidFilesystemPathError.
func (e *InvalidFilesystemPathError) Error() string {
	return fmt.Sprintf("invalid filesystem path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidFilesystemPath for errors.Is() compatibility.
func (e *InvalidFilesystemPathError) Unwrap() error { return ErrInvalidFilesystemPath }
