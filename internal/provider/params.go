// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"errors"
	"fmt"
)

const (
	// PhasePre runs before the user's command.
	PhasePre Phase = "pre"
	// PhasePost runs after the user's command has terminated.
	PhasePost Phase = "post"
)

// ErrInvalidPhase is the sentinel error wrapped by InvalidPhaseError.
var ErrInvalidPhase = errors.New("invalid phase")

type (
	// Phase names the point in the command lifecycle at which a set of
	// providers is invoked.
	Phase string

	// InvalidPhaseError is returned when a Phase value is not recognized.
	InvalidPhaseError struct {
		Value Phase
	}

	// RuntimeParams is the immutable per-step context handed to every provider.
	RuntimeParams struct {
		// Phase is the phase being captured.
		Phase Phase
		// RunDir is the absolute run directory. It is empty during ad-hoc
		// captures that are not bound to a run.
		RunDir string
		// ProjectRoot is the absolute project root.
		ProjectRoot string
	}
)

// String returns the string representation of the Phase.
func (p Phase) String() string { return string(p) }

// Validate returns an error if the Phase is not PhasePre or PhasePost.
func (p Phase) Validate() error {
	switch p {
	case PhasePre, PhasePost:
		return nil
	default:
		return &InvalidPhaseError{Value: p}
	}
}

// Error implements the error interface.
func (e *InvalidPhaseError) Error() string {
	return fmt.Sprintf("invalid phase %q (valid: %s, %s)", e.Value, PhasePre, PhasePost)
}

// Unwrap returns ErrInvalidPhase for errors.Is() compatibility.
func (e *InvalidPhaseError) Unwrap() error { return ErrInvalidPhase }

// HasRunDir reports whether the parameters are bound to a run directory.
func (p RuntimeParams) HasRunDir() bool { return p.RunDir != "" }
