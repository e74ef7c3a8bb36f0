// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError describes a failure in terms the user can act on.
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("prepare run directory").
	//		WithResource(".capsula").
	//		WithSuggestion("Check that the vault path is writable").
	//		Wrap(cause).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase such as "run pre-run capture".
		Operation string
		// Resource is the path, provider or entity involved (optional).
		Resource string
		// Suggestions are remediation hints (optional).
		Suggestions []string
		// Cause is the underlying error (optional).
		Cause error
	}

	// ErrorContext builds an ActionableError incrementally.
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		cause       error
	}
)

// NewErrorContext creates an empty ErrorContext.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error implements the error interface with the one-line form
// "failed to <operation>: <resource>: <cause>".
func (e *ActionableError) Error() string {
	var msg strings.Builder
	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)
	if e.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Resource)
	}
	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}
	return msg.String()
}

// Unwrap returns the cause for use with errors.Is/As.
func (e *ActionableError) Unwrap() error { return e.Cause }

// Format renders the error with its suggestions as a bulleted list. In
// verbose mode the numbered chain of wrapped errors is appended.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder
	msg.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n")
		for _, s := range e.Suggestions {
			msg.WriteString("\n  • ")
			msg.WriteString(s)
		}
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		for depth, err := 1, e.Cause; err != nil; depth, err = depth+1, errors.Unwrap(err) {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
		}
	}
	return msg.String()
}

// WithOperation sets the operation that failed.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the resource involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion appends a remediation hint.
func (c *ErrorContext) WithSuggestion(s string) *ErrorContext {
	c.suggestions = append(c.suggestions, s)
	return c
}

// Wrap sets the underlying cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build returns the ActionableError, or nil when no operation was set.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: c.suggestions,
		Cause:       c.cause,
	}
}

// BuildError is Build typed as error, so that a missing operation yields a
// nil interface rather than a typed nil.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}

// Format renders err for display: ActionableErrors anywhere in the chain use
// their Format method, other errors their message.
func Format(err error, verbose bool) string {
	var ae *ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
