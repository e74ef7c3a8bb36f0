// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/capsula-run/capsula/internal/issue"
)

// ServiceError is a classified failure ready to be shown to the user: the
// underlying error, its catalog entry and the styled one-line summary.
type ServiceError struct {
	Err error
	// IssueID is zero when no catalog entry applies.
	IssueID       issue.Id
	StyledMessage string
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// Render writes the styled summary followed by the catalog guidance.
func (e *ServiceError) Render(w io.Writer) {
	fmt.Fprint(w, e.StyledMessage)
	if e.IssueID == 0 {
		return
	}
	entry := issue.Get(e.IssueID)
	if entry == nil {
		return
	}
	rendered, err := entry.Render("dark")
	if err != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", e.IssueID, "error", err)
		return
	}
	fmt.Fprint(w, rendered)
}
