// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/capsula-run/capsula/internal/config"
	"github.com/capsula-run/capsula/internal/issue"
	"github.com/capsula-run/capsula/internal/provider"
	"github.com/capsula-run/capsula/internal/run"
	"github.com/capsula-run/capsula/internal/vault"
	"github.com/capsula-run/capsula/pkg/types"
)

// classifyError maps a failure to an issue catalog entry and a styled
// summary for CLI rendering.
func classifyError(err error, verbose bool) *ServiceError {
	var issueID issue.Id
	switch {
	case errors.Is(err, provider.ErrTypeNotFound):
		issueID = issue.ProviderNotFoundId
	case errors.Is(err, provider.ErrInvalidConfig), errors.Is(err, provider.ErrInvalidSpec):
		issueID = issue.ProviderConfigInvalidId
	case errors.Is(err, provider.ErrCapture):
		issueID = issue.CaptureFailedId
	case errors.Is(err, run.ErrInvalidInput), errors.Is(err, types.ErrInvalidRunName), errors.Is(err, provider.ErrInvalidPhase):
		issueID = issue.InvalidInputId
	case errors.Is(err, vault.ErrNotDirectory), errors.Is(err, vault.ErrArtifactExists):
		issueID = issue.VaultUnavailableId
	case errors.Is(err, exec.ErrNotFound):
		issueID = issue.CommandNotFoundId
	case errors.Is(err, os.ErrPermission):
		issueID = issue.PermissionDeniedId
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, config.ErrInvalidLoadOptions):
		issueID = issue.ConfigLoadFailedId
	default:
		var ae *issue.ActionableError
		if errors.As(err, &ae) {
			switch {
			case strings.HasSuffix(ae.Operation, "configuration"):
				issueID = issue.ConfigLoadFailedId
			case ae.Operation == "prepare run directory":
				issueID = issue.VaultUnavailableId
			}
		}
	}

	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), issue.Format(err, verbose)),
	}
}
