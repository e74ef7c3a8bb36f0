// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"testing"

	"github.com/capsula-run/capsula/internal/config"
	"github.com/capsula-run/capsula/internal/issue"
	"github.com/capsula-run/capsula/internal/provider"
	"github.com/capsula-run/capsula/internal/run"
	"github.com/capsula-run/capsula/internal/vault"
	"github.com/capsula-run/capsula/pkg/types"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	wrap := func(op string, err error) error {
		return issue.NewErrorContext().WithOperation(op).Wrap(err).BuildError()
	}

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{"unknown provider", wrap("resolve pre-run contexts", &provider.TypeNotFoundError{Key: "nope"}), issue.ProviderNotFoundId},
		{"provider config", wrap("resolve pre-run contexts", &provider.ConfigError{Key: "file", Cause: errors.New("glob is required")}), issue.ProviderConfigInvalidId},
		{"capture", wrap("run post-run capture", provider.NewCaptureError("git", "", errors.New("dirty"))), issue.CaptureFailedId},
		{"empty command", wrap("create run", run.ErrEmptyCommand), issue.InvalidInputId},
		{"run name", wrap("create run", &types.InvalidRunNameError{Value: "a/b"}), issue.InvalidInputId},
		{"phase", provider.Phase("during").Validate(), issue.InvalidInputId},
		{"vault file", wrap("prepare run directory", &fs.PathError{Op: "ensure vault", Path: "v", Err: vault.ErrNotDirectory}), issue.VaultUnavailableId},
		{"vault mkdir", wrap("prepare run directory", errors.New("read-only file system")), issue.VaultUnavailableId},
		{"program", wrap("execute command", &exec.Error{Name: "nope", Err: exec.ErrNotFound}), issue.CommandNotFoundId},
		{"permission", wrap("write run.json", fs.ErrPermission), issue.PermissionDeniedId},
		{"config invalid", fmt.Errorf("%w: vault.path", config.ErrInvalidConfig), issue.ConfigLoadFailedId},
		{"config parse", wrap("parse configuration", errors.New("toml: expected '='")), issue.ConfigLoadFailedId},
		{"unclassified", errors.New("boom"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := classifyError(tt.err, false)
			if got.IssueID != tt.want {
				t.Errorf("classifyError() id = %d, want %d", got.IssueID, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("classifyError() does not wrap %v", tt.err)
			}
			if !strings.Contains(got.StyledMessage, "Error:") || !strings.Contains(got.StyledMessage, tt.err.Error()) {
				t.Errorf("styled message = %q, want Error: prefix and the error text", got.StyledMessage)
			}
		})
	}
}
