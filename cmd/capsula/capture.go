// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/capsula-run/capsula/internal/provider"
)

func newCaptureCommand(app *App) *cobra.Command {
	var phase string

	captureCmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture the contexts of a phase without running anything",
		Long: `Capture the contexts of a phase without running anything.

The captured values are printed to stdout as a JSON array in declaration
order. No run directory is created, so file contexts that copy or move
files fail; use mode = "none" to inspect them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return captureContexts(cmd, app, provider.Phase(phase))
		},
	}
	captureCmd.Flags().StringVarP(&phase, "phase", "p", provider.PhasePre.String(), "phase whose contexts are captured (pre or post)")

	return captureCmd
}

func captureContexts(cmd *cobra.Command, app *App, phase provider.Phase) error {
	if err := phase.Validate(); err != nil {
		return app.fail(cmd, err)
	}

	orch, _, err := app.newOrchestrator(cmd.Context())
	if err != nil {
		return app.fail(cmd, err)
	}

	captured, err := orch.Capture(cmd.Context(), phase)
	if err != nil {
		return app.fail(cmd, err)
	}

	data, err := json.MarshalIndent(captured, "", "  ")
	if err != nil {
		return app.fail(cmd, fmt.Errorf("encode captured contexts: %w", err))
	}
	fmt.Fprintln(app.stdout, string(data))
	return nil
}
