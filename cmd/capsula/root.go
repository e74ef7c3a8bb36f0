// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the capsula command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "capsula",
		Short: "Capture the context around a command run",
		Long: TitleStyle.Render("capsula") + SubtitleStyle.Render(" - Capture the context around a command run") + `

capsula runs a command and records what surrounded it: the working
directory, the git revision, selected files and environment variables,
before and after the command. Every run gets its own directory in the
vault holding the captured context and the command's output.

Contexts are declared in 'capsula.toml' at the project root.

` + SubtitleStyle.Render("Examples:") + `
  capsula run -- python train.py   Run a command and capture its context
  capsula capture                  Show what the pre-run contexts capture
  capsula list                     List recorded runs, newest first
  capsula config init              Create a starter capsula.toml`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.installLogger()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is capsula.toml at the project root)")
	rootCmd.PersistentFlags().StringVar(&app.projectRoot, "project-root", "", "project root (default is discovered from the working directory)")

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(
		newRunCommand(app),
		newCaptureCommand(app),
		newListCommand(app),
		newConfigCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
		os.Exit(1)
	}

	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}
