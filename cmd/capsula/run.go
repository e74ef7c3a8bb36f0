// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/capsula-run/capsula/internal/app/execute"
	"github.com/capsula-run/capsula/pkg/types"
)

func newRunCommand(app *App) *cobra.Command {
	var (
		name  string
		noEnv bool
	)

	runCmd := &cobra.Command{
		Use:   "run [flags] -- COMMAND [ARGS...]",
		Short: "Run a command and capture its context",
		Long: `Run a command and capture its context.

The pre-run contexts are captured, the command runs with its output shown
live and recorded, then the post-run contexts are captured. Everything is
stored in a new run directory in the vault. capsula exits with the
command's exit code.

The child process sees CAPSULA_RUN_ID, CAPSULA_RUN_NAME,
CAPSULA_RUN_DIRECTORY, CAPSULA_RUN_TIMESTAMP and CAPSULA_RUN_COMMAND
unless --no-env is given.`,
		Example: `  capsula run -- python train.py --epochs 10
  capsula run --name baseline -- make bench`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, app, execute.Request{
				Name:          types.RunName(name),
				Command:       args,
				NoIdentityEnv: noEnv,
			})
		},
	}
	runCmd.Flags().SetInterspersed(false)
	runCmd.Flags().StringVarP(&name, "name", "n", "", "run name (default is generated)")
	runCmd.Flags().BoolVar(&noEnv, "no-env", false, "do not expose CAPSULA_RUN_* variables to the command")

	return runCmd
}

func runCommand(cmd *cobra.Command, app *App, req execute.Request) error {
	orch, _, err := app.newOrchestrator(cmd.Context())
	if err != nil {
		return app.fail(cmd, err)
	}

	res, err := orch.Run(cmd.Context(), req)
	if res != nil && res.Run != nil {
		printRunSummary(app, res)
	}
	if err != nil {
		return app.fail(cmd, err)
	}

	if res.Output.ExitCode != 0 {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return &ExitError{Code: res.Output.ExitCode}
	}
	return nil
}

func printRunSummary(app *App, res *execute.Result) {
	w := app.stderr
	fmt.Fprintln(w)
	if res.Output == nil {
		fmt.Fprintf(w, "%s run %s did not complete\n", ErrorStyle.Render("✗"), CmdStyle.Render(res.Run.Name.String()))
	} else {
		code := res.Output.ExitCode
		mark := SuccessStyle.Render("✓")
		if code != 0 {
			mark = WarningStyle.Render("!")
		}
		fmt.Fprintf(w, "%s run %s exited with code %s in %s\n",
			mark,
			CmdStyle.Render(res.Run.Name.String()),
			exitCodeStyle(code).Render(fmt.Sprint(code)),
			res.Output.Duration.Round(time.Millisecond))
	}
	fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render("id: "), res.Run.ID)
	fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render("dir:"), res.Run.Dir)
}
