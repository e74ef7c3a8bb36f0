// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/capsula-run/capsula/internal/vault"
	"github.com/capsula-run/capsula/pkg/types"
)

func newListCommand(app *App) *cobra.Command {
	var limit int

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recorded runs, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}

			entries, err := vault.List(cfg.VaultDir())
			if err != nil {
				return app.fail(cmd, err)
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			printRunList(app, cfg.VaultDir(), entries, time.Now())
			return nil
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many runs (0 shows all)")

	return listCmd
}

func printRunList(app *App, vaultDir string, entries []vault.Entry, now time.Time) {
	w := app.stdout
	if len(entries) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("No runs recorded in "+vaultDir))
		return
	}

	nameWidth := len("NAME")
	for _, e := range entries {
		nameWidth = max(nameWidth, len(e.Metadata.Name))
	}
	nameCol := lipgloss.NewStyle().Width(nameWidth + 2)
	col := lipgloss.NewStyle().Width(16)
	exitCol := lipgloss.NewStyle().Width(6)

	fmt.Fprintln(w, TitleStyle.Render(nameCol.Render("NAME")+col.Render("STARTED")+exitCol.Render("EXIT")+col.Render("DURATION")+col.Render("SIZE")+"DIR"))
	for _, e := range entries {
		exit, duration := SubtitleStyle.Render("-"), SubtitleStyle.Render("-")
		if e.Result != nil {
			exit = exitCodeStyle(types.ExitCode(e.Result.ExitCode)).Render(fmt.Sprint(e.Result.ExitCode))
			duration = e.Result.Duration().Round(time.Millisecond).String()
		}
		dir := e.Dir
		if rel, err := filepath.Rel(vaultDir, e.Dir); err == nil {
			dir = rel
		}
		fmt.Fprintln(w,
			nameCol.Render(CmdStyle.Render(e.Metadata.Name))+
				col.Render(humanize.RelTime(e.Metadata.Timestamp, now, "ago", "from now"))+
				exitCol.Render(exit)+
				col.Render(duration)+
				col.Render(humanize.Bytes(uint64(e.Size)))+
				SubtitleStyle.Render(dir))
	}
}
