// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/capsula-run/capsula/internal/config"
	"github.com/capsula-run/capsula/internal/issue"
)

// newConfigCommand creates the `capsula config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage capsula configuration",
		Long: `Manage capsula configuration.

Configuration is read from capsula.toml at the project root: the nearest
directory, starting from the working directory, that contains one.
Settings can be overridden with CAPSULA_* environment variables, for
example CAPSULA_VAULT_PATH.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := showConfig(cmd.Context(), app); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter capsula.toml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(app, force); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file, project root and vault paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			file := cfg.Path
			if file == "" {
				file = "(none)"
			}
			fmt.Fprintf(app.stdout, "Config file: %s\n", file)
			fmt.Fprintf(app.stdout, "Project root: %s\n", cfg.ProjectRoot)
			fmt.Fprintf(app.stdout, "Vault: %s\n", cfg.VaultDir())
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			data, err := config.GenerateTOML(cfg)
			if err != nil {
				return app.fail(cmd, err)
			}
			_, err = app.stdout.Write(data)
			return err
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}

	w := app.stdout
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if cfg.Path != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfg.Path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Project root"), cfg.ProjectRoot)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("vault"))
	fmt.Fprintf(w, "  path: %s %s\n", valueStyle.Render(cfg.Vault.Path.String()), SubtitleStyle.Render("("+cfg.VaultDir()+")"))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("providers"))
	if len(cfg.Providers.Disabled) == 0 {
		fmt.Fprintf(w, "  disabled: %s\n", SubtitleStyle.Render("(none)"))
	} else {
		fmt.Fprintf(w, "  disabled: %s\n", valueStyle.Render(strings.Join(cfg.Providers.Disabled, ", ")))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	for _, phase := range []struct {
		name     string
		contexts []map[string]any
	}{
		{"pre", cfg.Phase.Pre.Contexts},
		{"post", cfg.Phase.Post.Contexts},
	} {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s:\n", keyStyle.Render("phase."+phase.name+".contexts"))
		if len(phase.contexts) == 0 {
			fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
			continue
		}
		for _, c := range phase.contexts {
			fmt.Fprintf(w, "  - %s\n", valueStyle.Render(fmt.Sprint(c["type"])))
		}
	}

	return nil
}

// initConfig writes the starter configuration to --config, or to
// capsula.toml in --project-root or the working directory.
func initConfig(app *App, force bool) error {
	path := app.configPath
	if path == "" {
		dir := app.projectRoot
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("determine working directory: %w", err)
			}
			dir = wd
		}
		path = filepath.Join(dir, config.FileName)
	}

	data, err := config.GenerateTOML(config.StarterConfig())
	if err != nil {
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		ec := issue.NewErrorContext().
			WithOperation("create configuration").
			WithResource(path).
			Wrap(err)
		if errors.Is(err, fs.ErrExist) {
			ec.WithSuggestion("Use --force to overwrite the existing file")
		}
		return ec.BuildError()
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), path)
	return nil
}
