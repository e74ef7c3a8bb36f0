// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/capsula-run/capsula/internal/app/execute"
	"github.com/capsula-run/capsula/internal/config"
	"github.com/capsula-run/capsula/internal/issue"
	"github.com/capsula-run/capsula/internal/provider/builtin"
	"github.com/capsula-run/capsula/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every cobra handler receives an App and goes
	// through it for configuration, output streams and logging.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer
		logger *log.Logger

		// Global flag values, bound by NewRootCommand.
		verbose     bool
		configPath  string
		projectRoot string
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
		logger: log.NewWithOptions(deps.Stderr, log.Options{Level: log.InfoLevel}),
	}, nil
}

// installLogger routes slog through the App's charm logger.
func (a *App) installLogger() {
	a.setVerbose(a.verbose)
	slog.SetDefault(slog.New(a.logger))
}

func (a *App) setVerbose(verbose bool) {
	a.verbose = verbose
	if verbose {
		a.logger.SetLevel(log.DebugLevel)
	} else {
		a.logger.SetLevel(log.InfoLevel)
	}
}

func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(a.configPath),
		ProjectRoot:    types.FilesystemPath(a.projectRoot),
	}
}

// loadConfig loads the configuration selected by the global flags. The
// ui.verbose setting turns on debug logging when --verbose was not given.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, a.loadOptions())
	if err != nil {
		return nil, err
	}
	if cfg.UI.Verbose && !a.verbose {
		a.setVerbose(true)
	}
	slog.Debug("configuration loaded", "project_root", cfg.ProjectRoot, "file", cfg.Path)
	return cfg, nil
}

// newOrchestrator loads the configuration and builds an orchestrator whose
// command output goes to the App's streams.
func (a *App) newOrchestrator(ctx context.Context) (*execute.Orchestrator, *config.Config, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	registry, err := builtin.NewRegistry(cfg.DisabledProviders()...)
	if err != nil {
		return nil, nil, issue.NewErrorContext().
			WithOperation("build provider registry").
			WithResource(cfg.Path).
			WithSuggestion("Only built-in provider types can be listed in providers.disabled").
			Wrap(err).
			BuildError()
	}
	return execute.New(cfg, registry, a.stdout, a.stderr), cfg, nil
}

// fail renders err with its issue guidance and converts it to an exit code.
// Cobra and fang are told not to print the error a second time.
func (a *App) fail(cmd *cobra.Command, err error) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	classifyError(err, a.verbose).Render(a.stderr)
	return &ExitError{Code: 1}
}
