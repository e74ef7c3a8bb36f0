// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/capsula-run/capsula/internal/config"
	"github.com/capsula-run/capsula/internal/issue"
	"github.com/capsula-run/capsula/internal/provider"
	"github.com/capsula-run/capsula/internal/run"
	"github.com/capsula-run/capsula/internal/vault"
	"github.com/capsula-run/capsula/pkg/types"
)

type (
	// Request describes one run.
	Request struct {
		// Name is the run name; empty selects a generated one.
		Name types.RunName
		// Command is the argv to execute.
		Command []string
		// NoIdentityEnv disables the CAPSULA_RUN_* variables in the child.
		NoIdentityEnv bool
	}

	// Result is the outcome of a completed run. A non-zero exit of the
	// command is a successful run with Output.ExitCode set.
	Result struct {
		Run    *run.PreparedRun
		Pre    []provider.Captured
		Output *run.Output
		Post   []provider.Captured
	}

	// Orchestrator runs commands and captures against one configuration.
	Orchestrator struct {
		cfg      *config.Config
		registry *provider.Registry
		stdout   io.Writer
		stderr   io.Writer
	}
)

// New creates an Orchestrator. The command's output is teed to stdout and
// stderr.
func New(cfg *config.Config, registry *provider.Registry, stdout, stderr io.Writer) *Orchestrator {
	return &Orchestrator{cfg: cfg, registry: registry, stdout: stdout, stderr: stderr}
}

// Run performs a full run. Both phases are resolved before anything is
// written, so configuration errors never leave a run directory behind.
// Once the directory exists, a failing step stops the run and the artifacts
// written so far are kept.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	if len(req.Command) == 0 {
		return nil, invalidRequest(run.ErrEmptyCommand)
	}
	r, err := run.New(req.Name, req.Command)
	if err != nil {
		return nil, invalidRequest(err)
	}

	pre, err := o.build(provider.PhasePre)
	if err != nil {
		return nil, err
	}
	post, err := o.build(provider.PhasePost)
	if err != nil {
		return nil, err
	}

	vaultDir := o.cfg.VaultDir()
	prepared, err := r.Prepare(vaultDir)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("prepare run directory").
			WithResource(vaultDir).
			WithSuggestion("Check that vault.path points to a writable directory").
			Wrap(err).
			BuildError()
	}
	slog.Debug("run prepared", "run_id", prepared.ID, "name", prepared.Name, "dir", prepared.Dir)

	res := &Result{Run: prepared}
	if err := o.persist(prepared.Dir, vault.MetadataFile, prepared.Metadata()); err != nil {
		return res, err
	}

	if res.Pre, err = o.capture(ctx, provider.PhasePre, pre, prepared.Dir); err != nil {
		return res, err
	}
	if err := o.persist(prepared.Dir, vault.PreFile, res.Pre); err != nil {
		return res, err
	}

	res.Output, err = prepared.Exec(run.ExecOptions{
		Stdout:        o.stdout,
		Stderr:        o.stderr,
		NoIdentityEnv: req.NoIdentityEnv,
	})
	if err != nil {
		return res, issue.NewErrorContext().
			WithOperation("execute command").
			WithResource(req.Command[0]).
			WithSuggestion("Check that the program exists and is executable").
			Wrap(err).
			BuildError()
	}
	if err := o.persist(prepared.Dir, vault.RunFile, res.Output); err != nil {
		return res, err
	}

	if res.Post, err = o.capture(ctx, provider.PhasePost, post, prepared.Dir); err != nil {
		return res, err
	}
	if err := o.persist(prepared.Dir, vault.PostFile, res.Post); err != nil {
		return res, err
	}
	return res, nil
}

// Capture resolves and runs the providers of phase without a run directory.
func (o *Orchestrator) Capture(ctx context.Context, phase provider.Phase) ([]provider.Captured, error) {
	providers, err := o.build(phase)
	if err != nil {
		return nil, err
	}
	return o.capture(ctx, phase, providers, "")
}

func (o *Orchestrator) build(phase provider.Phase) ([]provider.Provider, error) {
	specs, err := o.cfg.Specs(phase)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation(fmt.Sprintf("read %s-run contexts", phase)).
			WithResource(o.cfg.Path).
			WithSuggestion("Every [[phase." + phase.String() + ".contexts]] entry needs a string 'type' field").
			Wrap(err).
			BuildError()
	}

	providers, err := provider.Build(specs, o.cfg.ProjectRoot, o.registry)
	if err != nil {
		ec := issue.NewErrorContext().
			WithOperation(fmt.Sprintf("resolve %s-run contexts", phase)).
			Wrap(err)
		var buildErr *provider.BuildError
		if errors.As(err, &buildErr) {
			ec.WithResource(buildErr.Key.String())
		}
		switch {
		case errors.Is(err, provider.ErrTypeNotFound):
			ec.WithSuggestion(fmt.Sprintf("Registered context types: %v", o.registry.RegisteredTypes()))
		case errors.Is(err, provider.ErrInvalidConfig):
			ec.WithSuggestion("Check the fields of the context entry against the provider's documentation")
		}
		return nil, ec.BuildError()
	}
	return providers, nil
}

func (o *Orchestrator) capture(ctx context.Context, phase provider.Phase, providers []provider.Provider, runDir string) ([]provider.Captured, error) {
	params := provider.RuntimeParams{Phase: phase, RunDir: runDir, ProjectRoot: o.cfg.ProjectRoot}
	captured, err := provider.RunAll(ctx, providers, params)
	if err != nil {
		ec := issue.NewErrorContext().
			WithOperation(fmt.Sprintf("run %s-run capture", phase)).
			Wrap(err)
		var runErr *provider.RunError
		if errors.As(err, &runErr) {
			ec.WithResource(runErr.Key.String())
		}
		return nil, ec.WithSuggestion("Run 'capsula capture --phase " + phase.String() + " --verbose' to reproduce").BuildError()
	}
	if captured == nil {
		captured = []provider.Captured{}
	}
	return captured, nil
}

func (o *Orchestrator) persist(dir, name string, v any) error {
	if err := vault.WriteJSON(dir, name, v); err != nil {
		return issue.NewErrorContext().
			WithOperation("write " + name).
			WithResource(dir).
			Wrap(err).
			BuildError()
	}
	slog.Debug("artifact written", "file", name, "dir", dir)
	return nil
}

func invalidRequest(err error) error {
	return issue.NewErrorContext().
		WithOperation("create run").
		WithSuggestion("Pass the command after '--', e.g. capsula run -- python train.py").
		WithSuggestion("Use a run name without path separators").
		Wrap(err).
		BuildError()
}
