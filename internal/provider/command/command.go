// SPDX-License-Identifier: MPL-2.0

// Package command provides the "command" context provider, which records the
// output of a short command such as "pip freeze" or "go version".
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"

	"mvdan.cc/sh/v3/shell"

	"github.com/capsula-run/capsula/internal/provider"
)

// Key is the registry key of the command provider.
const Key provider.Key = "command"

// ErrCommandFailed is returned when the command exits non-zero and failures
// are not allowed.
var ErrCommandFailed = errors.New("command exited with non-zero status")

type (
	// Captured is the document produced by the command provider.
	Captured struct {
		Type     provider.Key `json:"type"`
		Command  string       `json:"command"`
		Args     []string     `json:"args"`
		ExitCode int          `json:"exit_code"`
		Stdout   string       `json:"stdout"`
		Stderr   string       `json:"stderr"`
	}

	// Provider runs Args in Dir and records its output.
	Provider struct {
		// Line is the command line as configured.
		Line string
		// Args is Line split into fields; Args[0] is the program.
		Args         []string
		Dir          string
		AllowFailure bool
	}

	config struct {
		Command      string `mapstructure:"command"`
		Cwd          string `mapstructure:"cwd"`
		AllowFailure bool   `mapstructure:"allow_failure"`
	}
)

// CaptureType implements provider.Captured.
func (c Captured) CaptureType() provider.Key { return c.Type }

// Run implements provider.Typed. The command is bound to ctx.
func (p Provider) Run(ctx context.Context, _ provider.RuntimeParams) (Captured, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.Args[0], p.Args[1:]...)
	cmd.Dir = p.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exitCode := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Captured{}, provider.NewCaptureError(Key, p.Dir, fmt.Errorf("run %q: %w", p.Line, err))
		}
		exitCode = exitErr.ExitCode()
		if !p.AllowFailure {
			return Captured{}, provider.NewCaptureError(Key, p.Dir,
				fmt.Errorf("%w: %q exited with %d: %s", ErrCommandFailed, p.Line, exitCode, bytes.TrimSpace(stderr.Bytes())))
		}
	}

	return Captured{
		Type:     Key,
		Command:  p.Line,
		Args:     p.Args,
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}

// NewFactory returns the factory registering the command provider.
//
// Configuration: command (required; split into fields with POSIX shell
// quoting rules and $VAR expansion, no pipes or substitutions), cwd
// (relative to the project root, default the project root), allow_failure.
func NewFactory() provider.Factory {
	return provider.FactoryFunc(Key, func(cfg provider.Config, projectRoot string) (provider.Provider, error) {
		var c config
		if err := provider.DecodeConfig(Key, cfg, &c); err != nil {
			return nil, err
		}
		if c.Command == "" {
			return nil, &provider.ConfigError{Key: Key, Cause: errors.New(`"command" is required`)}
		}
		args, err := shell.Fields(c.Command, nil)
		if err != nil {
			return nil, &provider.ConfigError{Key: Key, Cause: fmt.Errorf("parse command %q: %w", c.Command, err)}
		}
		if len(args) == 0 {
			return nil, &provider.ConfigError{Key: Key, Cause: fmt.Errorf("command %q has no fields", c.Command)}
		}

		dir := c.Cwd
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(projectRoot, dir)
		}

		return provider.Erase[Captured](Key, Provider{
			Line:         c.Command,
			Args:         args,
			Dir:          filepath.Clean(dir),
			AllowFailure: c.AllowFailure,
		}), nil
	})
}
