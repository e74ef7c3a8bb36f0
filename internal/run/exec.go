// SPDX-License-Identifier: MPL-2.0

package run

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"mvdan.cc/sh/v3/syntax"

	"github.com/capsula-run/capsula/pkg/types"
)

// Environment variables describing the run to the child process.
const (
	EnvRunID        = "CAPSULA_RUN_ID"
	EnvRunName      = "CAPSULA_RUN_NAME"
	EnvRunDirectory = "CAPSULA_RUN_DIRECTORY"
	EnvRunTimestamp = "CAPSULA_RUN_TIMESTAMP"
	EnvRunCommand   = "CAPSULA_RUN_COMMAND"
)

// ExecOptions configures PreparedRun.Exec.
type ExecOptions struct {
	// Stdout and Stderr receive the child's output live. They default to
	// os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
	// NoIdentityEnv disables the CAPSULA_RUN_* environment variables.
	NoIdentityEnv bool
}

// Exec runs the command in the current working directory and waits for it.
// The child's stdout and stderr are OS pipes drained by two concurrent
// readers, each writing through to its console stream while keeping a
// verbatim copy. A non-zero exit is reported in Output, not as an error;
// errors are returned only when the child cannot be started or its output
// cannot be captured.
func (p *PreparedRun) Exec(opts ExecOptions) (*Output, error) {
	if len(p.Command) == 0 {
		return nil, ErrEmptyCommand
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	cmd := exec.Command(p.Command[0], p.Command[1:]...)
	if !opts.NoIdentityEnv {
		cmd.Env = append(os.Environ(), p.identityEnv()...)
	}

	outR, outW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		closeAll(outR, outW)
		return nil, fmt.Errorf("create stderr pipe: %w", err)
	}
	cmd.Stdout = outW
	cmd.Stderr = errW

	slog.Debug("starting command", "run_id", p.ID, "command", p.Command, "dir", p.Dir)
	start := time.Now()
	if err := cmd.Start(); err != nil {
		closeAll(outR, outW, errR, errW)
		return nil, fmt.Errorf("start %q: %w", p.Command[0], err)
	}
	// The child holds its own copies; the readers see EOF once it exits.
	closeAll(outW, errW)

	outSink, errSink := newSinks(opts.Stdout, opts.Stderr)
	var stdout, stderr bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		defer func() { _ = outR.Close() }()
		if err := drain(outR, outSink, &stdout); err != nil {
			return &StreamError{Stream: "stdout", Cause: err}
		}
		return nil
	})
	g.Go(func() error {
		defer func() { _ = errR.Close() }()
		if err := drain(errR, errSink, &stderr); err != nil {
			return &StreamError{Stream: "stderr", Cause: err}
		}
		return nil
	})

	waitErr := cmd.Wait()
	duration := time.Since(start)
	readErr := g.Wait()

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return nil, fmt.Errorf("wait for %q: %w", p.Command[0], waitErr)
	}
	if readErr != nil {
		return nil, readErr
	}

	out := &Output{
		ExitCode: exitCode(cmd.ProcessState),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: duration,
	}
	slog.Debug("command finished", "run_id", p.ID, "exit_code", out.ExitCode, "duration", duration)
	return out, nil
}

func (p *PreparedRun) identityEnv() []string {
	env := []string{
		EnvRunID + "=" + p.ID.String(),
		EnvRunName + "=" + p.Name.String(),
		EnvRunDirectory + "=" + p.Dir,
		EnvRunTimestamp + "=" + p.Timestamp().Format(time.RFC3339),
	}
	if line, err := QuoteCommand(p.Command); err == nil {
		env = append(env, EnvRunCommand+"="+line)
	} else {
		slog.Debug("omitting "+EnvRunCommand, "error", err)
	}
	return env
}

// QuoteCommand joins argv into a single shell command line that a POSIX
// shell splits back into the same arguments.
func QuoteCommand(argv []string) (string, error) {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		q, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			return "", err
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " "), nil
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}

// exitCodeOrUnknown maps a negative (unobtainable) code to ExitCodeUnknown.
func exitCodeOrUnknown(code int) types.ExitCode {
	if code < 0 {
		return types.ExitCodeUnknown
	}
	return types.ExitCode(code)
}
