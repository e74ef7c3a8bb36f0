// SPDX-License-Identifier: MPL-2.0

//go:build unix

package run

import (
	"os"
	"syscall"

	"github.com/capsula-run/capsula/pkg/types"
)

// exitCode normalizes a process status: the exit code of a normal exit,
// 128+signal for a process killed by a signal, ExitCodeUnknown otherwise.
func exitCode(state *os.ProcessState) types.ExitCode {
	if state == nil {
		return types.ExitCodeUnknown
	}
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok {
		return exitCodeOrUnknown(state.ExitCode())
	}
	switch {
	case ws.Exited():
		return types.ExitCode(ws.ExitStatus())
	case ws.Signaled():
		return types.ExitCodeFromSignal(int(ws.Signal()))
	default:
		return types.ExitCodeUnknown
	}
}
