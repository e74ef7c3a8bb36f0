// SPDX-License-Identifier: MPL-2.0

//go:build !unix

package run

import (
	"os"

	"github.com/capsula-run/capsula/pkg/types"
)

// exitCode returns the exit code of a terminated process, or ExitCodeUnknown
// when none is available.
func exitCode(state *os.ProcessState) types.ExitCode {
	if state == nil {
		return types.ExitCodeUnknown
	}
	return exitCodeOrUnknown(state.ExitCode())
}
