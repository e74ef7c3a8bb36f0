// SPDX-License-Identifier: MPL-2.0

package run

import (
	"encoding/json"
	"time"

	"github.com/capsula-run/capsula/pkg/types"
)

// Output is the result of executing a run's command.
type Output struct {
	ExitCode types.ExitCode
	// Stdout and Stderr are the complete captured streams. Bytes that are not
	// valid UTF-8 are replaced when the output is encoded to JSON.
	Stdout   string
	Stderr   string
	Duration time.Duration
}

type outputJSON struct {
	ExitCode   types.ExitCode `json:"exit_code"`
	Stdout     string         `json:"stdout"`
	Stderr     string         `json:"stderr"`
	Duration   string         `json:"duration"`
	DurationNS int64          `json:"duration_ns"`
}

// MarshalJSON encodes the output as the run.json document. The duration is
// written both human-readable and in nanoseconds.
func (o Output) MarshalJSON() ([]byte, error) {
	return json.Marshal(outputJSON{
		ExitCode:   o.ExitCode,
		Stdout:     o.Stdout,
		Stderr:     o.Stderr,
		Duration:   o.Duration.String(),
		DurationNS: o.Duration.Nanoseconds(),
	})
}

// UnmarshalJSON decodes a run.json document.
func (o *Output) UnmarshalJSON(data []byte) error {
	var raw outputJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*o = Output{
		ExitCode: raw.ExitCode,
		Stdout:   raw.Stdout,
		Stderr:   raw.Stderr,
		Duration: time.Duration(raw.DurationNS),
	}
	return nil
}
