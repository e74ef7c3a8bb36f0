// SPDX-License-Identifier: MPL-2.0

package run

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/capsula-run/capsula/internal/vault"
	"github.com/capsula-run/capsula/pkg/types"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "150405"
)

type (
	// Run is the identity and intent of one command execution. It is not
	// bound to a storage location.
	Run struct {
		// ID is a UUIDv7: unique, time-ordered, and carrying the creation
		// time in milliseconds.
		ID      uuid.UUID
		Name    types.RunName
		Command []string
	}

	// PreparedRun is a Run bound to its created run directory.
	PreparedRun struct {
		Run
		Dir string
	}
)

// New creates a run for command. An empty name is replaced by a generated
// one; a non-empty name must be a valid RunName.
func New(name types.RunName, command []string) (*Run, error) {
	if name == "" {
		name = GenerateName()
	} else if err := name.Validate(); err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate run id: %w", err)
	}
	return &Run{ID: id, Name: name, Command: slices.Clone(command)}, nil
}

// Timestamp returns the creation time encoded in the run id, in UTC.
func (r *Run) Timestamp() time.Time {
	sec, nsec := r.ID.Time().UnixTime()
	return time.Unix(sec, nsec).UTC()
}

// Dir returns the run directory under vaultRoot:
// <vaultRoot>/<YYYY-MM-DD>/<HHMMSS>-<name>--<id>. The leaf starts with the
// time of day so that lexical order of a day's runs is chronological to the
// second; runs started within the same second sort by name, then id.
// Dir performs no I/O.
func (r *Run) Dir(vaultRoot string) string {
	ts := r.Timestamp()
	leaf := fmt.Sprintf("%s-%s--%s", ts.Format(timeLayout), r.Name, r.ID)
	return filepath.Join(vaultRoot, ts.Format(dateLayout), leaf)
}

// Prepare ensures the vault at vaultRoot and creates the run directory. It
// fails if the run directory already exists.
func (r *Run) Prepare(vaultRoot string) (*PreparedRun, error) {
	if err := vault.Ensure(vaultRoot); err != nil {
		return nil, err
	}
	dir := r.Dir(vaultRoot)
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return nil, fmt.Errorf("create run directory: %w", err)
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create run directory: %w", err)
	}
	return &PreparedRun{Run: *r, Dir: dir}, nil
}

// Metadata returns the metadata.json document of the run.
func (p *PreparedRun) Metadata() vault.Metadata {
	return vault.Metadata{
		ID:        p.ID.String(),
		Name:      p.Name.String(),
		Command:   p.Command,
		Timestamp: p.Timestamp(),
		RunDir:    p.Dir,
	}
}
