// SPDX-License-Identifier: MPL-2.0

package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Artifact file names inside a run directory.
const (
	MetadataFile = "metadata.json"
	PreFile      = "pre.json"
	RunFile      = "run.json"
	PostFile     = "post.json"

	// FilesDir is the subdirectory of a run directory that receives files
	// copied or moved by captures, keeping them apart from the artifacts.
	FilesDir = "files"
)

// ErrArtifactExists is returned when an artifact has already been written.
var ErrArtifactExists = errors.New("artifact already exists")

var link = os.Link

type (
	// Metadata is the content of metadata.json: the identity of a run.
	Metadata struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Command   []string  `json:"command"`
		Timestamp time.Time `json:"timestamp"`
		RunDir    string    `json:"run_dir"`
	}

	// Result is the subset of run.json read back when listing runs.
	Result struct {
		ExitCode   int   `json:"exit_code"`
		DurationNS int64 `json:"duration_ns"`
	}
)

// Duration returns the recorded wall-clock duration.
func (r Result) Duration() time.Duration { return time.Duration(r.DurationNS) }

// WriteJSON writes v as indented JSON to dir/name. The document is written
// to a temporary file in dir first and then linked into place, so readers
// never observe a partial artifact. On filesystems without hard links the
// document is written directly to an exclusively created file. Either way an
// existing artifact is never replaced: a second write fails with
// ErrArtifactExists.
func WriteJSON(dir, name string, v any) (err error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err = tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	target := filepath.Join(dir, name)
	if err = link(tmp.Name(), target); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return &fs.PathError{Op: "write artifact", Path: target, Err: ErrArtifactExists}
		}
		slog.Debug("hard link unavailable, writing artifact in place", "file", target, "error", err)
		return writeExclusive(target, data)
	}
	return nil
}

func writeExclusive(target string, data []byte) error {
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return &fs.PathError{Op: "write artifact", Path: target, Err: ErrArtifactExists}
		}
		return fmt.Errorf("write %s: %w", filepath.Base(target), err)
	}
	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(target)
		return fmt.Errorf("write %s: %w", filepath.Base(target), err)
	}
	return nil
}

// ReadJSON decodes the artifact dir/name into v.
func ReadJSON(dir, name string, v any) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Join(dir, name), err)
	}
	return nil
}
