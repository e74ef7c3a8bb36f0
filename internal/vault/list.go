// SPDX-License-Identifier: MPL-2.0

package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Entry describes one run directory found in the vault.
type Entry struct {
	// Dir is the run directory.
	Dir      string
	Metadata Metadata
	// Result is nil when the run has not produced run.json (it is still
	// running, or failed before the command was executed).
	Result *Result
	// Size is the total size in bytes of the files in Dir.
	Size int64
}

// List returns the runs stored in the vault at root, newest first. Directories
// that do not contain a readable metadata.json are skipped. A missing vault is
// not an error.
func List(root string) ([]Entry, error) {
	days, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read vault: %w", err)
	}

	var entries []Entry
	for _, day := range days {
		if !day.IsDir() {
			continue
		}
		if _, err := time.Parse(dateLayout, day.Name()); err != nil {
			continue
		}
		dayDir := filepath.Join(root, day.Name())
		leaves, err := os.ReadDir(dayDir)
		if err != nil {
			return nil, fmt.Errorf("read vault: %w", err)
		}
		for _, leaf := range leaves {
			if !leaf.IsDir() {
				continue
			}
			entry, ok := readEntry(filepath.Join(dayDir, leaf.Name()))
			if ok {
				entries = append(entries, entry)
			}
		}
	}

	// Leaf names sort chronologically; the id breaks ties within a second.
	slices.SortFunc(entries, func(a, b Entry) int {
		if c := b.Metadata.Timestamp.Compare(a.Metadata.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(b.Metadata.ID, a.Metadata.ID)
	})
	return entries, nil
}

func readEntry(dir string) (Entry, bool) {
	entry := Entry{Dir: dir}
	if err := ReadJSON(dir, MetadataFile, &entry.Metadata); err != nil {
		slog.Debug("skipping run directory", "dir", dir, "error", err)
		return Entry{}, false
	}

	var result Result
	if err := ReadJSON(dir, RunFile, &result); err == nil {
		entry.Result = &result
	} else if !errors.Is(err, fs.ErrNotExist) {
		slog.Debug("unreadable run result", "dir", dir, "error", err)
	}

	_ = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			entry.Size += info.Size()
		}
		return nil
	})
	return entry, true
}
