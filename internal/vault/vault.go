// SPDX-License-Identifier: MPL-2.0

package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// IgnoreFileName is the marker written into a newly created vault root.
	IgnoreFileName = ".gitignore"

	ignoreFileContent = "# Automatically generated by Capsula\n*\n"
)

// ErrNotDirectory is returned when the vault path exists but is not a directory.
var ErrNotDirectory = errors.New("vault path is not a directory")

// Ensure makes sure the vault root at path exists. When the directory has to
// be created, an ignore file excluding all of its contents from version
// control is written into it. An existing directory is left untouched.
func Ensure(path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.IsDir() {
			return &fs.PathError{Op: "ensure vault", Path: path, Err: ErrNotDirectory}
		}
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("stat vault: %w", err)
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create vault: %w", err)
	}
	ignore := filepath.Join(path, IgnoreFileName)
	if err := os.WriteFile(ignore, []byte(ignoreFileContent), 0o644); err != nil {
		return fmt.Errorf("write vault ignore file: %w", err)
	}
	slog.Debug("created vault", "path", path)
	return nil
}
