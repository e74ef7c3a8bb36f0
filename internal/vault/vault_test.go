// SPDX-License-Identifier: MPL-2.0

package vault

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureCreatesVault(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "nested", ".capsula")
	if err := Ensure(root); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, IgnoreFileName))
	if err != nil {
		t.Fatalf("ReadFile(ignore) error = %v", err)
	}
	if string(data) != ignoreFileContent {
		t.Errorf("ignore file = %q, want %q", data, ignoreFileContent)
	}
}

func TestEnsureIdempotent(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), ".capsula")
	if err := Ensure(root); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	ignore := filepath.Join(root, IgnoreFileName)
	if err := os.WriteFile(ignore, []byte("custom\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := Ensure(root); err != nil {
		t.Fatalf("second Ensure() error = %v", err)
	}
	data, err := os.ReadFile(ignore)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "custom\n" {
		t.Errorf("ignore file rewritten: %q", data)
	}
}

func TestEnsureExistingDirectoryWithoutMarker(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := Ensure(root); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, IgnoreFileName)); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Stat(ignore) error = %v, want ErrNotExist", err)
	}
}

func TestEnsureNotDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "vault")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := Ensure(path); !errors.Is(err, ErrNotDirectory) {
		t.Errorf("Ensure() error = %v, want ErrNotDirectory", err)
	}
}
