// SPDX-License-Identifier: MPL-2.0

// Package file provides the "file" context provider, which hashes the files
// matching a glob and optionally copies or moves them into the files
// subdirectory of the run directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/capsula-run/capsula/internal/provider"
	"github.com/capsula-run/capsula/internal/vault"
)

const (
	// Key is the registry key of the file provider.
	Key provider.Key = "file"

	// ModeCopy copies matched files into the run directory.
	ModeCopy Mode = "copy"
	// ModeMove moves matched files into the run directory.
	ModeMove Mode = "move"
	// ModeNone leaves matched files in place.
	ModeNone Mode = "none"

	// HashSHA256 records a "sha256:<hex>" digest of each file.
	HashSHA256 HashAlgorithm = "sha256"
	// HashNone records no digest.
	HashNone HashAlgorithm = "none"
)

// ErrRunDirRequired is returned when copy or move mode runs without a run
// directory, e.g. during an ad-hoc capture.
var ErrRunDirRequired = errors.New("run directory is required for copy and move modes")

type (
	// Mode selects what happens to matched files.
	Mode string

	// HashAlgorithm selects the digest recorded for matched files.
	HashAlgorithm string

	// Entry describes one matched file.
	Entry struct {
		Path       string  `json:"path"`
		CopiedPath *string `json:"copied_path"`
		Hash       *string `json:"hash"`
	}

	// Captured is the document produced by the file provider.
	Captured struct {
		Type  provider.Key `json:"type"`
		Files []Entry      `json:"files"`
	}

	// Provider captures the files matching Pattern below BaseDir.
	Provider struct {
		// BaseDir is the absolute directory the pattern is matched against.
		BaseDir string
		// Pattern is a doublestar glob relative to BaseDir.
		Pattern string
		Mode    Mode
		Hash    HashAlgorithm
	}

	config struct {
		Glob string `mapstructure:"glob"`
		Mode string `mapstructure:"mode"`
		Hash string `mapstructure:"hash"`
	}
)

// CaptureType implements provider.Captured.
func (c Captured) CaptureType() provider.Key { return c.Type }

// Validate returns an error for unknown modes.
func (m Mode) Validate() error {
	switch m {
	case ModeCopy, ModeMove, ModeNone:
		return nil
	default:
		return fmt.Errorf("unknown mode %q (valid: copy, move, none)", m)
	}
}

// Validate returns an error for unknown hash algorithms.
func (h HashAlgorithm) Validate() error {
	switch h {
	case HashSHA256, HashNone:
		return nil
	default:
		return fmt.Errorf("unknown hash %q (valid: sha256, none)", h)
	}
}

// Run implements provider.Typed. Matches are processed in lexical order;
// directories are skipped. No match is not an error.
func (p Provider) Run(_ context.Context, params provider.RuntimeParams) (Captured, error) {
	matches, err := doublestar.Glob(os.DirFS(p.BaseDir), p.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		return Captured{}, provider.NewCaptureError(Key, p.BaseDir, fmt.Errorf("glob %q: %w", p.Pattern, err))
	}

	files := make([]Entry, 0, len(matches))
	for _, rel := range matches {
		entry, err := p.captureFile(rel, params)
		if err != nil {
			return Captured{}, err
		}
		files = append(files, entry)
	}
	return Captured{Type: Key, Files: files}, nil
}

func (p Provider) captureFile(rel string, params provider.RuntimeParams) (Entry, error) {
	src := filepath.Join(p.BaseDir, filepath.FromSlash(rel))
	entry := Entry{Path: src}

	if p.Hash == HashSHA256 {
		digest, err := sha256File(src)
		if err != nil {
			return Entry{}, provider.NewCaptureError(Key, src, err)
		}
		entry.Hash = &digest
	}

	if p.Mode == ModeNone {
		return entry, nil
	}
	if !params.HasRunDir() {
		return Entry{}, provider.NewCaptureError(Key, src, ErrRunDirRequired)
	}

	dst := filepath.Join(params.RunDir, vault.FilesDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return Entry{}, provider.NewCaptureError(Key, dst, err)
	}
	var err error
	if p.Mode == ModeMove {
		err = os.Rename(src, dst)
	} else {
		err = copyFile(src, dst)
	}
	if err != nil {
		return Entry{}, provider.NewCaptureError(Key, src, err)
	}
	entry.CopiedPath = &dst
	return entry, nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

// NewFactory returns the factory registering the file provider.
//
// Configuration: glob (required; doublestar syntax, relative to the project
// root unless absolute), mode (copy|move|none, default copy), hash
// (sha256|none, default sha256).
func NewFactory() provider.Factory {
	return provider.FactoryFunc(Key, func(cfg provider.Config, projectRoot string) (provider.Provider, error) {
		var c config
		if err := provider.DecodeConfig(Key, cfg, &c); err != nil {
			return nil, err
		}
		if c.Glob == "" {
			return nil, &provider.ConfigError{Key: Key, Cause: errors.New(`"glob" is required`)}
		}

		mode, hash := Mode(c.Mode), HashAlgorithm(c.Hash)
		if mode == "" {
			mode = ModeCopy
		}
		if hash == "" {
			hash = HashSHA256
		}
		if err := mode.Validate(); err != nil {
			return nil, &provider.ConfigError{Key: Key, Cause: err}
		}
		if err := hash.Validate(); err != nil {
			return nil, &provider.ConfigError{Key: Key, Cause: err}
		}

		base, pattern := doublestar.SplitPattern(filepath.ToSlash(c.Glob))
		if !doublestar.ValidatePattern(pattern) {
			return nil, &provider.ConfigError{Key: Key, Cause: fmt.Errorf("invalid glob %q", c.Glob)}
		}
		baseDir := filepath.FromSlash(base)
		if !filepath.IsAbs(baseDir) {
			baseDir = filepath.Join(projectRoot, baseDir)
		}
		if !fs.ValidPath(pattern) {
			return nil, &provider.ConfigError{Key: Key, Cause: fmt.Errorf("glob %q must not contain \"..\" after its first wildcard", c.Glob)}
		}

		return provider.Erase[Captured](Key, Provider{
			BaseDir: filepath.Clean(baseDir),
			Pattern: pattern,
			Mode:    mode,
			Hash:    hash,
		}), nil
	})
}
