// SPDX-License-Identifier: MPL-2.0

// Package git provides the "git" context provider, which records the HEAD
// revision of a repository and refuses to capture a dirty worktree unless
// explicitly allowed.
package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"

	"github.com/capsula-run/capsula/internal/provider"
)

// Key is the registry key of the git provider.
const Key provider.Key = "git"

// ErrDirtyWorktree is returned when the repository has uncommitted changes
// and AllowDirty is false.
var ErrDirtyWorktree = errors.New("repository has uncommitted changes")

type (
	// Captured is the document produced by the git provider.
	Captured struct {
		Type       provider.Key `json:"type"`
		Name       string       `json:"name"`
		WorkingDir string       `json:"working_dir"`
		SHA        string       `json:"sha"`
		Dirty      bool         `json:"dirty"`
	}

	// Provider captures the HEAD commit of the repository containing WorkingDir.
	Provider struct {
		// Name labels the repository in the captured document.
		Name string
		// WorkingDir is an absolute path inside the repository.
		WorkingDir string
		// AllowDirty permits capturing a worktree with uncommitted changes.
		AllowDirty bool
	}

	config struct {
		Name       string `mapstructure:"name"`
		Path       string `mapstructure:"path"`
		AllowDirty bool   `mapstructure:"allow_dirty"`
	}
)

// CaptureType implements provider.Captured.
func (c Captured) CaptureType() provider.Key { return c.Type }

// Run implements provider.Typed.
func (p Provider) Run(_ context.Context, _ provider.RuntimeParams) (Captured, error) {
	repo, err := gogit.PlainOpenWithOptions(p.WorkingDir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Captured{}, provider.NewCaptureError(Key, p.WorkingDir, fmt.Errorf("open repository: %w", err))
	}

	head, err := repo.Head()
	if err != nil {
		return Captured{}, provider.NewCaptureError(Key, p.WorkingDir, fmt.Errorf("resolve HEAD: %w", err))
	}

	wt, err := repo.Worktree()
	if err != nil {
		return Captured{}, provider.NewCaptureError(Key, p.WorkingDir, fmt.Errorf("open worktree: %w", err))
	}
	status, err := wt.Status()
	if err != nil {
		return Captured{}, provider.NewCaptureError(Key, p.WorkingDir, fmt.Errorf("read worktree status: %w", err))
	}
	dirty := !status.IsClean()
	if dirty && !p.AllowDirty {
		return Captured{}, provider.NewCaptureError(Key, p.WorkingDir, ErrDirtyWorktree)
	}

	return Captured{
		Type:       Key,
		Name:       p.Name,
		WorkingDir: p.WorkingDir,
		SHA:        head.Hash().String(),
		Dirty:      dirty,
	}, nil
}

// NewFactory returns the factory registering the git provider.
//
// Configuration: path (default ".", relative to the project root), name
// (default: base name of the resolved path), allow_dirty (default false).
func NewFactory() provider.Factory {
	return provider.FactoryFunc(Key, func(cfg provider.Config, projectRoot string) (provider.Provider, error) {
		var c config
		if err := provider.DecodeConfig(Key, cfg, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			c.Path = "."
		}
		dir := c.Path
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(projectRoot, dir)
		}
		dir = filepath.Clean(dir)
		if c.Name == "" {
			c.Name = filepath.Base(dir)
		}
		return provider.Erase[Captured](Key, Provider{
			Name:       c.Name,
			WorkingDir: dir,
			AllowDirty: c.AllowDirty,
		}), nil
	})
}
