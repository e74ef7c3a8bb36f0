// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/capsula-run/capsula/internal/issue"
)

const (
	// FileName is the configuration file looked up at the project root.
	FileName = "capsula.toml"

	// EnvPrefix prefixes environment variable overrides.
	EnvPrefix = "CAPSULA"
)

// FindProjectRoot walks from start towards the filesystem root and returns
// the first directory containing FileName. It reports false when no such
// directory exists.
func FindProjectRoot(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for {
		if fileExists(filepath.Join(dir, FileName)) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// loadWithOptions resolves the project root and configuration file, then
// decodes the file over the defaults with environment overrides applied.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	root, path, err := resolvePaths(opts)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("vault.path", defaults.Vault.Path.String())
	v.SetDefault("providers.disabled", defaults.Providers.Disabled)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid TOML").
				WithSuggestion("Run 'capsula config show' to see the effective configuration").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse configuration").
			WithResource(path).
			WithSuggestion("Check the types of the configured values").
			Wrap(err).
			BuildError()
	}
	cfg.ProjectRoot = root
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			Wrap(err).
			BuildError()
	}

	slog.Debug("configuration loaded", "project_root", root, "file", path)
	return &cfg, nil
}

// resolvePaths returns the absolute project root and the config file to read
// ("" when there is none). An explicit config file defines the project root
// as its directory unless a root is given too.
func resolvePaths(opts LoadOptions) (root, path string, err error) {
	if opts.ConfigFilePath != "" {
		path, err = filepath.Abs(opts.ConfigFilePath.String())
		if err != nil {
			return "", "", fmt.Errorf("resolve config path: %w", err)
		}
		if !fileExists(path) {
			return "", "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'capsula config init' to create a configuration file").
				Wrap(fmt.Errorf("config file not found: %w", fs.ErrNotExist)).
				BuildError()
		}
	}

	switch {
	case opts.ProjectRoot != "":
		root, err = filepath.Abs(opts.ProjectRoot.String())
		if err != nil {
			return "", "", fmt.Errorf("resolve project root: %w", err)
		}
	case path != "":
		root = filepath.Dir(path)
	default:
		wd, err := os.Getwd()
		if err != nil {
			return "", "", fmt.Errorf("get working directory: %w", err)
		}
		var found bool
		if root, found = FindProjectRoot(wd); !found {
			root = wd
		}
	}

	if path == "" {
		if candidate := filepath.Join(root, FileName); fileExists(candidate) {
			path = candidate
		}
	}
	return root, path, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	return err == nil && !info.IsDir()
}
