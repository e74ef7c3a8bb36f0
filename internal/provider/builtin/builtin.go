// SPDX-License-Identifier: MPL-2.0

// Package builtin assembles the registry of providers shipped with capsula.
package builtin

import (
	"github.com/capsula-run/capsula/internal/provider"
	"github.com/capsula-run/capsula/internal/provider/command"
	"github.com/capsula-run/capsula/internal/provider/cwd"
	"github.com/capsula-run/capsula/internal/provider/env"
	"github.com/capsula-run/capsula/internal/provider/file"
	"github.com/capsula-run/capsula/internal/provider/git"
	"github.com/capsula-run/capsula/internal/provider/platform"
)

// Factories returns a fresh factory for every built-in provider.
func Factories() []provider.Factory {
	return []provider.Factory{
		cwd.NewFactory(),
		git.NewFactory(),
		file.NewFactory(),
		env.NewFactory(),
		platform.NewFactory(),
		command.NewFactory(),
	}
}

// NewRegistry returns a registry of the built-in providers minus the
// disabled keys. Disabling a key that is not built in is an error.
func NewRegistry(disabled ...provider.Key) (*provider.Registry, error) {
	factories := Factories()
	skip := make(map[provider.Key]bool, len(disabled))
	for _, key := range disabled {
		skip[key] = true
	}

	kept := make([]provider.Factory, 0, len(factories))
	for _, f := range factories {
		if skip[f.Key()] {
			delete(skip, f.Key())
			continue
		}
		kept = append(kept, f)
	}
	for _, key := range disabled {
		if skip[key] {
			return nil, &provider.TypeNotFoundError{Key: key}
		}
	}
	return provider.NewRegistry(kept...)
}
