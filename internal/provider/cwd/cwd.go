// SPDX-License-Identifier: MPL-2.0

// Package cwd provides the "cwd" context provider, which records the
// process working directory.
package cwd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/capsula-run/capsula/internal/provider"
)

// Key is the registry key of the cwd provider.
const Key provider.Key = "cwd"

type (
	// Captured is the document produced by the cwd provider.
	Captured struct {
		Type provider.Key `json:"type"`
		Cwd  string       `json:"cwd"`
	}

	// Provider captures the absolute working directory.
	Provider struct{}

	// config is empty; any field is rejected.
	config struct{}
)

// CaptureType implements provider.Captured.
func (c Captured) CaptureType() provider.Key { return c.Type }

// Run implements provider.Typed.
func (Provider) Run(_ context.Context, _ provider.RuntimeParams) (Captured, error) {
	wd, err := os.Getwd()
	if err != nil {
		return Captured{}, provider.NewCaptureError(Key, "", err)
	}
	abs, err := filepath.Abs(wd)
	if err != nil {
		return Captured{}, provider.NewCaptureError(Key, wd, err)
	}
	return Captured{Type: Key, Cwd: abs}, nil
}

// NewFactory returns the factory registering the cwd provider.
func NewFactory() provider.Factory {
	return provider.FactoryFunc(Key, func(cfg provider.Config, _ string) (provider.Provider, error) {
		if err := provider.DecodeConfig(Key, cfg, &config{}); err != nil {
			return nil, err
		}
		return provider.Erase[Captured](Key, Provider{}), nil
	})
}
