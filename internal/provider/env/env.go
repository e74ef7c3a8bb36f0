// SPDX-License-Identifier: MPL-2.0

// Package env provides the "env" context provider, which records the value of
// one environment variable.
package env

import (
	"context"
	"errors"
	"os"

	"github.com/capsula-run/capsula/internal/provider"
)

// Key is the registry key of the env provider.
const Key provider.Key = "env"

type (
	// Captured is the document produced by the env provider. Present
	// distinguishes an unset variable from one set to the empty string.
	Captured struct {
		Type    provider.Key `json:"type"`
		Key     string       `json:"key"`
		Value   string       `json:"value"`
		Present bool         `json:"present"`
	}

	// Provider captures the environment variable named Name.
	Provider struct {
		Name string
	}

	config struct {
		Key string `mapstructure:"key"`
	}
)

// CaptureType implements provider.Captured.
func (c Captured) CaptureType() provider.Key { return c.Type }

// Run implements provider.Typed.
func (p Provider) Run(_ context.Context, _ provider.RuntimeParams) (Captured, error) {
	value, ok := os.LookupEnv(p.Name)
	return Captured{Type: Key, Key: p.Name, Value: value, Present: ok}, nil
}

// NewFactory returns the factory registering the env provider. The "key"
// field is required.
func NewFactory() provider.Factory {
	return provider.FactoryFunc(Key, func(cfg provider.Config, _ string) (provider.Provider, error) {
		var c config
		if err := provider.DecodeConfig(Key, cfg, &c); err != nil {
			return nil, err
		}
		if c.Key == "" {
			return nil, &provider.ConfigError{Key: Key, Cause: errors.New(`"key" is required`)}
		}
		return provider.Erase[Captured](Key, Provider{Name: c.Key}), nil
	})
}
