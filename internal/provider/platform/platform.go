// SPDX-License-Identifier: MPL-2.0

// Package platform provides the "platform" context provider, which records
// the host operating system, architecture and toolchain.
package platform

import (
	"context"
	"os"
	"runtime"

	"github.com/capsula-run/capsula/internal/provider"
)

// Key is the registry key of the platform provider.
const Key provider.Key = "platform"

type (
	// Captured is the document produced by the platform provider.
	Captured struct {
		Type      provider.Key `json:"type"`
		OS        string       `json:"os"`
		Arch      string       `json:"arch"`
		Hostname  string       `json:"hostname"`
		NumCPU    int          `json:"num_cpu"`
		GoVersion string       `json:"go_version"`
	}

	// Provider captures the platform description.
	Provider struct{}
)

// CaptureType implements provider.Captured.
func (c Captured) CaptureType() provider.Key { return c.Type }

// Run implements provider.Typed.
func (Provider) Run(_ context.Context, _ provider.RuntimeParams) (Captured, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return Captured{}, provider.NewCaptureError(Key, "", err)
	}
	return Captured{
		Type:      Key,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		Hostname:  hostname,
		NumCPU:    runtime.NumCPU(),
		GoVersion: runtime.Version(),
	}, nil
}

// NewFactory returns the factory registering the platform provider. It
// accepts no configuration.
func NewFactory() provider.Factory {
	return provider.FactoryFunc(Key, func(cfg provider.Config, _ string) (provider.Provider, error) {
		if err := provider.DecodeConfig(Key, cfg, &struct{}{}); err != nil {
			return nil, err
		}
		return provider.Erase[Captured](Key, Provider{}), nil
	})
}
