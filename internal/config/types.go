// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"github.com/capsula-run/capsula/internal/provider"
	"github.com/capsula-run/capsula/pkg/types"
)

// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// Config is the decoded content of capsula.toml merged over defaults.
	Config struct {
		Vault     VaultConfig     `mapstructure:"vault" toml:"vault"`
		Providers ProvidersConfig `mapstructure:"providers" toml:"providers"`
		UI        UIConfig        `mapstructure:"ui" toml:"ui"`
		Phase     PhaseConfig     `mapstructure:"phase" toml:"phase"`

		// ProjectRoot is the absolute directory relative paths are resolved
		// against. It is not part of the file.
		ProjectRoot string `mapstructure:"-" toml:"-"`
		// Path is the file the configuration was read from, or empty when
		// only defaults apply.
		Path string `mapstructure:"-" toml:"-"`
	}

	// VaultConfig locates the vault.
	VaultConfig struct {
		// Path is the vault root, relative to the project root unless absolute.
		Path types.FilesystemPath `mapstructure:"path" toml:"path"`
	}

	// ProvidersConfig adjusts the provider registry.
	ProvidersConfig struct {
		// Disabled lists built-in provider types left out of the registry.
		Disabled []string `mapstructure:"disabled" toml:"disabled"`
	}

	// UIConfig holds CLI presentation settings.
	UIConfig struct {
		Verbose bool `mapstructure:"verbose" toml:"verbose"`
	}

	// PhaseConfig holds the context declarations of both phases.
	PhaseConfig struct {
		Pre  PhaseContexts `mapstructure:"pre" toml:"pre"`
		Post PhaseContexts `mapstructure:"post" toml:"post"`
	}

	// PhaseContexts is the ordered list of provider envelopes of one phase.
	// Each envelope is a table with a "type" key plus provider fields.
	PhaseContexts struct {
		Contexts []map[string]any `mapstructure:"contexts" toml:"contexts,omitempty"`
	}

	// InvalidConfigError reports the setting that failed validation.
	InvalidConfigError struct {
		Field string
		Cause error
	}
)

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %v", e.Field, e.Cause)
}

// Unwrap returns both ErrInvalidConfig and the underlying cause.
func (e *InvalidConfigError) Unwrap() []error { return []error{ErrInvalidConfig, e.Cause} }

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Vault:     VaultConfig{Path: ".capsula"},
		Providers: ProvidersConfig{Disabled: []string{}},
	}
}

// StarterConfig returns the configuration written by "capsula config init":
// the defaults plus a working directory and platform capture before each
// run.
func StarterConfig() *Config {
	cfg := DefaultConfig()
	cfg.Phase.Pre.Contexts = []map[string]any{
		{"type": "cwd"},
		{"type": "platform"},
	}
	return cfg
}

// Validate checks the settings that decoding alone cannot.
func (c *Config) Validate() error {
	if err := c.Vault.Path.Validate(); err != nil {
		return &InvalidConfigError{Field: "vault.path", Cause: err}
	}
	for i, key := range c.Providers.Disabled {
		if key == "" {
			return &InvalidConfigError{Field: fmt.Sprintf("providers.disabled[%d]", i), Cause: errors.New("empty provider type")}
		}
	}
	return nil
}

// VaultDir returns the absolute vault root.
func (c *Config) VaultDir() string {
	return c.Vault.Path.Resolve(c.ProjectRoot)
}

// DisabledProviders returns providers.disabled as registry keys.
func (c *Config) DisabledProviders() []provider.Key {
	keys := make([]provider.Key, len(c.Providers.Disabled))
	for i, k := range c.Providers.Disabled {
		keys[i] = provider.Key(k)
	}
	return keys
}

// Specs returns the provider specs declared for phase, in declaration order.
func (c *Config) Specs(phase provider.Phase) ([]provider.Spec, error) {
	if err := phase.Validate(); err != nil {
		return nil, err
	}
	tables := c.Phase.Pre.Contexts
	if phase == provider.PhasePost {
		tables = c.Phase.Post.Contexts
	}

	specs := make([]provider.Spec, 0, len(tables))
	for i, table := range tables {
		spec, err := provider.ParseSpec(table)
		if err != nil {
			return nil, &InvalidConfigError{Field: fmt.Sprintf("phase.%s.contexts[%d]", phase, i), Cause: err}
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
