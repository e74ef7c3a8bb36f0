// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/capsula-run/capsula/pkg/types"
)

// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
var ErrInvalidLoadOptions = errors.New("invalid load options")

type (
	// LoadOptions defines explicit configuration loading inputs. Zero values
	// select the defaults: the project root is discovered from the working
	// directory and the config file is looked up there.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath types.FilesystemPath
		// ProjectRoot overrides project root discovery when set.
		ProjectRoot types.FilesystemPath
	}

	// InvalidLoadOptionsError collects the invalid fields of a LoadOptions.
	InvalidLoadOptionsError struct {
		FieldErrors []error
	}

	// Provider loads configuration from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	fileProvider struct{}
)

// Validate returns an error when a set field is whitespace-only.
func (o LoadOptions) Validate() error {
	var errs []error
	if o.ConfigFilePath != "" {
		if err := o.ConfigFilePath.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("config file path: %w", err))
		}
	}
	if o.ProjectRoot != "" {
		if err := o.ProjectRoot.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("project root: %w", err))
		}
	}
	if len(errs) > 0 {
		return &InvalidLoadOptionsError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidLoadOptionsError) Error() string {
	return fmt.Sprintf("invalid load options: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidLoadOptions for errors.Is() compatibility.
func (e *InvalidLoadOptionsError) Unwrap() error { return ErrInvalidLoadOptions }

// NewProvider creates a configuration provider reading capsula.toml.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	return loadWithOptions(ctx, opts)
}
