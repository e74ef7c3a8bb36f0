// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"log/slog"
)

// Build resolves specs into providers in declaration order. Resolution is
// all-or-nothing: if any spec fails, no providers are returned and the error
// is a BuildError naming the failing spec.
func Build(specs []Spec, projectRoot string, reg *Registry) ([]Provider, error) {
	providers := make([]Provider, 0, len(specs))
	for i, spec := range specs {
		p, err := reg.Create(spec.Type, spec.Config, projectRoot)
		if err != nil {
			return nil, &BuildError{Index: i, Key: spec.Type, Cause: err}
		}
		providers = append(providers, p)
	}
	return providers, nil
}

// RunAll invokes providers sequentially and returns their captures in the
// same order. It stops at the first failure and returns a RunError naming
// the failing provider.
func RunAll(ctx context.Context, providers []Provider, params RuntimeParams) ([]Captured, error) {
	captured := make([]Captured, 0, len(providers))
	for i, p := range providers {
		slog.Debug("running provider", "phase", params.Phase, "index", i, "type", p.Key())
		c, err := p.Run(ctx, params)
		if err != nil {
			return nil, &RunError{Index: i, Key: p.Key(), Cause: err}
		}
		captured = append(captured, c)
	}
	return captured, nil
}
