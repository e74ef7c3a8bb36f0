// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"errors"
	"testing"
)

func newStubRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry(stubFactory("a"), stubFactory("b"), stubFactory("c"))
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return reg
}

func TestBuildPreservesDeclarationOrder(t *testing.T) {
	t.Parallel()

	reg := newStubRegistry(t)
	specs := []Spec{
		{Type: "c", Config: Config{"label": "first"}},
		{Type: "a", Config: Config{"label": "second"}},
		{Type: "c", Config: Config{"label": "third"}},
		{Type: "b", Config: Config{"label": "fourth"}},
	}

	providers, err := Build(specs, t.TempDir(), reg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(providers) != len(specs) {
		t.Fatalf("Build() returned %d providers, want %d", len(providers), len(specs))
	}
	for i, p := range providers {
		if p.Key() != specs[i].Type {
			t.Errorf("providers[%d].Key() = %q, want %q", i, p.Key(), specs[i].Type)
		}
	}

	captured, err := RunAll(context.Background(), providers, RuntimeParams{Phase: PhasePre})
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}
	wantLabels := []string{"first", "second", "third", "fourth"}
	for i, c := range captured {
		sc := c.(stubCaptured)
		if sc.Label != wantLabels[i] || sc.Type != specs[i].Type {
			t.Errorf("captured[%d] = %+v, want label %q type %q", i, sc, wantLabels[i], specs[i].Type)
		}
	}
}

func TestBuildIsAllOrNothing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		specs     []Spec
		wantIndex int
		wantIs    error
	}{
		{
			name: "unknown type in the middle",
			specs: []Spec{
				{Type: "a"},
				{Type: "missing"},
				{Type: "b"},
			},
			wantIndex: 1,
			wantIs:    ErrTypeNotFound,
		},
		{
			name: "invalid config last",
			specs: []Spec{
				{Type: "a"},
				{Type: "b"},
				{Type: "c", Config: Config{"label": 42}},
			},
			wantIndex: 2,
			wantIs:    ErrInvalidConfig,
		},
		{
			name:      "first spec fails",
			specs:     []Spec{{Type: "zzz"}, {Type: "a"}},
			wantIndex: 0,
			wantIs:    ErrTypeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			providers, err := Build(tt.specs, t.TempDir(), newStubRegistry(t))
			if providers != nil {
				t.Errorf("Build() returned %d providers on failure, want none", len(providers))
			}
			var be *BuildError
			if !errors.As(err, &be) {
				t.Fatalf("Build() error = %v, want *BuildError", err)
			}
			if be.Index != tt.wantIndex || be.Key != tt.specs[tt.wantIndex].Type {
				t.Errorf("BuildError = {Index: %d, Key: %q}, want {Index: %d, Key: %q}",
					be.Index, be.Key, tt.wantIndex, tt.specs[tt.wantIndex].Type)
			}
			if !errors.Is(err, tt.wantIs) {
				t.Errorf("Build() error = %v, want errors.Is %v", err, tt.wantIs)
			}
		})
	}
}

func TestBuildEmpty(t *testing.T) {
	t.Parallel()

	providers, err := Build(nil, t.TempDir(), newStubRegistry(t))
	if err != nil {
		t.Fatalf("Build(nil) error = %v", err)
	}
	if len(providers) != 0 {
		t.Errorf("Build(nil) = %d providers, want 0", len(providers))
	}
}

func TestRunAllFailsFast(t *testing.T) {
	t.Parallel()

	var firstCalls, lastCalls int
	providers := []Provider{
		Erase[stubCaptured]("a", stubTyped{key: "a", calls: &firstCalls}),
		Erase[stubCaptured]("b", stubTyped{key: "b", err: errStubFailed}),
		Erase[stubCaptured]("c", stubTyped{key: "c", calls: &lastCalls}),
	}

	captured, err := RunAll(context.Background(), providers, RuntimeParams{Phase: PhasePost})
	if captured != nil {
		t.Errorf("RunAll() captured = %v, want nil on failure", captured)
	}
	var re *RunError
	if !errors.As(err, &re) {
		t.Fatalf("RunAll() error = %v, want *RunError", err)
	}
	if re.Index != 1 || re.Key != "b" {
		t.Errorf("RunError = {Index: %d, Key: %q}, want {1, b}", re.Index, re.Key)
	}
	if !errors.Is(err, errStubFailed) {
		t.Errorf("RunAll() error should wrap the provider error")
	}
	if firstCalls != 1 {
		t.Errorf("first provider ran %d times, want 1", firstCalls)
	}
	if lastCalls != 0 {
		t.Errorf("provider after the failure ran %d times, want 0", lastCalls)
	}
}
