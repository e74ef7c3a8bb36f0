// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"errors"
	"fmt"
	"maps"
)

// typeField is the envelope key holding the provider type.
const typeField = "type"

// ErrInvalidSpec is the sentinel error wrapped by InvalidSpecError.
var ErrInvalidSpec = errors.New("invalid provider spec")

type (
	// Spec is a provider envelope parsed from configuration: the provider
	// type plus its opaque configuration payload. A Spec is consumed once,
	// when Build resolves it through a Registry.
	Spec struct {
		Type   Key
		Config Config
	}

	// InvalidSpecError is returned when an envelope has no usable "type".
	InvalidSpecError struct {
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidSpecError) Error() string {
	return "invalid provider spec: " + e.Reason
}

// Unwrap returns ErrInvalidSpec for errors.Is() compatibility.
func (e *InvalidSpecError) Unwrap() error { return ErrInvalidSpec }

// ParseSpec splits a configuration table into its "type" key and the
// remaining fields. The input map is not modified.
func ParseSpec(table map[string]any) (Spec, error) {
	raw, ok := table[typeField]
	if !ok {
		return Spec{}, &InvalidSpecError{Reason: `missing "type" field`}
	}
	typ, ok := raw.(string)
	if !ok {
		return Spec{}, &InvalidSpecError{Reason: fmt.Sprintf(`"type" must be a string, got %T`, raw)}
	}
	if typ == "" {
		return Spec{}, &InvalidSpecError{Reason: `"type" must not be empty`}
	}

	cfg := make(Config, len(table))
	maps.Copy(cfg, table)
	delete(cfg, typeField)

	return Spec{Type: Key(typ), Config: cfg}, nil
}
