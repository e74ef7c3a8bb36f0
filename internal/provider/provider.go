// SPDX-License-Identifier: MPL-2.0

package provider

import "context"

type (
	// Key is the stable registry key of a provider type (e.g. "cwd", "git").
	// Captured documents carry it as their "type" discriminator.
	Key string

	// Captured is the result of one provider invocation. Implementations are
	// plain structs that serialize with encoding/json and include a "type"
	// field equal to CaptureType.
	Captured interface {
		CaptureType() Key
	}

	// Typed is the contract provider implementations are written against.
	// T is the provider's concrete capture type.
	Typed[T Captured] interface {
		Run(ctx context.Context, params RuntimeParams) (T, error)
	}

	// Provider is the uniform, type-erased form of a provider held by the
	// pipeline. Instances are created only by a Factory through a Registry.
	Provider interface {
		// Key returns the registry key the provider was created under.
		Key() Key
		// Run captures the provider's document.
		Run(ctx context.Context, params RuntimeParams) (Captured, error)
	}

	erased[T Captured] struct {
		key   Key
		typed Typed[T]
	}
)

// String returns the string representation of the Key.
func (k Key) String() string { return string(k) }

// Erase adapts a typed provider into a Provider. The adapter adds no
// behavior: it calls the typed Run and returns its result and error unchanged.
func Erase[T Captured](key Key, typed Typed[T]) Provider {
	return &erased[T]{key: key, typed: typed}
}

func (e *erased[T]) Key() Key { return e.key }

func (e *erased[T]) Run(ctx context.Context, params RuntimeParams) (Captured, error) {
	out, err := e.typed.Run(ctx, params)
	if err != nil {
		return nil, err
	}
	return out, nil
}
