// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"slices"
)

type (
	// Config is the untyped configuration payload of a provider spec: the
	// decoded TOML table minus its "type" key. Values are nil, bool, numbers,
	// strings, []any or map[string]any. Factories decode it into their own
	// typed configuration with DecodeConfig.
	Config map[string]any

	// Factory constructs providers of one type from declarative configuration.
	Factory interface {
		// Key returns the provider type the factory handles.
		Key() Key
		// Create validates cfg and returns a ready-to-run provider. Relative
		// paths in cfg are resolved against projectRoot.
		Create(cfg Config, projectRoot string) (Provider, error)
	}

	// CreateFunc is the signature of a function-backed factory.
	CreateFunc func(cfg Config, projectRoot string) (Provider, error)

	funcFactory struct {
		key    Key
		create CreateFunc
	}

	// Registry maps provider keys to factories. It is built once at startup
	// and treated as read-only afterwards; it is not safe for concurrent
	// registration.
	Registry struct {
		factories map[Key]Factory
	}
)

// FactoryFunc returns a Factory for key backed by create.
func FactoryFunc(key Key, create CreateFunc) Factory {
	return &funcFactory{key: key, create: create}
}

func (f *funcFactory) Key() Key { return f.key }

func (f *funcFactory) Create(cfg Config, projectRoot string) (Provider, error) {
	return f.create(cfg, projectRoot)
}

// NewRegistry creates a registry holding the given factories. It fails with
// an AlreadyRegisteredError if two factories share a key.
func NewRegistry(factories ...Factory) (*Registry, error) {
	r := &Registry{factories: make(map[Key]Factory, len(factories))}
	for _, f := range factories {
		if err := r.Register(f); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a factory. Registering a key twice is an error; the existing
// factory is kept.
func (r *Registry) Register(f Factory) error {
	key := f.Key()
	if _, exists := r.factories[key]; exists {
		return &AlreadyRegisteredError{Key: key}
	}
	r.factories[key] = f
	return nil
}

// Create builds a provider of type key from cfg.
func (r *Registry) Create(key Key, cfg Config, projectRoot string) (Provider, error) {
	f, ok := r.factories[key]
	if !ok {
		return nil, &TypeNotFoundError{Key: key}
	}
	return f.Create(cfg, projectRoot)
}

// RegisteredTypes returns the registered keys in sorted order.
func (r *Registry) RegisteredTypes() []Key {
	keys := make([]Key, 0, len(r.factories))
	for k := range r.factories {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
