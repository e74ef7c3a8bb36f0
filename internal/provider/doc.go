// SPDX-License-Identifier: MPL-2.0

// Package provider defines context providers: pluggable components that each
// capture one kind of environmental fact (working directory, source-control
// revision, file hashes, environment variables) before or after a run.
//
// Providers are written against the typed Typed[T] contract and adapted into
// the uniform Provider interface with Erase, so heterogeneous providers can be
// stored and invoked together. They are only ever constructed through a
// Registry, which maps a string Key to a Factory that decodes the provider's
// declarative configuration (an untyped Config map) and resolves relative
// paths against the project root.
//
// Build and RunAll form the phase pipeline: specs are resolved strictly in
// declaration order and all-or-nothing, and providers run sequentially in the
// same order, failing fast on the first error.
package provider
