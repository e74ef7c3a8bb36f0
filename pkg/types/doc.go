// SPDX-License-Identifier: MPL-2.0

// Package types defines value types shared by the run engine, the vault and
// the CLI. Each type carries its own validation and returns a typed error
// wrapping a package sentinel so callers can use errors.Is.
//
// This package is a leaf dependency: it imports only the standard library.
package types
