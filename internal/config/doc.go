// SPDX-License-Identifier: MPL-2.0

// Package config loads the project configuration (capsula.toml) with Viper.
//
// The configuration file lives at the project root, which is the nearest
// ancestor of the working directory containing capsula.toml. It selects the
// vault location, disables built-in providers, and declares the context
// providers of the pre-run and post-run phases as arrays of tables:
//
//	[vault]
//	path = ".capsula"
//
//	[[phase.pre.contexts]]
//	type = "git"
//	path = "."
//
// Every scalar setting can be overridden by a CAPSULA_-prefixed environment
// variable (CAPSULA_VAULT_PATH, CAPSULA_UI_VERBOSE).
package config
