// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the capsula CLI.
//
// The root command wires the cobra tree through fang. Subcommands receive an
// App, the composition root holding the configuration provider and output
// streams, and delegate to the execute orchestrator and the vault package.
package cmd
