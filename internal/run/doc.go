// SPDX-License-Identifier: MPL-2.0

// Package run models a single command execution: its identity, its run
// directory inside the vault, and the execution engine that tees the child's
// stdout and stderr to the console while recording them.
package run
