// SPDX-License-Identifier: MPL-2.0

// Package execute orchestrates a capsula run: it resolves the configured
// context providers of both phases, prepares the run directory, captures the
// pre-run context, executes the command, captures the post-run context, and
// persists every step as a JSON artifact in the run directory.
package execute
