// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing errors for the capsula CLI: actionable
// errors that carry the failed operation, the resource involved, and
// suggestions, plus a catalog of Markdown guidance for common failure
// categories.
package issue
