// SPDX-License-Identifier: MPL-2.0

// Package vault manages the on-disk store of runs: the vault root with its
// ignore marker, the write-once JSON artifacts of each run directory, and
// listing of past runs.
//
// Layout:
//
//	<vault>/.gitignore
//	<vault>/<YYYY-MM-DD>/<HHMMSS>-<name>--<id>/metadata.json
//	                                           pre.json
//	                                           run.json
//	                                           post.json
//	                                           files/...
package vault
