// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Catalog identifiers of the failure categories the CLI explains.
const (
	ConfigLoadFailedId Id = iota + 1
	ProviderNotFoundId
	ProviderConfigInvalidId
	CaptureFailedId
	VaultUnavailableId
	CommandNotFoundId
	PermissionDeniedId
	InvalidInputId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is Markdown guidance text.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is a catalog entry: Markdown guidance for one failure category.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

// Id returns the catalog identifier.
func (i *Issue) Id() Id { return i.id }

// MarkdownMsg returns the raw Markdown guidance.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

// Render renders the guidance for the terminal using the glamour style at
// stylePath ("dark", "light", "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("\n- <" + string(link) + ">")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	docsConfiguration = HttpLink("https://github.com/capsula-run/capsula#configuration")
	docsProviders     = HttpLink("https://github.com/capsula-run/capsula#context-providers")

	issues = map[Id]*Issue{
		ConfigLoadFailedId: {
			id: ConfigLoadFailedId,
			mdMsg: `
# Configuration could not be loaded

capsula reads ` + "`capsula.toml`" + ` from the project root.

## Things you can try:
- Check the file for TOML syntax errors
- Run ` + "`capsula config show`" + ` to see the effective configuration
- Run ` + "`capsula config init`" + ` to write a fresh configuration file`,
			docLinks: []HttpLink{docsConfiguration},
		},
		ProviderNotFoundId: {
			id: ProviderNotFoundId,
			mdMsg: `
# Unknown context provider

A ` + "`[[phase.*.contexts]]`" + ` entry names a ` + "`type`" + ` that is not registered.

## Things you can try:
- Check the spelling of the ` + "`type`" + ` field
- Built-in types are cwd, git, file, env, platform and command
- Make sure the type is not listed in ` + "`providers.disabled`",
			docLinks: []HttpLink{docsProviders},
		},
		ProviderConfigInvalidId: {
			id: ProviderConfigInvalidId,
			mdMsg: `
# Invalid context provider configuration

A context entry has fields the provider does not accept, or is missing a
required field.

## Things you can try:
- Compare the entry with the provider's documented fields
- Remove fields the provider does not know`,
			docLinks: []HttpLink{docsProviders},
		},
		CaptureFailedId: {
			id: CaptureFailedId,
			mdMsg: `
# Context capture failed

A context provider could not capture its document, so the run was stopped.

## Things you can try:
- Run ` + "`capsula capture --verbose`" + ` to reproduce the capture without running a command
- For git contexts, commit your changes or set ` + "`allow_dirty = true`",
			docLinks: []HttpLink{docsProviders},
		},
		VaultUnavailableId: {
			id: VaultUnavailableId,
			mdMsg: `
# Vault is not usable

The run directory could not be created inside the vault.

## Things you can try:
- Check that ` + "`vault.path`" + ` points to a directory, not a file
- Check the permissions of the vault directory`,
			docLinks: []HttpLink{docsConfiguration},
		},
		CommandNotFoundId: {
			id: CommandNotFoundId,
			mdMsg: `
# Command not found

The program to run could not be found in your PATH.

## Things you can try:
- Check the spelling of the command
- Pass an absolute path to the program
- Separate capsula flags from the command with ` + "`--`",
		},
		PermissionDeniedId: {
			id: PermissionDeniedId,
			mdMsg: `
# Permission denied

capsula was not allowed to read or write a file it needs.

## Things you can try:
- Check the permissions of the vault and the project files
- Check that the program to run is executable`,
		},
		InvalidInputId: {
			id: InvalidInputId,
			mdMsg: `
# Invalid run request

The run name or command cannot be used.

## Things you can try:
- Provide a command after ` + "`--`" + `, e.g. ` + "`capsula run -- python train.py`" + `
- Use a run name without path separators`,
		},
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	ids := slices.Sorted(maps.Keys(issues))
	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, issues[id])
	}
	return out
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
