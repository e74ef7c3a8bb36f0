// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestValues(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != int(InvalidInputId) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), InvalidInputId)
	}
	for i, v := range values {
		if v.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, v.Id(), i+1)
		}
		if strings.TrimSpace(string(v.MarkdownMsg())) == "" {
			t.Errorf("issue %d has no message", v.Id())
		}
		if Get(v.Id()) != v {
			t.Errorf("Get(%d) does not return the catalog entry", v.Id())
		}
	}
	if Get(0) != nil {
		t.Error("Get(0) should be nil")
	}
}

func TestDocLinksIsCopy(t *testing.T) {
	t.Parallel()

	entry := Get(ConfigLoadFailedId)
	links := entry.DocLinks()
	if len(links) == 0 {
		t.Fatal("DocLinks() is empty")
	}
	links[0] = "changed"
	if entry.DocLinks()[0] == "changed" {
		t.Error("DocLinks() exposes internal slice")
	}
}

// The render hook is package state; these tests do not run in parallel.

func TestRenderAppendsLinks(t *testing.T) {
	original := render
	defer func() { render = original }()

	var gotIn, gotStyle string
	render = func(in, stylePath string) (string, error) {
		gotIn, gotStyle = in, stylePath
		return "rendered", nil
	}

	out, err := Get(ProviderNotFoundId).Render("dark")
	if err != nil || out != "rendered" {
		t.Fatalf("Render() = %q, %v", out, err)
	}
	if gotStyle != "dark" {
		t.Errorf("style = %q, want dark", gotStyle)
	}
	if !strings.Contains(gotIn, "## See also") || !strings.Contains(gotIn, string(docsProviders)) {
		t.Errorf("rendered markdown missing links: %q", gotIn)
	}
}

func TestRenderWithGlamour(t *testing.T) {
	out, err := Get(CommandNotFoundId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "Command not found") {
		t.Errorf("Render() = %q", out)
	}
}
