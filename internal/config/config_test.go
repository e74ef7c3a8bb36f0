// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/capsula-run/capsula/internal/issue"
	"github.com/capsula-run/capsula/internal/provider"
	"github.com/capsula-run/capsula/pkg/types"
)

const sampleConfig = `
[vault]
path = "runs"

[providers]
disabled = ["command"]

[ui]
verbose = true

[[phase.pre.contexts]]
type = "cwd"

[[phase.pre.contexts]]
type = "git"
path = "."
allow_dirty = true

[[phase.post.contexts]]
type = "file"
glob = "out/*.csv"
mode = "copy"
`

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func load(t *testing.T, opts LoadOptions) (*Config, error) {
	t.Helper()
	return NewProvider().Load(context.Background(), opts)
}

func TestLoadProjectRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := writeConfig(t, root, sampleConfig)

	cfg, err := load(t, LoadOptions{ProjectRoot: types.FilesystemPath(root)})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Path != path || cfg.ProjectRoot != root {
		t.Errorf("Path = %q, ProjectRoot = %q", cfg.Path, cfg.ProjectRoot)
	}
	if got := cfg.VaultDir(); got != filepath.Join(root, "runs") {
		t.Errorf("VaultDir() = %q", got)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose = false, want true")
	}
	if !slices.Equal(cfg.DisabledProviders(), []provider.Key{"command"}) {
		t.Errorf("DisabledProviders() = %v", cfg.DisabledProviders())
	}

	pre, err := cfg.Specs(provider.PhasePre)
	if err != nil {
		t.Fatalf("Specs(pre) error = %v", err)
	}
	if len(pre) != 2 || pre[0].Type != "cwd" || pre[1].Type != "git" {
		t.Fatalf("Specs(pre) = %+v", pre)
	}
	if pre[1].Config["allow_dirty"] != true || pre[1].Config["path"] != "." {
		t.Errorf("git config = %v", pre[1].Config)
	}
	if _, hasType := pre[1].Config["type"]; hasType {
		t.Error("spec config still holds the type field")
	}

	post, err := cfg.Specs(provider.PhasePost)
	if err != nil {
		t.Fatalf("Specs(post) error = %v", err)
	}
	if len(post) != 1 || post[0].Type != "file" || post[0].Config["glob"] != "out/*.csv" {
		t.Errorf("Specs(post) = %+v", post)
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfg, err := load(t, LoadOptions{ProjectRoot: types.FilesystemPath(root)})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Path != "" {
		t.Errorf("Path = %q, want empty", cfg.Path)
	}
	if cfg.VaultDir() != filepath.Join(root, ".capsula") {
		t.Errorf("VaultDir() = %q", cfg.VaultDir())
	}
	for _, phase := range []provider.Phase{provider.PhasePre, provider.PhasePost} {
		specs, err := cfg.Specs(phase)
		if err != nil || len(specs) != 0 {
			t.Errorf("Specs(%s) = %v, %v; want none", phase, specs, err)
		}
	}
}

func TestLoadExplicitFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(path, []byte("[vault]\npath = \"/abs/vault\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := load(t, LoadOptions{ConfigFilePath: types.FilesystemPath(path)})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ProjectRoot != dir {
		t.Errorf("ProjectRoot = %q, want directory of the config file %q", cfg.ProjectRoot, dir)
	}
	if cfg.VaultDir() != filepath.Clean("/abs/vault") {
		t.Errorf("VaultDir() = %q", cfg.VaultDir())
	}
}

func TestLoadExplicitFileMissing(t *testing.T) {
	t.Parallel()

	_, err := load(t, LoadOptions{ConfigFilePath: types.FilesystemPath(filepath.Join(t.TempDir(), "nope.toml"))})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() error = %v, want ErrNotExist", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || len(ae.Suggestions) == 0 {
		t.Errorf("Load() error = %v, want ActionableError with suggestions", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"syntax error", "[vault\npath = 1"},
		{"blank vault path", "[vault]\npath = \"  \"\n"},
		{"wrong type", "[ui]\nverbose = [1, 2]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			writeConfig(t, root, tt.content)
			_, err := load(t, LoadOptions{ProjectRoot: types.FilesystemPath(root)})
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Errorf("Load() error = %v, want ActionableError", err)
			}
		})
	}
}

func TestLoadInvalidOptions(t *testing.T) {
	t.Parallel()

	_, err := load(t, LoadOptions{ConfigFilePath: "  ", ProjectRoot: "\t"})
	if !errors.Is(err, ErrInvalidLoadOptions) {
		t.Fatalf("Load() error = %v, want ErrInvalidLoadOptions", err)
	}
	var optsErr *InvalidLoadOptionsError
	if !errors.As(err, &optsErr) || len(optsErr.FieldErrors) != 2 {
		t.Errorf("Load() error = %#v, want two field errors", err)
	}
}

func TestLoadCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{ProjectRoot: types.FilesystemPath(t.TempDir())}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

// t.Setenv forbids t.Parallel.
func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CAPSULA_VAULT_PATH", "from-env")
	t.Setenv("CAPSULA_UI_VERBOSE", "true")

	root := t.TempDir()
	writeConfig(t, root, "[vault]\npath = \"from-file\"\n")
	cfg, err := load(t, LoadOptions{ProjectRoot: types.FilesystemPath(root)})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Vault.Path != "from-env" || !cfg.UI.Verbose {
		t.Errorf("Load() = %+v, want environment overrides", cfg)
	}
}

func TestSpecsInvalidEnvelope(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Phase.Post.Contexts = []map[string]any{{"type": "cwd"}, {"glob": "*.csv"}}

	_, err := cfg.Specs(provider.PhasePost)
	if !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, provider.ErrInvalidSpec) {
		t.Fatalf("Specs() error = %v, want ErrInvalidConfig and ErrInvalidSpec", err)
	}
	var cfgErr *InvalidConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "phase.post.contexts[1]" {
		t.Errorf("Specs() error = %#v, want field phase.post.contexts[1]", err)
	}

	if _, err := cfg.Specs("during"); !errors.Is(err, provider.ErrInvalidPhase) {
		t.Errorf("Specs(during) error = %v, want ErrInvalidPhase", err)
	}
}

func TestFindProjectRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	got, ok := FindProjectRoot(nested)
	if !ok || got != root {
		t.Errorf("FindProjectRoot() = %q, %v; want %q, true", got, ok, root)
	}
}
