// SPDX-License-Identifier: MPL-2.0

package run

import (
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"mvdan.cc/sh/v3/shell"

	"github.com/capsula-run/capsula/internal/vault"
	"github.com/capsula-run/capsula/pkg/types"
)

// idAt returns a UUIDv7 carrying the millisecond timestamp of t.
func idAt(t *testing.T, ts time.Time) uuid.UUID {
	t.Helper()

	id, err := uuid.NewV7()
	if err != nil {
		t.Fatalf("NewV7() error = %v", err)
	}
	var ms [8]byte
	binary.BigEndian.PutUint64(ms[:], uint64(ts.UnixMilli()))
	copy(id[:6], ms[2:])
	return id
}

func TestNew(t *testing.T) {
	t.Parallel()

	before := time.Now().Add(-time.Second)
	r, err := New("", []string{"echo", "hi"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if r.ID.Version() != 7 {
		t.Errorf("ID version = %d, want 7", r.ID.Version())
	}
	if !regexp.MustCompile(`^[a-z]+_[a-z]+$`).MatchString(r.Name.String()) {
		t.Errorf("generated Name = %q, want adjective_noun", r.Name)
	}
	if err := r.Name.Validate(); err != nil {
		t.Errorf("generated Name invalid: %v", err)
	}
	ts := r.Timestamp()
	if ts.Before(before) || ts.After(time.Now().Add(time.Second)) {
		t.Errorf("Timestamp() = %v, want about now", ts)
	}
	if ts.Location() != time.UTC {
		t.Errorf("Timestamp() location = %v, want UTC", ts.Location())
	}
}

func TestNewCopiesCommand(t *testing.T) {
	t.Parallel()

	argv := []string{"echo", "hi"}
	r, err := New("named", argv)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	argv[1] = "changed"
	if !slices.Equal(r.Command, []string{"echo", "hi"}) {
		t.Errorf("Command = %q, aliased caller slice", r.Command)
	}
	if r.Name != "named" {
		t.Errorf("Name = %q, want %q", r.Name, "named")
	}
}

func TestNewInvalidName(t *testing.T) {
	t.Parallel()

	for _, name := range []types.RunName{"a/b", "..", " "} {
		if _, err := New(name, []string{"true"}); !errors.Is(err, types.ErrInvalidRunName) {
			t.Errorf("New(%q) error = %v, want ErrInvalidRunName", name, err)
		}
	}
}

func TestTimestampDecodesID(t *testing.T) {
	t.Parallel()

	want := time.Date(2025, 3, 4, 5, 6, 7, 890_000_000, time.UTC)
	r := Run{ID: idAt(t, want), Name: "x"}
	if got := r.Timestamp(); !got.Equal(want) {
		t.Errorf("Timestamp() = %v, want %v", got, want)
	}
}

func TestDir(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	r := Run{ID: idAt(t, ts), Name: "brave_otter", Command: []string{"true"}}

	got := r.Dir("/vault")
	want := filepath.Join("/vault", "2025-03-04", "050607-brave_otter--"+r.ID.String())
	if got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
	if again := r.Dir("/vault"); again != got {
		t.Errorf("Dir() not deterministic: %q then %q", got, again)
	}
}

func TestDirLeafOrderIsChronological(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	offsets := []time.Duration{
		9 * time.Second, 10 * time.Second, 59 * time.Minute, time.Hour,
		10*time.Hour + time.Second, 23*time.Hour + 59*time.Minute,
	}
	// Names that sort against time order.
	names := []types.RunName{"zulu", "yankee", "xray", "whiskey", "victor", "alpha"}

	var leaves []string
	for i, off := range offsets {
		r := Run{ID: idAt(t, base.Add(off)), Name: names[i]}
		leaves = append(leaves, filepath.Base(r.Dir("/vault")))
	}
	if !sort.StringsAreSorted(leaves) {
		t.Errorf("leaf names not in chronological order: %q", leaves)
	}
}

func TestDirLeafOrderWithinOneSecondIsByName(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	earlier := Run{ID: idAt(t, base.Add(100*time.Millisecond)), Name: "zulu"}
	later := Run{ID: idAt(t, base.Add(900*time.Millisecond)), Name: "alpha"}

	a, b := filepath.Base(later.Dir("/vault")), filepath.Base(earlier.Dir("/vault"))
	if a >= b {
		t.Errorf("leaf %q should sort before %q: same-second runs order by name", a, b)
	}
}

func TestPrepare(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), ".capsula")
	r, err := New("prep", []string{"true"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	prepared, err := r.Prepare(root)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if prepared.Dir != r.Dir(root) {
		t.Errorf("Dir = %q, want %q", prepared.Dir, r.Dir(root))
	}
	if info, err := os.Stat(prepared.Dir); err != nil || !info.IsDir() {
		t.Errorf("run directory not created: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, vault.IgnoreFileName)); err != nil {
		t.Errorf("vault ignore file missing: %v", err)
	}

	md := prepared.Metadata()
	if md.ID != r.ID.String() || md.Name != "prep" || md.RunDir != prepared.Dir || !md.Timestamp.Equal(r.Timestamp()) {
		t.Errorf("Metadata() = %+v", md)
	}

	if _, err := r.Prepare(root); !errors.Is(err, fs.ErrExist) {
		t.Errorf("second Prepare() error = %v, want ErrExist", err)
	}
}

func TestPrepareVaultIsFile(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "vault")
	if err := os.WriteFile(root, nil, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	r, err := New("x", []string{"true"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := r.Prepare(root); !errors.Is(err, vault.ErrNotDirectory) {
		t.Errorf("Prepare() error = %v, want ErrNotDirectory", err)
	}
}

func TestQuoteCommand(t *testing.T) {
	t.Parallel()

	argv := []string{"echo", "hello world", "it's", "$HOME"}
	got, err := QuoteCommand(argv)
	if err != nil {
		t.Fatalf("QuoteCommand() error = %v", err)
	}
	fields, err := shell.Fields(got, func(string) string { return "expanded" })
	if err != nil {
		t.Fatalf("Fields(%q) error = %v", got, err)
	}
	if !slices.Equal(fields, argv) {
		t.Errorf("QuoteCommand() = %q splits into %q, want %q", got, fields, argv)
	}

	if _, err := QuoteCommand([]string{"nul\x00byte"}); err == nil {
		t.Error("QuoteCommand(NUL) error = nil, want error")
	}
}
