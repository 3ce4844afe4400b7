package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeManifest(t *testing.T) {
	input := `
name: demo
version: 0.1.0
entry: src/main.aki
license: MIT
authors:
  - First Author
  - Second Author
dependencies:
  mathlib: "^1.2"
  gitlib:
    git: https://example.com/gitlib.git
    tag: v0.3.0
  locallib:
    path: ../locallib
`
	manifest, err := DecodeManifest(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeManifest: %v", err)
	}

	want := &Manifest{
		Name:    "demo",
		Version: "0.1.0",
		Entry:   "src/main.aki",
		License: "MIT",
		Authors: []string{"First Author", "Second Author"},
		Dependencies: map[string]*DependencySpec{
			"mathlib":  {Version: "^1.2"},
			"gitlib":   {Git: "https://example.com/gitlib.git", Tag: "v0.3.0"},
			"locallib": {Path: "../locallib"},
		},
	}
	if diff := cmp.Diff(want, manifest); diff != "" {
		t.Fatalf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeManifestRejectsUnknownKeys(t *testing.T) {
	_, err := DecodeManifest(strings.NewReader("name: demo\nflavour: spicy\n"))
	if err == nil {
		t.Fatalf("expected unknown-key error")
	}
}

func TestDecodeManifestScalarAuthor(t *testing.T) {
	manifest, err := DecodeManifest(strings.NewReader("name: demo\nauthors: Solo Author\n"))
	if err != nil {
		t.Fatalf("DecodeManifest: %v", err)
	}
	if diff := cmp.Diff([]string{"Solo Author"}, manifest.Authors); diff != "" {
		t.Fatalf("authors mismatch: %s", diff)
	}
}

func TestManifestNameSanitized(t *testing.T) {
	manifest, err := DecodeManifest(strings.NewReader("name: 'My Cool App!'\n"))
	if err != nil {
		t.Fatalf("DecodeManifest: %v", err)
	}
	if manifest.Name != "my_cool_app" {
		t.Fatalf("Name = %q, want my_cool_app", manifest.Name)
	}
}

func TestManifestValidation(t *testing.T) {
	cases := []struct {
		name  string
		input string
		issue string
	}{
		{
			name:  "missing name",
			input: "version: 1.0.0\n",
			issue: "name must be provided",
		},
		{
			name:  "entry extension",
			input: "name: demo\nentry: main.txt\n",
			issue: "must name a .aki source file",
		},
		{
			name:  "git and version",
			input: "name: demo\ndependencies:\n  dep:\n    git: https://example.com/x.git\n    version: '1.0'\n",
			issue: "git dependencies cannot also specify version",
		},
		{
			name:  "refs without git",
			input: "name: demo\ndependencies:\n  dep:\n    path: ../x\n    tag: v1\n",
			issue: "rev, tag, and branch require a git source",
		},
		{
			name:  "conflicting refs",
			input: "name: demo\ndependencies:\n  dep:\n    git: https://example.com/x.git\n    tag: v1\n    branch: main\n",
			issue: "rev, tag, and branch are mutually exclusive",
		},
		{
			name:  "no source",
			input: "name: demo\ndependencies:\n  dep: {}\n",
			issue: "must specify version, git, or path",
		},
		{
			name:  "bad constraint",
			input: "name: demo\ndependencies:\n  dep:\n    version: banana\n",
			issue: "invalid version constraint",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := DecodeManifest(strings.NewReader(c.input))
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !strings.Contains(verr.Error(), c.issue) {
				t.Fatalf("issues %v do not mention %q", verr.Issues, c.issue)
			}
		})
	}
}

func TestVersionConstraints(t *testing.T) {
	valid := []string{"1", "1.2", "1.2.3", "^1.2", "~>2.0", ">=1.0, <2.0", "*", "= 3.1.4"}
	for _, v := range valid {
		if !isValidVersionConstraint(v) {
			t.Errorf("constraint %q should be valid", v)
		}
	}
	invalid := []string{"", "banana", ">=", "1.2,,3"}
	for _, v := range invalid {
		if isValidVersionConstraint(v) {
			t.Errorf("constraint %q should be invalid", v)
		}
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), ManifestFileName))
	if err == nil {
		t.Fatalf("expected error for missing manifest")
	}
}

func TestLoadManifestFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(path, []byte("name: ondisk\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if manifest.Name != "ondisk" {
		t.Fatalf("Name = %q", manifest.Name)
	}
	if manifest.Path == "" || !filepath.IsAbs(manifest.Path) {
		t.Fatalf("Path should be absolute, got %q", manifest.Path)
	}
}

func TestLockfileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LockFileName)

	lock := NewLockfile("demo")
	lock.Pin("gitlib", &LockedSpec{Git: "https://example.com/x.git", Resolved: "abc123"})
	lock.Pin("locallib", &LockedSpec{Path: "../locallib", Resolved: "/abs/locallib"})
	if err := lock.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	loaded, err := LoadLockfile(path, "demo")
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	if diff := cmp.Diff(lock, loaded); diff != "" {
		t.Fatalf("lockfile mismatch (-want +got):\n%s", diff)
	}
	if got := loaded.PackageNames(); len(got) != 2 || got[0] != "gitlib" || got[1] != "locallib" {
		t.Fatalf("PackageNames = %v", got)
	}
}

func TestLoadLockfileMissingIsFresh(t *testing.T) {
	lock, err := LoadLockfile(filepath.Join(t.TempDir(), LockFileName), "demo")
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	if lock.Root != "demo" || len(lock.Packages) != 0 {
		t.Fatalf("unexpected fresh lockfile %#v", lock)
	}
}

func TestLockfilePinReportsChange(t *testing.T) {
	lock := NewLockfile("demo")
	spec := &LockedSpec{Git: "https://example.com/x.git", Resolved: "abc"}
	if !lock.Pin("dep", spec) {
		t.Fatalf("first pin should report a change")
	}
	if lock.Pin("dep", &LockedSpec{Git: "https://example.com/x.git", Resolved: "abc"}) {
		t.Fatalf("identical pin should not report a change")
	}
	if !lock.Pin("dep", &LockedSpec{Git: "https://example.com/x.git", Resolved: "def"}) {
		t.Fatalf("new revision should report a change")
	}
}

func TestLockfilePrune(t *testing.T) {
	lock := NewLockfile("demo")
	lock.Pin("keep", &LockedSpec{Path: "../keep"})
	lock.Pin("drop", &LockedSpec{Path: "../drop"})

	keep := map[string]*DependencySpec{"keep": {Path: "../keep"}}
	if !lock.Prune(keep) {
		t.Fatalf("prune should report a removal")
	}
	if lock.Prune(keep) {
		t.Fatalf("second prune should be a no-op")
	}
	if _, ok := lock.Packages["drop"]; ok {
		t.Fatalf("dropped package still present")
	}
}
