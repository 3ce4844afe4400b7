package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func initGitRepo(t *testing.T, dir string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == filepath.Join(dir, ".git") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if strings.HasPrefix(rel, ".git/") {
			return nil
		}
		if _, err := worktree.Add(rel); err != nil {
			return err
		}
		return nil
	}); err != nil {
		t.Fatalf("stage files: %v", err)
	}
	hash, err := worktree.Commit("init", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Aki CLI",
			Email: "aki@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func commitFile(t *testing.T, dir, name, content, message string) string {
	t.Helper()
	writeFile(t, filepath.Join(dir, name), content)
	repo, err := git.PlainOpen(dir)
	if err != nil {
		t.Fatalf("PlainOpen: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if _, err := worktree.Add(name); err != nil {
		t.Fatalf("Add %s: %v", name, err)
	}
	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Aki CLI",
			Email: "aki@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func loadAppManifest(t *testing.T, appDir string) *Manifest {
	t.Helper()
	manifest, err := LoadManifest(filepath.Join(appDir, ManifestFileName))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	return manifest
}

func TestInstallerPathDependency(t *testing.T) {
	root := t.TempDir()
	depDir := filepath.Join(root, "locallib")
	writeFile(t, filepath.Join(depDir, "lib.aki"), "func value() -> i32 { 1 }\n")

	appDir := filepath.Join(root, "app")
	writeFile(t, filepath.Join(appDir, ManifestFileName), `
name: app
dependencies:
  locallib:
    path: ../locallib
`)

	manifest := loadAppManifest(t, appDir)
	installer := NewInstaller(manifest)

	changed, err := installer.Install(context.Background(), manifest)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if !changed {
		t.Fatalf("expected lockfile change on first install")
	}

	lock, err := LoadLockfile(filepath.Join(appDir, LockFileName), "app")
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	pkg, ok := lock.Packages["locallib"]
	if !ok {
		t.Fatalf("locallib not pinned: %#v", lock.Packages)
	}
	if pkg.Path != "../locallib" {
		t.Fatalf("pkg.Path = %q", pkg.Path)
	}
	if pkg.Resolved != depDir {
		t.Fatalf("pkg.Resolved = %q, want %q", pkg.Resolved, depDir)
	}
}

func TestInstallerPathDependencyMissing(t *testing.T) {
	appDir := t.TempDir()
	writeFile(t, filepath.Join(appDir, ManifestFileName), `
name: app
dependencies:
  ghost:
    path: ../nowhere
`)
	manifest := loadAppManifest(t, appDir)
	if _, err := NewInstaller(manifest).Install(context.Background(), manifest); err == nil {
		t.Fatalf("expected error for missing path dependency")
	}
}

func TestInstallerGitDependency(t *testing.T) {
	root := t.TempDir()
	repoDir := filepath.Join(root, "repo")
	writeFile(t, filepath.Join(repoDir, "lib.aki"), "func value() -> string { \"git\" }\n")
	rev := initGitRepo(t, repoDir)

	appDir := filepath.Join(root, "app")
	writeFile(t, filepath.Join(appDir, ManifestFileName), `
name: app
dependencies:
  gitpkg:
    git: `+repoDir+`
`)

	manifest := loadAppManifest(t, appDir)
	installer := NewInstaller(manifest)

	changed, err := installer.Install(context.Background(), manifest)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if !changed {
		t.Fatalf("expected lockfile change for git dependency")
	}

	vendored := filepath.Join(appDir, VendorDirName, "gitpkg", "lib.aki")
	if _, err := os.Stat(vendored); err != nil {
		t.Fatalf("expected vendored file at %s: %v", vendored, err)
	}

	lock, err := LoadLockfile(filepath.Join(appDir, LockFileName), "app")
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	pkg := lock.Packages["gitpkg"]
	if pkg == nil || pkg.Git != repoDir {
		t.Fatalf("unexpected pin %#v", pkg)
	}
	if pkg.Resolved != rev {
		t.Fatalf("pkg.Resolved = %q, want %q", pkg.Resolved, rev)
	}

	// A second install resolves to the same revision and reports no change.
	changed, err = installer.Install(context.Background(), manifest)
	if err != nil {
		t.Fatalf("second Install: %v", err)
	}
	if changed {
		t.Fatalf("expected no lockfile change on second install")
	}
}

func TestInstallerGitDependencyFollowsUpstreamWhenUnpinned(t *testing.T) {
	root := t.TempDir()
	repoDir := filepath.Join(root, "repo")
	writeFile(t, filepath.Join(repoDir, "lib.aki"), "func value() -> i32 { 1 }\n")
	oldRev := initGitRepo(t, repoDir)

	appDir := filepath.Join(root, "app")
	writeFile(t, filepath.Join(appDir, ManifestFileName), `
name: app
dependencies:
  gitpkg:
    git: `+repoDir+`
`)

	manifest := loadAppManifest(t, appDir)
	installer := NewInstaller(manifest)
	if _, err := installer.Install(context.Background(), manifest); err != nil {
		t.Fatalf("Install: %v", err)
	}

	newRev := commitFile(t, repoDir, "lib.aki", "func value() -> i32 { 2 }\n", "bump value")
	if newRev == oldRev {
		t.Fatalf("fixture produced no new revision")
	}

	// With the pin intact the stale checkout is kept.
	changed, err := installer.Install(context.Background(), manifest)
	if err != nil {
		t.Fatalf("pinned Install: %v", err)
	}
	if changed {
		t.Fatalf("expected pinned install to leave the lockfile alone")
	}

	// Dropping the pin must pull the new upstream commit in.
	lockPath := filepath.Join(appDir, LockFileName)
	lock, err := LoadLockfile(lockPath, "app")
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	lock.Packages = map[string]*LockedSpec{}
	if err := lock.Write(lockPath); err != nil {
		t.Fatalf("Write: %v", err)
	}

	changed, err = installer.Install(context.Background(), manifest)
	if err != nil {
		t.Fatalf("unpinned Install: %v", err)
	}
	if !changed {
		t.Fatalf("expected lockfile change after dropping the pin")
	}
	lock, err = LoadLockfile(lockPath, "app")
	if err != nil {
		t.Fatalf("LoadLockfile after update: %v", err)
	}
	pkg := lock.Packages["gitpkg"]
	if pkg == nil || pkg.Resolved != newRev {
		t.Fatalf("expected pin at %s, got %#v", newRev, pkg)
	}
	vendored, err := os.ReadFile(filepath.Join(appDir, VendorDirName, "gitpkg", "lib.aki"))
	if err != nil {
		t.Fatalf("read vendored file: %v", err)
	}
	if string(vendored) != "func value() -> i32 { 2 }\n" {
		t.Fatalf("vendored checkout is stale: %q", vendored)
	}
}

func TestInstallerGitDependencyRev(t *testing.T) {
	root := t.TempDir()
	repoDir := filepath.Join(root, "repo")
	writeFile(t, filepath.Join(repoDir, "lib.aki"), "func value() -> i32 { 1 }\n")
	rev := initGitRepo(t, repoDir)

	appDir := filepath.Join(root, "app")
	writeFile(t, filepath.Join(appDir, ManifestFileName), `
name: app
dependencies:
  gitpkg:
    git: `+repoDir+`
    rev: `+rev+`
`)

	manifest := loadAppManifest(t, appDir)
	if _, err := NewInstaller(manifest).Install(context.Background(), manifest); err != nil {
		t.Fatalf("Install: %v", err)
	}

	lock, err := LoadLockfile(filepath.Join(appDir, LockFileName), "app")
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	pkg := lock.Packages["gitpkg"]
	if pkg == nil || pkg.Rev != rev || pkg.Resolved != rev {
		t.Fatalf("unexpected pin %#v", pkg)
	}
}

func TestInstallerPrunesRemovedDependencies(t *testing.T) {
	root := t.TempDir()
	depDir := filepath.Join(root, "locallib")
	writeFile(t, filepath.Join(depDir, "lib.aki"), "1\n")

	appDir := filepath.Join(root, "app")
	manifestPath := filepath.Join(appDir, ManifestFileName)
	writeFile(t, manifestPath, `
name: app
dependencies:
  locallib:
    path: ../locallib
`)
	manifest := loadAppManifest(t, appDir)
	if _, err := NewInstaller(manifest).Install(context.Background(), manifest); err != nil {
		t.Fatalf("Install: %v", err)
	}

	// Dependency removed from the manifest; the pin must go away.
	writeFile(t, manifestPath, "name: app\n")
	manifest = loadAppManifest(t, appDir)
	changed, err := NewInstaller(manifest).Install(context.Background(), manifest)
	if err != nil {
		t.Fatalf("Install after removal: %v", err)
	}
	if !changed {
		t.Fatalf("expected lockfile change after dependency removal")
	}
	lock, err := LoadLockfile(filepath.Join(appDir, LockFileName), "app")
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	if len(lock.Packages) != 0 {
		t.Fatalf("expected empty lock, got %#v", lock.Packages)
	}
}
