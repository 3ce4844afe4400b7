package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// VendorDirName is where installed dependencies are placed, relative to
// the project root.
const VendorDirName = "aki_modules"

// Installer materializes a manifest's dependencies under the project's
// vendor directory and keeps the lockfile in sync.
type Installer struct {
	RootDir   string
	VendorDir string
	Log       func(format string, args ...any)
}

// NewInstaller builds an installer for the project rooted at the
// manifest's directory.
func NewInstaller(manifest *Manifest) *Installer {
	root := filepath.Dir(manifest.Path)
	return &Installer{
		RootDir:   root,
		VendorDir: filepath.Join(root, VendorDirName),
	}
}

func (in *Installer) logf(format string, args ...any) {
	if in.Log != nil {
		in.Log(format, args...)
	}
}

// Install fetches every dependency in the manifest, pins the results in
// the lockfile, and writes the lockfile back if anything changed. It
// reports whether the lockfile was rewritten.
func (in *Installer) Install(ctx context.Context, manifest *Manifest) (bool, error) {
	lockPath := filepath.Join(in.RootDir, LockFileName)
	lock, err := LoadLockfile(lockPath, manifest.Name)
	if err != nil {
		return false, err
	}

	changed := lock.Prune(manifest.Dependencies)
	for _, name := range dependencyNames(manifest.Dependencies) {
		dep := manifest.Dependencies[name]
		locked, err := in.install(ctx, name, dep, lock.Packages[name])
		if err != nil {
			return false, fmt.Errorf("install %s: %w", name, err)
		}
		if lock.Pin(name, locked) {
			changed = true
		}
	}

	if changed {
		if err := lock.Write(lockPath); err != nil {
			return false, err
		}
	}
	return changed, nil
}

func (in *Installer) install(ctx context.Context, name string, dep *DependencySpec, prior *LockedSpec) (*LockedSpec, error) {
	switch {
	case dep.Path != "":
		return in.installPath(name, dep)
	case dep.Git != "":
		return in.installGit(ctx, name, dep, prior)
	default:
		return nil, fmt.Errorf("registry sources are not supported yet; use a git or path source")
	}
}

func (in *Installer) installPath(name string, dep *DependencySpec) (*LockedSpec, error) {
	src := dep.Path
	if !filepath.IsAbs(src) {
		src = filepath.Join(in.RootDir, src)
	}
	info, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("path source %s: %w", dep.Path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path source %s is not a directory", dep.Path)
	}
	in.logf("using %s from %s", name, src)
	return &LockedSpec{Path: dep.Path, Resolved: src}, nil
}

func (in *Installer) installGit(ctx context.Context, name string, dep *DependencySpec, prior *LockedSpec) (*LockedSpec, error) {
	dest := filepath.Join(in.VendorDir, name)

	repo, err := git.PlainOpen(dest)
	switch {
	case err == nil:
		// A pin matching the manifest's source keeps the existing
		// checkout; anything else (dropped pin, changed source) must
		// talk to the remote again.
		if pinMatchesSource(prior, dep) {
			in.logf("using pinned %s at %s", name, prior.Resolved)
		} else {
			in.logf("updating %s from %s", name, dep.Git)
			if err := in.refreshGit(ctx, repo, dep); err != nil {
				return nil, fmt.Errorf("update %s: %w", name, err)
			}
		}
	case errors.Is(err, git.ErrRepositoryNotExists):
		in.logf("cloning %s from %s", name, dep.Git)
		opts := &git.CloneOptions{URL: dep.Git}
		if dep.Branch != "" {
			opts.ReferenceName = plumbing.NewBranchReferenceName(dep.Branch)
			opts.SingleBranch = true
		}
		if dep.Tag != "" {
			opts.ReferenceName = plumbing.NewTagReferenceName(dep.Tag)
			opts.SingleBranch = true
		}
		repo, err = git.PlainCloneContext(ctx, dest, false, opts)
		if err != nil {
			return nil, fmt.Errorf("clone %s: %w", dep.Git, err)
		}
	default:
		return nil, fmt.Errorf("open %s: %w", dest, err)
	}

	if dep.Rev != "" {
		worktree, err := repo.Worktree()
		if err != nil {
			return nil, fmt.Errorf("worktree %s: %w", dest, err)
		}
		hash := plumbing.NewHash(dep.Rev)
		if err := worktree.Checkout(&git.CheckoutOptions{Hash: hash}); err != nil {
			return nil, fmt.Errorf("checkout %s at %s: %w", name, dep.Rev, err)
		}
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD of %s: %w", dest, err)
	}
	return &LockedSpec{
		Git:      dep.Git,
		Rev:      dep.Rev,
		Tag:      dep.Tag,
		Branch:   dep.Branch,
		Resolved: head.Hash().String(),
	}, nil
}

// pinMatchesSource reports whether a lockfile entry was produced from the
// same source specification the manifest currently declares.
func pinMatchesSource(prior *LockedSpec, dep *DependencySpec) bool {
	return prior != nil &&
		prior.Git == dep.Git &&
		prior.Rev == dep.Rev &&
		prior.Tag == dep.Tag &&
		prior.Branch == dep.Branch
}

// refreshGit brings an existing clone up to date with its remote. Pinned
// revisions and tags do not move, but fetching keeps a newly specified
// rev or tag resolvable; floating dependencies follow the remote branch.
func (in *Installer) refreshGit(ctx context.Context, repo *git.Repository, dep *DependencySpec) error {
	if dep.Rev != "" || dep.Tag != "" {
		err := repo.FetchContext(ctx, &git.FetchOptions{Tags: git.AllTags, Force: true})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return fmt.Errorf("fetch: %w", err)
		}
		if dep.Tag != "" {
			worktree, err := repo.Worktree()
			if err != nil {
				return err
			}
			opts := &git.CheckoutOptions{
				Branch: plumbing.NewTagReferenceName(dep.Tag),
				Force:  true,
			}
			if err := worktree.Checkout(opts); err != nil {
				return fmt.Errorf("checkout tag %s: %w", dep.Tag, err)
			}
		}
		return nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return err
	}
	err = worktree.PullContext(ctx, &git.PullOptions{Force: true})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("pull: %w", err)
	}
	return nil
}

func dependencyNames(deps map[string]*DependencySpec) []string {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
