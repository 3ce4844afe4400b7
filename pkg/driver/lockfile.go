package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LockFileName is the conventional lockfile name in a project root.
const LockFileName = "aki.lock"

const lockToolVersion = "aki 0.1"

// Lockfile records the resolved state of a project's dependencies.
type Lockfile struct {
	Root     string                 `yaml:"root"`
	Tool     string                 `yaml:"tool"`
	Packages map[string]*LockedSpec `yaml:"packages"`
}

// LockedSpec pins a single dependency to the exact source it was
// installed from.
type LockedSpec struct {
	Git      string `yaml:"git,omitempty"`
	Rev      string `yaml:"rev,omitempty"`
	Tag      string `yaml:"tag,omitempty"`
	Branch   string `yaml:"branch,omitempty"`
	Path     string `yaml:"path,omitempty"`
	Version  string `yaml:"version,omitempty"`
	Resolved string `yaml:"resolved,omitempty"`
}

// NewLockfile returns an empty lockfile for the named root package.
func NewLockfile(root string) *Lockfile {
	return &Lockfile{
		Root:     root,
		Tool:     lockToolVersion,
		Packages: make(map[string]*LockedSpec),
	}
}

// LoadLockfile reads aki.lock from disk. A missing file is not an
// error; it yields a fresh lockfile for root.
func LoadLockfile(path, root string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewLockfile(root), nil
		}
		return nil, fmt.Errorf("lockfile: read %s: %w", path, err)
	}
	var lock Lockfile
	if err := yaml.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", path, err)
	}
	if lock.Packages == nil {
		lock.Packages = make(map[string]*LockedSpec)
	}
	if lock.Root == "" {
		lock.Root = root
	}
	return &lock, nil
}

// Write serializes the lockfile to path with deterministic ordering.
func (l *Lockfile) Write(path string) error {
	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("lockfile: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("lockfile: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("lockfile: mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", path, err)
	}
	return nil
}

// PackageNames returns the locked package names in sorted order.
func (l *Lockfile) PackageNames() []string {
	names := make([]string, 0, len(l.Packages))
	for name := range l.Packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pin records the resolved spec for name, reporting whether the entry
// changed.
func (l *Lockfile) Pin(name string, spec *LockedSpec) bool {
	if prev, ok := l.Packages[name]; ok && *prev == *spec {
		return false
	}
	l.Packages[name] = spec
	return true
}

// Prune drops locked entries not named in keep, reporting whether any
// entry was removed.
func (l *Lockfile) Prune(keep map[string]*DependencySpec) bool {
	removed := false
	for name := range l.Packages {
		if _, ok := keep[name]; !ok {
			delete(l.Packages, name)
			removed = true
		}
	}
	return removed
}
