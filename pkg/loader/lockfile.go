package loader

import (
	"os"

	"gopkg.in/yaml.v3"
)

// LockedPackage pins one resolved dependency to the exact commit it was
// fetched at.
type LockedPackage struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Commit string `yaml:"commit"`
}

// Lockfile is the parsed contents of wisp.lock: which commit each
// manifest dependency resolved to. Load does not read it; a git
// dependency is resolved from its rev, tag or branch on every fetch.
type Lockfile struct {
	Root     string                    `yaml:"root"`
	Packages map[string]*LockedPackage `yaml:"packages"`
}

// NewLockfile returns an empty lock rooted at the given manifest name.
func NewLockfile(root string) *Lockfile {
	return &Lockfile{Root: root, Packages: make(map[string]*LockedPackage)}
}

// LoadLockfile reads path, returning (nil, os.ErrNotExist-wrapping error)
// if it does not exist yet.
func LoadLockfile(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lock Lockfile
	if err := yaml.Unmarshal(data, &lock); err != nil {
		return nil, err
	}
	if lock.Packages == nil {
		lock.Packages = make(map[string]*LockedPackage)
	}
	return &lock, nil
}

// WriteLockfile serializes lock to path.
func WriteLockfile(lock *Lockfile, path string) error {
	data, err := yaml.Marshal(lock)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
