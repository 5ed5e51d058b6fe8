// Package loader resolves a module's imports against the standard
// library, sibling modules on disk, and git-hosted package dependencies
// declared in a workspace manifest — a narrowed port of the teacher's
// driver.Manifest, with no build targets and no dev/build dependency
// groups: a Wisp program has exactly one evaluable entry, not a set of
// build targets.
package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DependencySpec describes one external package dependency. Exactly one
// of Git or Path should be set; Rev, Tag and Branch are mutually
// exclusive git pin selectors, checked in that order of precedence.
type DependencySpec struct {
	Git    string `yaml:"git,omitempty"`
	Rev    string `yaml:"rev,omitempty"`
	Tag    string `yaml:"tag,omitempty"`
	Branch string `yaml:"branch,omitempty"`
	Path   string `yaml:"path,omitempty"`
}

// Manifest is the parsed contents of a wisp.yml workspace file.
type Manifest struct {
	Path         string                    `yaml:"-"`
	Name         string                    `yaml:"name"`
	Version      string                    `yaml:"version"`
	Dependencies map[string]DependencySpec `yaml:"dependencies"`
}

// ValidationError reports a structurally invalid manifest.
type ValidationError struct {
	Path string
	Msg  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// LoadManifest reads and validates a wisp.yml file at path.
func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("loader: parsing %s: %w", path, err)
	}
	m.Path = path
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if m.Name == "" {
		return &ValidationError{Path: m.Path, Msg: "manifest is missing a name"}
	}
	for alias, dep := range m.Dependencies {
		if dep.Git == "" && dep.Path == "" {
			return &ValidationError{Path: m.Path, Msg: fmt.Sprintf("dependency %q needs either git or path", alias)}
		}
		if dep.Git != "" && dep.Path != "" {
			return &ValidationError{Path: m.Path, Msg: fmt.Sprintf("dependency %q sets both git and path", alias)}
		}
		pins := 0
		for _, p := range []string{dep.Rev, dep.Tag, dep.Branch} {
			if p != "" {
				pins++
			}
		}
		if dep.Git != "" && pins > 1 {
			return &ValidationError{Path: m.Path, Msg: fmt.Sprintf("dependency %q sets more than one of rev/tag/branch", alias)}
		}
	}
	return nil
}
