package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wisplang/wisp/pkg/ast"
	"github.com/wisplang/wisp/pkg/parser"
	"github.com/wisplang/wisp/pkg/runtime"
	"github.com/wisplang/wisp/pkg/stdlib"
)

// CycleError reports an illegal module import cycle. Unlike a let block's
// binding cycle (spec.md §4.4), a module cycle has no legal exception: it
// is always an error.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("loader: import cycle: %s", strings.Join(e.Cycle, " -> "))
}

// Load resolves entryPath and every module it transitively imports,
// against the standard library, sibling .wisp files under the manifest's
// workspace directory, and git/path dependencies declared in manifest.
// It returns a single Env with every resolved module's functions
// registered, the way §4.12 describes as "the environment of imported
// modules" the evaluator is handed as prepared input.
func Load(entryPath string, manifest *Manifest, cacheDir string) (*runtime.Env, error) {
	workspaceRoot := filepath.Dir(entryPath)
	if manifest != nil && manifest.Path != "" {
		workspaceRoot = filepath.Dir(manifest.Path)
	}

	src, err := os.ReadFile(entryPath)
	if err != nil {
		return nil, err
	}
	entryMod, err := parser.ParseModule(string(src))
	if err != nil {
		return nil, err
	}

	stdMods, err := stdlib.Modules()
	if err != nil {
		return nil, err
	}
	stdNames := make(map[string]bool, len(stdMods))
	for _, m := range stdMods {
		stdNames[m.Name] = true
	}

	l := &loading{
		workspaceRoot: workspaceRoot,
		manifest:      manifest,
		cacheDir:      cacheDir,
		stdNames:      stdNames,
		resolved:      make(map[string]*ast.Module),
		inProgress:    make(map[string]bool),
		depCheckouts:  make(map[string]string),
	}
	if err := l.visit(entryMod); err != nil {
		return nil, err
	}

	env := runtime.NewEnv(entryMod.Name)
	for _, m := range stdMods {
		registerModule(env, m)
	}
	for _, m := range l.resolved {
		registerModule(env, m)
	}
	return env, nil
}

type loading struct {
	workspaceRoot string
	manifest      *Manifest
	cacheDir      string
	stdNames      map[string]bool
	resolved      map[string]*ast.Module
	inProgress    map[string]bool
	depCheckouts  map[string]string
}

// visit registers mod and recursively resolves every module it imports,
// detecting cycles via inProgress: a module reachable from itself before
// its own resolution finishes is always illegal.
func (l *loading) visit(mod *ast.Module) error {
	if _, done := l.resolved[mod.Name]; done {
		return nil
	}
	l.inProgress[mod.Name] = true
	l.resolved[mod.Name] = mod

	for _, imp := range mod.Imports {
		if l.stdNames[imp.Module] {
			continue
		}
		if l.inProgress[imp.Module] {
			return &CycleError{Cycle: []string{mod.Name, imp.Module}}
		}
		if _, done := l.resolved[imp.Module]; done {
			continue
		}
		imported, err := l.resolveModule(imp.Module)
		if err != nil {
			return fmt.Errorf("loader: resolving import %q from %q: %w", imp.Module, mod.Name, err)
		}
		if err := l.visit(imported); err != nil {
			return err
		}
	}

	delete(l.inProgress, mod.Name)
	return nil
}

// resolveModule finds and parses the source for a module name not
// already resolved: first as a dependency (its leading path segment
// matching a manifest alias), otherwise as a sibling file under the
// workspace root.
func (l *loading) resolveModule(name string) (*ast.Module, error) {
	root := l.workspaceRoot
	if l.manifest != nil {
		if alias, rest, ok := splitDependencyAlias(name, l.manifest.Dependencies); ok {
			depRoot, err := l.checkoutDependency(alias, l.manifest.Dependencies[alias])
			if err != nil {
				return nil, err
			}
			root = depRoot
			name = rest
		}
	}

	path := filepath.Join(root, filepath.FromSlash(strings.ReplaceAll(name, ".", "/"))+".wisp")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parser.ParseModule(string(data))
}

// checkoutDependency fetches (or reuses a cached fetch of) the dependency
// registered under alias, returning its checkout root.
func (l *loading) checkoutDependency(alias string, dep DependencySpec) (string, error) {
	if dir, ok := l.depCheckouts[alias]; ok {
		return dir, nil
	}
	var dir string
	var err error
	switch {
	case dep.Path != "":
		dir = dep.Path
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(l.workspaceRoot, dir)
		}
	case dep.Git != "":
		dir, _, err = fetchGit(l.cacheDir, alias, dep)
		if err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("dependency %q has neither git nor path", alias)
	}
	l.depCheckouts[alias] = dir
	return dir, nil
}

// splitDependencyAlias reports whether name's leading dot-separated
// segment names a manifest dependency, returning that alias and the
// remaining module path within it.
func splitDependencyAlias(name string, deps map[string]DependencySpec) (alias, rest string, ok bool) {
	segments := strings.SplitN(name, ".", 2)
	if len(segments) != 2 {
		return "", "", false
	}
	if _, exists := deps[segments[0]]; !exists {
		return "", "", false
	}
	return segments[0], segments[1], true
}

func registerModule(env *runtime.Env, mod *ast.Module) {
	for _, d := range mod.Decls {
		env.DefineFunction(mod.Name, d.Name, &runtime.FunctionImpl{
			Name:   runtime.QualifiedName{Module: mod.Name, Name: d.Name},
			Params: d.Params,
			Body:   d.Body,
		})
	}
}
