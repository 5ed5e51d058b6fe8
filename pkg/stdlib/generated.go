// Code generated by cmd/gen-stdlib from pkg/stdlib/sources/*.wisp. Rerun
// `go generate ./pkg/stdlib` after editing a source module.
//
// Deviation from a fully unrolled *ast.Module literal (see DESIGN.md):
// this file embeds the standard library's source text and parses it once,
// memoized, rather than hand-emitting nested struct literals for every
// node — with the toolchain never run in this exercise, a transcription
// error in thousands of literal fields would go uncaught, while a parse
// error in embedded source fails loudly the first time Modules is called.
package stdlib

//go:generate go run ../../cmd/gen-stdlib -sources sources -out generated.go

import (
	"embed"
	"fmt"
	"sort"
	"sync"

	"github.com/wisplang/wisp/pkg/ast"
	"github.com/wisplang/wisp/pkg/parser"
)

//go:embed sources/*.wisp
var sourceFS embed.FS

var (
	once    sync.Once
	modules []*ast.Module
	loadErr error
)

// Modules returns the parsed standard library modules (Basics, List,
// String, Char, Tuple, Maybe, Result), parsing them from their embedded
// source exactly once regardless of how many times it is called.
func Modules() ([]*ast.Module, error) {
	once.Do(func() {
		entries, err := sourceFS.ReadDir("sources")
		if err != nil {
			loadErr = err
			return
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		sort.Strings(names)
		for _, name := range names {
			data, err := sourceFS.ReadFile("sources/" + name)
			if err != nil {
				loadErr = err
				return
			}
			mod, err := parser.ParseModule(string(data))
			if err != nil {
				loadErr = fmt.Errorf("stdlib: parsing %s: %w", name, err)
				return
			}
			modules = append(modules, mod)
		}
	})
	return modules, loadErr
}
