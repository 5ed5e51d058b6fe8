// Package driver wires lexer, parser, standard library and evaluator
// together behind the four entry points spec.md describes: Eval,
// EvalModule, Trace, TraceModule.
package driver

import (
	"fmt"

	"github.com/wisplang/wisp/pkg/ast"
	"github.com/wisplang/wisp/pkg/evaluator"
	"github.com/wisplang/wisp/pkg/lexer"
	"github.com/wisplang/wisp/pkg/parser"
	"github.com/wisplang/wisp/pkg/runtime"
	"github.com/wisplang/wisp/pkg/stdlib"
)

// mainEntry is the QualifiedName every bare-expression Eval call
// evaluates, inside the synthetic module Eval wraps the expression in.
var mainEntry = runtime.QualifiedName{Module: "Main", Name: "main"}

// Error is the union spec.md §6 describes: either a parse failure
// (lexical or syntactic) or an evaluation failure. Exactly one field is
// non-nil.
type Error struct {
	Parsing *parser.Error
	Lexing  *lexer.Error
	Eval    *runtime.EvalError
}

func (e *Error) Error() string {
	switch {
	case e.Parsing != nil:
		return e.Parsing.Error()
	case e.Lexing != nil:
		return e.Lexing.Error()
	case e.Eval != nil:
		return e.Eval.Render()
	default:
		return "wisp: unknown error"
	}
}

func fromParseErr(err error) *Error {
	switch e := err.(type) {
	case *parser.Error:
		return &Error{Parsing: e}
	case *lexer.Error:
		return &Error{Lexing: e}
	default:
		return &Error{Parsing: &parser.Error{Msg: err.Error()}}
	}
}

// Eval wraps source as a bare expression inside a synthetic module,
// `module Main exposing (main)` with `main = <source>`, and evaluates it,
// per spec.md §4.9's one sanctioned use of synthesized source text.
func Eval(source string) (runtime.Value, *Error) {
	v, err, _ := run(source, false)
	return v, err
}

// EvalModule parses source as a full module and evaluates the named
// top-level declaration.
func EvalModule(source string, entry runtime.QualifiedName) (runtime.Value, *Error) {
	v, err, _ := runModule(source, entry, false)
	return v, err
}

// Trace is Eval with call-tree tracing enabled.
func Trace(source string) (runtime.Value, *Error, runtime.CallTree) {
	return run(source, true)
}

// TraceModule is EvalModule with call-tree tracing enabled.
func TraceModule(source string, entry runtime.QualifiedName) (runtime.Value, *Error, runtime.CallTree) {
	return runModule(source, entry, true)
}

func run(source string, trace bool) (runtime.Value, *Error, runtime.CallTree) {
	wrapped := fmt.Sprintf("module Main exposing (main)\n\nmain =\n  %s\n", source)
	return runModule(wrapped, mainEntry, trace)
}

func runModule(source string, entry runtime.QualifiedName, trace bool) (runtime.Value, *Error, runtime.CallTree) {
	mod, err := parser.ParseModule(source)
	if err != nil {
		return nil, fromParseErr(err), nil
	}

	env, err := buildEnv(mod)
	if err != nil {
		return nil, fromParseErr(err), nil
	}

	cfg := evaluator.NewConfig(evaluator.NewKernelRegistry())
	cfg.Trace = trace

	entryExpr := ast.NewIdentifier(mod.Pos(), entry.Module, entry.Name)
	v, evalErr, callTree := evaluator.Eval(entryExpr, env, cfg)
	if evalErr != nil {
		return nil, &Error{Eval: evalErr}, callTree
	}
	return v, nil, callTree
}

// buildEnv assembles a root Env containing every standard-library module
// plus mod itself, functions keyed by their declaring module.
func buildEnv(mod *ast.Module) (*runtime.Env, error) {
	env := runtime.NewEnv(mod.Name)

	stdMods, err := stdlib.Modules()
	if err != nil {
		return nil, err
	}
	for _, m := range stdMods {
		registerModule(env, m)
	}
	registerModule(env, mod)
	return env, nil
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
