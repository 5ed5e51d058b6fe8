package evaluator

import (
	"strings"
	"unicode"

	"github.com/wisplang/wisp/pkg/ast"
	"github.com/wisplang/wisp/pkg/runtime"
)

// isVariant reports whether name denotes a type constructor / variant tag
// rather than a value binding, per the surface language's capitalization
// convention: uppercase-initial is a constructor, lowercase-initial is a
// value.
func isVariant(name string) bool {
	if name == "" {
		return false
	}
	r := []rune(name)[0]
	return unicode.IsUpper(r)
}

// evalIdentifier resolves a name reference to a value, in tail position:
// a zero-parameter function found this way reduces its body right here
// (a CAF), while anything else seeds a value directly.
func evalIdentifier(n *ast.Identifier, env *runtime.Env, cfg *Config) control {
	module := resolveModuleAlias(n.Module)

	if strings.HasPrefix(module, KernelPrefix) {
		kernelModule := strings.TrimPrefix(module, KernelPrefix)
		entry, ok := cfg.Kernel.Lookup(kernelModule, n.Name)
		if !ok {
			return finalErr(runtime.NewUnsupported(env.CallStack(), "unknown kernel reference %s.%s", kernelModule, n.Name))
		}
		if entry.Arity == 0 {
			v, err := cfg.Kernel.Call(kernelModule, n.Name, nil, env.CallStack())
			if err != nil {
				return finalErr(err)
			}
			return final(v)
		}
		return final(runtime.PartiallyAppliedValue{
			Env:    env,
			Params: wildcardParams(n.Pos(), entry.Arity),
			Body:   kernelRefExpr(n.Pos(), kernelModule, n.Name),
		})
	}

	// A bare, unqualified constructor reference (Foo, not Mod.Foo) has no
	// module to take: it is attributed to env.CurrentModule() per §4.3's
	// "current module" rule. §8's scenario table writes this case's
	// module as the empty path; the two describe the same variant either
	// way, since constructor equality and pattern matching are name-only
	// and never compare the module field.
	if isVariant(n.Name) {
		if n.Module == "" && n.Name == "True" {
			return final(runtime.BoolValue{Val: true})
		}
		if n.Module == "" && n.Name == "False" {
			return final(runtime.BoolValue{Val: false})
		}
		effectiveModule := env.CurrentModule()
		if n.Module != "" {
			effectiveModule = module
		}
		return final(runtime.CustomValue{Module: effectiveModule, Name: n.Name, Args: nil})
	}

	if n.Module != "" {
		fn, ok := env.GetFunction(module, n.Name)
		if !ok {
			return finalErr(runtime.NewNameError(env.CallStack(), "no such value %s.%s", module, n.Name))
		}
		return reduceFunctionRef(fn, env.InModule(module))
	}

	if v, ok := env.GetValue(n.Name); ok {
		return final(v)
	}
	if fn, ok := env.GetFunction(env.CurrentModule(), n.Name); ok {
		return reduceFunctionRef(fn, env)
	}
	if fn, ok := env.GetFunction("Basics", n.Name); ok {
		return reduceFunctionRef(fn, env)
	}
	return finalErr(runtime.NewNameError(env.CallStack(), "no such value %s", n.Name))
}

// reduceFunctionRef turns a looked-up FunctionImpl into either a tail
// reduction of its body (zero params — a constant applicative form) or a
// PartiallyApplied value capturing lookupEnv, the environment active at
// the point of the name lookup. Capturing lookupEnv rather than a freshly
// rooted module environment is what lets a let-bound function close over
// its enclosing let bindings, and what lets mutual recursion work: sibling
// function entries are registered into the same let-block env layer
// before either body evaluates, so a name lookup inside one sibling's
// body still finds the other through that shared layer.
func reduceFunctionRef(fn *runtime.FunctionImpl, lookupEnv *runtime.Env) control {
	if len(fn.Params) == 0 {
		return tailTo(lookupEnv, fn.Body)
	}
	return final(runtime.PartiallyAppliedValue{
		Env:           lookupEnv,
		Params:        fn.Params,
		Body:          fn.Body,
		QualifiedName: &fn.Name,
	})
}
