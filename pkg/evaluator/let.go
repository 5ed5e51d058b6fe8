package evaluator

import (
	"github.com/wisplang/wisp/pkg/ast"
	"github.com/wisplang/wisp/pkg/runtime"
)

// letName is the names a let declaration binds: the single name of a
// LetFunctionDecl, or every name a LetDestructureDecl's pattern binds.
// A destructure is never a legal cycle member; its names are collected
// here so a cycle through them can be found and rejected later.
func letName(decl ast.Declaration) []string {
	switch d := decl.(type) {
	case *ast.LetFunctionDecl:
		return []string{d.Name}
	case *ast.LetDestructureDecl:
		return patternNames(d.Pattern)
	default:
		return nil
	}
}

func patternNames(p ast.Pattern) []string {
	switch pp := p.(type) {
	case *ast.VarPattern:
		return []string{pp.Name}
	case *ast.AsPattern:
		return append([]string{pp.Name}, patternNames(pp.Inner)...)
	case *ast.TuplePattern:
		var names []string
		for _, e := range pp.Elements {
			names = append(names, patternNames(e)...)
		}
		return names
	case *ast.ListPattern:
		var names []string
		for _, e := range pp.Elements {
			names = append(names, patternNames(e)...)
		}
		return names
	case *ast.ConsPattern:
		return append(patternNames(pp.Head), patternNames(pp.Tail)...)
	case *ast.CtorPattern:
		var names []string
		for _, e := range pp.Args {
			names = append(names, patternNames(e)...)
		}
		return names
	case *ast.RecordPattern:
		var names []string
		for _, f := range pp.Fields {
			names = append(names, patternNames(f.Pattern)...)
		}
		return names
	default:
		return nil
	}
}

// freeIdentifiers conservatively over-approximates the set of bare names
// expr reads, by walking the whole expression tree — including inside
// nested lambdas, lets, and cases — without tracking shadowing. That
// over-approximation is deliberate: the dependency graph it feeds only
// needs to be a superset of real dependencies for cycle detection to be
// sound, and intersecting against the let block's own defined names below
// discards anything it pulled in from outside.
func freeIdentifiers(expr ast.Expression, out map[string]bool) {
	if expr == nil {
		return
	}
	switch n := expr.(type) {
	case *ast.Identifier:
		if n.Module == "" {
			out[n.Name] = true
		}
	case *ast.Negation:
		freeIdentifiers(n.Operand, out)
	case *ast.BinaryOp:
		freeIdentifiers(n.Left, out)
		freeIdentifiers(n.Right, out)
	case *ast.If:
		freeIdentifiers(n.Cond, out)
		freeIdentifiers(n.Then, out)
		freeIdentifiers(n.Else, out)
	case *ast.Tuple:
		for _, e := range n.Elements {
			freeIdentifiers(e, out)
		}
	case *ast.List:
		for _, e := range n.Elements {
			freeIdentifiers(e, out)
		}
	case *ast.Record:
		for _, f := range n.Fields {
			freeIdentifiers(f.Value, out)
		}
	case *ast.RecordAccess:
		freeIdentifiers(n.Target, out)
	case *ast.RecordUpdate:
		freeIdentifiers(n.Base, out)
		for _, f := range n.Fields {
			freeIdentifiers(f.Value, out)
		}
	case *ast.Lambda:
		freeIdentifiers(n.Body, out)
	case *ast.Application:
		freeIdentifiers(n.Func, out)
		for _, a := range n.Args {
			freeIdentifiers(a, out)
		}
	case *ast.Let:
		for _, d := range n.Decls {
			switch dd := d.(type) {
			case *ast.LetFunctionDecl:
				freeIdentifiers(dd.Body, out)
			case *ast.LetDestructureDecl:
				freeIdentifiers(dd.Value, out)
			}
		}
		freeIdentifiers(n.Body, out)
	case *ast.Case:
		freeIdentifiers(n.Scrutinee, out)
		for _, b := range n.Branches {
			freeIdentifiers(b.Body, out)
		}
	}
}

// evalLet processes a let block: builds a dependency graph over every
// declared name, partitions it into strongly connected components, checks
// that any component with more than one member (a genuine cycle) consists
// entirely of named functions with at least one parameter, registers
// functions and evaluates destructures in topological order (dependencies
// first), then tail-reduces to the body under the fully populated scope.
func evalLet(n *ast.Let, env *runtime.Env, cfg *Config, trace *runtime.CallTree) control {
	letEnv := env.Child()

	defined := make(map[string]bool)
	for _, d := range n.Decls {
		for _, name := range letName(d) {
			defined[name] = true
		}
	}

	deps := make(map[ast.Declaration]map[string]bool, len(n.Decls))
	for _, d := range n.Decls {
		free := make(map[string]bool)
		switch dd := d.(type) {
		case *ast.LetFunctionDecl:
			freeIdentifiers(dd.Body, free)
		case *ast.LetDestructureDecl:
			freeIdentifiers(dd.Value, free)
		}
		own := make(map[string]bool)
		for name := range free {
			if defined[name] {
				own[name] = true
			}
		}
		deps[d] = own
	}

	order, sccs, selfDeps, err := sccOrder(n.Decls, deps)
	if err != nil {
		return finalErr(err)
	}
	for _, scc := range sccs {
		cyclic := len(scc) > 1 || (len(scc) == 1 && selfDeps[scc[0]])
		if !cyclic {
			continue
		}
		for _, d := range scc {
			fn, ok := d.(*ast.LetFunctionDecl)
			if !ok || len(fn.Params) == 0 {
				return finalErr(runtime.NewTypeError(env.CallStack(), "illegal cycle in let block"))
			}
		}
	}

	for _, d := range order {
		switch dd := d.(type) {
		case *ast.LetFunctionDecl:
			letEnv.DefineFunction(letEnv.CurrentModule(), dd.Name, &runtime.FunctionImpl{
				Name:   runtime.QualifiedName{Module: letEnv.CurrentModule(), Name: dd.Name},
				Params: dd.Params,
				Body:   dd.Body,
			})
		case *ast.LetDestructureDecl:
			v, evalErr := evalSub(dd.Value, letEnv, cfg, trace)
			if evalErr != nil {
				return finalErr(evalErr)
			}
			matched, bindings, matchErr := Match(dd.Pattern, v, env.CallStack())
			if matchErr != nil {
				return finalErr(matchErr)
			}
			if !matched {
				return finalErr(runtime.NewTypeError(env.CallStack(), "let pattern did not match its value"))
			}
			for name, bv := range bindings {
				letEnv.DefineValue(name, bv)
			}
		}
	}

	return tailTo(letEnv, n.Body)
}

// sccOrder computes strongly connected components of the declaration
// dependency graph via Tarjan's algorithm and returns declarations in
// finish order (dependencies before dependents — safe for registering
// functions in any order, but load-bearing for destructure evaluation),
// the SCCs themselves, and a self-dependency set for cycle-legality
// checking. strongconnect skips self-edges (a self-edge can never merge
// two Tarjan components, since a node is always reachable from itself),
// so a nullary CAF like `x = x + 1` forms its own singleton SCC with no
// edge recorded anywhere — selfDeps is what lets the caller still see it
// as cyclic.
func sccOrder(decls []ast.Declaration, deps map[ast.Declaration]map[string]bool) ([]ast.Declaration, [][]ast.Declaration, map[ast.Declaration]bool, *runtime.EvalError) {
	byName := make(map[string]ast.Declaration, len(decls))
	for _, d := range decls {
		for _, name := range letName(d) {
			byName[name] = d
		}
	}

	selfDeps := make(map[ast.Declaration]bool)
	for _, d := range decls {
		for name := range deps[d] {
			if byName[name] == d {
				selfDeps[d] = true
			}
		}
	}

	index := make(map[ast.Declaration]int)
	lowlink := make(map[ast.Declaration]int)
	onStack := make(map[ast.Declaration]bool)
	var stack []ast.Declaration
	counter := 0
	var sccs [][]ast.Declaration

	var strongconnect func(d ast.Declaration)
	strongconnect = func(d ast.Declaration) {
		index[d] = counter
		lowlink[d] = counter
		counter++
		stack = append(stack, d)
		onStack[d] = true

		for name := range deps[d] {
			dep, ok := byName[name]
			if !ok || dep == d {
				continue
			}
			if _, seen := index[dep]; !seen {
				strongconnect(dep)
				if lowlink[dep] < lowlink[d] {
					lowlink[d] = lowlink[dep]
				}
			} else if onStack[dep] {
				if index[dep] < lowlink[d] {
					lowlink[d] = index[dep]
				}
			}
		}

		if lowlink[d] == index[d] {
			var comp []ast.Declaration
			for {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[top] = false
				comp = append(comp, top)
				if top == d {
					break
				}
			}
			sccs = append(sccs, comp)
		}
	}

	for _, d := range decls {
		if _, seen := index[d]; !seen {
			strongconnect(d)
		}
	}

	// Tarjan appends each SCC in post-order of its root, so sccs is already
	// dependencies-first: a declaration's dependencies finish (and are
	// appended) before the declaration itself.
	order := make([]ast.Declaration, 0, len(decls))
	for _, comp := range sccs {
		order = append(order, comp...)
	}
	return order, sccs, selfDeps, nil
}
