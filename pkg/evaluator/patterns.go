package evaluator

import (
	"github.com/wisplang/wisp/pkg/ast"
	"github.com/wisplang/wisp/pkg/runtime"
)

// Match tries pattern against value. It returns:
//   - (true, bindings, nil) — the pattern matched, yielding these bindings.
//   - (false, nil, nil) — the pattern did not match; try the next branch.
//   - (_, nil, err) — a structural error (e.g. record field absent,
//     constructor arity mismatch). The program was expected to typecheck,
//     so these indicate an internal inconsistency, not a normal mismatch.
func Match(pattern ast.Pattern, value runtime.Value, stack []runtime.Frame) (bool, map[string]runtime.Value, *runtime.EvalError) {
	switch p := pattern.(type) {
	case *ast.WildcardPattern:
		return true, map[string]runtime.Value{}, nil

	case *ast.UnitPattern:
		if value.Kind() != runtime.KindUnit {
			return false, nil, nil
		}
		return true, map[string]runtime.Value{}, nil

	case *ast.VarPattern:
		return true, map[string]runtime.Value{p.Name: value}, nil

	case *ast.AsPattern:
		matched, bindings, err := Match(p.Inner, value, stack)
		if err != nil || !matched {
			return matched, nil, err
		}
		bindings[p.Name] = value
		return true, bindings, nil

	case *ast.LiteralPattern:
		lit := literalValue(p.Literal)
		if !runtime.ValuesEqual(lit, value) {
			return false, nil, nil
		}
		return true, map[string]runtime.Value{}, nil

	case *ast.TuplePattern:
		switch len(p.Elements) {
		case 2:
			tv, ok := value.(runtime.TupleValue)
			if !ok {
				return false, nil, nil
			}
			return matchAll(p.Elements, []runtime.Value{tv.First, tv.Second}, stack)
		case 3:
			tv, ok := value.(runtime.TripleValue)
			if !ok {
				return false, nil, nil
			}
			return matchAll(p.Elements, []runtime.Value{tv.First, tv.Second, tv.Third}, stack)
		default:
			return false, nil, runtime.NewUnsupported(stack, "tuples with more than three elements are not supported")
		}

	case *ast.ListPattern:
		lv, ok := value.(runtime.ListValue)
		if !ok || len(lv.Elements) != len(p.Elements) {
			return false, nil, nil
		}
		return matchAll(p.Elements, lv.Elements, stack)

	case *ast.ConsPattern:
		lv, ok := value.(runtime.ListValue)
		if !ok || len(lv.Elements) == 0 {
			return false, nil, nil
		}
		headMatched, headBindings, err := Match(p.Head, lv.Elements[0], stack)
		if err != nil || !headMatched {
			return headMatched, nil, err
		}
		tailMatched, tailBindings, err := Match(p.Tail, runtime.NewList(lv.Elements[1:]), stack)
		if err != nil || !tailMatched {
			return tailMatched, nil, err
		}
		// Head's binding wins when a name appears in both.
		merged := make(map[string]runtime.Value, len(headBindings)+len(tailBindings))
		for k, v := range tailBindings {
			merged[k] = v
		}
		for k, v := range headBindings {
			merged[k] = v
		}
		return true, merged, nil

	case *ast.CtorPattern:
		cv, ok := value.(runtime.CustomValue)
		if !ok || cv.Name != p.Name {
			return false, nil, nil
		}
		if len(cv.Args) != len(p.Args) {
			return false, nil, runtime.NewTypeError(stack, "constructor %s expects %d argument(s), got %d", p.Name, len(p.Args), len(cv.Args))
		}
		return matchAll(p.Args, cv.Args, stack)

	case *ast.RecordPattern:
		rv, ok := value.(runtime.RecordValue)
		if !ok {
			return false, nil, nil
		}
		bindings := make(map[string]runtime.Value, len(p.Fields))
		for _, field := range p.Fields {
			fv, present := rv.Fields[field.Name]
			if !present {
				return false, nil, runtime.NewTypeError(stack, "record has no field %q to destructure", field.Name)
			}
			matched, subBindings, err := Match(field.Pattern, fv, stack)
			if err != nil || !matched {
				return matched, nil, err
			}
			for k, v := range subBindings {
				bindings[k] = v
			}
		}
		return true, bindings, nil

	default:
		return false, nil, runtime.NewUnsupported(stack, "unsupported pattern form %s", pattern.NodeType())
	}
}

// matchAll matches positional sub-patterns against positional values,
// unioning bindings, short-circuiting on the first non-match or error.
func matchAll(patterns []ast.Pattern, values []runtime.Value, stack []runtime.Frame) (bool, map[string]runtime.Value, *runtime.EvalError) {
	bindings := make(map[string]runtime.Value)
	for i, p := range patterns {
		matched, sub, err := Match(p, values[i], stack)
		if err != nil || !matched {
			return matched, nil, err
		}
		for k, v := range sub {
			bindings[k] = v
		}
	}
	return true, bindings, nil
}

// literalValue extracts the runtime Value a literal pattern's embedded
// literal expression denotes. The parser only ever builds LiteralPattern
// around one of these five node kinds.
func literalValue(expr ast.Expression) runtime.Value {
	switch n := expr.(type) {
	case *ast.UnitLiteral:
		return runtime.UnitValue{}
	case *ast.IntLiteral:
		return runtime.IntValue{Val: n.Value}
	case *ast.FloatLiteral:
		return runtime.FloatValue{Val: n.Value}
	case *ast.CharLiteral:
		return runtime.CharValue{Val: n.Value}
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}
	default:
		return runtime.UnitValue{}
	}
}
