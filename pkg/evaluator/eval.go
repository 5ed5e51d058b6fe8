package evaluator

import (
	"math/big"

	"github.com/wisplang/wisp/pkg/ast"
	"github.com/wisplang/wisp/pkg/runtime"
)

// control is the trampoline's partial-result: either a finished value,
// a finished error, or a tail step — replace (env, expr) and keep going,
// without growing the host stack.
type control struct {
	tail  bool
	env   *runtime.Env
	expr  ast.Expression
	value runtime.Value
	err   *runtime.EvalError
}

func tailTo(env *runtime.Env, expr ast.Expression) control {
	return control{tail: true, env: env, expr: expr}
}
func final(v runtime.Value) control           { return control{value: v} }
func finalErr(err *runtime.EvalError) control { return control{err: err} }

// Eval reduces expr under env to a value, or an error, plus whatever call
// tree was recorded along the way (empty unless cfg.Trace). The outer
// loop below is the trampoline: every tail position step() produces is
// consumed by replacing curEnv/curExpr in place, so a self-recursive tail
// call runs in constant host-stack space regardless of depth.
func Eval(expr ast.Expression, env *runtime.Env, cfg *Config) (runtime.Value, *runtime.EvalError, runtime.CallTree) {
	var trace runtime.CallTree
	curEnv, curExpr := env, expr
	for {
		c := step(curExpr, curEnv, cfg, &trace)
		if c.tail {
			curEnv, curExpr = c.env, c.expr
			continue
		}
		return c.value, c.err, trace
	}
}

// evalSub evaluates a non-tail subexpression via a full, independent
// trampoline run, merging whatever trace it produced into the caller's.
// This is the one place host-stack recursion happens for program-level
// recursion: every tail step inside it is consumed by its own loop in
// Eval, so only non-tail positions nest further evalSub calls. A non-tail
// recursive call (such as `n + count (n - 1)`) therefore still uses host
// stack proportional to its recursion depth.
func evalSub(expr ast.Expression, env *runtime.Env, cfg *Config, trace *runtime.CallTree) (runtime.Value, *runtime.EvalError) {
	v, err, sub := Eval(expr, env, cfg)
	*trace = append(*trace, sub...)
	return v, err
}

func step(expr ast.Expression, env *runtime.Env, cfg *Config, trace *runtime.CallTree) control {
	switch n := expr.(type) {
	case *ast.UnitLiteral:
		return final(runtime.UnitValue{})
	case *ast.IntLiteral:
		return final(runtime.IntValue{Val: n.Value})
	case *ast.FloatLiteral:
		return final(runtime.FloatValue{Val: n.Value})
	case *ast.CharLiteral:
		return final(runtime.CharValue{Val: n.Value})
	case *ast.StringLiteral:
		return final(runtime.StringValue{Val: n.Value})

	case *ast.Identifier:
		return evalIdentifier(n, env, cfg)

	case *ast.Negation:
		v, err := evalSub(n.Operand, env, cfg, trace)
		if err != nil {
			return finalErr(err)
		}
		switch vv := v.(type) {
		case runtime.IntValue:
			return final(runtime.IntValue{Val: new(big.Int).Neg(vv.Val)})
		case runtime.FloatValue:
			return final(runtime.FloatValue{Val: -vv.Val})
		default:
			return finalErr(runtime.NewTypeError(env.CallStack(), "cannot negate value of kind %s", v.Kind()))
		}

	case *ast.BinaryOp:
		if n.Op == "&&" || n.Op == "||" {
			lv, err := evalSub(n.Left, env, cfg, trace)
			if err != nil {
				return finalErr(err)
			}
			lb, ok := lv.(runtime.BoolValue)
			if !ok {
				return finalErr(runtime.NewTypeError(env.CallStack(), "%s: expected Bool, got %s", n.Op, lv.Kind()))
			}
			if n.Op == "&&" && !lb.Val {
				return final(runtime.BoolValue{Val: false})
			}
			if n.Op == "||" && lb.Val {
				return final(runtime.BoolValue{Val: true})
			}
			return tailTo(env, n.Right)
		}
		return applyOperator(n, env, cfg, trace)

	case *ast.If:
		cv, err := evalSub(n.Cond, env, cfg, trace)
		if err != nil {
			return finalErr(err)
		}
		b, ok := cv.(runtime.BoolValue)
		if !ok {
			return finalErr(runtime.NewTypeError(env.CallStack(), "if: expected Bool condition, got %s", cv.Kind()))
		}
		if b.Val {
			return tailTo(env, n.Then)
		}
		return tailTo(env, n.Else)

	case *ast.Tuple:
		switch len(n.Elements) {
		case 1:
			return tailTo(env, n.Elements[0])
		case 2:
			a, err := evalSub(n.Elements[0], env, cfg, trace)
			if err != nil {
				return finalErr(err)
			}
			b, err := evalSub(n.Elements[1], env, cfg, trace)
			if err != nil {
				return finalErr(err)
			}
			return final(runtime.TupleValue{First: a, Second: b})
		case 3:
			a, err := evalSub(n.Elements[0], env, cfg, trace)
			if err != nil {
				return finalErr(err)
			}
			b, err := evalSub(n.Elements[1], env, cfg, trace)
			if err != nil {
				return finalErr(err)
			}
			c, err := evalSub(n.Elements[2], env, cfg, trace)
			if err != nil {
				return finalErr(err)
			}
			return final(runtime.TripleValue{First: a, Second: b, Third: c})
		default:
			return finalErr(runtime.NewUnsupported(env.CallStack(), "tuples with more than three elements are not supported"))
		}

	case *ast.List:
		vals := make([]runtime.Value, len(n.Elements))
		for i, e := range n.Elements {
			v, err := evalSub(e, env, cfg, trace)
			if err != nil {
				return finalErr(err)
			}
			vals[i] = v
		}
		return final(runtime.NewList(vals))

	case *ast.Record:
		fields := make(map[string]runtime.Value, len(n.Fields))
		for _, f := range n.Fields {
			v, err := evalSub(f.Value, env, cfg, trace)
			if err != nil {
				return finalErr(err)
			}
			fields[f.Name] = v
		}
		return final(runtime.NewRecord(fields))

	case *ast.RecordAccess:
		v, err := evalSub(n.Target, env, cfg, trace)
		if err != nil {
			return finalErr(err)
		}
		rv, ok := v.(runtime.RecordValue)
		if !ok {
			return finalErr(runtime.NewTypeError(env.CallStack(), "cannot access field %q of non-record value of kind %s", n.Field, v.Kind()))
		}
		fv, ok := rv.Fields[n.Field]
		if !ok {
			return finalErr(runtime.NewTypeError(env.CallStack(), "record has no field %q", n.Field))
		}
		return final(fv)

	case *ast.RecordAccessor:
		param := ast.NewVarPattern(n.Pos(), "_accessorArg")
		body := ast.NewRecordAccess(n.Pos(), ast.NewIdentifier(n.Pos(), "", "_accessorArg"), n.Field)
		return final(runtime.PartiallyAppliedValue{Env: env, Params: []ast.Pattern{param}, Body: body})

	case *ast.RecordUpdate:
		base, err := evalSub(n.Base, env, cfg, trace)
		if err != nil {
			return finalErr(err)
		}
		rv, ok := base.(runtime.RecordValue)
		if !ok {
			return finalErr(runtime.NewTypeError(env.CallStack(), "record update target is not a Record (got %s)", base.Kind()))
		}
		overrides := make(map[string]runtime.Value, len(n.Fields))
		for _, f := range n.Fields {
			v, err := evalSub(f.Value, env, cfg, trace)
			if err != nil {
				return finalErr(err)
			}
			overrides[f.Name] = v
		}
		return final(rv.WithFields(overrides))

	case *ast.Lambda:
		return final(runtime.PartiallyAppliedValue{Env: env, Params: n.Params, Body: n.Body})

	case *ast.Let:
		return evalLet(n, env, cfg, trace)

	case *ast.Case:
		return evalCase(n, env, cfg, trace)

	case *ast.Application:
		fnVal, err := evalSub(n.Func, env, cfg, trace)
		if err != nil {
			return finalErr(err)
		}
		return applyValue(fnVal, n.Args, env, cfg, trace)

	default:
		return finalErr(runtime.NewUnsupported(env.CallStack(), "unhandled expression form %s", expr.NodeType()))
	}
}
