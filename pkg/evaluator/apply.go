package evaluator

import (
	"strings"

	"github.com/wisplang/wisp/pkg/ast"
	"github.com/wisplang/wisp/pkg/kernel"
	"github.com/wisplang/wisp/pkg/runtime"
)

// applyOperator rewrites an infix operator (other than &&/||, handled
// directly by step) into an application of its kernel-backed function,
// going through the same PartiallyApplied/application machinery as a
// named call so arity handling stays in one place.
func applyOperator(n *ast.BinaryOp, env *runtime.Env, cfg *Config, trace *runtime.CallTree) control {
	qn, ok := kernel.OperatorTable[n.Op]
	if !ok {
		return finalErr(runtime.NewUnsupported(env.CallStack(), "unknown operator %q", n.Op))
	}
	fn := runtime.PartiallyAppliedValue{
		Env:    env,
		Params: wildcardParams(n.Pos(), 2),
		Body:   kernelRefExpr(n.Pos(), qn.Module, qn.Name),
	}
	return applyValue(fn, []ast.Expression{n.Left, n.Right}, env, cfg, trace)
}

// applyValue evaluates argExprs in order under env, then applies fnVal to
// the results.
func applyValue(fnVal runtime.Value, argExprs []ast.Expression, env *runtime.Env, cfg *Config, trace *runtime.CallTree) control {
	args := make([]runtime.Value, len(argExprs))
	for i, e := range argExprs {
		v, err := evalSub(e, env, cfg, trace)
		if err != nil {
			return finalErr(err)
		}
		args[i] = v
	}
	return applyValues(fnVal, args, env, cfg, trace)
}

// applyValues applies fnVal to already-evaluated args. This is the tail
// position for a saturated named/lambda call: the saturated branch of
// applyPartial returns a tail step into the callee's body rather than
// recursing, so a self-tail-recursive function runs in constant host
// stack space through the outer Eval loop.
func applyValues(fnVal runtime.Value, args []runtime.Value, env *runtime.Env, cfg *Config, trace *runtime.CallTree) control {
	switch fv := fnVal.(type) {
	case runtime.CustomValue:
		return final(runtime.CustomValue{Module: fv.Module, Name: fv.Name, Args: append(append([]runtime.Value(nil), fv.Args...), args...)})

	case runtime.PartiallyAppliedValue:
		return applyPartial(fv, args, env, cfg, trace)

	default:
		return finalErr(runtime.NewTypeError(env.CallStack(), "value of kind %s is not a function", fnVal.Kind()))
	}
}

// applyPartial handles the three arity-relative cases of application:
// under-saturated (accumulate), saturated (reduce the body), and
// over-saturated (split into a saturated sub-call plus a re-application
// of the remainder).
func applyPartial(fv runtime.PartiallyAppliedValue, args []runtime.Value, env *runtime.Env, cfg *Config, trace *runtime.CallTree) control {
	have := len(fv.AccumulatedArgs)
	want := len(fv.Params)
	give := len(args)

	if have+give < want {
		return final(runtime.PartiallyAppliedValue{
			Env:             fv.Env,
			AccumulatedArgs: append(append([]runtime.Value(nil), fv.AccumulatedArgs...), args...),
			Params:          fv.Params,
			QualifiedName:   fv.QualifiedName,
			Body:            fv.Body,
		})
	}

	if have+give > want {
		take := want - have
		allArgs := append(append([]runtime.Value(nil), fv.AccumulatedArgs...), args[:take]...)
		saturated, err := resolveControl(reduceSaturated(fv, allArgs, env, cfg, trace), cfg, trace)
		if err != nil {
			return finalErr(err)
		}
		return applyValues(saturated, args[take:], env, cfg, trace)
	}

	allArgs := append(append([]runtime.Value(nil), fv.AccumulatedArgs...), args...)
	return reduceSaturated(fv, allArgs, env, cfg, trace)
}

// resolveControl forces a control to a final value, running its tail step
// to completion via a sub-evaluation. Used only for the over-saturation
// split, whose intermediate saturated result must be fully known before
// the remaining args can be applied to it — not itself a tail position.
func resolveControl(c control, cfg *Config, trace *runtime.CallTree) (runtime.Value, *runtime.EvalError) {
	if !c.tail {
		return c.value, c.err
	}
	return evalSub(c.expr, c.env, cfg, trace)
}

// reduceSaturated binds args against fv.Params and tail-reduces into the
// body under the captured environment extended with those bindings. When
// fv's body is a direct reference into a Kernel.*-prefixed module, the
// argument-pattern rebinding is skipped entirely and the kernel is
// invoked straight off the raw argument vector: every kernel parameter
// pattern is a wildcard synthesized by wildcardParams, so there is
// nothing a pattern match could contribute.
func reduceSaturated(fv runtime.PartiallyAppliedValue, args []runtime.Value, env *runtime.Env, cfg *Config, trace *runtime.CallTree) control {
	if id, ok := fv.Body.(*ast.Identifier); ok {
		if module := resolveModuleAlias(id.Module); strings.HasPrefix(module, KernelPrefix) {
			kernelModule := strings.TrimPrefix(module, KernelPrefix)
			v, err := cfg.Kernel.Call(kernelModule, id.Name, args, env.CallStack())
			if cfg.Trace {
				node := &runtime.CallNode{Kind: "evalKernelFunction", Name: runtime.QualifiedName{Module: kernelModule, Name: id.Name}, Args: args, Err: err}
				if err == nil {
					node.Result = v
				}
				*trace = append(*trace, node)
			}
			if err != nil {
				return finalErr(err)
			}
			return final(v)
		}
	}

	callEnv := fv.Env.Child()
	for i, param := range fv.Params {
		matched, bindings, err := Match(param, args[i], env.CallStack())
		if err != nil {
			return finalErr(err)
		}
		if !matched {
			return finalErr(runtime.NewTypeError(env.CallStack(), "argument %d did not match its parameter pattern", i+1))
		}
		for name, v := range bindings {
			callEnv.DefineValue(name, v)
		}
	}

	if cfg.Trace {
		return callTraced(fv, callEnv, cfg, trace)
	}

	if fv.QualifiedName != nil {
		callEnv = callEnv.WithTailFrame(fv.QualifiedName.Module, fv.QualifiedName.Name)
	}
	return tailTo(callEnv, fv.Body)
}

// callTraced runs fv's body via a full sub-evaluation rather than a tail
// step, so a CallNode can be built once its result is known. This is the
// deliberate cost of tracing: the trampoline's O(1)-host-stack guarantee
// for self-tail-recursion holds only when Trace is false.
func callTraced(fv runtime.PartiallyAppliedValue, callEnv *runtime.Env, cfg *Config, trace *runtime.CallTree) control {
	name := runtime.QualifiedName{}
	if fv.QualifiedName != nil {
		name = *fv.QualifiedName
		callEnv = callEnv.WithFrame(name.Module, name.Name)
	}

	v, err := evalSub(fv.Body, callEnv, cfg, trace)
	node := &runtime.CallNode{Kind: "call", Name: name, Err: err}
	if err == nil {
		node.Result = v
	}
	*trace = append(*trace, node)
	if err != nil {
		return finalErr(err)
	}
	return final(v)
}

// ApplyValues applies an already-evaluated function value to already-
// evaluated arguments, for host kernel code (map, filter, foldl, foldr)
// that must call back into a closure without going through source-level
// application syntax. It never exploits tail position: the caller is
// itself inside a host kernel call, not the trampoline loop.
func ApplyValues(fnVal runtime.Value, args []runtime.Value, reg *kernel.Registry, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
	cfg := &Config{Kernel: reg}
	trace := &runtime.CallTree{}
	env := runtime.NewEnvWithStack("", stack)
	c := applyValues(fnVal, args, env, cfg, trace)
	return resolveControl(c, cfg, trace)
}
