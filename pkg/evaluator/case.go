package evaluator

import (
	"github.com/wisplang/wisp/pkg/ast"
	"github.com/wisplang/wisp/pkg/runtime"
)

// evalCase evaluates the scrutinee, then tries each branch pattern in
// order; the first match tail-reduces to that branch's body under the
// bindings it produced. No branch matching is a runtime error — the
// program was expected to typecheck into exhaustive cases.
func evalCase(n *ast.Case, env *runtime.Env, cfg *Config, trace *runtime.CallTree) control {
	scrutinee, err := evalSub(n.Scrutinee, env, cfg, trace)
	if err != nil {
		return finalErr(err)
	}

	for _, branch := range n.Branches {
		matched, bindings, matchErr := Match(branch.Pattern, scrutinee, env.CallStack())
		if matchErr != nil {
			return finalErr(matchErr)
		}
		if !matched {
			continue
		}
		branchEnv := env.Child()
		for name, v := range bindings {
			branchEnv.DefineValue(name, v)
		}
		return tailTo(branchEnv, branch.Body)
	}

	return finalErr(runtime.NewTypeError(env.CallStack(), "missing case branch for %s", describeValue(scrutinee)))
}

// describeValue renders a value for the "missing case branch" diagnostic.
func describeValue(v runtime.Value) string {
	switch vv := v.(type) {
	case runtime.UnitValue:
		return "()"
	case runtime.BoolValue:
		if vv.Val {
			return "True"
		}
		return "False"
	case runtime.IntValue:
		return vv.Val.String()
	case runtime.StringValue:
		return "\"" + vv.Val + "\""
	case runtime.CustomValue:
		if vv.Name == "" {
			return "<value>"
		}
		return vv.Name
	default:
		return v.Kind().String()
	}
}
