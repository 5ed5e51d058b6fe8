package kernel

import "github.com/wisplang/wisp/pkg/runtime"

// JsArray is addressed through the bare alias "JsArray" (see
// evaluator.ModuleAliases); it backs onto the same List value since Wisp
// has no separate array value kind, unlike the host language this
// evaluator's conventions are borrowed from.
func registerJsArray(r *Registry) {
	r.register("JsArray", "empty", 0, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		return runtime.NewList(nil), nil
	})
	r.register("JsArray", "length", 1, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		l, err := asList(args[0], stack)
		if err != nil {
			return nil, err
		}
		return runtime.NewInt(int64(len(l.Elements))), nil
	})
	r.register("JsArray", "push", 2, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		l, err := asList(args[1], stack)
		if err != nil {
			return nil, err
		}
		out := append(append([]runtime.Value(nil), l.Elements...), args[0])
		return runtime.NewList(out), nil
	})
	r.register("JsArray", "get", 2, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		idx, ok := args[0].(runtime.IntValue)
		if !ok {
			return nil, runtime.NewTypeError(stack, "get: expected Int index, got %s", args[0].Kind())
		}
		l, err := asList(args[1], stack)
		if err != nil {
			return nil, err
		}
		i := idx.Val.Int64()
		if i < 0 || i >= int64(len(l.Elements)) {
			return nil, runtime.NewTypeError(stack, "get: index %d out of range", i)
		}
		return l.Elements[i], nil
	})
}
