package kernel

import "github.com/wisplang/wisp/pkg/runtime"

func registerTuple(r *Registry) {
	r.register("Tuple", "first", 1, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		t, ok := args[0].(runtime.TupleValue)
		if !ok {
			return nil, runtime.NewTypeError(stack, "first: expected Tuple, got %s", args[0].Kind())
		}
		return t.First, nil
	})
	r.register("Tuple", "second", 1, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		t, ok := args[0].(runtime.TupleValue)
		if !ok {
			return nil, runtime.NewTypeError(stack, "second: expected Tuple, got %s", args[0].Kind())
		}
		return t.Second, nil
	})
	r.register("Tuple", "pair", 2, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		return runtime.TupleValue{First: args[0], Second: args[1]}, nil
	})
}
