package kernel

import "github.com/wisplang/wisp/pkg/runtime"

func registerList(r *Registry) {
	r.register("List", "cons", 2, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		tail, ok := args[1].(runtime.ListValue)
		if !ok {
			return nil, runtime.NewTypeError(stack, "::: expected List tail, got %s", args[1].Kind())
		}
		elements := make([]runtime.Value, 0, len(tail.Elements)+1)
		elements = append(elements, args[0])
		elements = append(elements, tail.Elements...)
		return runtime.NewList(elements), nil
	})
	r.register("List", "nil", 0, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		return runtime.NewList(nil), nil
	})
	r.register("List", "head", 1, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		l, err := asList(args[0], stack)
		if err != nil {
			return nil, err
		}
		if len(l.Elements) == 0 {
			return nil, runtime.NewTypeError(stack, "head: empty list")
		}
		return l.Elements[0], nil
	})
	r.register("List", "tail", 1, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		l, err := asList(args[0], stack)
		if err != nil {
			return nil, err
		}
		if len(l.Elements) == 0 {
			return nil, runtime.NewTypeError(stack, "tail: empty list")
		}
		return runtime.NewList(l.Elements[1:]), nil
	})
	r.register("List", "isEmpty", 1, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		l, err := asList(args[0], stack)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: len(l.Elements) == 0}, nil
	})
	r.register("List", "length", 1, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		l, err := asList(args[0], stack)
		if err != nil {
			return nil, err
		}
		return runtime.NewInt(int64(len(l.Elements))), nil
	})
	r.register("List", "reverse", 1, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		l, err := asList(args[0], stack)
		if err != nil {
			return nil, err
		}
		out := make([]runtime.Value, len(l.Elements))
		for i, v := range l.Elements {
			out[len(l.Elements)-1-i] = v
		}
		return runtime.NewList(out), nil
	})
	r.register("List", "append", 2, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		if as, ok := args[0].(runtime.StringValue); ok {
			bs, ok2 := args[1].(runtime.StringValue)
			if !ok2 {
				return nil, runtime.NewTypeError(stack, "++: expected String, got %s", args[1].Kind())
			}
			return runtime.StringValue{Val: as.Val + bs.Val}, nil
		}
		a, err := asList(args[0], stack)
		if err != nil {
			return nil, err
		}
		b, err := asList(args[1], stack)
		if err != nil {
			return nil, err
		}
		out := make([]runtime.Value, 0, len(a.Elements)+len(b.Elements))
		out = append(out, a.Elements...)
		out = append(out, b.Elements...)
		return runtime.NewList(out), nil
	})
	r.register("List", "member", 2, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		l, err := asList(args[1], stack)
		if err != nil {
			return nil, err
		}
		for _, v := range l.Elements {
			if runtime.ValuesEqual(args[0], v) {
				return runtime.BoolValue{Val: true}, nil
			}
		}
		return runtime.BoolValue{Val: false}, nil
	})
	r.register("List", "concat", 1, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		outer, err := asList(args[0], stack)
		if err != nil {
			return nil, err
		}
		var out []runtime.Value
		for _, v := range outer.Elements {
			inner, err := asList(v, stack)
			if err != nil {
				return nil, err
			}
			out = append(out, inner.Elements...)
		}
		return runtime.NewList(out), nil
	})

	// map, foldl, foldr and filter take a callback Value (a
	// PartiallyApplied) and must call back into the evaluator; the
	// registry cannot invoke surface-language functions itself (it has no
	// dependency on pkg/evaluator to avoid an import cycle), so these are
	// wired from pkg/evaluator as higher-order kernels instead — see
	// evaluator.NewKernelRegistry.
}

func asList(v runtime.Value, stack []runtime.Frame) (runtime.ListValue, *runtime.EvalError) {
	l, ok := v.(runtime.ListValue)
	if !ok {
		return runtime.ListValue{}, runtime.NewTypeError(stack, "expected List, got %s", v.Kind())
	}
	return l, nil
}
