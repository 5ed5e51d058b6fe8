package evaluator

import (
	"github.com/wisplang/wisp/pkg/kernel"
	"github.com/wisplang/wisp/pkg/runtime"
)

// registerHigherOrderListKernels wires List.map/filter/foldl/foldr into
// reg. These call back into a surface-language closure for every element,
// which is why they live here rather than in pkg/kernel: that package has
// no dependency on the evaluator, so it cannot apply a PartiallyApplied
// value itself.
func registerHigherOrderListKernels(reg *kernel.Registry) {
	reg.Register("List", "map", 2, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		l, err := asListArg(args[1], stack)
		if err != nil {
			return nil, err
		}
		out := make([]runtime.Value, len(l.Elements))
		for i, v := range l.Elements {
			r, err := ApplyValues(args[0], []runtime.Value{v}, reg, stack)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return runtime.NewList(out), nil
	})

	reg.Register("List", "filter", 2, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		l, err := asListArg(args[1], stack)
		if err != nil {
			return nil, err
		}
		var out []runtime.Value
		for _, v := range l.Elements {
			r, err := ApplyValues(args[0], []runtime.Value{v}, reg, stack)
			if err != nil {
				return nil, err
			}
			keep, ok := r.(runtime.BoolValue)
			if !ok {
				return nil, runtime.NewTypeError(stack, "filter: predicate returned %s, expected Bool", r.Kind())
			}
			if keep.Val {
				out = append(out, v)
			}
		}
		return runtime.NewList(out), nil
	})

	reg.Register("List", "foldl", 3, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		l, err := asListArg(args[2], stack)
		if err != nil {
			return nil, err
		}
		acc := args[1]
		for _, v := range l.Elements {
			acc, err = ApplyValues(args[0], []runtime.Value{v, acc}, reg, stack)
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	})

	reg.Register("List", "foldr", 3, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		l, err := asListArg(args[2], stack)
		if err != nil {
			return nil, err
		}
		acc := args[1]
		for i := len(l.Elements) - 1; i >= 0; i-- {
			acc, err = ApplyValues(args[0], []runtime.Value{l.Elements[i], acc}, reg, stack)
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	})
}

func asListArg(v runtime.Value, stack []runtime.Frame) (runtime.ListValue, *runtime.EvalError) {
	l, ok := v.(runtime.ListValue)
	if !ok {
		return runtime.ListValue{}, runtime.NewTypeError(stack, "expected List, got %s", v.Kind())
	}
	return l, nil
}
