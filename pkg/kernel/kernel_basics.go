package kernel

import (
	"math/big"

	"github.com/wisplang/wisp/pkg/runtime"
)

func registerBasics(r *Registry) {
	r.register("Basics", "add", 2, arith(func(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) }, func(a, b float64) float64 { return a + b }))
	r.register("Basics", "sub", 2, arith(func(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) }, func(a, b float64) float64 { return a - b }))
	r.register("Basics", "mul", 2, arith(func(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) }, func(a, b float64) float64 { return a * b }))
	r.register("Basics", "idiv", 2, intArith(func(a, b *big.Int) (*big.Int, bool) {
		if b.Sign() == 0 {
			return nil, false
		}
		return new(big.Int).Quo(a, b), true
	}))
	r.register("Basics", "fdiv", 2, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		a, b, err := asFloats(args, stack)
		if err != nil {
			return nil, err
		}
		return runtime.FloatValue{Val: a / b}, nil
	})
	r.register("Basics", "negate", 1, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		switch v := args[0].(type) {
		case runtime.IntValue:
			return runtime.IntValue{Val: new(big.Int).Neg(v.Val)}, nil
		case runtime.FloatValue:
			return runtime.FloatValue{Val: -v.Val}, nil
		default:
			return nil, runtime.NewTypeError(stack, "negate: expected Int or Float, got %s", args[0].Kind())
		}
	})

	r.register("Basics", "eq", 2, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		return runtime.BoolValue{Val: runtime.ValuesEqual(args[0], args[1])}, nil
	})
	r.register("Basics", "neq", 2, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		return runtime.BoolValue{Val: !runtime.ValuesEqual(args[0], args[1])}, nil
	})
	r.register("Basics", "lt", 2, cmp(stack2(-1)))
	r.register("Basics", "gt", 2, cmp(stack2(1)))
	r.register("Basics", "le", 2, cmp(stack2(-1, 0)))
	r.register("Basics", "ge", 2, cmp(stack2(0, 1)))

	r.register("Basics", "not", 1, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		b, ok := args[0].(runtime.BoolValue)
		if !ok {
			return nil, runtime.NewTypeError(stack, "not: expected Bool, got %s", args[0].Kind())
		}
		return runtime.BoolValue{Val: !b.Val}, nil
	})
	r.register("Basics", "and", 2, boolOp(func(a, b bool) bool { return a && b }))
	r.register("Basics", "or", 2, boolOp(func(a, b bool) bool { return a || b }))

	r.register("Basics", "toFloat", 1, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		i, ok := args[0].(runtime.IntValue)
		if !ok {
			return nil, runtime.NewTypeError(stack, "toFloat: expected Int, got %s", args[0].Kind())
		}
		f := new(big.Float).SetInt(i.Val)
		out, _ := f.Float64()
		return runtime.FloatValue{Val: out}, nil
	})
}

func stack2(vals ...int) map[int]bool {
	m := make(map[int]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	return m
}

func cmp(accept map[int]bool) Func {
	return func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		c, err := compareValues(args[0], args[1], stack)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: accept[c]}, nil
	}
}

func compareValues(a, b runtime.Value, stack []runtime.Frame) (int, *runtime.EvalError) {
	switch av := a.(type) {
	case runtime.IntValue:
		bv, ok := b.(runtime.IntValue)
		if !ok {
			return 0, runtime.NewTypeError(stack, "cannot compare Int with %s", b.Kind())
		}
		return av.Val.Cmp(bv.Val), nil
	case runtime.FloatValue:
		bv, ok := b.(runtime.FloatValue)
		if !ok {
			return 0, runtime.NewTypeError(stack, "cannot compare Float with %s", b.Kind())
		}
		switch {
		case av.Val < bv.Val:
			return -1, nil
		case av.Val > bv.Val:
			return 1, nil
		default:
			return 0, nil
		}
	case runtime.CharValue:
		bv, ok := b.(runtime.CharValue)
		if !ok {
			return 0, runtime.NewTypeError(stack, "cannot compare Char with %s", b.Kind())
		}
		switch {
		case av.Val < bv.Val:
			return -1, nil
		case av.Val > bv.Val:
			return 1, nil
		default:
			return 0, nil
		}
	case runtime.StringValue:
		bv, ok := b.(runtime.StringValue)
		if !ok {
			return 0, runtime.NewTypeError(stack, "cannot compare String with %s", b.Kind())
		}
		switch {
		case av.Val < bv.Val:
			return -1, nil
		case av.Val > bv.Val:
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, runtime.NewTypeError(stack, "values of kind %s are not ordered", a.Kind())
	}
}

func boolOp(f func(a, b bool) bool) Func {
	return func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		a, ok := args[0].(runtime.BoolValue)
		b, ok2 := args[1].(runtime.BoolValue)
		if !ok || !ok2 {
			return nil, runtime.NewTypeError(stack, "expected two Bool values")
		}
		return runtime.BoolValue{Val: f(a.Val, b.Val)}, nil
	}
}

func arith(intOp func(a, b *big.Int) *big.Int, floatOp func(a, b float64) float64) Func {
	return func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		switch a := args[0].(type) {
		case runtime.IntValue:
			b, ok := args[1].(runtime.IntValue)
			if !ok {
				return nil, runtime.NewTypeError(stack, "expected Int, got %s", args[1].Kind())
			}
			return runtime.IntValue{Val: intOp(a.Val, b.Val)}, nil
		case runtime.FloatValue:
			b, ok := args[1].(runtime.FloatValue)
			if !ok {
				return nil, runtime.NewTypeError(stack, "expected Float, got %s", args[1].Kind())
			}
			return runtime.FloatValue{Val: floatOp(a.Val, b.Val)}, nil
		default:
			return nil, runtime.NewTypeError(stack, "expected Int or Float, got %s", args[0].Kind())
		}
	}
}

func intArith(op func(a, b *big.Int) (*big.Int, bool)) Func {
	return func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		a, ok := args[0].(runtime.IntValue)
		b, ok2 := args[1].(runtime.IntValue)
		if !ok || !ok2 {
			return nil, runtime.NewTypeError(stack, "expected two Int values")
		}
		out, valid := op(a.Val, b.Val)
		if !valid {
			return nil, runtime.NewTypeError(stack, "division by zero")
		}
		return runtime.IntValue{Val: out}, nil
	}
}

func asFloats(args []runtime.Value, stack []runtime.Frame) (float64, float64, *runtime.EvalError) {
	a, ok := args[0].(runtime.FloatValue)
	b, ok2 := args[1].(runtime.FloatValue)
	if !ok || !ok2 {
		return 0, 0, runtime.NewTypeError(stack, "expected two Float values")
	}
	return a.Val, b.Val, nil
}
