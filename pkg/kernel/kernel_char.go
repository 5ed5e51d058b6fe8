package kernel

import (
	"unicode"

	"github.com/wisplang/wisp/pkg/runtime"
)

func registerChar(r *Registry) {
	r.register("Char", "toUpper", 1, charMap(unicode.ToUpper))
	r.register("Char", "toLower", 1, charMap(unicode.ToLower))
	r.register("Char", "toCode", 1, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		c, ok := args[0].(runtime.CharValue)
		if !ok {
			return nil, runtime.NewTypeError(stack, "toCode: expected Char, got %s", args[0].Kind())
		}
		return runtime.NewInt(int64(c.Val)), nil
	})
	r.register("Char", "fromCode", 1, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		i, ok := args[0].(runtime.IntValue)
		if !ok {
			return nil, runtime.NewTypeError(stack, "fromCode: expected Int, got %s", args[0].Kind())
		}
		return runtime.CharValue{Val: rune(i.Val.Int64())}, nil
	})
	r.register("Char", "isUpper", 1, charPredicate(unicode.IsUpper))
	r.register("Char", "isLower", 1, charPredicate(unicode.IsLower))
	r.register("Char", "isDigit", 1, charPredicate(unicode.IsDigit))
	r.register("Char", "isAlpha", 1, charPredicate(unicode.IsLetter))
}

func charMap(f func(rune) rune) Func {
	return func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		c, ok := args[0].(runtime.CharValue)
		if !ok {
			return nil, runtime.NewTypeError(stack, "expected Char, got %s", args[0].Kind())
		}
		return runtime.CharValue{Val: f(c.Val)}, nil
	}
}

func charPredicate(f func(rune) bool) Func {
	return func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		c, ok := args[0].(runtime.CharValue)
		if !ok {
			return nil, runtime.NewTypeError(stack, "expected Char, got %s", args[0].Kind())
		}
		return runtime.BoolValue{Val: f(c.Val)}, nil
	}
}
