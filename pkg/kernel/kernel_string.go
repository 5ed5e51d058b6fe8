package kernel

import (
	"strings"

	"github.com/wisplang/wisp/pkg/runtime"
)

func registerString(r *Registry) {
	r.register("String", "length", 1, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		s, err := asString(args[0], stack)
		if err != nil {
			return nil, err
		}
		return runtime.NewInt(int64(len([]rune(s)))), nil
	})
	r.register("String", "toUpper", 1, stringMap(strings.ToUpper))
	r.register("String", "toLower", 1, stringMap(strings.ToLower))
	r.register("String", "trim", 1, stringMap(strings.TrimSpace))
	r.register("String", "fromList", 1, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		l, err := asList(args[0], stack)
		if err != nil {
			return nil, err
		}
		var b strings.Builder
		for _, v := range l.Elements {
			c, ok := v.(runtime.CharValue)
			if !ok {
				return nil, runtime.NewTypeError(stack, "fromList: expected List of Char, got element of kind %s", v.Kind())
			}
			b.WriteRune(c.Val)
		}
		return runtime.StringValue{Val: b.String()}, nil
	})
	r.register("String", "toList", 1, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		s, err := asString(args[0], stack)
		if err != nil {
			return nil, err
		}
		runes := []rune(s)
		out := make([]runtime.Value, len(runes))
		for i, c := range runes {
			out[i] = runtime.CharValue{Val: c}
		}
		return runtime.NewList(out), nil
	})
	r.register("String", "split", 2, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		sep, err := asString(args[0], stack)
		if err != nil {
			return nil, err
		}
		s, err := asString(args[1], stack)
		if err != nil {
			return nil, err
		}
		parts := strings.Split(s, sep)
		out := make([]runtime.Value, len(parts))
		for i, p := range parts {
			out[i] = runtime.StringValue{Val: p}
		}
		return runtime.NewList(out), nil
	})
	r.register("String", "join", 2, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		sep, err := asString(args[0], stack)
		if err != nil {
			return nil, err
		}
		l, err := asList(args[1], stack)
		if err != nil {
			return nil, err
		}
		parts := make([]string, len(l.Elements))
		for i, v := range l.Elements {
			sv, ok := v.(runtime.StringValue)
			if !ok {
				return nil, runtime.NewTypeError(stack, "join: expected List of String, got element of kind %s", v.Kind())
			}
			parts[i] = sv.Val
		}
		return runtime.StringValue{Val: strings.Join(parts, sep)}, nil
	})
	r.register("String", "contains", 2, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		needle, err := asString(args[0], stack)
		if err != nil {
			return nil, err
		}
		hay, err := asString(args[1], stack)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: strings.Contains(hay, needle)}, nil
	})
	r.register("String", "append", 2, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		a, err := asString(args[0], stack)
		if err != nil {
			return nil, err
		}
		b, err := asString(args[1], stack)
		if err != nil {
			return nil, err
		}
		return runtime.StringValue{Val: a + b}, nil
	})
	r.register("String", "fromInt", 1, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		i, ok := args[0].(runtime.IntValue)
		if !ok {
			return nil, runtime.NewTypeError(stack, "fromInt: expected Int, got %s", args[0].Kind())
		}
		return runtime.StringValue{Val: i.Val.String()}, nil
	})
}

func stringMap(f func(string) string) Func {
	return func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		s, err := asString(args[0], stack)
		if err != nil {
			return nil, err
		}
		return runtime.StringValue{Val: f(s)}, nil
	}
}

func asString(v runtime.Value, stack []runtime.Frame) (string, *runtime.EvalError) {
	s, ok := v.(runtime.StringValue)
	if !ok {
		return "", runtime.NewTypeError(stack, "expected String, got %s", v.Kind())
	}
	return s.Val, nil
}
