package kernel

import (
	"fmt"
	"os"

	"github.com/wisplang/wisp/pkg/runtime"
)

func registerDebug(r *Registry) {
	r.register("Debug", "log", 2, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		label, ok := args[0].(runtime.StringValue)
		if !ok {
			return nil, runtime.NewTypeError(stack, "Debug.log: expected String label, got %s", args[0].Kind())
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", label.Val, args[1])
		return args[1], nil
	})
	r.register("Debug", "todo", 1, func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
		msg, _ := args[0].(runtime.StringValue)
		return nil, runtime.NewUnsupported(stack, "Debug.todo: %s", msg.Val)
	})
}
