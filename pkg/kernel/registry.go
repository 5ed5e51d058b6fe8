// Package kernel implements the primitive registry that bridges
// surface-language operators and library calls to host-language
// procedures: arithmetic, comparison, boolean, list, string, char, tuple
// and record-adjacent primitives, indexed by (module, name).
package kernel

import "github.com/wisplang/wisp/pkg/runtime"

// Func is a kernel primitive: a host procedure over the full argument
// vector. It records nothing in the call tree itself; when tracing, the
// evaluator attaches a single leaf CallNode at the call site instead.
type Func func(args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError)

// Entry pairs a kernel implementation with its declared arity. Arity 0
// behaves as a constant.
type Entry struct {
	Arity int
	Impl  Func
}

// Registry is the (module, name) -> Entry table.
type Registry struct {
	entries map[runtime.QualifiedName]Entry
}

// NewRegistry builds the registry with every built-in module wired in.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[runtime.QualifiedName]Entry)}
	registerBasics(r)
	registerList(r)
	registerString(r)
	registerChar(r)
	registerTuple(r)
	registerJsArray(r)
	registerDebug(r)
	return r
}

func (r *Registry) register(module, name string, arity int, impl Func) {
	r.entries[runtime.QualifiedName{Module: module, Name: name}] = Entry{Arity: arity, Impl: impl}
}

// Register adds or overrides a kernel entry. Exported so pkg/evaluator can
// wire higher-order list primitives (map, foldl, foldr, filter) that must
// call back into the evaluator to apply their callback argument — kernel
// itself has no dependency on the evaluator, to avoid an import cycle.
func (r *Registry) Register(module, name string, arity int, impl Func) {
	r.register(module, name, arity, impl)
}

// Lookup returns the entry registered for (module, name).
func (r *Registry) Lookup(module, name string) (Entry, bool) {
	e, ok := r.entries[runtime.QualifiedName{Module: module, Name: name}]
	return e, ok
}

// Call dispatches straight to a kernel implementation, wrapping an
// unregistered (module, name) as Unsupported rather than NameError: the
// kernel boundary is where a program can legitimately reach a primitive
// this evaluator never implemented.
func (r *Registry) Call(module, name string, args []runtime.Value, stack []runtime.Frame) (runtime.Value, *runtime.EvalError) {
	entry, ok := r.Lookup(module, name)
	if !ok {
		return nil, runtime.NewUnsupported(stack, "kernel function %s.%s is not implemented", module, name)
	}
	return entry.Impl(args, stack)
}
