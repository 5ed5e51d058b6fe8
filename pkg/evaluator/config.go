// Package evaluator implements the tree-walking core: pattern matching,
// name resolution, let blocks, case expressions, application with partial
// application and tail-call optimization, all driven by a trampoline that
// keeps a self-recursive tail call from growing the host stack.
package evaluator

import "github.com/wisplang/wisp/pkg/kernel"

// Config carries the evaluation-wide settings threaded through every
// Eval call: the kernel registry consulted for Elm.Kernel.*-style
// references, and whether call-tree tracing is enabled.
//
// Enabling Trace trades the trampoline's tail-call stack safety for a
// call tree: building a CallNode for a tail call requires keeping a live
// record of it until the final value is known, so under Trace every
// saturated application recurses on the host stack instead of looping.
// This only affects the traced path — see DESIGN.md.
type Config struct {
	Kernel *kernel.Registry
	Trace  bool
}

func NewConfig(reg *kernel.Registry) *Config {
	return &Config{Kernel: reg}
}
