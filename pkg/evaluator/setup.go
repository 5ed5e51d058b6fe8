package evaluator

import "github.com/wisplang/wisp/pkg/kernel"

// NewKernelRegistry builds the full kernel registry, including the
// higher-order list primitives that must be wired from this package to
// avoid an import cycle (see higher_order.go). Callers should use this
// instead of kernel.NewRegistry directly.
func NewKernelRegistry() *kernel.Registry {
	reg := kernel.NewRegistry()
	registerHigherOrderListKernels(reg)
	return reg
}
