package evaluator

import "github.com/wisplang/wisp/pkg/ast"

// wildcardParams synthesizes n anonymous parameter patterns for a
// PartiallyApplied value seeded straight from a kernel entry, which has
// no surface-language parameter patterns of its own.
func wildcardParams(pos ast.Position, n int) []ast.Pattern {
	params := make([]ast.Pattern, n)
	for i := range params {
		params[i] = ast.NewWildcardPattern(pos)
	}
	return params
}

// kernelRefExpr builds the body a kernel-seeded PartiallyApplied carries,
// recognized by the application logic's kernel fast path (a direct
// reference to Kernel.<module>.<name>).
func kernelRefExpr(pos ast.Position, kernelModule, name string) ast.Expression {
	return ast.NewIdentifier(pos, KernelPrefix+kernelModule, name)
}
