package evaluator

// KernelPrefix marks a qualifier as addressing the kernel registry rather
// than a surface-language module, the analog of the source language's
// "Elm.Kernel.*" convention.
const KernelPrefix = "Kernel."

// ModuleAliases externalizes the fixed set of bare qualifiers that
// rewrite to a kernel module path before resolution, kept as its own
// table rather than hard-coded inline so new aliases are one-line
// additions.
var ModuleAliases = map[string]string{
	"JsArray": KernelPrefix + "JsArray",
}

// resolveModuleAlias applies ModuleAliases, returning the qualifier
// unchanged if it names no alias.
func resolveModuleAlias(module string) string {
	if aliased, ok := ModuleAliases[module]; ok {
		return aliased
	}
	return module
}
