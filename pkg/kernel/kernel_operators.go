package kernel

import "github.com/wisplang/wisp/pkg/runtime"

// OperatorTable maps an infix operator symbol to the kernel primitive it
// is rewritten into application of. && and || are not here: the evaluator
// handles them directly for short-circuiting.
var OperatorTable = map[string]runtime.QualifiedName{
	"+":  {Module: "Basics", Name: "add"},
	"-":  {Module: "Basics", Name: "sub"},
	"*":  {Module: "Basics", Name: "mul"},
	"//": {Module: "Basics", Name: "idiv"},
	"/":  {Module: "Basics", Name: "fdiv"},
	"==": {Module: "Basics", Name: "eq"},
	"/=": {Module: "Basics", Name: "neq"},
	"<":  {Module: "Basics", Name: "lt"},
	">":  {Module: "Basics", Name: "gt"},
	"<=": {Module: "Basics", Name: "le"},
	">=": {Module: "Basics", Name: "ge"},
	"::": {Module: "List", Name: "cons"},
	"++": {Module: "List", Name: "append"},
}
