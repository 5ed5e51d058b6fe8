package runtime

import (
	"math/big"

	"github.com/wisplang/wisp/pkg/ast"
)

// Kind identifies the runtime category of a Value.
type Kind int

const (
	KindUnit Kind = iota
	KindBool
	KindInt
	KindFloat
	KindChar
	KindString
	KindList
	KindTuple
	KindTriple
	KindRecord
	KindCustom
	KindPartiallyApplied
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "Unit"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindChar:
		return "Char"
	case KindString:
		return "String"
	case KindList:
		return "List"
	case KindTuple:
		return "Tuple"
	case KindTriple:
		return "Triple"
	case KindRecord:
		return "Record"
	case KindCustom:
		return "Custom"
	case KindPartiallyApplied:
		return "PartiallyApplied"
	default:
		return "Unknown"
	}
}

// Value is the universe of runtime values a Wisp program can produce.
type Value interface {
	Kind() Kind
}

type UnitValue struct{}

func (UnitValue) Kind() Kind { return KindUnit }

type BoolValue struct{ Val bool }

func (BoolValue) Kind() Kind { return KindBool }

// IntValue holds an arbitrary-precision integer: Wisp's Int has no
// overflow.
type IntValue struct{ Val *big.Int }

func (IntValue) Kind() Kind { return KindInt }

func NewInt(i int64) IntValue { return IntValue{Val: big.NewInt(i)} }

type FloatValue struct{ Val float64 }

func (FloatValue) Kind() Kind { return KindFloat }

type CharValue struct{ Val rune }

func (CharValue) Kind() Kind { return KindChar }

type StringValue struct{ Val string }

func (StringValue) Kind() Kind { return KindString }

// ListValue is an immutable ordered sequence. Construction always copies
// the backing slice so that a shared Env never observes a mutation.
type ListValue struct{ Elements []Value }

func (ListValue) Kind() Kind { return KindList }

func NewList(elements []Value) ListValue {
	copied := make([]Value, len(elements))
	copy(copied, elements)
	return ListValue{Elements: copied}
}

type TupleValue struct{ First, Second Value }

func (TupleValue) Kind() Kind { return KindTuple }

type TripleValue struct{ First, Second, Third Value }

func (TripleValue) Kind() Kind { return KindTriple }

// RecordValue maps field names to values. The field set is fixed once
// created; RecordUpdate produces a new RecordValue rather than mutating.
type RecordValue struct{ Fields map[string]Value }

func (RecordValue) Kind() Kind { return KindRecord }

func NewRecord(fields map[string]Value) RecordValue {
	copied := make(map[string]Value, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return RecordValue{Fields: copied}
}

// WithFields returns a new RecordValue equal to r but with each field in
// overrides replacing the corresponding original field.
func (r RecordValue) WithFields(overrides map[string]Value) RecordValue {
	merged := make(map[string]Value, len(r.Fields)+len(overrides))
	for k, v := range r.Fields {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return RecordValue{Fields: merged}
}

// CustomValue is every non-builtin variant, including user types and the
// standard library's Maybe/Result. Bool's True/False are never represented
// this way.
type CustomValue struct {
	Module string
	Name   string
	Args   []Value
}

func (CustomValue) Kind() Kind { return KindCustom }

// PartiallyAppliedValue represents both closures and under-saturated named
// function references. QualifiedName is non-empty only when this value was
// seeded from a named module-level or let-bound function (so the evaluator
// can attribute a call-stack frame and a CallNode to it); it is empty for
// a plain lambda.
type PartiallyAppliedValue struct {
	Env             *Env
	AccumulatedArgs []Value
	Params          []ast.Pattern
	QualifiedName   *QualifiedName
	Body            ast.Expression
}

func (PartiallyAppliedValue) Kind() Kind { return KindPartiallyApplied }

// QualifiedName identifies a function or variant by its defining module
// and local name.
type QualifiedName struct {
	Module string
	Name   string
}
