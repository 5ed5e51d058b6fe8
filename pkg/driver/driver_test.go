package driver

import (
	"testing"

	"github.com/wisplang/wisp/pkg/runtime"
)

func mustInt(t *testing.T, v runtime.Value) int64 {
	t.Helper()
	iv, ok := v.(runtime.IntValue)
	if !ok {
		t.Fatalf("expected runtime.IntValue, got %T (%v)", v, v)
	}
	return iv.Val.Int64()
}

func TestEvalArithmetic(t *testing.T) {
	v, err := Eval("1 + 2 * 3")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got := mustInt(t, v); got != 7 {
		t.Errorf("got %d, want 7", got)
	}
}

func TestEvalLetAndCase(t *testing.T) {
	src := `let
  double x = x * 2
in
  case double 4 of
    8 -> "eight"
    _ -> "other"`
	v, err := Eval(src)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	sv, ok := v.(runtime.StringValue)
	if !ok {
		t.Fatalf("expected runtime.StringValue, got %T", v)
	}
	if sv.Val != "eight" {
		t.Errorf("got %q, want %q", sv.Val, "eight")
	}
}

func TestEvalUsesStdlib(t *testing.T) {
	v, err := Eval("List.length [1, 2, 3]")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got := mustInt(t, v); got != 3 {
		t.Errorf("got %d, want 3", got)
	}
}

func TestEvalNameError(t *testing.T) {
	_, err := Eval("undefinedThing 1")
	if err == nil {
		t.Fatal("expected an error for an undefined name")
	}
	if err.Eval == nil {
		t.Fatalf("expected an Eval error, got %+v", err)
	}
}

func TestEvalParseError(t *testing.T) {
	_, err := Eval("1 +")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if err.Parsing == nil {
		t.Fatalf("expected a Parsing error, got %+v", err)
	}
}

func TestEvalModule(t *testing.T) {
	src := `module Main exposing (compute)

compute n = n + 1
`
	v, err := EvalModule(src, runtime.QualifiedName{Module: "Main", Name: "compute"})
	if err != nil {
		t.Fatalf("EvalModule: %v", err)
	}
	fn, ok := v.(runtime.PartiallyAppliedValue)
	if !ok {
		t.Fatalf("expected a partially applied function value, got %T", v)
	}
	if len(fn.Params) != 1 {
		t.Errorf("expected 1 remaining param, got %d", len(fn.Params))
	}
}

func TestTraceRecordsCallTree(t *testing.T) {
	v, err, tree := Trace("1 + 2")
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if got := mustInt(t, v); got != 3 {
		t.Errorf("got %d, want 3", got)
	}
	if len(tree) == 0 {
		t.Error("expected a non-empty call tree when tracing is enabled")
	}
}
