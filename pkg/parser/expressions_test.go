package parser

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/wisplang/wisp/pkg/ast"
)

// render turns an expression into a compact, position-free string so
// tests can assert shape without fighting line/column bookkeeping.
func render(e ast.Expression) string {
	switch n := e.(type) {
	case *ast.Identifier:
		if n.Module == "" {
			return n.Name
		}
		return n.Module + "." + n.Name
	case *ast.IntLiteral:
		return n.Value.String()
	case *ast.FloatLiteral:
		return fmt.Sprintf("%g", n.Value)
	case *ast.StringLiteral:
		return fmt.Sprintf("%q", n.Value)
	case *ast.CharLiteral:
		return fmt.Sprintf("%q", n.Value)
	case *ast.UnitLiteral:
		return "()"
	case *ast.Negation:
		return "(neg " + render(n.Operand) + ")"
	case *ast.BinaryOp:
		return fmt.Sprintf("(%s %s %s)", n.Op, render(n.Left), render(n.Right))
	case *ast.If:
		return fmt.Sprintf("(if %s %s %s)", render(n.Cond), render(n.Then), render(n.Else))
	case *ast.Application:
		var b strings.Builder
		b.WriteString("(")
		b.WriteString(render(n.Func))
		for _, a := range n.Args {
			b.WriteString(" ")
			b.WriteString(render(a))
		}
		b.WriteString(")")
		return b.String()
	case *ast.Lambda:
		var b strings.Builder
		b.WriteString("(\\")
		for i, p := range n.Params {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(renderPattern(p))
		}
		b.WriteString(" -> ")
		b.WriteString(render(n.Body))
		b.WriteString(")")
		return b.String()
	case *ast.Tuple:
		parts := make([]string, len(n.Elements))
		for i, el := range n.Elements {
			parts[i] = render(el)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.List:
		parts := make([]string, len(n.Elements))
		for i, el := range n.Elements {
			parts[i] = render(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ast.RecordAccess:
		return fmt.Sprintf("(. %s %s)", render(n.Target), n.Field)
	default:
		return fmt.Sprintf("<%T>", e)
	}
}

func renderPattern(p ast.Pattern) string {
	switch n := p.(type) {
	case *ast.VarPattern:
		return n.Name
	case *ast.WildcardPattern:
		return "_"
	default:
		return fmt.Sprintf("<%T>", p)
	}
}

func parseExpr(t *testing.T, input string) ast.Expression {
	t.Helper()
	e, err := ParseExpression(input)
	if err != nil {
		t.Fatalf("ParseExpression(%q): %v", input, err)
	}
	return e
}

func TestParseTopLevelExprShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ast.Expression
	}{
		{"plus", "1 + 3", (*ast.BinaryOp)(nil)},
		{"precedence", "1 + 2 * 3", (*ast.BinaryOp)(nil)},
		{"unary-", "-2", (*ast.Negation)(nil)},
		{"unary!", "!True", (*ast.Application)(nil)},
		{"if", "if x then 1 else 2", (*ast.If)(nil)},
		{"lambda", "\\x -> x + 1", (*ast.Lambda)(nil)},
		{"application", "f x y", (*ast.Application)(nil)},
		{"tuple", "(1, 2)", (*ast.Tuple)(nil)},
		{"list", "[1, 2, 3]", (*ast.List)(nil)},
		{"record-access", "point.x", (*ast.RecordAccess)(nil)},
		{"qualified", "List.map", (*ast.Identifier)(nil)},
		{"section", "(+)", (*ast.Lambda)(nil)},
		{"hex", "0xFF", (*ast.IntLiteral)(nil)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			e := parseExpr(t, test.input)
			if reflect.TypeOf(e) != reflect.TypeOf(test.want) {
				t.Fatalf("expected type %T, got %T", test.want, e)
			}
		})
	}
}

func TestParsePrecedence(t *testing.T) {
	e := parseExpr(t, "1 + 2 * 3")
	if got, want := render(e), "(+ 1 (* 2 3))"; got != want {
		t.Errorf("render: got %q, want %q", got, want)
	}
}

func TestParseConsAppendRightAssoc(t *testing.T) {
	e := parseExpr(t, "1 :: 2 :: xs")
	if got, want := render(e), "(:: 1 (:: 2 xs))"; got != want {
		t.Errorf("render: got %q, want %q", got, want)
	}
}

func TestParseComparisonAboveConcat(t *testing.T) {
	e := parseExpr(t, "a ++ b == c ++ d")
	if got, want := render(e), "(== (++ a b) (++ c d))"; got != want {
		t.Errorf("render: got %q, want %q", got, want)
	}
}

func TestParseOperatorSection(t *testing.T) {
	e := parseExpr(t, "(+)")
	lam, ok := e.(*ast.Lambda)
	if !ok {
		t.Fatalf("expected *ast.Lambda, got %T", e)
	}
	if len(lam.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(lam.Params))
	}
	body, ok := lam.Body.(*ast.BinaryOp)
	if !ok {
		t.Fatalf("expected *ast.BinaryOp body, got %T", lam.Body)
	}
	if body.Op != "+" {
		t.Errorf("op: got %q, want %q", body.Op, "+")
	}
}

func TestParseHexLiteralValue(t *testing.T) {
	e := parseExpr(t, "0xFF")
	lit, ok := e.(*ast.IntLiteral)
	if !ok {
		t.Fatalf("expected *ast.IntLiteral, got %T", e)
	}
	if lit.Value.Int64() != 255 {
		t.Errorf("value: got %s, want 255", lit.Value.String())
	}
}

func TestParseQualifiedName(t *testing.T) {
	e := parseExpr(t, "List.map")
	id, ok := e.(*ast.Identifier)
	if !ok {
		t.Fatalf("expected *ast.Identifier, got %T", e)
	}
	if id.Module != "List" || id.Name != "map" {
		t.Errorf("got Module=%q Name=%q, want Module=%q Name=%q", id.Module, id.Name, "List", "map")
	}
}

func TestParseRecordLiteralVsUpdate(t *testing.T) {
	lit := parseExpr(t, "{x = 1, y = 2}")
	if _, ok := lit.(*ast.Record); !ok {
		t.Fatalf("expected *ast.Record, got %T", lit)
	}
	upd := parseExpr(t, "{point | x = 3}")
	if _, ok := upd.(*ast.RecordUpdate); !ok {
		t.Fatalf("expected *ast.RecordUpdate, got %T", upd)
	}
}

func TestParseCaseExpr(t *testing.T) {
	src := `case xs of
  [] -> 0
  x :: rest -> x`
	e := parseExpr(t, src)
	c, ok := e.(*ast.Case)
	if !ok {
		t.Fatalf("expected *ast.Case, got %T", e)
	}
	if len(c.Branches) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(c.Branches))
	}
}

func TestParseLetMultipleBindings(t *testing.T) {
	src := `let
  a = 1
  b = 2
in
  a + b`
	e := parseExpr(t, src)
	l, ok := e.(*ast.Let)
	if !ok {
		t.Fatalf("expected *ast.Let, got %T", e)
	}
	if len(l.Decls) != 2 {
		t.Fatalf("expected 2 decls, got %d", len(l.Decls))
	}
}

func TestParseNoCrossLineApplicationArgument(t *testing.T) {
	src := `let
  a = f x
  b = 2
in
  a + b`
	e := parseExpr(t, src)
	l, ok := e.(*ast.Let)
	if !ok {
		t.Fatalf("expected *ast.Let, got %T", e)
	}
	if len(l.Decls) != 2 {
		t.Fatalf("expected the second binding to start a new let decl rather than become an argument to f, got %d decls", len(l.Decls))
	}
	first, ok := l.Decls[0].(*ast.LetFunctionDecl)
	if !ok {
		t.Fatalf("expected first decl to be *ast.LetFunctionDecl, got %T", l.Decls[0])
	}
	app, ok := first.Body.(*ast.Application)
	if !ok {
		t.Fatalf("expected first decl body to be *ast.Application, got %T", first.Body)
	}
	if len(app.Args) != 1 {
		t.Fatalf("expected application to stop before the next binding, got %d args", len(app.Args))
	}
}
