package lexer

import (
	"testing"

	"github.com/wisplang/wisp/pkg/lexer/token"
)

func types(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func compareTypes(t *testing.T, got, want []token.Type) {
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestLexOperators(t *testing.T) {
	toks, err := Lex("+ - * // / == /= < <= > >= :: ++ && ||")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	compareTypes(t, types(toks), []token.Type{
		token.Plus, token.Minus, token.Star, token.SlashSlash, token.Slash,
		token.EqEq, token.SlashEq, token.Lt, token.LtEq, token.Gt, token.GtEq,
		token.ColonColon, token.PlusPlus, token.AndAnd, token.OrOr, token.EOF,
	})
}

func TestLexKeywordsAndIdents(t *testing.T) {
	toks, err := Lex("let x = case y of Just n -> n")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	compareTypes(t, types(toks), []token.Type{
		token.KwLet, token.LowerIdent, token.Equals, token.KwCase, token.LowerIdent,
		token.KwOf, token.UpperIdent, token.LowerIdent, token.Arrow, token.LowerIdent,
		token.EOF,
	})
}

func TestLexLiterals(t *testing.T) {
	toks, err := Lex(`42 3.14 'a' "hi\n" _`)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	compareTypes(t, types(toks), []token.Type{
		token.Int, token.Float, token.Char, token.String, token.Underscore, token.EOF,
	})
	if toks[3].Text != "hi\n" {
		t.Errorf("string literal: got %q, want %q", toks[3].Text, "hi\n")
	}
}

func TestLexComment(t *testing.T) {
	toks, err := Lex("1 -- trailing comment\n2")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	compareTypes(t, types(toks), []token.Type{token.Int, token.Int, token.EOF})
}

func TestLexModuleQualifier(t *testing.T) {
	toks, err := Lex("List.map")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	compareTypes(t, types(toks), []token.Type{token.UpperIdent, token.Dot, token.LowerIdent, token.EOF})
}

func TestLexErrorUnterminatedString(t *testing.T) {
	_, err := Lex(`"unterminated`)
	if err == nil {
		t.Fatal("expected an error for an unterminated string literal")
	}
}

func TestLexHexLiteral(t *testing.T) {
	toks, err := Lex("0xFF 0x0 0x1a2B")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	compareTypes(t, types(toks), []token.Type{token.Int, token.Int, token.Int, token.EOF})
	if toks[0].Text != "0xFF" {
		t.Errorf("hex literal text: got %q, want %q", toks[0].Text, "0xFF")
	}
}

func TestLexErrorBareHexPrefix(t *testing.T) {
	_, err := Lex("0x")
	if err == nil {
		t.Fatal("expected an error for a hex literal with no digits")
	}
}

func TestLexRange(t *testing.T) {
	toks, err := Lex("[1..5]")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	compareTypes(t, types(toks), []token.Type{
		token.LBracket, token.Int, token.DotDot, token.Int, token.RBracket, token.EOF,
	})
}
