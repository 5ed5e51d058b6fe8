// Package parser implements a hand-written recursive-descent, precedence-
// climbing parser over pkg/lexer's token stream, producing pkg/ast nodes.
package parser

import (
	"fmt"

	"github.com/wisplang/wisp/pkg/ast"
	"github.com/wisplang/wisp/pkg/lexer"
	"github.com/wisplang/wisp/pkg/lexer/token"
)

// Error is a parse failure at a specific token.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// Parser consumes a fixed token slice by index, never mutating it.
type Parser struct {
	tokens  []token.Token
	current int
}

// New builds a Parser over an already-lexed token stream.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseExpression lexes and parses a single standalone expression, the
// shape a REPL line or an `eval` entry expression takes.
func ParseExpression(source string) (ast.Expression, error) {
	toks, err := lexer.Lex(source)
	if err != nil {
		return nil, err
	}
	p := New(toks)
	expr, err := p.Expression()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, p.errf("unexpected trailing input %q", p.peek().Text)
	}
	return expr, nil
}

// ParseModule lexes and parses a full module source file.
func ParseModule(source string) (*ast.Module, error) {
	toks, err := lexer.Lex(source)
	if err != nil {
		return nil, err
	}
	p := New(toks)
	return p.Module()
}

func (p *Parser) peek() token.Token { return p.tokens[p.current] }

func (p *Parser) peekAt(offset int) token.Token {
	i := p.current + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) previous() token.Token { return p.tokens[p.current-1] }

func (p *Parser) atEOF() bool { return p.peek().Type == token.EOF }

func (p *Parser) advance() token.Token {
	if !p.atEOF() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(t token.Type) bool { return p.peek().Type == t }

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) expect(t token.Type, what string) (token.Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return token.Token{}, p.errf("expected %s, got %q", what, p.peek().Text)
}

func (p *Parser) errf(format string, args ...any) error {
	return &Error{Pos: p.peek().Pos, Msg: fmt.Sprintf(format, args...)}
}

func astPos(t token.Token) ast.Position {
	return posAt(t.Pos)
}

func posAt(pos token.Position) ast.Position {
	return ast.Position{Line: pos.Line, Column: pos.Column}
}
