package parser

import (
	"math/big"

	"github.com/wisplang/wisp/pkg/ast"
	"github.com/wisplang/wisp/pkg/lexer/token"
)

// Pattern parses a full pattern: asPattern | consPattern.
//
//	pattern     := consPattern ("as" lowerIdent)?
//	consPattern := appPattern ("::" consPattern)?      (right-assoc)
//	appPattern  := UpperIdent primaryPattern*  |  primaryPattern
func (p *Parser) Pattern() (ast.Pattern, error) {
	pat, err := p.consPattern()
	if err != nil {
		return nil, err
	}
	if p.match(token.KwAs) {
		name, err := p.expect(token.LowerIdent, "a name after 'as'")
		if err != nil {
			return nil, err
		}
		return ast.NewAsPattern(astPos(name), name.Text, pat), nil
	}
	return pat, nil
}

func (p *Parser) consPattern() (ast.Pattern, error) {
	pos := p.peek().Pos
	head, err := p.appPattern()
	if err != nil {
		return nil, err
	}
	if p.match(token.ColonColon) {
		tail, err := p.consPattern()
		if err != nil {
			return nil, err
		}
		return ast.NewConsPattern(posAt(pos), head, tail), nil
	}
	return head, nil
}

func (p *Parser) appPattern() (ast.Pattern, error) {
	if p.check(token.UpperIdent) {
		ctor := p.advance()
		module, name := "", ctor.Text
		if p.check(token.Dot) && p.peekAt(1).Type == token.UpperIdent {
			p.advance()
			module = name
			name = p.advance().Text
		}
		var args []ast.Pattern
		for p.startsPrimaryPattern() {
			arg, err := p.primaryPattern()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return ast.NewCtorPattern(astPos(ctor), module, name, args), nil
	}
	return p.primaryPattern()
}

func (p *Parser) startsPrimaryPattern() bool {
	switch p.peek().Type {
	case token.Underscore, token.LParen, token.LBracket, token.LBrace,
		token.LowerIdent, token.Int, token.Float, token.Char, token.String, token.UpperIdent:
		return true
	case token.Minus:
		return p.peekAt(1).Type == token.Int || p.peekAt(1).Type == token.Float
	default:
		return false
	}
}

func (p *Parser) primaryPattern() (ast.Pattern, error) {
	tok := p.peek()
	switch tok.Type {
	case token.Underscore:
		p.advance()
		return ast.NewWildcardPattern(astPos(tok)), nil
	case token.LowerIdent:
		p.advance()
		return ast.NewVarPattern(astPos(tok), tok.Text), nil
	case token.UpperIdent:
		p.advance()
		module, name := "", tok.Text
		if p.check(token.Dot) && p.peekAt(1).Type == token.UpperIdent {
			p.advance()
			module = name
			name = p.advance().Text
		}
		return ast.NewCtorPattern(astPos(tok), module, name, nil), nil
	case token.Int, token.Float, token.Char, token.String:
		lit, err := p.literalExpression()
		if err != nil {
			return nil, err
		}
		return ast.NewLiteralPattern(astPos(tok), lit), nil
	case token.Minus:
		p.advance()
		lit, err := p.literalExpression()
		if err != nil {
			return nil, err
		}
		neg, err := negateLiteral(astPos(tok), lit)
		if err != nil {
			return nil, err
		}
		return ast.NewLiteralPattern(astPos(tok), neg), nil
	case token.LBracket:
		return p.listPattern()
	case token.LBrace:
		return p.recordPattern()
	case token.LParen:
		return p.parenPattern()
	default:
		return nil, p.errf("expected a pattern, got %q", tok.Text)
	}
}

func negateLiteral(pos ast.Position, lit ast.Expression) (ast.Expression, error) {
	switch l := lit.(type) {
	case *ast.IntLiteral:
		return ast.NewIntLiteral(pos, new(big.Int).Neg(l.Value)), nil
	case *ast.FloatLiteral:
		return ast.NewFloatLiteral(pos, -l.Value), nil
	default:
		return nil, &Error{Pos: token.Position{Line: pos.Line, Column: pos.Column}, Msg: "only int and float literals may be negated in a pattern"}
	}
}

func (p *Parser) listPattern() (ast.Pattern, error) {
	open := p.advance()
	var elems []ast.Pattern
	if !p.check(token.RBracket) {
		for {
			el, err := p.Pattern()
			if err != nil {
				return nil, err
			}
			elems = append(elems, el)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.expect(token.RBracket, "']'"); err != nil {
		return nil, err
	}
	return ast.NewListPattern(astPos(open), elems), nil
}

func (p *Parser) recordPattern() (ast.Pattern, error) {
	open := p.advance()
	var fields []ast.RecordFieldPattern
	if !p.check(token.RBrace) {
		for {
			name, err := p.expect(token.LowerIdent, "a field name")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.Equals, "'='"); err != nil {
				return nil, err
			}
			fieldPat, err := p.Pattern()
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.RecordFieldPattern{Name: name.Text, Pattern: fieldPat})
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.expect(token.RBrace, "'}'"); err != nil {
		return nil, err
	}
	return ast.NewRecordPattern(astPos(open), fields), nil
}

func (p *Parser) parenPattern() (ast.Pattern, error) {
	open := p.advance()
	if p.match(token.RParen) {
		return ast.NewUnitPattern(astPos(open)), nil
	}
	first, err := p.Pattern()
	if err != nil {
		return nil, err
	}
	if !p.check(token.Comma) {
		if _, err := p.expect(token.RParen, "')'"); err != nil {
			return nil, err
		}
		return first, nil
	}
	elems := []ast.Pattern{first}
	for p.match(token.Comma) {
		el, err := p.Pattern()
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return nil, err
	}
	if len(elems) > 3 {
		return nil, p.errf("a tuple pattern supports at most 3 elements, got %d", len(elems))
	}
	return ast.NewTuplePattern(astPos(open), elems), nil
}
