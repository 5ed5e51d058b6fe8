package parser

import (
	"github.com/wisplang/wisp/pkg/ast"
	"github.com/wisplang/wisp/pkg/lexer/token"
)

// Module parses a full source file:
//
//	module    := "module" moduleName "exposing" exposingList importDecl* topLevelDecl*
//	moduleName := UpperIdent ("." UpperIdent)*
func (p *Parser) Module() (*ast.Module, error) {
	kw, err := p.expect(token.KwModule, "'module'")
	if err != nil {
		return nil, err
	}
	name, err := p.moduleName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwExposing, "'exposing'"); err != nil {
		return nil, err
	}
	exposing, err := p.exposingList()
	if err != nil {
		return nil, err
	}

	var imports []*ast.Import
	for p.check(token.KwImport) {
		imp, err := p.importDecl()
		if err != nil {
			return nil, err
		}
		imports = append(imports, imp)
	}

	var decls []*ast.FunctionDecl
	for !p.atEOF() {
		d, err := p.topLevelDecl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}

	return ast.NewModule(astPos(kw), name, exposing, imports, decls), nil
}

func (p *Parser) moduleName() (string, error) {
	first, err := p.expect(token.UpperIdent, "a module name")
	if err != nil {
		return "", err
	}
	name := first.Text
	for p.check(token.Dot) && p.peekAt(1).Type == token.UpperIdent {
		p.advance()
		name += "." + p.advance().Text
	}
	return name, nil
}

// exposingList parses "(..)" (exposing everything, represented as the
// single sentinel element "..") or "(name, name, ...)".
func (p *Parser) exposingList() ([]string, error) {
	if _, err := p.expect(token.LParen, "'('"); err != nil {
		return nil, err
	}
	if p.match(token.DotDot) {
		if _, err := p.expect(token.RParen, "')'"); err != nil {
			return nil, err
		}
		return []string{".."}, nil
	}
	var names []string
	for {
		tok := p.peek()
		if tok.Type != token.LowerIdent && tok.Type != token.UpperIdent {
			return nil, p.errf("expected a name in exposing list, got %q", tok.Text)
		}
		names = append(names, p.advance().Text)
		if !p.match(token.Comma) {
			break
		}
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return nil, err
	}
	return names, nil
}

// importDecl parses "import Module.Path (as Alias)? (exposing (...))?".
func (p *Parser) importDecl() (*ast.Import, error) {
	kw := p.advance()
	name, err := p.moduleName()
	if err != nil {
		return nil, err
	}
	alias := ""
	if p.match(token.KwAs) {
		aliasTok, err := p.expect(token.UpperIdent, "an alias after 'as'")
		if err != nil {
			return nil, err
		}
		alias = aliasTok.Text
	}
	var exposing []string
	if p.match(token.KwExposing) {
		exposing, err = p.exposingList()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewImport(astPos(kw), name, alias, exposing), nil
}

// topLevelDecl parses "name pattern* = expr", a module-level function
// declaration (zero parameters makes it a CAF).
func (p *Parser) topLevelDecl() (*ast.FunctionDecl, error) {
	name, err := p.expect(token.LowerIdent, "a top-level declaration name")
	if err != nil {
		return nil, err
	}
	var params []ast.Pattern
	for p.startsPrimaryPattern() {
		param, err := p.primaryPattern()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	if _, err := p.expect(token.Equals, "'='"); err != nil {
		return nil, err
	}
	body, err := p.Expression()
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionDecl(astPos(name), name.Text, params, body), nil
}
