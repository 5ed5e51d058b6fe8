package parser

import (
	"math/big"
	"strconv"

	"github.com/wisplang/wisp/pkg/ast"
	"github.com/wisplang/wisp/pkg/lexer/token"
)

// Expression parses a full expression at the lowest precedence: one of the
// prefix forms (if/let/case/lambda) or the binary-operator chain bottoming
// out at application and primary expressions.
//
//	expr := ifExpr | letExpr | caseExpr | lambdaExpr | orExpr
func (p *Parser) Expression() (ast.Expression, error) {
	switch p.peek().Type {
	case token.KwIf:
		return p.ifExpr()
	case token.KwLet:
		return p.letExpr()
	case token.KwCase:
		return p.caseExpr()
	case token.Backslash:
		return p.lambdaExpr()
	default:
		return p.orExpr()
	}
}

func (p *Parser) ifExpr() (ast.Expression, error) {
	kw := p.advance()
	cond, err := p.Expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwThen, "'then'"); err != nil {
		return nil, err
	}
	then, err := p.Expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwElse, "'else'"); err != nil {
		return nil, err
	}
	els, err := p.Expression()
	if err != nil {
		return nil, err
	}
	return ast.NewIf(astPos(kw), cond, then, els), nil
}

func (p *Parser) lambdaExpr() (ast.Expression, error) {
	kw := p.advance()
	var params []ast.Pattern
	for p.startsPrimaryPattern() {
		param, err := p.primaryPattern()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	if len(params) == 0 {
		return nil, p.errf("a lambda needs at least one parameter")
	}
	if _, err := p.expect(token.Arrow, "'->'"); err != nil {
		return nil, err
	}
	body, err := p.Expression()
	if err != nil {
		return nil, err
	}
	return ast.NewLambda(astPos(kw), params, body), nil
}

// letExpr parses `let <decl> (<decl>)* in <expr>`. Successive declarations
// after the first must start on a new source line: there is no layout
// tracking to otherwise tell "another declaration" from "the previous
// declaration's body spilling onto the next line".
func (p *Parser) letExpr() (ast.Expression, error) {
	kw := p.advance()
	first, err := p.letDeclaration()
	if err != nil {
		return nil, err
	}
	decls := []ast.Declaration{first}
	for !p.check(token.KwIn) && p.startsNewLetDecl() {
		mark := p.current
		d, err := p.letDeclaration()
		if err != nil {
			p.current = mark
			break
		}
		decls = append(decls, d)
	}
	if _, err := p.expect(token.KwIn, "'in'"); err != nil {
		return nil, err
	}
	body, err := p.Expression()
	if err != nil {
		return nil, err
	}
	return ast.NewLet(astPos(kw), decls, body), nil
}

// startsNewLetDecl reports whether the upcoming tokens sit on a later
// source line than the token just consumed, and look like the start of a
// binding (a pattern followed eventually by '=').
func (p *Parser) startsNewLetDecl() bool {
	if p.peek().Pos.Line <= p.previous().Pos.Line {
		return false
	}
	return p.startsPrimaryPattern()
}

// letDeclaration parses one let-block binding. A bare lower identifier
// followed by zero or more patterns before '=' is a LetFunctionDecl (a
// zero-parameter one is a lazily bound constant); any other pattern shape
// is a LetDestructureDecl.
func (p *Parser) letDeclaration() (ast.Declaration, error) {
	pos := p.peek().Pos
	if p.check(token.LowerIdent) {
		name := p.advance()
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
		return ast.NewLetFunctionDecl(posAt(pos), name.Text, params, body), nil
	}
	pat, err := p.Pattern()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Equals, "'='"); err != nil {
		return nil, err
	}
	value, err := p.Expression()
	if err != nil {
		return nil, err
	}
	return ast.NewLetDestructureDecl(posAt(pos), pat, value), nil
}

// caseExpr parses `case <expr> of <branch> (<branch>)*`. Every branch after
// the first must start on a new source line, for the same reason letExpr's
// declarations must.
func (p *Parser) caseExpr() (ast.Expression, error) {
	kw := p.advance()
	scrutinee, err := p.Expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwOf, "'of'"); err != nil {
		return nil, err
	}
	first, err := p.caseBranch()
	if err != nil {
		return nil, err
	}
	branches := []ast.CaseBranch{first}
	for p.startsNewCaseBranch() {
		mark := p.current
		b, err := p.caseBranch()
		if err != nil {
			p.current = mark
			break
		}
		branches = append(branches, b)
	}
	return ast.NewCase(astPos(kw), scrutinee, branches), nil
}

func (p *Parser) startsNewCaseBranch() bool {
	if p.peek().Pos.Line <= p.previous().Pos.Line {
		return false
	}
	return p.startsPrimaryPattern()
}

func (p *Parser) caseBranch() (ast.CaseBranch, error) {
	pat, err := p.Pattern()
	if err != nil {
		return ast.CaseBranch{}, err
	}
	if _, err := p.expect(token.Arrow, "'->'"); err != nil {
		return ast.CaseBranch{}, err
	}
	body, err := p.branchBody()
	if err != nil {
		return ast.CaseBranch{}, err
	}
	return ast.CaseBranch{Pattern: pat, Body: body}, nil
}

// branchBody parses a case branch's body expression. It delegates to
// Expression, but a plain operator/application expression may not swallow
// tokens belonging to the next branch, which applicationExpr's same-line
// restriction on argument juxtaposition already guarantees; prefix forms
// (if/let/case/lambda) run their own explicit terminators and need no
// extra care here.
func (p *Parser) branchBody() (ast.Expression, error) {
	return p.Expression()
}

// orExpr .. multiplicativeExpr form the binary operator precedence chain,
// lowest to highest: || , && , comparisons, (:: ++) right-assoc, (+ -),
// (* // /).
func (p *Parser) orExpr() (ast.Expression, error) {
	left, err := p.andExpr()
	if err != nil {
		return nil, err
	}
	for p.check(token.OrOr) {
		op := p.advance()
		right, err := p.andExpr()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(astPos(op), "||", left, right)
	}
	return left, nil
}

func (p *Parser) andExpr() (ast.Expression, error) {
	left, err := p.comparisonExpr()
	if err != nil {
		return nil, err
	}
	for p.check(token.AndAnd) {
		op := p.advance()
		right, err := p.comparisonExpr()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(astPos(op), "&&", left, right)
	}
	return left, nil
}

var comparisonOps = map[token.Type]string{
	token.EqEq:    "==",
	token.SlashEq: "/=",
	token.Lt:      "<",
	token.Gt:      ">",
	token.LtEq:    "<=",
	token.GtEq:    ">=",
}

func (p *Parser) comparisonExpr() (ast.Expression, error) {
	left, err := p.consAppendExpr()
	if err != nil {
		return nil, err
	}
	if op, ok := comparisonOps[p.peek().Type]; ok {
		tok := p.advance()
		right, err := p.consAppendExpr()
		if err != nil {
			return nil, err
		}
		return ast.NewBinaryOp(astPos(tok), op, left, right), nil
	}
	return left, nil
}

// consAppendExpr handles :: and ++, both right-associative and sharing a
// precedence level.
func (p *Parser) consAppendExpr() (ast.Expression, error) {
	left, err := p.additiveExpr()
	if err != nil {
		return nil, err
	}
	if p.check(token.ColonColon) || p.check(token.PlusPlus) {
		tok := p.advance()
		op := "::"
		if tok.Type == token.PlusPlus {
			op = "++"
		}
		right, err := p.consAppendExpr()
		if err != nil {
			return nil, err
		}
		return ast.NewBinaryOp(astPos(tok), op, left, right), nil
	}
	return left, nil
}

func (p *Parser) additiveExpr() (ast.Expression, error) {
	left, err := p.multiplicativeExpr()
	if err != nil {
		return nil, err
	}
	for p.check(token.Plus) || p.check(token.Minus) {
		tok := p.advance()
		op := "+"
		if tok.Type == token.Minus {
			op = "-"
		}
		right, err := p.multiplicativeExpr()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(astPos(tok), op, left, right)
	}
	return left, nil
}

var multiplicativeOps = map[token.Type]string{
	token.Star:       "*",
	token.SlashSlash: "//",
	token.Slash:      "/",
}

func (p *Parser) multiplicativeExpr() (ast.Expression, error) {
	left, err := p.unaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := multiplicativeOps[p.peek().Type]
		if !ok {
			return left, nil
		}
		tok := p.advance()
		right, err := p.unaryExpr()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(astPos(tok), op, left, right)
	}
}

func (p *Parser) unaryExpr() (ast.Expression, error) {
	if p.check(token.Minus) {
		tok := p.advance()
		operand, err := p.unaryExpr()
		if err != nil {
			return nil, err
		}
		return ast.NewNegation(astPos(tok), operand), nil
	}
	if p.check(token.Bang) {
		tok := p.advance()
		operand, err := p.unaryExpr()
		if err != nil {
			return nil, err
		}
		return ast.NewApplication(astPos(tok), ast.NewIdentifier(astPos(tok), "", "not"), []ast.Expression{operand}), nil
	}
	return p.applicationExpr()
}

// applicationExpr parses juxtaposed function application: f a b c. An
// argument may not begin on a later source line than the token before it,
// since without layout tracking that is indistinguishable from the next
// case branch or let declaration starting.
func (p *Parser) applicationExpr() (ast.Expression, error) {
	pos := p.peek().Pos
	fn, err := p.postfixExpr()
	if err != nil {
		return nil, err
	}
	var args []ast.Expression
	for p.startsArgument() {
		arg, err := p.postfixExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if len(args) == 0 {
		return fn, nil
	}
	return ast.NewApplication(posAt(pos), fn, args), nil
}

func (p *Parser) startsArgument() bool {
	if p.peek().Pos.Line > p.previous().Pos.Line {
		return false
	}
	return p.startsPrimaryExpr()
}

func (p *Parser) startsPrimaryExpr() bool {
	switch p.peek().Type {
	case token.Int, token.Float, token.Char, token.String, token.LowerIdent, token.UpperIdent,
		token.LParen, token.LBracket, token.LBrace, token.Dot, token.Underscore:
		return true
	default:
		return false
	}
}

// postfixExpr applies `.field` record access (and any further postfix
// operators added later) to a primary expression.
func (p *Parser) postfixExpr() (ast.Expression, error) {
	expr, err := p.primaryExpr()
	if err != nil {
		return nil, err
	}
	for p.check(token.Dot) && p.peekAt(1).Type == token.LowerIdent {
		dot := p.advance()
		field := p.advance()
		expr = ast.NewRecordAccess(astPos(dot), expr, field.Text)
	}
	return expr, nil
}

func (p *Parser) primaryExpr() (ast.Expression, error) {
	tok := p.peek()
	switch tok.Type {
	case token.Int, token.Float, token.Char, token.String:
		return p.literalExpression()
	case token.Underscore:
		return nil, p.errf("'_' is only valid in a pattern")
	case token.LowerIdent:
		p.advance()
		return ast.NewIdentifier(astPos(tok), "", tok.Text), nil
	case token.UpperIdent:
		return p.qualifiedExpr()
	case token.Dot:
		return p.recordAccessorExpr()
	case token.LParen:
		return p.parenExpr()
	case token.LBracket:
		return p.listExpr()
	case token.LBrace:
		return p.recordExpr()
	default:
		return nil, p.errf("expected an expression, got %q", tok.Text)
	}
}

func (p *Parser) literalExpression() (ast.Expression, error) {
	tok := p.advance()
	switch tok.Type {
	case token.Int:
		v, ok := new(big.Int).SetString(tok.Text, 0)
		if !ok {
			return nil, &Error{Pos: tok.Pos, Msg: "invalid integer literal " + tok.Text}
		}
		return ast.NewIntLiteral(astPos(tok), v), nil
	case token.Float:
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.errf("invalid float literal %q", tok.Text)
		}
		return ast.NewFloatLiteral(astPos(tok), f), nil
	case token.Char:
		r := []rune(tok.Text)[0]
		return ast.NewCharLiteral(astPos(tok), r), nil
	case token.String:
		return ast.NewStringLiteral(astPos(tok), tok.Text), nil
	default:
		return nil, p.errf("expected a literal, got %q", tok.Text)
	}
}

// recordAccessorExpr parses the `.field` partial-application sugar. It is
// only reachable when the '.' does not follow a primary expression (that
// case is postfixExpr's record-access form instead).
func (p *Parser) recordAccessorExpr() (ast.Expression, error) {
	dot := p.advance()
	field, err := p.expect(token.LowerIdent, "a field name after '.'")
	if err != nil {
		return nil, err
	}
	return ast.NewRecordAccessor(astPos(dot), field.Text), nil
}

// qualifiedExpr greedily consumes a chain of UpperIdent segments joined by
// '.', treating a trailing LowerIdent segment as the unqualified name and
// everything before it as the module path — this is what lets
// `Elm.Kernel.List.map` resolve to Module="Elm.Kernel.List", Name="map"
// while a bare `Just` resolves to Module="", Name="Just".
func (p *Parser) qualifiedExpr() (ast.Expression, error) {
	start := p.peek()
	segments := []string{p.advance().Text}
	for p.check(token.Dot) {
		next := p.peekAt(1)
		if next.Type != token.UpperIdent && next.Type != token.LowerIdent {
			break
		}
		p.advance()
		segments = append(segments, p.advance().Text)
		if next.Type == token.LowerIdent {
			break
		}
	}
	if len(segments) == 1 {
		return ast.NewIdentifier(astPos(start), "", segments[0]), nil
	}
	module := ""
	for _, s := range segments[:len(segments)-1] {
		if module != "" {
			module += "."
		}
		module += s
	}
	return ast.NewIdentifier(astPos(start), module, segments[len(segments)-1]), nil
}

func (p *Parser) parenExpr() (ast.Expression, error) {
	open := p.advance()
	if p.match(token.RParen) {
		return ast.NewUnitLiteral(astPos(open)), nil
	}
	if op, ok := p.operatorSectionName(); ok {
		opTok := p.advance()
		if _, err := p.expect(token.RParen, "')'"); err != nil {
			return nil, err
		}
		lhs := ast.NewVarPattern(astPos(opTok), "_lhs")
		rhs := ast.NewVarPattern(astPos(opTok), "_rhs")
		body := ast.NewBinaryOp(astPos(opTok), op,
			ast.NewIdentifier(astPos(opTok), "", "_lhs"),
			ast.NewIdentifier(astPos(opTok), "", "_rhs"))
		return ast.NewLambda(astPos(open), []ast.Pattern{lhs, rhs}, body), nil
	}
	first, err := p.Expression()
	if err != nil {
		return nil, err
	}
	if !p.check(token.Comma) {
		if _, err := p.expect(token.RParen, "')'"); err != nil {
			return nil, err
		}
		return first, nil
	}
	elems := []ast.Expression{first}
	for p.match(token.Comma) {
		el, err := p.Expression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return nil, err
	}
	if len(elems) > 3 {
		return nil, p.errf("a tuple supports at most 3 elements, got %d", len(elems))
	}
	return ast.NewTuple(astPos(open), elems), nil
}

// operatorSectionName reports whether the token right after a just-consumed
// '(' is a bare operator immediately followed by ')' — `(+)` used as a
// first-class function equivalent to `\a b -> a + b` — and, if so, the
// operator symbol it stands for.
func (p *Parser) operatorSectionName() (string, bool) {
	names := map[token.Type]string{
		token.Plus: "+", token.Minus: "-", token.Star: "*",
		token.SlashSlash: "//", token.Slash: "/",
		token.EqEq: "==", token.SlashEq: "/=",
		token.Lt: "<", token.Gt: ">", token.LtEq: "<=", token.GtEq: ">=",
		token.ColonColon: "::", token.PlusPlus: "++",
	}
	name, ok := names[p.peek().Type]
	if !ok || p.peekAt(1).Type != token.RParen {
		return "", false
	}
	return name, true
}

func (p *Parser) listExpr() (ast.Expression, error) {
	open := p.advance()
	var elems []ast.Expression
	if !p.check(token.RBracket) {
		for {
			el, err := p.Expression()
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
	return ast.NewList(astPos(open), elems), nil
}

// recordExpr parses either a record literal `{ f = e, ... }` or a record
// update `{ x | f = e, ... }`, distinguished by peeking past a leading
// lower identifier for a following '|'.
func (p *Parser) recordExpr() (ast.Expression, error) {
	open := p.advance()
	if p.check(token.LowerIdent) && p.peekAt(1).Type == token.Pipe {
		base := p.advance()
		p.advance()
		fields, err := p.recordFieldList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBrace, "'}'"); err != nil {
			return nil, err
		}
		return ast.NewRecordUpdate(astPos(open), ast.NewIdentifier(astPos(base), "", base.Text), fields), nil
	}
	var fields []ast.RecordField
	if !p.check(token.RBrace) {
		var err error
		fields, err = p.recordFieldList()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RBrace, "'}'"); err != nil {
		return nil, err
	}
	return ast.NewRecord(astPos(open), fields), nil
}

func (p *Parser) recordFieldList() ([]ast.RecordField, error) {
	var fields []ast.RecordField
	for {
		name, err := p.expect(token.LowerIdent, "a field name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Equals, "'='"); err != nil {
			return nil, err
		}
		value, err := p.Expression()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.RecordField{Name: name.Text, Value: value})
		if !p.match(token.Comma) {
			break
		}
	}
	return fields, nil
}
