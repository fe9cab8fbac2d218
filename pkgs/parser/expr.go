package parser

import (
	"github.com/aledsdavies/pyjs/pkgs/ast"
	"github.com/aledsdavies/pyjs/pkgs/lexer"
	"github.com/aledsdavies/pyjs/pkgs/scope"
)

// Comparison operators and the node kinds they build
var comparisons = map[lexer.Subtype]ast.BinaryKind{
	lexer.Lesser:        ast.Lesser,
	lexer.Greater:       ast.Greater,
	lexer.LesserEquals:  ast.LesserEquals,
	lexer.GreaterEquals: ast.GreaterEquals,
	lexer.Equals:        ast.Equals,
	lexer.NotEquals:     ast.NotEquals,
}

var additive = map[lexer.Subtype]ast.BinaryKind{
	lexer.Add:      ast.Add,
	lexer.Subtract: ast.Subtract,
}

var multiplicative = map[lexer.Subtype]ast.BinaryKind{
	lexer.Multiply: ast.Multiply,
	lexer.Divide:   ast.Divide,
	lexer.Modulo:   ast.Modulo,
}

// parseExpr parses an expression starting at the lowest precedence level:
//
//	or < and < not < comparison < + - < * / % < ** < unary - < primary
func (p *parser) parseExpr(sc *scope.Scope) (ast.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	return p.parseOr(sc)
}

// parseSequence parses a comma separated run of expressions. A single
// expression is returned as is.
func (p *parser) parseSequence(sc *scope.Scope) (ast.Expr, error) {
	items, err := p.parseArgs(sc)
	if err != nil {
		return nil, err
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return &ast.Sequence{Items: items}, nil
}

func (p *parser) parseArgs(sc *scope.Scope) ([]ast.Expr, error) {
	first, err := p.parseExpr(sc)
	if err != nil {
		return nil, err
	}
	items := []ast.Expr{first}
	for p.cur.IsDelimiter(lexer.Comma) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.parseExpr(sc)
		if err != nil {
			return nil, err
		}
		items = append(items, next)
	}
	return items, nil
}

func (p *parser) parseOr(sc *scope.Scope) (ast.Expr, error) {
	left, err := p.parseAnd(sc)
	if err != nil {
		return nil, err
	}
	for p.cur.IsOperator(lexer.Or) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd(sc)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Kind: ast.Or, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd(sc *scope.Scope) (ast.Expr, error) {
	left, err := p.parseNot(sc)
	if err != nil {
		return nil, err
	}
	for p.cur.IsOperator(lexer.And) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseNot(sc)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Kind: ast.And, Left: left, Right: right}
	}
	return left, nil
}

// parseNot accepts both "not x" and the postfix "x not"
func (p *parser) parseNot(sc *scope.Scope) (ast.Expr, error) {
	if p.cur.IsOperator(lexer.Not) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		operand, err := p.parseNot(sc)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Kind: ast.Not, Operand: operand}, nil
	}

	x, err := p.parseComparison(sc)
	if err != nil {
		return nil, err
	}
	for p.cur.IsOperator(lexer.Not) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		x = &ast.UnaryOp{Kind: ast.Not, Operand: x}
	}
	return x, nil
}

func (p *parser) parseComparison(sc *scope.Scope) (ast.Expr, error) {
	return p.parseLeftFold(sc, comparisons, p.parseAdditive)
}

func (p *parser) parseAdditive(sc *scope.Scope) (ast.Expr, error) {
	return p.parseLeftFold(sc, additive, p.parseMultiplicative)
}

func (p *parser) parseMultiplicative(sc *scope.Scope) (ast.Expr, error) {
	return p.parseLeftFold(sc, multiplicative, p.parsePower)
}

// parseLeftFold parses operand (op operand)* for one precedence level,
// folding to the left.
func (p *parser) parseLeftFold(sc *scope.Scope, ops map[lexer.Subtype]ast.BinaryKind,
	operand func(*scope.Scope) (ast.Expr, error)) (ast.Expr, error) {
	left, err := operand(sc)
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == lexer.OPERATOR {
		kind, ok := ops[p.cur.Subtype]
		if !ok {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := operand(sc)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Kind: kind, Left: left, Right: right}
	}
	return left, nil
}

// parsePower is right-associative: 2**3**2 is 2**(3**2)
func (p *parser) parsePower(sc *scope.Scope) (ast.Expr, error) {
	base, err := p.parseUnary(sc)
	if err != nil {
		return nil, err
	}
	if !p.cur.IsOperator(lexer.Power) {
		return base, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	exp, err := p.parsePower(sc)
	if err != nil {
		return nil, err
	}
	return &ast.BinaryOp{Kind: ast.Power, Left: base, Right: exp}, nil
}

func (p *parser) parseUnary(sc *scope.Scope) (ast.Expr, error) {
	if !p.cur.IsOperator(lexer.Subtract) {
		return p.parsePrimary(sc)
	}
	minus := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.IsOperator(lexer.Subtract) {
		tok := minus
		tok.Literal = "--"
		return nil, p.syntaxError("Unknown Operator", tok)
	}
	operand, err := p.parsePrimary(sc)
	if err != nil {
		return nil, err
	}
	return &ast.UnaryOp{Kind: ast.Negate, Operand: operand}, nil
}

func (p *parser) parsePrimary(sc *scope.Scope) (ast.Expr, error) {
	tok := p.cur
	switch tok.Kind {
	case lexer.NUMBER:
		return p.literal(ast.NumberLiteral, tok.Literal)
	case lexer.STRING:
		return p.literal(ast.StringLiteral, tok.Literal)
	case lexer.KEYWORD:
		switch tok.Subtype {
		case lexer.True, lexer.False:
			return p.literal(ast.BooleanLiteral, tok.Literal)
		case lexer.None:
			return p.literal(ast.NullLiteral, tok.Literal)
		case lexer.Len:
			return p.parseLength(sc)
		}
	case lexer.BRACKET:
		switch tok.Subtype {
		case lexer.RoundOpen:
			return p.parseEnclosure(sc)
		case lexer.SquareOpen:
			return p.parseList(sc)
		}
	case lexer.IDENTIFIER:
		return p.parseName(sc)
	}
	return nil, p.syntaxError("invalid syntax", tok)
}

func (p *parser) literal(kind ast.LiteralKind, text string) (ast.Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &ast.Literal{Kind: kind, Text: text}, nil
}

func (p *parser) parseEnclosure(sc *scope.Scope) (ast.Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	inner, err := p.parseExpr(sc)
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.BRACKET, lexer.RoundClose, "')'"); err != nil {
		return nil, err
	}
	return &ast.Enclosure{Inner: inner}, nil
}

func (p *parser) parseList(sc *scope.Scope) (ast.Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	list := &ast.List{}
	if !p.cur.IsBracket(lexer.SquareClose) {
		items, err := p.parseArgs(sc)
		if err != nil {
			return nil, err
		}
		list.Items = items
	}
	if err := p.expect(lexer.BRACKET, lexer.SquareClose, "']'"); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *parser) parseLength(sc *scope.Scope) (ast.Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.BRACKET, lexer.RoundOpen, "'('"); err != nil {
		return nil, err
	}
	operand, err := p.parseExpr(sc)
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.BRACKET, lexer.RoundClose, "')'"); err != nil {
		return nil, err
	}
	return &ast.Length{Operand: operand}, nil
}

// parseName resolves an identifier against the scope chain, then reads
// it as a call when followed by '('.
func (p *parser) parseName(sc *scope.Scope) (ast.Expr, error) {
	tok := p.cur
	if !sc.InParentTree(tok.Literal) {
		return nil, p.nameError(tok, sc)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if !p.cur.IsBracket(lexer.RoundOpen) {
		return &ast.Access{Name: tok.Literal}, nil
	}

	if err := p.advance(); err != nil {
		return nil, err
	}
	call := &ast.Call{Name: tok.Literal}
	if !p.cur.IsBracket(lexer.RoundClose) {
		args, err := p.parseArgs(sc)
		if err != nil {
			return nil, err
		}
		call.Args = args
	}
	if err := p.expect(lexer.BRACKET, lexer.RoundClose, "')'"); err != nil {
		return nil, err
	}
	return call, nil
}
