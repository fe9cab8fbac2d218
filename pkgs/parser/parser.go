package parser

import (
	"log/slog"
	"time"

	"github.com/aledsdavies/pyjs/pkgs/ast"
	cerrors "github.com/aledsdavies/pyjs/pkgs/errors"
	"github.com/aledsdavies/pyjs/pkgs/lexer"
	"github.com/aledsdavies/pyjs/pkgs/scope"
)

// Result is a successful parse
type Result struct {
	Program   *ast.StatementList
	Root      *scope.Scope
	Telemetry *ParseTelemetry // nil unless telemetry is enabled
}

// Compile parses source into a statement list. Any error aborts the
// whole compilation; no partial tree is returned.
func Compile(source string, opts ...ParserOpt) (*ast.StatementList, error) {
	res, err := Parse(source, opts...)
	if err != nil {
		return nil, err
	}
	return res.Program, nil
}

// Parse is Compile that also returns the root scope and telemetry
func Parse(source string, opts ...ParserOpt) (*Result, error) {
	config := &ParserConfig{
		logger:   slog.New(slog.DiscardHandler),
		maxDepth: defaultMaxDepth,
	}
	for _, opt := range opts {
		opt(config)
	}

	var start time.Time
	if config.telemetry >= TelemetryTiming {
		start = time.Now()
	}

	p := &parser{
		lex:    lexer.New(source, config.lexerOpts()...),
		config: config,
	}
	if config.telemetry >= TelemetryBasic {
		p.telemetry = &ParseTelemetry{ScopeCount: 1}
	}

	root := scope.NewRoot(config.rules)
	program, err := p.parseProgram(root)
	if err != nil {
		if e, ok := cerrors.As(err); ok {
			e.WithSource(source)
		}
		config.logger.Debug("compile failed", "error", err)
		return nil, err
	}

	if p.telemetry != nil {
		if stats := p.lex.Stats(); stats != nil {
			p.telemetry.TokenCount = stats.Tokens
		}
		if config.telemetry >= TelemetryTiming {
			p.telemetry.TotalTime = time.Since(start)
		}
	}

	return &Result{Program: program, Root: root, Telemetry: p.telemetry}, nil
}

type parser struct {
	lex *lexer.Lexer
	cur lexer.Token

	config    *ParserConfig
	telemetry *ParseTelemetry

	depth      int // expression and block nesting
	blockDepth int
	funcDepth  int
}

func (p *parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) peek() (lexer.Token, error) {
	return p.lex.Peek()
}

// expect consumes the current token if it has the given kind and
// subtype, otherwise fails with "expected what".
func (p *parser) expect(kind lexer.Kind, sub lexer.Subtype, what string) error {
	if !p.cur.Is(kind, sub) {
		return p.expectedError(what)
	}
	return p.advance()
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.config.maxDepth {
		return p.syntaxError("too many nested expressions or blocks", p.cur)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) trace(event string, args ...any) {
	if p.config.debug >= DebugPaths {
		p.config.logger.Debug(event, append([]any{"token", p.cur.String()}, args...)...)
	}
}

func (p *parser) parseProgram(root *scope.Scope) (*ast.StatementList, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseStatements(root, false)
}

// parseStatements reads statements until EOF, or until the DEDENT that
// closes the current block.
func (p *parser) parseStatements(sc *scope.Scope, block bool) (*ast.StatementList, error) {
	list := &ast.StatementList{}
	for {
		switch p.cur.Kind {
		case lexer.EOF:
			if block {
				return nil, p.indentationError("expected a dedent")
			}
			return list, nil
		case lexer.DEDENT:
			if !block {
				return nil, p.indentationError("unexpected dedent")
			}
			return list, p.advance()
		case lexer.INDENT:
			return nil, p.indentationError("unexpected indent")
		case lexer.NEWLINE:
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}

		stmt, err := p.parseStatement(sc)
		if err != nil {
			return nil, err
		}
		list.Push(stmt)
		if p.telemetry != nil {
			p.telemetry.StatementCount++
		}
	}
}

// parseBlock reads ':' NEWLINE INDENT statements DEDENT
func (p *parser) parseBlock(sc *scope.Scope) (*ast.StatementList, error) {
	if err := p.expect(lexer.DELIMITER, lexer.Colon, "':'"); err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.NEWLINE {
		return nil, p.indentationError("expected a newline")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.INDENT {
		return nil, p.indentationError("expected an indented block")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	p.blockDepth++
	if p.telemetry != nil && p.blockDepth > p.telemetry.MaxBlockDepth {
		p.telemetry.MaxBlockDepth = p.blockDepth
	}
	defer func() { p.blockDepth-- }()

	return p.parseStatements(sc, true)
}

func (p *parser) parseStatement(sc *scope.Scope) (ast.Stmt, error) {
	p.trace("statement", "scope_depth", sc.Depth())

	tok := p.cur
	switch {
	case tok.IsKeyword(lexer.Return):
		return p.simple(p.parseReturn(sc))
	case tok.IsKeyword(lexer.If):
		return p.parseIf(sc)
	case tok.IsKeyword(lexer.For):
		return p.parseFor(sc)
	case tok.IsKeyword(lexer.While):
		return p.parseWhile(sc)
	case tok.IsKeyword(lexer.Def):
		return p.parseDef(sc)
	case tok.IsKeyword(lexer.Print):
		return p.simple(p.parsePrint(sc))
	case tok.Kind == lexer.IDENTIFIER:
		next, err := p.peek()
		if err != nil {
			return nil, err
		}
		if next.IsOperator(lexer.Assign) {
			return p.simple(p.parseAssign(sc))
		}
	}

	x, err := p.parseExpr(sc)
	if err != nil {
		return nil, err
	}
	return p.simple(&ast.ExpressionStmt{X: x}, nil)
}

// simple terminates a single-line statement: it must be followed by a
// NEWLINE or the end of input.
func (p *parser) simple(stmt ast.Stmt, err error) (ast.Stmt, error) {
	if err != nil {
		return nil, err
	}
	switch p.cur.Kind {
	case lexer.NEWLINE:
		return stmt, p.advance()
	case lexer.EOF:
		return stmt, nil
	}
	return nil, p.syntaxError("invalid syntax", p.cur)
}

func (p *parser) parseReturn(sc *scope.Scope) (ast.Stmt, error) {
	if p.funcDepth == 0 {
		return nil, p.syntaxError("'return' outside function", p.cur)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Kind == lexer.NEWLINE || p.cur.Kind == lexer.EOF {
		return &ast.Return{}, nil
	}
	value, err := p.parseSequence(sc)
	if err != nil {
		return nil, err
	}
	return &ast.Return{Value: value}, nil
}

func (p *parser) parseIf(sc *scope.Scope) (ast.Stmt, error) {
	if sc.Rules().Disabled(scope.DisableIf) {
		return nil, p.disabledError("If statement", scope.DisableIf)
	}

	var clauses []ast.Clause
	for {
		if err := p.advance(); err != nil {
			return nil, err
		}
		cond, err := p.parseExpr(sc)
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock(sc)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, ast.Clause{Cond: cond, Body: body})

		if !p.cur.IsKeyword(lexer.Elif) {
			break
		}
	}

	if p.cur.IsKeyword(lexer.Else) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		body, err := p.parseBlock(sc)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, ast.Clause{Body: body})
	}

	return &ast.If{Clauses: clauses}, nil
}

func (p *parser) parseWhile(sc *scope.Scope) (ast.Stmt, error) {
	if sc.Rules().Disabled(scope.DisableWhile) {
		return nil, p.disabledError("While statement", scope.DisableWhile)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	test, err := p.parseExpr(sc)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock(sc)
	if err != nil {
		return nil, err
	}
	return &ast.While{Test: test, Body: body}, nil
}

// parseFor reads "for NAME in range(args):". The range arguments resolve
// in the enclosing scope; the loop variable and the body live in a new
// loop scope.
func (p *parser) parseFor(sc *scope.Scope) (ast.Stmt, error) {
	if sc.Rules().Disabled(scope.DisableFor) {
		return nil, p.disabledError("For statement", scope.DisableFor)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.cur.Kind != lexer.IDENTIFIER {
		return nil, p.expectedError("a loop variable")
	}
	name := p.cur.Literal
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.OPERATOR, lexer.In, "'in'"); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.KEYWORD, lexer.Range, "'range'"); err != nil {
		return nil, err
	}
	open := p.cur
	if err := p.expect(lexer.BRACKET, lexer.RoundOpen, "'('"); err != nil {
		return nil, err
	}

	var args []ast.Expr
	if !p.cur.IsBracket(lexer.RoundClose) {
		var err error
		if args, err = p.parseArgs(sc); err != nil {
			return nil, err
		}
	}
	if len(args) == 0 || len(args) > 3 {
		return nil, cerrors.NewSyntaxError("range expected 1 to 3 arguments", "range", open.Line, open.Column).
			WithContext("arguments", len(args))
	}
	if err := p.expect(lexer.BRACKET, lexer.RoundClose, "')'"); err != nil {
		return nil, err
	}

	loop := &ast.For{
		Var:   name,
		Start: ast.Num(0),
		Step:  ast.Num(1),
	}
	switch len(args) {
	case 1:
		loop.Stop = args[0]
	case 2:
		loop.Start, loop.Stop = args[0], args[1]
	case 3:
		loop.Start, loop.Stop, loop.Step = args[0], args[1], args[2]
	}

	loop.Scope = p.child(sc)
	if err := loop.Scope.Push(scope.NewReference(name, scope.Variable, false)); err != nil {
		return nil, p.positioned(err)
	}

	body, err := p.parseBlock(loop.Scope)
	if err != nil {
		return nil, err
	}
	loop.Body = body
	return loop, nil
}

// parseDef registers the function name in the defining scope before the
// body is parsed, so the body may call itself.
func (p *parser) parseDef(sc *scope.Scope) (ast.Stmt, error) {
	if sc.Rules().Disabled(scope.DisableFunctionDef) {
		return nil, p.disabledError("Function definition", scope.DisableFunctionDef)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.cur.Kind != lexer.IDENTIFIER {
		return nil, p.expectedError("a function name")
	}
	name := p.cur.Literal
	if !sc.InCurrent(name) {
		if err := sc.Push(scope.NewReference(name, scope.Function, false)); err != nil {
			return nil, p.positioned(err)
		}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.BRACKET, lexer.RoundOpen, "'('"); err != nil {
		return nil, err
	}

	fnScope := p.child(sc)
	var params []*ast.Atom
	for !p.cur.IsBracket(lexer.RoundClose) {
		if len(params) > 0 {
			if err := p.expect(lexer.DELIMITER, lexer.Comma, "',' or ')'"); err != nil {
				return nil, err
			}
		}
		if p.cur.Kind != lexer.IDENTIFIER {
			return nil, p.expectedError("a parameter name")
		}
		param := p.cur.Literal
		if fnScope.InCurrent(param) {
			return nil, p.syntaxError("duplicate argument '"+param+"' in function definition", p.cur)
		}
		if err := fnScope.Push(scope.NewReference(param, scope.Variable, false)); err != nil {
			return nil, p.positioned(err)
		}
		params = append(params, &ast.Atom{Text: param})
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	p.funcDepth++
	body, err := p.parseBlock(fnScope)
	p.funcDepth--
	if err != nil {
		return nil, err
	}

	return &ast.FuncDef{Name: name, Params: params, Body: body, Scope: fnScope}, nil
}

func (p *parser) parsePrint(sc *scope.Scope) (ast.Stmt, error) {
	if sc.Rules().Disabled(scope.DisablePrint) {
		return nil, p.disabledError("Print", scope.DisablePrint)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.BRACKET, lexer.RoundOpen, "'('"); err != nil {
		return nil, err
	}

	stmt := &ast.Print{}
	if !p.cur.IsBracket(lexer.RoundClose) {
		args, err := p.parseArgs(sc)
		if err != nil {
			return nil, err
		}
		stmt.Args = args
	}
	if err := p.expect(lexer.BRACKET, lexer.RoundClose, "')'"); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseAssign reads NAME '=' expr. Declared is decided here, from the
// scope chain as it stands before the name is registered.
func (p *parser) parseAssign(sc *scope.Scope) (ast.Stmt, error) {
	nameTok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	value, err := p.parseExpr(sc)
	if err != nil {
		return nil, err
	}

	declared := sc.InParentTree(nameTok.Literal)
	if !sc.InCurrent(nameTok.Literal) {
		if err := sc.Push(scope.NewReference(nameTok.Literal, scope.Variable, declared)); err != nil {
			if e, ok := cerrors.As(err); ok {
				e.At(nameTok.Line, nameTok.Column)
			}
			return nil, err
		}
	}

	return &ast.Assign{Name: nameTok.Literal, Value: value, Declared: declared}, nil
}

func (p *parser) child(sc *scope.Scope) *scope.Scope {
	if p.telemetry != nil {
		p.telemetry.ScopeCount++
	}
	return sc.Child()
}

// positioned stamps the current token's position on errors raised away
// from the token stream, such as scope policy violations.
func (p *parser) positioned(err error) error {
	if e, ok := cerrors.As(err); ok && e.Line == 0 {
		e.At(p.cur.Line, p.cur.Column)
	}
	return err
}
