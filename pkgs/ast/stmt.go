package ast

import (
	"strings"

	cerrors "github.com/aledsdavies/pyjs/pkgs/errors"
	"github.com/aledsdavies/pyjs/pkgs/scope"
)

// ExpressionStmt is an expression used as a statement
type ExpressionStmt struct {
	X Expr
}

func (s *ExpressionStmt) Evaluate() (Value, error) {
	return s.X.Evaluate()
}

func (s *ExpressionStmt) Render() string {
	return s.X.Render()
}

// Assign binds a value to a name. Declared records whether the name was
// already visible when the assignment was parsed; the first assignment
// renders as a let declaration.
type Assign struct {
	Name     string
	Value    Expr
	Declared bool
}

func (a *Assign) Evaluate() (Value, error) {
	return nil, cerrors.NewNotImplementedError("assignment")
}

func (a *Assign) Render() string {
	if a.Declared {
		return a.Name + " = " + a.Value.Render()
	}
	return "let " + a.Name + " = " + a.Value.Render()
}

// Clause is one branch of an if chain. Cond is nil for else.
type Clause struct {
	Cond Expr
	Body *StatementList
}

// If is an if/elif/else chain
type If struct {
	Clauses []Clause
}

// Evaluate runs the body of the first clause whose condition is truthy
func (s *If) Evaluate() (Value, error) {
	for _, c := range s.Clauses {
		if c.Cond != nil {
			v, err := c.Cond.Evaluate()
			if err != nil {
				return nil, err
			}
			if !Truthy(v) {
				continue
			}
		}
		return c.Body.Evaluate()
	}
	return nil, nil
}

func (s *If) Render() string {
	if len(s.Clauses) == 0 {
		return ""
	}
	var b strings.Builder
	first := s.Clauses[0]
	b.WriteString("if (" + first.Cond.Render() + ") { " + first.Body.Render() + " }")
	for _, c := range s.Clauses[1:] {
		if c.Cond == nil {
			b.WriteString("else {" + c.Body.Render() + "}")
			continue
		}
		b.WriteString("else if (" + c.Cond.Render() + ") {" + c.Body.Render() + "}")
	}
	return b.String()
}

// While repeats its body. Evaluation runs until the test evaluates to
// exactly true.
type While struct {
	Test Expr
	Body *StatementList
}

func (s *While) Evaluate() (Value, error) {
	for {
		v, err := s.Test.Evaluate()
		if err != nil {
			return nil, err
		}
		if b, ok := v.(bool); ok && b {
			return nil, nil
		}
		if _, err := s.Body.Evaluate(); err != nil {
			return nil, err
		}
	}
}

func (s *While) Render() string {
	return "while (" + s.Test.Render() + "){" + s.Body.Render() + "}"
}

// rangeCheck picks the loop bound by the sign of the step at run time:
// ascending while n < r for a non-negative step, descending while r < n.
const rangeCheck = "(function(n,r,t){return 0<=t?n<r:r<n})"

// For is a counting loop over range(start, stop, step)
type For struct {
	Var   string
	Start Expr
	Stop  Expr
	Step  Expr
	Body  *StatementList
	Scope *scope.Scope
}

func (s *For) Evaluate() (Value, error) {
	return nil, cerrors.NewNotImplementedError("for loop")
}

func (s *For) Render() string {
	step := s.Step.Render()
	var b strings.Builder
	b.WriteString("for (let " + s.Var + "=" + s.Start.Render() + ";")
	b.WriteString(rangeCheck + "(" + s.Var + "," + s.Stop.Render() + "," + step + ");")
	b.WriteString(s.Var + "+=" + step + "){" + s.Body.Render() + "}")
	return b.String()
}

// FuncDef declares a function. Scope holds the parameters and the body's
// declarations.
type FuncDef struct {
	Name   string
	Params []*Atom
	Body   *StatementList
	Scope  *scope.Scope
}

func (s *FuncDef) Evaluate() (Value, error) {
	return nil, cerrors.NewNotImplementedError("function definition")
}

func (s *FuncDef) Render() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.Render()
	}
	return "function " + s.Name + "(" + strings.Join(params, ",") + "){" + s.Body.Render() + "}"
}

// Return leaves a function. A multi-value sequence renders as an array.
type Return struct {
	Value Expr // nil for a bare return
}

func (s *Return) Evaluate() (Value, error) {
	return nil, cerrors.NewNotImplementedError("return")
}

func (s *Return) Render() string {
	switch v := s.Value.(type) {
	case nil:
		return "return;"
	case *Sequence:
		return "return [" + v.Render() + "];"
	}
	return "return " + s.Value.Render() + ";"
}

// Print writes its arguments to the console
type Print struct {
	Args []Expr
}

func (s *Print) Evaluate() (Value, error) {
	return nil, cerrors.NewNotImplementedError("print")
}

func (s *Print) Render() string {
	return "console.log(" + renderJoined(s.Args, ",") + ")"
}

// StatementList is an ordered block of statements
type StatementList struct {
	Statements []Stmt
}

// Evaluate runs every statement and returns their values in order
func (l *StatementList) Evaluate() (Value, error) {
	values, err := l.Exec()
	if err != nil {
		return nil, err
	}
	return values, nil
}

// Exec is Evaluate with the per-statement values typed as a slice
func (l *StatementList) Exec() ([]Value, error) {
	values := make([]Value, 0, len(l.Statements))
	for _, s := range l.Statements {
		v, err := s.Evaluate()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func (l *StatementList) Render() string {
	parts := make([]string, len(l.Statements))
	for i, s := range l.Statements {
		parts[i] = s.Render()
	}
	return strings.Join(parts, ";")
}

// Push appends a statement
func (l *StatementList) Push(s Stmt) {
	l.Statements = append(l.Statements, s)
}
