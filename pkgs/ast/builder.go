package ast

import (
	"fmt"
	"strconv"
)

// NewProgram creates a statement list. Bare expressions are wrapped in
// expression statements.
func NewProgram(items ...Node) *StatementList {
	list := &StatementList{}
	for _, item := range items {
		switch v := item.(type) {
		case Stmt:
			list.Push(v)
		case Expr:
			list.Push(&ExpressionStmt{X: v})
		}
	}
	return list
}

// Str creates a string literal
func Str(value string) *Literal {
	return &Literal{Kind: StringLiteral, Text: value}
}

// Num creates a number literal
func Num(value interface{}) *Literal {
	switch v := value.(type) {
	case int:
		return &Literal{Kind: NumberLiteral, Text: strconv.Itoa(v)}
	case int64:
		return &Literal{Kind: NumberLiteral, Text: strconv.FormatInt(v, 10)}
	case float64:
		return &Literal{Kind: NumberLiteral, Text: strconv.FormatFloat(v, 'g', -1, 64)}
	case string:
		return &Literal{Kind: NumberLiteral, Text: v}
	default:
		return &Literal{Kind: NumberLiteral, Text: fmt.Sprintf("%v", v)}
	}
}

// Bool creates a True or False literal
func Bool(value bool) *Literal {
	if value {
		return &Literal{Kind: BooleanLiteral, Text: "True"}
	}
	return &Literal{Kind: BooleanLiteral, Text: "False"}
}

// Null creates the None literal
func Null() *Literal {
	return &Literal{Kind: NullLiteral, Text: "None"}
}

// Id creates a name access
func Id(name string) *Access {
	return &Access{Name: name}
}

// Paren wraps an expression in parentheses
func Paren(inner Expr) *Enclosure {
	return &Enclosure{Inner: inner}
}

// Neg creates -operand
func Neg(operand Expr) *UnaryOp {
	return &UnaryOp{Kind: Negate, Operand: operand}
}

// NotOf creates a boolean negation
func NotOf(operand Expr) *UnaryOp {
	return &UnaryOp{Kind: Not, Operand: operand}
}

// Bin creates a binary operation
func Bin(kind BinaryKind, left, right Expr) *BinaryOp {
	return &BinaryOp{Kind: kind, Left: left, Right: right}
}

// CallOf creates a function call
func CallOf(name string, args ...Expr) *Call {
	return &Call{Name: name, Args: args}
}

// Seq creates a sequence expression
func Seq(items ...Expr) *Sequence {
	return &Sequence{Items: items}
}

// ListOf creates a list literal
func ListOf(items ...Expr) *List {
	return &List{Items: items}
}

// Let creates an assignment that declares name
func Let(name string, value Expr) *Assign {
	return &Assign{Name: name, Value: value}
}

// Set creates an assignment to an already declared name
func Set(name string, value Expr) *Assign {
	return &Assign{Name: name, Value: value, Declared: true}
}

// IfChain creates an if statement from clauses
func IfChain(clauses ...Clause) *If {
	return &If{Clauses: clauses}
}

// When creates a conditional clause; a nil cond makes an else clause
func When(cond Expr, body ...Node) Clause {
	return Clause{Cond: cond, Body: NewProgram(body...)}
}

// Loop creates a while loop
func Loop(test Expr, body ...Node) *While {
	return &While{Test: test, Body: NewProgram(body...)}
}

// Range creates a for loop over range(start, stop, step)
func Range(name string, start, stop, step Expr, body ...Node) *For {
	return &For{Var: name, Start: start, Stop: stop, Step: step, Body: NewProgram(body...)}
}

// Def creates a function definition
func Def(name string, params []string, body ...Node) *FuncDef {
	atoms := make([]*Atom, len(params))
	for i, p := range params {
		atoms[i] = &Atom{Text: p}
	}
	return &FuncDef{Name: name, Params: atoms, Body: NewProgram(body...)}
}

// Ret creates a return statement
func Ret(value Expr) *Return {
	return &Return{Value: value}
}

// Out creates a print statement
func Out(args ...Expr) *Print {
	return &Print{Args: args}
}
