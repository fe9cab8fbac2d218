package ast

import (
	"fmt"
	"strings"

	cerrors "github.com/aledsdavies/pyjs/pkgs/errors"
)

// LiteralKind is the type of a literal value
type LiteralKind int

const (
	StringLiteral LiteralKind = iota
	NumberLiteral
	BooleanLiteral
	NullLiteral
)

func (k LiteralKind) String() string {
	switch k {
	case StringLiteral:
		return "String"
	case NumberLiteral:
		return "Number"
	case BooleanLiteral:
		return "Boolean"
	case NullLiteral:
		return "Null"
	}
	return fmt.Sprintf("LiteralKind(%d)", int(k))
}

// Literal is a typed literal value. Text holds the source spelling:
// string contents without quotes, the number as written, True/False, or
// None.
type Literal struct {
	Kind LiteralKind
	Text string
}

func (l *Literal) Evaluate() (Value, error) {
	switch l.Kind {
	case StringLiteral:
		return l.Text, nil
	case NumberLiteral:
		return ParseNumber(l.Text)
	case BooleanLiteral:
		return l.Text == "True", nil
	}
	return nil, nil
}

func (l *Literal) Render() string {
	switch l.Kind {
	case StringLiteral:
		return quoteJS(l.Text)
	case BooleanLiteral:
		if l.Text == "True" {
			return "true"
		}
		return "false"
	case NullLiteral:
		return "null"
	}
	return l.Text
}

// Atom wraps raw token text, such as a parameter name, or a nested
// enclosure.
type Atom struct {
	Text  string
	Inner *Enclosure
}

func (a *Atom) Evaluate() (Value, error) {
	if a.Inner != nil {
		return a.Inner.Evaluate()
	}
	return a.Text, nil
}

func (a *Atom) Render() string {
	if a.Inner != nil {
		return a.Inner.Render()
	}
	return a.Text
}

// Enclosure is a parenthesized sub-expression
type Enclosure struct {
	Inner Expr
}

func (e *Enclosure) Evaluate() (Value, error) {
	return e.Inner.Evaluate()
}

func (e *Enclosure) Render() string {
	return "(" + e.Inner.Render() + ")"
}

// UnaryKind selects a prefix operator
type UnaryKind int

const (
	Negate UnaryKind = iota
	Not
)

func (k UnaryKind) String() string {
	switch k {
	case Negate:
		return "Negate"
	case Not:
		return "Not"
	}
	return fmt.Sprintf("UnaryKind(%d)", int(k))
}

// UnaryOp applies a unary operator to one operand
type UnaryOp struct {
	Kind    UnaryKind
	Operand Expr
}

func (u *UnaryOp) Evaluate() (Value, error) {
	v, err := u.Operand.Evaluate()
	if err != nil {
		return nil, err
	}
	switch u.Kind {
	case Negate:
		return negate(v)
	case Not:
		return !Truthy(v), nil
	}
	return nil, fmt.Errorf("unknown unary operator %v", u.Kind)
}

func (u *UnaryOp) Render() string {
	operand := u.Operand.Render()
	switch o := u.Operand.(type) {
	case *BinaryOp:
		operand = "(" + operand + ")"
	case *UnaryOp:
		if o.Kind == u.Kind {
			operand = "(" + operand + ")"
		}
	}
	switch u.Kind {
	case Negate:
		return "-" + operand
	case Not:
		return "!" + operand
	}
	return operand
}

// BinaryKind selects an infix operator
type BinaryKind int

const (
	Power BinaryKind = iota
	Multiply
	Divide
	Modulo
	Add
	Subtract
	Lesser
	Greater
	LesserEquals
	GreaterEquals
	Equals
	NotEquals
	And
	Or
)

type binaryInfo struct {
	name   string
	symbol string // JavaScript operator
	prec   int    // JavaScript precedence
}

var binaryInfos = [...]binaryInfo{
	Power:         {"Power", "**", 13},
	Multiply:      {"Multiply", "*", 12},
	Divide:        {"Divide", "/", 12},
	Modulo:        {"Modulo", "%", 12},
	Add:           {"Add", "+", 11},
	Subtract:      {"Subtract", "-", 11},
	Lesser:        {"Lesser", "<", 9},
	Greater:       {"Greater", ">", 9},
	LesserEquals:  {"LesserEquals", "<=", 9},
	GreaterEquals: {"GreaterEquals", ">=", 9},
	Equals:        {"Equals", "===", 8},
	NotEquals:     {"NotEquals", "!==", 8},
	And:           {"And", "&&", 4},
	Or:            {"Or", "||", 3},
}

func (k BinaryKind) String() string {
	if int(k) >= 0 && int(k) < len(binaryInfos) {
		return binaryInfos[k].name
	}
	return fmt.Sprintf("BinaryKind(%d)", int(k))
}

// Symbol returns the JavaScript spelling of the operator
func (k BinaryKind) Symbol() string {
	return binaryInfos[k].symbol
}

// BinaryOp applies an infix operator to two operands
type BinaryOp struct {
	Kind  BinaryKind
	Left  Expr
	Right Expr
}

func (b *BinaryOp) Evaluate() (Value, error) {
	left, err := b.Left.Evaluate()
	if err != nil {
		return nil, err
	}

	// Logical operators short-circuit and yield the deciding operand
	switch b.Kind {
	case And:
		if !Truthy(left) {
			return left, nil
		}
		return b.Right.Evaluate()
	case Or:
		if Truthy(left) {
			return left, nil
		}
		return b.Right.Evaluate()
	}

	right, err := b.Right.Evaluate()
	if err != nil {
		return nil, err
	}

	switch b.Kind {
	case Power:
		return power(left, right)
	case Multiply:
		return multiply(left, right)
	case Divide:
		return divide(left, right)
	case Modulo:
		return modulo(left, right)
	case Add:
		return add(left, right)
	case Subtract:
		return subtract(left, right)
	case Equals:
		return Equal(left, right), nil
	case NotEquals:
		return !Equal(left, right), nil
	}

	c, err := compare(b.Kind.Symbol(), left, right)
	if err != nil {
		return nil, err
	}
	switch b.Kind {
	case Lesser:
		return c < 0, nil
	case Greater:
		return c > 0, nil
	case LesserEquals:
		return c <= 0, nil
	case GreaterEquals:
		return c >= 0, nil
	}
	return nil, fmt.Errorf("unknown binary operator %v", b.Kind)
}

// Render emits "left op right". Source parentheses survive as Enclosure
// nodes; extra parentheses are only added where JavaScript would group
// the operands differently.
func (b *BinaryOp) Render() string {
	prec := binaryInfos[b.Kind].prec

	left := b.Left.Render()
	switch l := b.Left.(type) {
	case *BinaryOp:
		lp := binaryInfos[l.Kind].prec
		if lp < prec || (b.Kind == Power && lp == prec) {
			left = "(" + left + ")"
		}
	case *UnaryOp:
		if b.Kind == Power {
			left = "(" + left + ")"
		}
	}

	right := b.Right.Render()
	if r, ok := b.Right.(*BinaryOp); ok {
		rp := binaryInfos[r.Kind].prec
		if rp < prec || (rp == prec && b.Kind != Power) {
			right = "(" + right + ")"
		}
	}

	return left + " " + b.Kind.Symbol() + " " + right
}

// Access reads a name. There is no runtime store, so evaluation yields nil.
type Access struct {
	Name   string
	Quoted bool // the source token was a string literal
}

func (a *Access) Evaluate() (Value, error) {
	return nil, nil
}

func (a *Access) Render() string {
	if a.Quoted {
		return quoteJS(a.Name)
	}
	return a.Name
}

// Call invokes a named function
type Call struct {
	Name string
	Args []Expr
}

func (c *Call) Evaluate() (Value, error) {
	return nil, cerrors.NewNotImplementedError("call to " + c.Name)
}

func (c *Call) Render() string {
	return c.Name + "(" + renderJoined(c.Args, ",") + ")"
}

// Sequence is a comma separated run of expressions
type Sequence struct {
	Items []Expr
}

func (s *Sequence) Evaluate() (Value, error) {
	items, err := evaluateAll(s.Items)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Sequence) Render() string {
	return renderJoined(s.Items, ",")
}

// List is a bracketed list literal
type List struct {
	Items []Expr
}

func (l *List) Evaluate() (Value, error) {
	items, err := evaluateAll(l.Items)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (l *List) Render() string {
	return "[" + renderJoined(l.Items, ",") + "]"
}

// Length is len(operand), rendered as a property read
type Length struct {
	Operand Expr
}

func (l *Length) Evaluate() (Value, error) {
	return nil, cerrors.NewNotImplementedError("len")
}

func (l *Length) Render() string {
	operand := l.Operand.Render()
	switch x := l.Operand.(type) {
	case *BinaryOp, *UnaryOp:
		operand = "(" + operand + ")"
	case *Literal:
		// 5.length does not parse
		if x.Kind == NumberLiteral {
			operand = "(" + operand + ")"
		}
	}
	return operand + ".length"
}

func evaluateAll(items []Expr) ([]Value, error) {
	out := make([]Value, 0, len(items))
	for _, item := range items {
		v, err := item.Evaluate()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func renderJoined(items []Expr, sep string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.Render()
	}
	return strings.Join(parts, sep)
}
