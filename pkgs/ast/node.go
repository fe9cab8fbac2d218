// Package ast defines the syntax tree produced by the parser. Every node
// can be evaluated directly to a Go value or rendered to JavaScript.
package ast

// Value is the result of evaluating a node: nil, string, bool, int64,
// float64 or []Value.
type Value = any

// Node is implemented by every tree node
type Node interface {
	// Evaluate interprets the node and returns its value
	Evaluate() (Value, error)
	// Render returns equivalent JavaScript source
	Render() string
}

// Expr is an expression node
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node
type Stmt interface {
	Node
	stmtNode()
}

func (*Atom) exprNode()      {}
func (*Literal) exprNode()   {}
func (*Enclosure) exprNode() {}
func (*UnaryOp) exprNode()   {}
func (*BinaryOp) exprNode()  {}
func (*Access) exprNode()    {}
func (*Call) exprNode()      {}
func (*Sequence) exprNode()  {}
func (*List) exprNode()      {}
func (*Length) exprNode()    {}

func (*ExpressionStmt) stmtNode() {}
func (*Assign) stmtNode()         {}
func (*If) stmtNode()             {}
func (*While) stmtNode()          {}
func (*For) stmtNode()            {}
func (*FuncDef) stmtNode()        {}
func (*Return) stmtNode()         {}
func (*Print) stmtNode()          {}
func (*StatementList) stmtNode()  {}
