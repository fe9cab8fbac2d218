package ast

import (
	"fmt"
	"strings"
)

// Dump returns an indented outline of the tree, one node per line
func Dump(n Node) string {
	var b strings.Builder
	dump(&b, n, 0)
	return b.String()
}

func dump(b *strings.Builder, n Node, depth int) {
	pad := strings.Repeat("  ", depth)
	line := func(format string, args ...interface{}) {
		b.WriteString(pad)
		fmt.Fprintf(b, format, args...)
		b.WriteByte('\n')
	}

	switch v := n.(type) {
	case nil:
		line("<nil>")
	case *StatementList:
		line("StatementList")
		for _, s := range v.Statements {
			dump(b, s, depth+1)
		}
	case *ExpressionStmt:
		line("ExpressionStmt")
		dump(b, v.X, depth+1)
	case *Assign:
		line("Assign %s declared=%t", v.Name, v.Declared)
		dump(b, v.Value, depth+1)
	case *If:
		line("If")
		for _, c := range v.Clauses {
			if c.Cond == nil {
				b.WriteString(pad + "  Else\n")
			} else {
				b.WriteString(pad + "  Clause\n")
				dump(b, c.Cond, depth+2)
			}
			dump(b, c.Body, depth+2)
		}
	case *While:
		line("While")
		dump(b, v.Test, depth+1)
		dump(b, v.Body, depth+1)
	case *For:
		line("For %s", v.Var)
		dump(b, v.Start, depth+1)
		dump(b, v.Stop, depth+1)
		dump(b, v.Step, depth+1)
		dump(b, v.Body, depth+1)
	case *FuncDef:
		params := make([]string, len(v.Params))
		for i, p := range v.Params {
			params[i] = p.Text
		}
		line("FuncDef %s(%s)", v.Name, strings.Join(params, ", "))
		dump(b, v.Body, depth+1)
	case *Return:
		line("Return")
		if v.Value != nil {
			dump(b, v.Value, depth+1)
		}
	case *Print:
		line("Print")
		for _, a := range v.Args {
			dump(b, a, depth+1)
		}
	case *Literal:
		line("%s %s", v.Kind, v.Text)
	case *Atom:
		if v.Inner != nil {
			line("Atom")
			dump(b, v.Inner, depth+1)
			return
		}
		line("Atom %s", v.Text)
	case *Enclosure:
		line("Enclosure")
		dump(b, v.Inner, depth+1)
	case *UnaryOp:
		line("%s", v.Kind)
		dump(b, v.Operand, depth+1)
	case *BinaryOp:
		line("%s", v.Kind)
		dump(b, v.Left, depth+1)
		dump(b, v.Right, depth+1)
	case *Access:
		line("Access %s", v.Name)
	case *Call:
		line("Call %s", v.Name)
		for _, a := range v.Args {
			dump(b, a, depth+1)
		}
	case *Sequence:
		line("Sequence")
		for _, item := range v.Items {
			dump(b, item, depth+1)
		}
	case *List:
		line("List")
		for _, item := range v.Items {
			dump(b, item, depth+1)
		}
	case *Length:
		line("Length")
		dump(b, v.Operand, depth+1)
	default:
		line("%T", n)
	}
}
