package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/aledsdavies/pyjs/pkgs/errors"
)

func TestLiteral(t *testing.T) {
	tests := []struct {
		name   string
		lit    *Literal
		value  Value
		render string
	}{
		{"string", Str("hi"), "hi", "'hi'"},
		{"string with quote", Str("it's"), "it's", `'it\'s'`},
		{"integer", Num(12), int64(12), "12"},
		{"float text kept", Num("1.50"), 1.5, "1.50"},
		{"true", Bool(true), true, "true"},
		{"false", Bool(false), false, "false"},
		{"none", Null(), nil, "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.lit.Evaluate()
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
			assert.Equal(t, tt.render, tt.lit.Render())
		})
	}
}

func TestAtomAndEnclosure(t *testing.T) {
	atom := &Atom{Text: "x"}
	v, err := atom.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, "x", v)
	assert.Equal(t, "x", atom.Render())

	nested := &Atom{Inner: Paren(Bin(Add, Num(1), Num(2)))}
	v, err = nested.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
	assert.Equal(t, "(1 + 2)", nested.Render())
}

func TestBinaryEvaluate(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want Value
	}{
		{"precedence", Bin(Add, Num(1), Bin(Multiply, Num(2), Num(2))), int64(5)},
		{"enclosure", Bin(Multiply, Paren(Bin(Add, Num(1), Num(2))), Num(2)), int64(6)},
		{"right associative power", Bin(Power, Num(2), Bin(Power, Num(3), Num(2))), int64(512)},
		{"comparison", Bin(LesserEquals, Num(2), Num(2)), true},
		{"not equals", Bin(NotEquals, Str("a"), Str("b")), true},
		{"equals across types", Bin(Equals, Num(1), Num("1.0")), true},
		{"and yields deciding operand", Bin(And, Num(1), Str("x")), "x"},
		{"and short circuits", Bin(And, Num(0), Bin(Divide, Num(1), Num(0))), int64(0)},
		{"or short circuits", Bin(Or, Str("a"), Bin(Divide, Num(1), Num(0))), "a"},
		{"or falls through", Bin(Or, Null(), Bool(false)), false},
		{"modulo", Bin(Modulo, Num(10), Num(4)), int64(2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.expr.Evaluate()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBinaryEvaluateErrors(t *testing.T) {
	div := Bin(Divide, Num(1), Num(0))
	assert.Equal(t, "1 / 0", div.Render(), "rendering never divides")

	_, err := div.Evaluate()
	assert.True(t, cerrors.IsKind(err, cerrors.ZeroDivisionError))

	_, err = Bin(Lesser, Str("a"), Num(1)).Evaluate()
	assert.True(t, cerrors.IsKind(err, cerrors.TypeError))

	_, err = Bin(Add, Num(1), CallOf("f")).Evaluate()
	assert.True(t, cerrors.IsKind(err, cerrors.NotImplementedError))
}

func TestBinaryRender(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"flat", Bin(Add, Id("a"), Id("b")), "a + b"},
		{"equality is strict", Bin(Equals, Id("a"), Id("b")), "a === b"},
		{"inequality is strict", Bin(NotEquals, Id("a"), Id("b")), "a !== b"},
		{"logical", Bin(Or, Bin(And, Id("a"), Id("b")), Id("c")), "a && b || c"},
		{"lower precedence left child", Bin(Multiply, Bin(Add, Id("a"), Id("b")), Id("c")), "(a + b) * c"},
		{"left fold needs no parens", Bin(Subtract, Bin(Subtract, Id("a"), Id("b")), Id("c")), "a - b - c"},
		{"right child of same precedence", Bin(Subtract, Id("a"), Bin(Subtract, Id("b"), Id("c"))), "a - (b - c)"},
		{"right power chain", Bin(Power, Id("a"), Bin(Power, Id("b"), Id("c"))), "a ** b ** c"},
		{"left power chain", Bin(Power, Bin(Power, Id("a"), Id("b")), Id("c")), "(a ** b) ** c"},
		{"negated power base", Bin(Power, Neg(Id("a")), Num(2)), "(-a) ** 2"},
		{"comparison of sums", Bin(Lesser, Bin(Add, Id("a"), Num(1)), Id("b")), "a + 1 < b"},
		{"or inside and", Bin(And, Id("a"), Bin(Or, Id("b"), Id("c"))), "a && (b || c)"},
		{"source parens kept", Bin(Multiply, Paren(Bin(Add, Num(1), Num(2))), Num(4)), "(1 + 2) * 4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.Render())
		})
	}
}

func TestUnary(t *testing.T) {
	tests := []struct {
		name   string
		expr   Expr
		value  Value
		render string
	}{
		{"negate", Neg(Num(3)), int64(-3), "-3"},
		{"negate float", Neg(Num("2.5")), -2.5, "-2.5"},
		{"negate enclosure", Neg(Paren(Bin(Subtract, Num(1), Num(3)))), int64(2), "-(1 - 3)"},
		{"not", NotOf(Bool(true)), false, "!true"},
		{"not binary", NotOf(Bin(Lesser, Num(1), Num(2))), false, "!(1 < 2)"},
		{"double not", NotOf(NotOf(Str(""))), false, "!(!'')"},
		{"negate of not", Neg(NotOf(Id("a"))), nil, "-!a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.render, tt.expr.Render())
			if tt.value == nil {
				return
			}
			got, err := tt.expr.Evaluate()
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}

	_, err := Neg(Str("a")).Evaluate()
	assert.True(t, cerrors.IsKind(err, cerrors.TypeError))
}

func TestAccess(t *testing.T) {
	v, err := Id("x").Evaluate()
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, "x", Id("x").Render())
	assert.Equal(t, "'x'", (&Access{Name: "x", Quoted: true}).Render())
}

func TestCall(t *testing.T) {
	call := CallOf("f", Num(1), Bin(Add, Id("a"), Num(2)))
	assert.Equal(t, "f(1,a + 2)", call.Render())
	assert.Equal(t, "g()", CallOf("g").Render())

	_, err := call.Evaluate()
	assert.True(t, cerrors.IsKind(err, cerrors.NotImplementedError))
}

func TestSequenceAndList(t *testing.T) {
	seq := Seq(Num(1), Str("a"))
	v, err := seq.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, []Value{int64(1), "a"}, v)
	assert.Equal(t, "1,'a'", seq.Render())

	list := ListOf(Num(1), ListOf())
	v, err = list.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, []Value{int64(1), []Value{}}, v)
	assert.Equal(t, "[1,[]]", list.Render())

	_, err = ListOf(Bin(Divide, Num(1), Num(0))).Evaluate()
	assert.Error(t, err)
}

func TestLength(t *testing.T) {
	assert.Equal(t, "x.length", (&Length{Operand: Id("x")}).Render())
	assert.Equal(t, "[1,2].length", (&Length{Operand: ListOf(Num(1), Num(2))}).Render())
	assert.Equal(t, "(a + b).length", (&Length{Operand: Bin(Add, Id("a"), Id("b"))}).Render())
	assert.Equal(t, "(5).length", (&Length{Operand: Num(5)}).Render())
	assert.Equal(t, "'abc'.length", (&Length{Operand: Str("abc")}).Render())

	_, err := (&Length{Operand: Str("abc")}).Evaluate()
	assert.True(t, cerrors.IsKind(err, cerrors.NotImplementedError))
}

func TestKindNames(t *testing.T) {
	assert.Equal(t, "Power", Power.String())
	assert.Equal(t, "**", Power.Symbol())
	assert.Equal(t, "BinaryKind(99)", BinaryKind(99).String())
	assert.Equal(t, "Not", Not.String())
	assert.Equal(t, "Null", NullLiteral.String())
}
