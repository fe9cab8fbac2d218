package ast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/aledsdavies/pyjs/pkgs/errors"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		text string
		want Value
	}{
		{"0", int64(0)},
		{"42", int64(42)},
		{"1.5", 1.5},
		{"5.", 5.0},
		{".25", 0.25},
		{"1e3", 1000.0},
		{"99999999999999999999", 1e20},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseNumber(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseNumber("1x")
	assert.True(t, cerrors.IsKind(err, cerrors.SyntaxError))
}

func TestTruthy(t *testing.T) {
	truthy := []Value{true, int64(1), -0.5, "a", []Value{nil}}
	falsy := []Value{nil, false, int64(0), 0.0, math.NaN(), "", []Value{}}

	for _, v := range truthy {
		assert.True(t, Truthy(v), "%#v", v)
	}
	for _, v := range falsy {
		assert.False(t, Truthy(v), "%#v", v)
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(int64(2), 2.0))
	assert.True(t, Equal("a", "a"))
	assert.True(t, Equal(nil, nil))
	assert.True(t, Equal([]Value{int64(1), "x"}, []Value{1.0, "x"}))
	assert.False(t, Equal([]Value{int64(1)}, []Value{int64(1), int64(2)}))
	assert.False(t, Equal([]Value{}, "[]"))
	assert.False(t, Equal(int64(1), "1"))
	assert.False(t, Equal(true, int64(1)))
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{nil, "None"},
		{true, "True"},
		{false, "False"},
		{int64(-3), "-3"},
		{2.5, "2.5"},
		{1e21, "1e+21"},
		{"text", "text"},
		{[]Value{int64(1), "a", nil}, `[1, "a", None]`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.v))
	}
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "NoneType", TypeName(nil))
	assert.Equal(t, "int", TypeName(int64(1)))
	assert.Equal(t, "float", TypeName(1.0))
	assert.Equal(t, "str", TypeName(""))
	assert.Equal(t, "list", TypeName([]Value{}))
	assert.Equal(t, "bool", TypeName(false))
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		fn   func(a, b Value) (Value, error)
		a, b Value
		want Value
	}{
		{"int add", add, int64(2), int64(3), int64(5)},
		{"mixed add", add, int64(2), 0.5, 2.5},
		{"string concat", add, "ab", "cd", "abcd"},
		{"list concat", add, []Value{int64(1)}, []Value{int64(2)}, []Value{int64(1), int64(2)}},
		{"subtract", subtract, int64(2), int64(5), int64(-3)},
		{"multiply", multiply, 1.5, int64(2), 3.0},
		{"exact division stays int", divide, int64(6), int64(3), int64(2)},
		{"inexact division", divide, int64(7), int64(2), 3.5},
		{"float division", divide, 1.0, 4.0, 0.25},
		{"modulo", modulo, int64(7), int64(3), int64(1)},
		{"float modulo", modulo, 7.5, int64(2), 1.5},
		{"power", power, int64(2), int64(10), int64(1024)},
		{"power zero", power, int64(5), int64(0), int64(1)},
		{"negative exponent", power, int64(2), int64(-1), 0.5},
		{"float power", power, 4.0, 0.5, 2.0},
		{"add overflow promotes", add, int64(math.MaxInt64), int64(1), math.Exp2(63)},
		{"subtract overflow promotes", subtract, int64(math.MinInt64), int64(1), -math.Exp2(63)},
		{"multiply overflow promotes", multiply, int64(1) << 62, int64(4), math.Exp2(64)},
		{"negative product at the edge", multiply, int64(1) << 62, int64(-2), int64(math.MinInt64)},
		{"power overflow promotes", power, int64(2), int64(64), math.Exp2(64)},
		{"largest int power", power, int64(2), int64(62), int64(1) << 62},
		{"negative base power", power, int64(-2), int64(63), int64(math.MinInt64)},
		{"division overflow promotes", divide, int64(math.MinInt64), int64(-1), math.Exp2(63)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNegateSmallestInt(t *testing.T) {
	got, err := negate(int64(math.MinInt64))
	require.NoError(t, err)
	assert.Equal(t, math.Exp2(63), got)
}

func TestArithmeticErrors(t *testing.T) {
	_, err := divide(int64(1), int64(0))
	assert.True(t, cerrors.IsKind(err, cerrors.ZeroDivisionError))
	assert.Contains(t, err.Error(), "division by zero")

	_, err = divide(1.0, 0.0)
	assert.True(t, cerrors.IsKind(err, cerrors.ZeroDivisionError))

	_, err = modulo(int64(1), int64(0))
	assert.Contains(t, err.Error(), "modulo by zero")

	_, err = subtract("a", int64(1))
	assert.True(t, cerrors.IsKind(err, cerrors.TypeError))
	assert.Contains(t, err.Error(), "unsupported operand type(s) for -: 'str' and 'int'")

	_, err = add("a", int64(1))
	assert.True(t, cerrors.IsKind(err, cerrors.TypeError))

	_, err = negate("a")
	assert.Contains(t, err.Error(), "bad operand type for unary -: 'str'")

	_, err = compare("<", "a", int64(1))
	assert.Contains(t, err.Error(), "'<' not supported between instances of 'str' and 'int'")
}

func TestCompare(t *testing.T) {
	c, err := compare("<", int64(1), 2.0)
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = compare("<", "b", "a")
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	c, err = compare("==", 3.0, int64(3))
	require.NoError(t, err)
	assert.Equal(t, 0, c)
}

func TestQuoteJS(t *testing.T) {
	assert.Equal(t, "'plain'", quoteJS("plain"))
	assert.Equal(t, `'it\'s'`, quoteJS("it's"))
	assert.Equal(t, `'a\\b'`, quoteJS(`a\b`))
}
