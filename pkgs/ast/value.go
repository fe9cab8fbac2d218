package ast

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"

	cerrors "github.com/aledsdavies/pyjs/pkgs/errors"
)

// ParseNumber converts number literal text to int64, or float64 when the
// literal has a fraction, an exponent, or overflows int64.
func ParseNumber(text string) (Value, error) {
	if !strings.ContainsAny(text, ".eE") {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return i, nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.SyntaxError, fmt.Sprintf("invalid number literal %q", text), err)
	}
	return f, nil
}

// Truthy reports the boolean interpretation of a value
func Truthy(v Value) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int64:
		return x != 0
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	case []Value:
		return len(x) > 0
	}
	return true
}

// Equal compares values, promoting int64 to float64 when mixed
func Equal(a, b Value) bool {
	if x, y, isInt, ok := numbers(a, b); ok {
		if isInt {
			return x.(int64) == y.(int64)
		}
		return x.(float64) == y.(float64)
	}
	la, aok := a.([]Value)
	lb, bok := b.([]Value)
	if aok || bok {
		if !aok || !bok || len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !Equal(la[i], lb[i]) {
				return false
			}
		}
		return true
	}
	return a == b
}

// TypeName returns the language-level name of a value's type
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "NoneType"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "str"
	case []Value:
		return "list"
	}
	return fmt.Sprintf("%T", v)
}

// FormatValue prints a value the way the language would
func FormatValue(v Value) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case bool:
		if x {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	case []Value:
		parts := make([]string, len(x))
		for i, item := range x {
			if s, ok := item.(string); ok {
				parts[i] = strconv.Quote(s)
				continue
			}
			parts[i] = FormatValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return fmt.Sprint(v)
}

// numbers coerces a pair of numeric values to a common type. isInt is
// true when both are int64.
func numbers(a, b Value) (x, y Value, isInt, ok bool) {
	switch l := a.(type) {
	case int64:
		switch r := b.(type) {
		case int64:
			return l, r, true, true
		case float64:
			return float64(l), r, false, true
		}
	case float64:
		switch r := b.(type) {
		case int64:
			return l, float64(r), false, true
		case float64:
			return l, r, false, true
		}
	}
	return nil, nil, false, false
}

func operandError(op string, a, b Value) error {
	return cerrors.NewTypeError(fmt.Sprintf("unsupported operand type(s) for %s: '%s' and '%s'",
		op, TypeName(a), TypeName(b)))
}

func isZero(v Value) bool {
	switch x := v.(type) {
	case int64:
		return x == 0
	case float64:
		return x == 0
	}
	return false
}

func add(a, b Value) (Value, error) {
	if x, y, isInt, ok := numbers(a, b); ok {
		if isInt {
			l, r := x.(int64), y.(int64)
			if sum := l + r; (l^sum)&(r^sum) >= 0 {
				return sum, nil
			}
			return float64(l) + float64(r), nil
		}
		return x.(float64) + y.(float64), nil
	}
	if l, ok := a.(string); ok {
		if r, ok := b.(string); ok {
			return l + r, nil
		}
	}
	if l, ok := a.([]Value); ok {
		if r, ok := b.([]Value); ok {
			out := make([]Value, 0, len(l)+len(r))
			return append(append(out, l...), r...), nil
		}
	}
	return nil, operandError("+", a, b)
}

func subtract(a, b Value) (Value, error) {
	x, y, isInt, ok := numbers(a, b)
	if !ok {
		return nil, operandError("-", a, b)
	}
	if isInt {
		l, r := x.(int64), y.(int64)
		if diff := l - r; (l^r)&(l^diff) >= 0 {
			return diff, nil
		}
		return float64(l) - float64(r), nil
	}
	return x.(float64) - y.(float64), nil
}

func multiply(a, b Value) (Value, error) {
	x, y, isInt, ok := numbers(a, b)
	if !ok {
		return nil, operandError("*", a, b)
	}
	if isInt {
		l, r := x.(int64), y.(int64)
		if p, ok := mulInt(l, r); ok {
			return p, nil
		}
		return float64(l) * float64(r), nil
	}
	return x.(float64) * y.(float64), nil
}

// divide keeps integer results exact and falls back to float64 when the
// quotient has a fraction.
func divide(a, b Value) (Value, error) {
	x, y, isInt, ok := numbers(a, b)
	if !ok {
		return nil, operandError("/", a, b)
	}
	if isZero(b) {
		return nil, cerrors.NewZeroDivisionError("division")
	}
	if isInt {
		l, r := x.(int64), y.(int64)
		if l == math.MinInt64 && r == -1 {
			return -float64(l), nil
		}
		if l%r == 0 {
			return l / r, nil
		}
		return float64(l) / float64(r), nil
	}
	return x.(float64) / y.(float64), nil
}

func modulo(a, b Value) (Value, error) {
	x, y, isInt, ok := numbers(a, b)
	if !ok {
		return nil, operandError("%", a, b)
	}
	if isZero(b) {
		return nil, cerrors.NewZeroDivisionError("modulo")
	}
	if isInt {
		return x.(int64) % y.(int64), nil
	}
	return math.Mod(x.(float64), y.(float64)), nil
}

func power(a, b Value) (Value, error) {
	x, y, isInt, ok := numbers(a, b)
	if !ok {
		return nil, operandError("**", a, b)
	}
	if isInt && y.(int64) >= 0 {
		if result, ok := powInt(x.(int64), y.(int64)); ok {
			return result, nil
		}
		return math.Pow(float64(x.(int64)), float64(y.(int64))), nil
	}
	xf, yf := x, y
	if isInt {
		xf, yf = float64(x.(int64)), float64(y.(int64))
	}
	return math.Pow(xf.(float64), yf.(float64)), nil
}

// mulInt multiplies l and r, reporting false when the product does not
// fit in an int64.
func mulInt(l, r int64) (int64, bool) {
	if l == 0 || r == 0 {
		return 0, true
	}
	neg := (l < 0) != (r < 0)
	hi, lo := bits.Mul64(absUint(l), absUint(r))
	if hi != 0 {
		return 0, false
	}
	if neg {
		if lo > 1<<63 {
			return 0, false
		}
		return int64(-lo), true
	}
	if lo > math.MaxInt64 {
		return 0, false
	}
	return int64(lo), true
}

func absUint(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}

// powInt is exponentiation by squaring for a non-negative exponent
func powInt(base, exp int64) (int64, bool) {
	result := int64(1)
	for {
		var ok bool
		if exp&1 == 1 {
			if result, ok = mulInt(result, base); !ok {
				return 0, false
			}
		}
		exp >>= 1
		if exp == 0 {
			return result, true
		}
		if base, ok = mulInt(base, base); !ok {
			return 0, false
		}
	}
}

// compare orders two numbers or two strings: -1, 0 or 1
func compare(op string, a, b Value) (int, error) {
	if x, y, isInt, ok := numbers(a, b); ok {
		if isInt {
			l, r := x.(int64), y.(int64)
			switch {
			case l < r:
				return -1, nil
			case l > r:
				return 1, nil
			}
			return 0, nil
		}
		l, r := x.(float64), y.(float64)
		switch {
		case l < r:
			return -1, nil
		case l > r:
			return 1, nil
		}
		return 0, nil
	}
	if l, ok := a.(string); ok {
		if r, ok := b.(string); ok {
			return strings.Compare(l, r), nil
		}
	}
	return 0, cerrors.NewTypeError(fmt.Sprintf("'%s' not supported between instances of '%s' and '%s'",
		op, TypeName(a), TypeName(b)))
}

func negate(v Value) (Value, error) {
	switch x := v.(type) {
	case int64:
		if x == math.MinInt64 {
			return -float64(x), nil
		}
		return -x, nil
	case float64:
		return -x, nil
	}
	return nil, cerrors.NewTypeError(fmt.Sprintf("bad operand type for unary -: '%s'", TypeName(v)))
}

// quoteJS renders text as a single-quoted JavaScript string
func quoteJS(text string) string {
	if !strings.ContainsAny(text, `'\`) {
		return "'" + text + "'"
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(text) + "'"
}
