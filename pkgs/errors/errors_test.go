package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "positioned",
			err:  NewSyntaxError("invalid syntax", "+", 2, 5),
			want: "SyntaxError: invalid syntax (line 2, column 5)",
		},
		{
			name: "unpositioned",
			err:  NewZeroDivisionError("division"),
			want: "ZeroDivisionError: division by zero",
		},
		{
			name: "with suggestions",
			err:  NewNameError("cout", 1, 7).WithSuggestions("count", "counter"),
			want: "NameError: variable or function with name 'cout' is not defined (line 1, column 7); did you mean 'count', 'counter'?",
		},
		{
			name: "with cause",
			err:  Wrap(CompilationError, "bad rules", fmt.Errorf("boom")),
			want: "CompilationError: bad rules (caused by: boom)",
		},
		{
			name: "not implemented",
			err:  NewNotImplementedError("Call"),
			want: "NotImplementedError: Call cannot be evaluated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKindMatching(t *testing.T) {
	err := fmt.Errorf("compile: %w", NewIndentationError("expected an indented block", "x", 3, 1))

	assert.True(t, stderrors.Is(err, IndentationError))
	assert.False(t, stderrors.Is(err, SyntaxError))
	assert.True(t, IsKind(err, IndentationError))
	assert.False(t, IsKind(err, NameError))
	assert.False(t, IsKind(nil, NameError))

	e, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, 3, e.Line)
	assert.Equal(t, "x", e.Token)

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestWrapUnwrap(t *testing.T) {
	cause := fmt.Errorf("root")
	err := Wrap(TypeError, "outer", cause)
	assert.Same(t, cause, stderrors.Unwrap(err))
	assert.True(t, stderrors.Is(err, cause))
}

func TestContext(t *testing.T) {
	err := NewNameError("x", 1, 1).WithContext("scope", 2)

	v, ok := err.GetContext("name")
	require.True(t, ok)
	assert.Equal(t, "x", v)

	v, ok = err.GetContext("scope")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = err.GetContext("missing")
	assert.False(t, ok)
}

func TestDetailSnippet(t *testing.T) {
	source := "a = 1\nprint(b)\n"
	err := NewNameError("b", 2, 7).WithSource(source)

	want := "NameError: variable or function with name 'b' is not defined (line 2, column 7)\n" +
		"  --> 2:7\n" +
		"   |\n" +
		" 2 | print(b)\n" +
		"   |       ^"
	assert.Equal(t, want, err.Detail())
}

func TestDetailWithoutSource(t *testing.T) {
	err := NewCompilationError("If statement is disabled").At(1, 1)
	assert.Equal(t, err.Error(), err.Detail())

	err = NewSyntaxError("x", "y", 9, 1).WithSource("one line")
	assert.Equal(t, err.Error(), err.Detail(), "line past the end of source")
}
