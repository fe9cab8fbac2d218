package errors

import (
	"fmt"
	"strings"
)

// Kind identifies a category of compilation or evaluation failure.
// A Kind is itself an error so callers can match with errors.Is:
//
//	errors.Is(err, cerrors.NameError)
type Kind string

const (
	SyntaxError         Kind = "SyntaxError"
	IndentationError    Kind = "IndentationError"
	CompilationError    Kind = "CompilationError"
	NameError           Kind = "NameError"
	ZeroDivisionError   Kind = "ZeroDivisionError"
	UnknownTokenError   Kind = "UnknownTokenError"
	TypeError           Kind = "TypeError"
	NotImplementedError Kind = "NotImplementedError"
)

func (k Kind) Error() string {
	return string(k)
}

// Error is a structured failure with kind, position and context
type Error struct {
	Kind    Kind
	Message string
	Line    int
	Column  int
	Token   string // offending token text, when known

	Suggestions []string
	Context     map[string]interface{}
	Cause       error

	source string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d, column %d)", e.Line, e.Column)
	}
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, "; did you mean '%s'?", strings.Join(e.Suggestions, "', '"))
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.Cause)
	}
	return b.String()
}

// Unwrap allows error unwrapping
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is this error's Kind
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// New creates a new Error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// Wrap creates a new Error wrapping an existing error
func Wrap(kind Kind, message string, cause error) *Error {
	e := New(kind, message)
	e.Cause = cause
	return e
}

// At records the source position of the error
func (e *Error) At(line, column int) *Error {
	e.Line = line
	e.Column = column
	return e
}

// WithToken records the offending token text
func (e *Error) WithToken(text string) *Error {
	e.Token = text
	return e
}

// WithContext adds context information to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	e.Context[key] = value
	return e
}

// WithSuggestions attaches "did you mean" candidates
func (e *Error) WithSuggestions(names ...string) *Error {
	e.Suggestions = append(e.Suggestions, names...)
	return e
}

// WithSource attaches the compiled source so Detail can print a snippet
func (e *Error) WithSource(source string) *Error {
	e.source = source
	return e
}

// GetContext returns context value by key
func (e *Error) GetContext(key string) (interface{}, bool) {
	value, exists := e.Context[key]
	return value, exists
}

// Detail returns the error message followed by a code snippet pointing
// at the error location, when the source is known.
func (e *Error) Detail() string {
	snippet := e.snippet()
	if snippet == "" {
		return e.Error()
	}
	return e.Error() + "\n" + snippet
}

func (e *Error) snippet() string {
	if e.source == "" || e.Line == 0 {
		return ""
	}

	lines := strings.Split(e.source, "\n")
	if e.Line > len(lines) {
		return ""
	}
	lineContent := strings.TrimRight(lines[e.Line-1], "\r")

	var b strings.Builder
	fmt.Fprintf(&b, "  --> %d:%d\n", e.Line, e.Column)
	b.WriteString("   |\n")
	fmt.Fprintf(&b, "%2d | %s\n", e.Line, lineContent)
	b.WriteString("   | ")
	if e.Column > 0 && e.Column <= len(lineContent)+1 {
		b.WriteString(strings.Repeat(" ", e.Column-1) + "^")
	}
	return b.String()
}

// Helper functions for common error scenarios

// NewSyntaxError creates an unexpected-token error
func NewSyntaxError(reason, token string, line, column int) *Error {
	return New(SyntaxError, reason).WithToken(token).At(line, column)
}

// NewIndentationError creates an error for a missing or mismatched
// NEWLINE, INDENT or DEDENT.
func NewIndentationError(reason, got string, line, column int) *Error {
	return New(IndentationError, reason).WithToken(got).At(line, column)
}

// NewCompilationError creates a policy violation error
func NewCompilationError(message string) *Error {
	return New(CompilationError, message)
}

// NewNameError creates an undeclared identifier error
func NewNameError(name string, line, column int) *Error {
	return New(NameError, fmt.Sprintf("variable or function with name '%s' is not defined", name)).
		WithToken(name).
		WithContext("name", name).
		At(line, column)
}

// NewZeroDivisionError creates a division by zero error
func NewZeroDivisionError(op string) *Error {
	return New(ZeroDivisionError, op+" by zero")
}

// NewUnknownTokenError creates an error for a character the lexer cannot classify
func NewUnknownTokenError(message, token string, line, column int) *Error {
	return New(UnknownTokenError, message).WithToken(token).At(line, column)
}

// NewTypeError creates an operand type mismatch error
func NewTypeError(message string) *Error {
	return New(TypeError, message)
}

// NewNotImplementedError reports a node that can be rendered but not evaluated
func NewNotImplementedError(node string) *Error {
	return New(NotImplementedError, node+" cannot be evaluated").WithContext("node", node)
}

// IsKind checks if an error is, or wraps, an Error of a specific kind
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// As returns the first *Error in err's chain
func As(err error) (*Error, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
