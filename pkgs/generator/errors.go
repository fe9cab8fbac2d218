package generator

import (
	"fmt"
	"strings"
)

// GeneratorError reports a failure while wrapping output
type GeneratorError struct {
	Message   string
	ErrorType string // "validation" or "template"
	Hint      string // closest valid value, if any
	Cause     error
}

func (e *GeneratorError) Error() string {
	var b strings.Builder
	if e.ErrorType != "" {
		fmt.Fprintf(&b, "[%s] ", e.ErrorType)
	}
	b.WriteString("generator error: ")
	b.WriteString(e.Message)
	if e.Hint != "" {
		fmt.Fprintf(&b, "; did you mean '%s'?", e.Hint)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *GeneratorError) Unwrap() error {
	return e.Cause
}
