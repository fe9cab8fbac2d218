package lexer

import (
	"fmt"
)

// IndentState tracks layout: the stack of open indentation widths and the
// depth of unmatched brackets. While the bracket depth is positive the
// lexer joins physical lines and synthesizes no structural tokens.
type IndentState struct {
	stack     []int
	joinDepth int
}

// NewIndentState creates a state at indentation level 0
func NewIndentState() *IndentState {
	return &IndentState{
		stack: []int{0},
	}
}

// Current returns the innermost indentation width
func (s *IndentState) Current() int {
	return s.stack[len(s.stack)-1]
}

// Depth returns the number of open indented blocks
func (s *IndentState) Depth() int {
	return len(s.stack) - 1
}

// Joined reports whether the lexer is inside an unmatched bracket
func (s *IndentState) Joined() bool {
	return s.joinDepth > 0
}

// OpenBracket enters a bracket group
func (s *IndentState) OpenBracket() {
	s.joinDepth++
}

// CloseBracket leaves a bracket group. A stray closing bracket leaves the
// depth at zero; the parser reports it.
func (s *IndentState) CloseBracket() {
	if s.joinDepth > 0 {
		s.joinDepth--
	}
}

// Measure compares a line's indentation width with the stack and returns
// the structural tokens it implies: one INDENT, a run of DEDENTs, or
// nothing. A width that closes blocks without landing on a previously
// pushed level is an error.
func (s *IndentState) Measure(width int) ([]Kind, error) {
	current := s.Current()
	switch {
	case width == current:
		return nil, nil
	case width > current:
		s.stack = append(s.stack, width)
		return []Kind{INDENT}, nil
	}

	var out []Kind
	for width < s.Current() {
		s.stack = s.stack[:len(s.stack)-1]
		out = append(out, DEDENT)
	}
	if width != s.Current() {
		return out, fmt.Errorf("unindent to width %d does not match any outer level (nearest %d)", width, s.Current())
	}
	return out, nil
}

// Flush closes every open block and returns the number of DEDENTs owed
func (s *IndentState) Flush() int {
	n := s.Depth()
	s.stack = s.stack[:1]
	return n
}

func (s *IndentState) String() string {
	return fmt.Sprintf("IndentState{stack: %v, joinDepth: %d}", s.stack, s.joinDepth)
}
