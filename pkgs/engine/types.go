package engine

import (
	"github.com/aledsdavies/pyjs/pkgs/ast"
	"github.com/aledsdavies/pyjs/pkgs/scope"
)

// Program is a compiled source unit. The tree is immutable, so a Program
// may be shared between goroutines.
type Program struct {
	Source      string
	Rules       []scope.Rule
	Fingerprint [32]byte
	AST         *ast.StatementList
	Scope       *scope.Scope // root scope after compilation
}

// Render returns the program as JavaScript
func (p *Program) Render() string {
	return p.AST.Render()
}

// Evaluate interprets the program and returns one value per statement
func (p *Program) Evaluate() ([]ast.Value, error) {
	return p.AST.Exec()
}

// ID returns the printable fingerprint
func (p *Program) ID() string {
	return FormatFingerprint(p.Fingerprint)
}

// Stats reports cache behaviour
type Stats struct {
	Hits      uint64
	Misses    uint64
	Failures  uint64
	Entries   int
	Evictions uint64
}
