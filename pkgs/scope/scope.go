package scope

import (
	"fmt"

	"github.com/google/uuid"

	cerrors "github.com/aledsdavies/pyjs/pkgs/errors"
)

// RefKind distinguishes what a declared name refers to
type RefKind int

const (
	Variable RefKind = iota
	Function
)

func (k RefKind) String() string {
	switch k {
	case Variable:
		return "variable"
	case Function:
		return "function"
	default:
		return fmt.Sprintf("RefKind(%d)", int(k))
	}
}

// Reference is a declared name
type Reference struct {
	ID       uuid.UUID
	Name     string
	Kind     RefKind
	Declared bool
}

// NewReference creates a reference with a fresh identity
func NewReference(name string, kind RefKind, declared bool) Reference {
	return Reference{
		ID:       uuid.New(),
		Name:     name,
		Kind:     kind,
		Declared: declared,
	}
}

// Scope is a lexical region of declared names. Lookups walk parent links
// to the root; the root is the only scope with a nil parent.
type Scope struct {
	parent *Scope
	refs   map[string]*Reference
	order  []string
	rules  *RuleSet
}

// NewRoot creates the top-level scope of a compilation
func NewRoot(rules *RuleSet) *Scope {
	return &Scope{
		refs:  make(map[string]*Reference),
		rules: rules,
	}
}

// Child creates a nested scope sharing the parent's rules
func (s *Scope) Child() *Scope {
	return &Scope{
		parent: s,
		refs:   make(map[string]*Reference),
		rules:  s.rules,
	}
}

// Parent returns the enclosing scope, or nil at the root
func (s *Scope) Parent() *Scope {
	return s.parent
}

// IsRoot reports whether the scope has no parent
func (s *Scope) IsRoot() bool {
	return s.parent == nil
}

// Rules returns the active rule set
func (s *Scope) Rules() *RuleSet {
	return s.rules
}

// Push declares references in this scope. Every name is checked against
// the blacklist before any is added, so a rejected push leaves the scope
// unchanged.
func (s *Scope) Push(refs ...Reference) error {
	for _, ref := range refs {
		if s.rules.Blacklisted(ref.Name) {
			return cerrors.NewCompilationError("Variable name is blacklisted: "+ref.Name).
				WithContext("name", ref.Name)
		}
	}
	for _, ref := range refs {
		if ref.ID == uuid.Nil {
			ref.ID = uuid.New()
		}
		if _, exists := s.refs[ref.Name]; !exists {
			s.order = append(s.order, ref.Name)
		}
		r := ref
		s.refs[ref.Name] = &r
	}
	return nil
}

// InCurrent reports whether name is declared in this scope alone
func (s *Scope) InCurrent(name string) bool {
	_, ok := s.refs[name]
	return ok
}

// InParentTree reports whether name is declared here or in any enclosing scope
func (s *Scope) InParentTree(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Lookup finds the nearest declaration of name
func (s *Scope) Lookup(name string) (*Reference, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if ref, ok := cur.refs[name]; ok {
			return ref, true
		}
	}
	return nil, false
}

// Local returns this scope's references in declaration order
func (s *Scope) Local() []Reference {
	out := make([]Reference, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, *s.refs[name])
	}
	return out
}

// Names returns every visible name, nearest scope first, without
// duplicates.
func (s *Scope) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for cur := s; cur != nil; cur = cur.parent {
		for _, name := range cur.order {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// Depth returns the number of parent links to the root
func (s *Scope) Depth() int {
	d := 0
	for cur := s.parent; cur != nil; cur = cur.parent {
		d++
	}
	return d
}
