package ast

import (
	"errors"
	"fmt"
	"go/token"
)

var (
	// ErrDuplicateDeclaration is returned when a name is declared twice in one scope.
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
	// ErrNilVariable is returned when a nil cell is declared.
	ErrNilVariable = errors.New("nil variable")
)

// Scope is a lexical block: a symbol table and an ordered list of statements.
// A Scope does not know its enclosing scope; names are resolved while the
// tree is built (see package resolver).
type Scope struct {
	base
	Lbrace token.Pos

	symbols map[string]*Variable
	names   []string // declaration order
	list    []Stmt
}

func (s *Scope) Pos() token.Pos { return s.Lbrace }

// Declare binds name to v in this scope.
// A name that already exists in an enclosing scope is not a duplicate.
func (s *Scope) Declare(name string, v *Variable) error {
	if v == nil {
		return fmt.Errorf("declare %q: %w", name, ErrNilVariable)
	}
	if _, ok := s.symbols[name]; ok {
		return fmt.Errorf("declare %q: %w", name, ErrDuplicateDeclaration)
	}
	if s.symbols == nil {
		s.symbols = make(map[string]*Variable, 8)
	}
	s.symbols[name] = v
	s.names = append(s.names, name)
	return nil
}

// IsDeclared reports whether name is declared in this scope itself.
func (s *Scope) IsDeclared(name string) bool {
	_, ok := s.symbols[name]
	return ok
}

// Lookup returns the cell bound to name in this scope itself.
func (s *Scope) Lookup(name string) (*Variable, bool) {
	v, ok := s.symbols[name]
	return v, ok
}

// AddStatement appends stmt to the statement list.
func (s *Scope) AddStatement(stmt Stmt) {
	s.list = append(s.list, stmt)
}

// Statements returns the statements in insertion order.
func (s *Scope) Statements() []Stmt {
	return s.list
}

// Symbols returns the declared cells in declaration order.
func (s *Scope) Symbols() []*Variable {
	vars := make([]*Variable, 0, len(s.names))
	for _, name := range s.names {
		vars = append(vars, s.symbols[name])
	}
	return vars
}
