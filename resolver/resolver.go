// Package resolver binds identifiers to variable cells while a tree is being built.
//
// A Stack mirrors the lexical nesting currently under construction. It is
// discarded once the tree is complete; the tree itself keeps no parent links.
package resolver

import (
	"errors"
	"fmt"
	"go/token"

	"github.com/podhmo/paracl/ast"
)

var (
	// ErrNilScope is returned by Enter when it is given a nil scope.
	ErrNilScope = errors.New("resolver: enter nil scope")
	// ErrEmptyStack is returned when no scope is active.
	ErrEmptyStack = errors.New("resolver: no active scope")
)

// Stack is a last-in-first-out sequence of active scopes.
// It is not safe for concurrent use.
type Stack struct {
	arena  *ast.Arena
	scopes []*ast.Scope
}

// New creates an empty stack. New cells are allocated in arena.
func New(arena *ast.Arena) *Stack {
	return &Stack{arena: arena}
}

// Enter pushes scope.
func (s *Stack) Enter(scope *ast.Scope) error {
	if scope == nil {
		return ErrNilScope
	}
	s.scopes = append(s.scopes, scope)
	return nil
}

// Leave pops the innermost scope and returns it.
func (s *Stack) Leave() (*ast.Scope, error) {
	if len(s.scopes) == 0 {
		return nil, ErrEmptyStack
	}
	top := s.scopes[len(s.scopes)-1]
	s.scopes[len(s.scopes)-1] = nil
	s.scopes = s.scopes[:len(s.scopes)-1]
	return top, nil
}

// Current returns the innermost scope, or nil.
func (s *Stack) Current() *ast.Scope {
	if len(s.scopes) == 0 {
		return nil
	}
	return s.scopes[len(s.scopes)-1]
}

// Depth returns the number of active scopes.
func (s *Stack) Depth() int { return len(s.scopes) }

// Resolve finds the cell bound to name, searching from the innermost scope outwards.
func (s *Stack) Resolve(name string) (*ast.Variable, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if v, ok := s.scopes[i].Lookup(name); ok {
			return v, true
		}
	}
	return nil, false
}

// DeclareOrFetch returns the nearest cell bound to name, creating one in the
// innermost scope if the name is not visible.
func (s *Stack) DeclareOrFetch(pos token.Pos, name string) (*ast.Variable, error) {
	if v, ok := s.Resolve(name); ok {
		return v, nil
	}
	return s.Declare(pos, name)
}

// Declare creates a new cell for name in the innermost scope, hiding any
// outer declaration for references resolved from now on.
func (s *Stack) Declare(pos token.Pos, name string) (*ast.Variable, error) {
	top := s.Current()
	if top == nil {
		return nil, fmt.Errorf("declare %q: %w", name, ErrEmptyStack)
	}
	if top.IsDeclared(name) {
		return nil, fmt.Errorf("declare %q: %w", name, ast.ErrDuplicateDeclaration)
	}
	v := s.arena.NewVariable(pos, name)
	if err := top.Declare(name, v); err != nil {
		return nil, err
	}
	return v, nil
}
