package ast

import (
	"errors"
	"go/token"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScope_Declare(t *testing.T) {
	a := NewArena()
	s := a.NewScope(token.NoPos)
	x := a.NewVariable(token.NoPos, "x")

	if err := s.Declare("x", x); err != nil {
		t.Fatalf("Declare() failed: %v", err)
	}
	if !s.IsDeclared("x") {
		t.Errorf("x must be declared")
	}
	if s.IsDeclared("y") {
		t.Errorf("y must not be declared")
	}
	got, ok := s.Lookup("x")
	if !ok || got != x {
		t.Errorf("Lookup(x) = %v, %t; want %v, true", got, ok, x)
	}

	err := s.Declare("x", a.NewVariable(token.NoPos, "x"))
	if !errors.Is(err, ErrDuplicateDeclaration) {
		t.Errorf("second Declare() = %v, want ErrDuplicateDeclaration", err)
	}
	if got, _ := s.Lookup("x"); got != x {
		t.Errorf("duplicate declaration replaced the original cell")
	}
}

func TestScope_DeclareNil(t *testing.T) {
	s := NewArena().NewScope(token.NoPos)
	if err := s.Declare("x", nil); !errors.Is(err, ErrNilVariable) {
		t.Errorf("Declare(nil) = %v, want ErrNilVariable", err)
	}
	if s.IsDeclared("x") {
		t.Errorf("a failed declaration must not register the name")
	}
}

func TestScope_ShadowingIsNotDuplicate(t *testing.T) {
	a := NewArena()
	outer := a.NewScope(token.NoPos)
	inner := a.NewScope(token.NoPos)

	if err := outer.Declare("x", a.NewVariable(token.NoPos, "x")); err != nil {
		t.Fatal(err)
	}
	if err := inner.Declare("x", a.NewVariable(token.NoPos, "x")); err != nil {
		t.Errorf("declaring x in another scope must succeed: %v", err)
	}
}

func TestScope_ZeroValueUsable(t *testing.T) {
	a := NewArena()
	s := Create(a, &Scope{})
	if _, ok := s.Lookup("x"); ok {
		t.Fatalf("empty scope must not find x")
	}
	if err := s.Declare("x", a.NewVariable(token.NoPos, "x")); err != nil {
		t.Fatalf("Declare() on zero Scope failed: %v", err)
	}
}

func TestScope_Order(t *testing.T) {
	a := NewArena()
	s := a.NewScope(token.NoPos)
	for _, name := range []string{"b", "a", "c"} {
		if err := s.Declare(name, a.NewVariable(token.NoPos, name)); err != nil {
			t.Fatal(err)
		}
	}
	first := a.NewEmpty(token.NoPos)
	second := a.NewExprStmt(a.NewNumber(token.NoPos, 1))
	s.AddStatement(first)
	s.AddStatement(second)

	var names []string
	for _, v := range s.Symbols() {
		names = append(names, v.Name)
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, names); diff != "" {
		t.Errorf("Symbols() order mismatch (-want +got):\n%s", diff)
	}

	stmts := s.Statements()
	if len(stmts) != 2 || stmts[0] != Stmt(first) || stmts[1] != Stmt(second) {
		t.Errorf("Statements() = %v, want [first second]", stmts)
	}
}
