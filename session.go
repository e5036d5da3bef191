package paracl

import (
	"context"
	"fmt"
	"go/token"

	"github.com/podhmo/paracl/ast"
	"github.com/podhmo/paracl/parser"
	"github.com/podhmo/paracl/resolver"
)

// Session evaluates a program piece by piece, as a REPL does.
// Every piece is appended to one root scope, so variables persist between calls.
type Session struct {
	interp *Interpreter
	stack  *resolver.Stack
	root   *ast.Scope
	lines  int
}

// NewSession installs a fresh root scope on i and returns a session over it.
// A program loaded before is replaced.
func (i *Interpreter) NewSession() (*Session, error) {
	root := i.arena.NewScope(token.NoPos)
	stack := resolver.New(i.arena)
	if err := stack.Enter(root); err != nil {
		return nil, err
	}
	if err := i.SetProgramRoot(root); err != nil {
		return nil, err
	}
	return &Session{interp: i, stack: stack, root: root}, nil
}

// Root returns the scope that collects the statements of the session.
func (s *Session) Root() *ast.Scope { return s.root }

// Eval parses src as statements of the root scope and executes only them.
// Nothing runs when src does not parse. Names assigned before a runtime error stay declared.
func (s *Session) Eval(ctx context.Context, src string) error {
	s.lines++
	filename := fmt.Sprintf("<repl:%d>", s.lines)
	stmts, err := parser.ParseStatements(s.interp.fset, s.interp.arena, s.stack, filename, []byte(src))
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		s.root.AddStatement(stmt)
	}
	s.interp.logger.DebugContext(ctx, "eval", "file", filename, "statements", len(stmts))
	return s.interp.eval.ExecList(stmts)
}
