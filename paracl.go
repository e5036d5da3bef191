// Package paracl is the entry point of the paracl interpreter.
//
// A program is either loaded from source with LoadFile or assembled by hand
// through Arena and installed with SetProgramRoot; Run executes it.
//
//	interp, err := paracl.NewInterpreter(paracl.WithStdin(os.Stdin))
//	if err != nil { ... }
//	if err := interp.LoadFile("main.pcl", src); err != nil { ... }
//	if err := interp.Run(ctx); err != nil { ... }
package paracl

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"io"
	"log/slog"
	"os"

	"github.com/podhmo/paracl/ast"
	"github.com/podhmo/paracl/evaluator"
	"github.com/podhmo/paracl/parser"
)

// Version is the language version implemented by this package.
const Version = "v0.1.0"

var (
	// ErrNoProgramRoot is returned when running without a root scope, or when a nil root is installed.
	ErrNoProgramRoot = errors.New("paracl: no program root")
	// ErrInvalidOption is returned by NewInterpreter when an option sets a nil value.
	ErrInvalidOption = errors.New("paracl: invalid option")
)

// Interpreter owns one program tree and executes it.
// It is not safe for concurrent use; separate interpreters are independent.
type Interpreter struct {
	arena *ast.Arena
	fset  *token.FileSet
	root  *ast.Scope
	eval  *evaluator.Evaluator

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// Option is a functional option for configuring the Interpreter.
type Option func(*Interpreter)

// WithStdin sets the stream that '?' reads from.
func WithStdin(r io.Reader) Option {
	return func(i *Interpreter) {
		i.stdin = r
	}
}

// WithStdout sets the stream that print writes to.
func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) {
		i.stdout = w
	}
}

// WithStderr sets the stream of the default logger.
func WithStderr(w io.Writer) Option {
	return func(i *Interpreter) {
		i.stderr = w
	}
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(i *Interpreter) {
		i.logger = l
	}
}

// WithFileSet shares a file set, e.g. with a caller that reports positions itself.
func WithFileSet(fset *token.FileSet) Option {
	return func(i *Interpreter) {
		i.fset = fset
	}
}

// NewInterpreter creates an interpreter with an empty arena and no program root.
func NewInterpreter(options ...Option) (*Interpreter, error) {
	i := &Interpreter{
		arena:  ast.NewArena(),
		fset:   token.NewFileSet(),
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range options {
		opt(i)
	}

	switch {
	case i.stdin == nil:
		return nil, fmt.Errorf("stdin is nil: %w", ErrInvalidOption)
	case i.stdout == nil:
		return nil, fmt.Errorf("stdout is nil: %w", ErrInvalidOption)
	case i.stderr == nil:
		return nil, fmt.Errorf("stderr is nil: %w", ErrInvalidOption)
	case i.fset == nil:
		return nil, fmt.Errorf("file set is nil: %w", ErrInvalidOption)
	}
	if i.logger == nil {
		i.logger = slog.New(slog.NewTextHandler(i.stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}

	i.eval = evaluator.New(evaluator.Config{
		Fset:   i.fset,
		Stdin:  i.stdin,
		Stdout: i.stdout,
		Logger: i.logger,
	})
	return i, nil
}

// Arena returns the arena that owns every node of the program.
func (i *Interpreter) Arena() *ast.Arena { return i.arena }

// FileSet returns the file set used for positions.
func (i *Interpreter) FileSet() *token.FileSet { return i.fset }

// Root returns the installed program root, or nil.
func (i *Interpreter) Root() *ast.Scope { return i.root }

// Logger returns the logger of the interpreter.
func (i *Interpreter) Logger() *slog.Logger { return i.logger }

// SetProgramRoot installs root as the program to run.
func (i *Interpreter) SetProgramRoot(root *ast.Scope) error {
	if root == nil {
		return ErrNoProgramRoot
	}
	i.root = root
	return nil
}

// LoadFile parses source and installs it as the program root.
// Parse failures are reported as a go/scanner.ErrorList.
func (i *Interpreter) LoadFile(filename string, source []byte) error {
	root, err := parser.ParseFile(i.fset, i.arena, filename, source)
	if err != nil {
		return fmt.Errorf("parsing script %q: %w", filename, err)
	}
	i.logger.Debug("program loaded", "file", filename, "nodes", i.arena.Len())
	return i.SetProgramRoot(root)
}

// Run executes the program root. The first runtime error stops the program and
// is returned as an *evaluator.RuntimeError; output printed before it stays.
func (i *Interpreter) Run(ctx context.Context) error {
	if i.root == nil {
		return ErrNoProgramRoot
	}
	i.logger.DebugContext(ctx, "run", "nodes", i.arena.Len(), "statements", len(i.root.Statements()))
	if err := i.eval.Exec(i.root); err != nil {
		i.logger.DebugContext(ctx, "runtime failure", "error", err)
		return err
	}
	i.logger.DebugContext(ctx, "finished")
	return nil
}
