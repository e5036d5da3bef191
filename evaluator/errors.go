package evaluator

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
)

// Kinds of runtime errors. A *RuntimeError unwraps to exactly one of them.
var (
	ErrDivideByZero   = errors.New("divide by zero")
	ErrMalformedInput = errors.New("malformed input")
	ErrInputExhausted = errors.New("input exhausted")
	ErrIO             = errors.New("i/o failure")
)

// ErrInvalidNode is returned when the tree contains a node the evaluator
// cannot execute (a nil child, an operator of the wrong category).
// It indicates a construction bug rather than a fault of the program.
var ErrInvalidNode = errors.New("invalid node")

// RuntimeError is a fault detected while executing a program.
type RuntimeError struct {
	Pos     token.Pos
	Kind    error
	Message string

	fset *token.FileSet
}

// Error returns the one-line diagnostic, e.g. "runtime error: division by zero".
func (e *RuntimeError) Error() string {
	return "runtime error: " + e.Message
}

func (e *RuntimeError) Unwrap() error {
	return e.Kind
}

// AttachFileSet sets the file set used to resolve Pos.
func (e *RuntimeError) AttachFileSet(fset *token.FileSet) {
	e.fset = fset
}

// Position returns the resolved source position, or the zero Position if it is unknown.
func (e *RuntimeError) Position() token.Position {
	if e.fset == nil || !e.Pos.IsValid() {
		return token.Position{}
	}
	return e.fset.Position(e.Pos)
}

// Inspect returns the diagnostic followed by the source position when known.
func (e *RuntimeError) Inspect() string {
	var out bytes.Buffer
	out.WriteString(e.Error())
	if pos := e.Position(); pos.IsValid() {
		fmt.Fprintf(&out, "\n\t%s", pos)
	}
	return out.String()
}
