// Package evaluator executes paracl trees by direct recursion.
package evaluator

import (
	"bufio"
	"fmt"
	"go/token"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/podhmo/paracl/ast"
)

type Config struct {
	Fset   *token.FileSet
	Stdin  io.Reader
	Stdout io.Writer
	Logger *slog.Logger
}

// Evaluator walks a tree, reading integers from Stdin and printing to Stdout.
// It is not safe for concurrent use.
type Evaluator struct {
	fset   *token.FileSet
	in     *bufio.Scanner
	out    io.Writer
	logger *slog.Logger
}

func New(cfg Config) *Evaluator {
	e := &Evaluator{
		fset:   cfg.Fset,
		out:    cfg.Stdout,
		logger: cfg.Logger,
	}
	stdin := cfg.Stdin
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	e.in = bufio.NewScanner(stdin)
	e.in.Split(bufio.ScanWords)
	if e.out == nil {
		e.out = io.Discard
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

func (e *Evaluator) newError(pos token.Pos, kind error, format string, args ...interface{}) *RuntimeError {
	err := &RuntimeError{Pos: pos, Kind: kind, Message: fmt.Sprintf(format, args...)}
	err.AttachFileSet(e.fset)
	return err
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("evaluator: %s: %w", fmt.Sprintf(format, args...), ErrInvalidNode)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Exec executes stmt. The first runtime error aborts execution and is returned;
// effects that happened before it are kept.
func (e *Evaluator) Exec(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		if s == nil {
			return invalid("nil expression statement")
		}
		_, err := e.Eval(s.X)
		return err
	case *ast.If:
		if s == nil {
			return invalid("nil if statement")
		}
		return e.execIf(s)
	case *ast.While:
		if s == nil {
			return invalid("nil while statement")
		}
		return e.execWhile(s)
	case *ast.Empty:
		return nil
	case *ast.Scope:
		if s == nil {
			return invalid("nil scope")
		}
		return e.ExecList(s.Statements())
	case nil:
		return invalid("nil statement")
	default:
		return invalid("unexpected statement %T", stmt)
	}
}

// ExecList executes stmts in order.
func (e *Evaluator) ExecList(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := e.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) execIf(s *ast.If) error {
	cond, err := e.Eval(s.Cond)
	if err != nil {
		return err
	}
	if cond != 0 {
		return e.Exec(s.Then)
	}
	if s.Else != nil {
		return e.Exec(s.Else)
	}
	return nil
}

func (e *Evaluator) execWhile(s *ast.While) error {
	for {
		cond, err := e.Eval(s.Cond)
		if err != nil {
			return err
		}
		if cond == 0 {
			return nil
		}
		if err := e.Exec(s.Body); err != nil {
			return err
		}
	}
}

// Eval evaluates expr.
func (e *Evaluator) Eval(expr ast.Expr) (int64, error) {
	switch x := expr.(type) {
	case *ast.Number:
		if x == nil {
			return 0, invalid("nil number")
		}
		return x.Value, nil
	case *ast.Variable:
		if x == nil {
			return 0, invalid("nil variable")
		}
		return x.Value, nil
	case *ast.Unary:
		if x == nil {
			return 0, invalid("nil unary expression")
		}
		return e.evalUnary(x)
	case *ast.Arith:
		if x == nil {
			return 0, invalid("nil arithmetic expression")
		}
		return e.evalArith(x)
	case *ast.Logic:
		if x == nil {
			return 0, invalid("nil logic expression")
		}
		return e.evalLogic(x)
	case *ast.Assign:
		if x == nil || x.Target == nil {
			return 0, invalid("assignment without target")
		}
		val, err := e.Eval(x.Value)
		if err != nil {
			return 0, err
		}
		x.Target.Value = val
		return val, nil
	case *ast.Print:
		if x == nil {
			return 0, invalid("nil print expression")
		}
		val, err := e.Eval(x.X)
		if err != nil {
			return 0, err
		}
		if _, err := fmt.Fprintln(e.out, val); err != nil {
			return 0, e.newError(x.Pos(), ErrIO, "writing output: %v", err)
		}
		return val, nil
	case *ast.Input:
		if x == nil {
			return 0, invalid("nil input expression")
		}
		return e.evalInput(x)
	case nil:
		return 0, invalid("nil expression")
	default:
		return 0, invalid("unexpected expression %T", expr)
	}
}

func (e *Evaluator) evalUnary(x *ast.Unary) (int64, error) {
	val, err := e.Eval(x.X)
	if err != nil {
		return 0, err
	}
	switch x.Op {
	case token.ADD:
		return val, nil
	case token.SUB:
		return -val, nil
	default:
		return 0, invalid("unknown sign operator: %s", x.Op)
	}
}

func (e *Evaluator) evalArith(x *ast.Arith) (int64, error) {
	lhs, err := e.Eval(x.X)
	if err != nil {
		return 0, err
	}
	rhs, err := e.Eval(x.Y)
	if err != nil {
		return 0, err
	}
	switch x.Op {
	case token.ADD:
		return lhs + rhs, nil
	case token.SUB:
		return lhs - rhs, nil
	case token.MUL:
		return lhs * rhs, nil
	case token.QUO:
		if rhs == 0 {
			return 0, e.newError(x.OpPos, ErrDivideByZero, "division by zero")
		}
		return lhs / rhs, nil
	case token.REM:
		if rhs == 0 {
			return 0, e.newError(x.OpPos, ErrDivideByZero, "modulo by zero")
		}
		return lhs % rhs, nil
	default:
		return 0, invalid("unknown arithmetic operator: %s", x.Op)
	}
}

func (e *Evaluator) evalLogic(x *ast.Logic) (int64, error) {
	lhs, err := e.Eval(x.X)
	if err != nil {
		return 0, err
	}
	switch x.Op {
	case token.NOT:
		return boolToInt(lhs == 0), nil
	case token.LAND:
		if lhs == 0 {
			return 0, nil
		}
	case token.LOR:
		if lhs != 0 {
			return 1, nil
		}
	}

	rhs, err := e.Eval(x.Y)
	if err != nil {
		return 0, err
	}
	switch x.Op {
	case token.LAND, token.LOR:
		return boolToInt(rhs != 0), nil
	case token.LSS:
		return boolToInt(lhs < rhs), nil
	case token.GTR:
		return boolToInt(lhs > rhs), nil
	case token.EQL:
		return boolToInt(lhs == rhs), nil
	case token.LEQ:
		return boolToInt(lhs <= rhs), nil
	case token.GEQ:
		return boolToInt(lhs >= rhs), nil
	case token.NEQ:
		return boolToInt(lhs != rhs), nil
	default:
		return 0, invalid("unknown logic operator: %s", x.Op)
	}
}

func (e *Evaluator) evalInput(x *ast.Input) (int64, error) {
	if !e.in.Scan() {
		if err := e.in.Err(); err != nil {
			return 0, e.newError(x.Pos(), ErrIO, "reading input: %v", err)
		}
		return 0, e.newError(x.Pos(), ErrInputExhausted, "unexpected end of input")
	}
	tok := e.in.Text()
	val, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, e.newError(x.Pos(), ErrMalformedInput, "malformed integer input %q", tok)
	}
	e.logger.Debug("read input", slog.Int64("value", val))
	x.Last = val
	return val, nil
}
