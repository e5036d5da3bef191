// Package parser turns paracl source text into a tree.
//
// The parser never builds nodes on its own: every node comes from an
// ast.Arena, every name is bound through a resolver.Stack, and statements are
// added to their scope with ast.Scope.AddStatement.
package parser

import (
	"fmt"
	goscanner "go/scanner"
	"go/token"
	"strconv"

	"github.com/podhmo/paracl/ast"
	"github.com/podhmo/paracl/resolver"
)

// maxErrors is the number of diagnostics after which parsing stops.
const maxErrors = 10

// ParseFile parses a whole program and returns its root scope.
// On failure the returned error is a go/scanner.ErrorList.
func ParseFile(fset *token.FileSet, arena *ast.Arena, filename string, src []byte) (*ast.Scope, error) {
	p := newParser(fset, arena, resolver.New(arena), filename, src)
	root := arena.NewScope(p.file.Pos(0))
	if err := p.stack.Enter(root); err != nil {
		return nil, err
	}
	for _, stmt := range p.parseProgram() {
		root.AddStatement(stmt)
	}
	if _, err := p.stack.Leave(); err != nil {
		return nil, err
	}
	if err := p.err(); err != nil {
		return nil, err
	}
	return root, nil
}

// ParseStatements parses src as a sequence of statements inside the scope
// currently on top of stack. New variables are declared in that scope; the
// statements themselves are returned, not added, so that the caller decides
// when they become part of the tree.
func ParseStatements(fset *token.FileSet, arena *ast.Arena, stack *resolver.Stack, filename string, src []byte) ([]ast.Stmt, error) {
	if stack.Current() == nil {
		return nil, resolver.ErrEmptyStack
	}
	p := newParser(fset, arena, stack, filename, src)
	stmts := p.parseProgram()
	if err := p.err(); err != nil {
		return nil, err
	}
	return stmts, nil
}

type bailout struct{}

type parser struct {
	file   *token.File
	arena  *ast.Arena
	stack  *resolver.Stack
	errors goscanner.ErrorList

	items []item
	i     int

	// current token
	pos token.Pos
	tok Token
	lit string
}

func newParser(fset *token.FileSet, arena *ast.Arena, stack *resolver.Stack, filename string, src []byte) *parser {
	file := fset.AddFile(filename, -1, len(src))
	file.SetLinesForContent(src)
	p := &parser{
		file:  file,
		arena: arena,
		stack: stack,
		items: scan(file, src),
	}
	p.i = -1
	p.next()
	return p
}

func (p *parser) err() error {
	p.errors.Sort()
	return p.errors.Err()
}

func (p *parser) next() {
	if p.i < len(p.items)-1 {
		p.i++
	}
	it := p.items[p.i]
	p.pos, p.tok, p.lit = it.pos, it.tok, it.lit
}

func (p *parser) peek() Token {
	if p.i+1 < len(p.items) {
		return p.items[p.i+1].tok
	}
	return EOF
}

// error records a diagnostic and abandons the current statement.
func (p *parser) error(pos token.Pos, msg string) {
	p.errors.Add(p.file.Position(pos), msg)
	panic(bailout{})
}

func (p *parser) errorf(pos token.Pos, format string, args ...interface{}) {
	p.error(pos, fmt.Sprintf(format, args...))
}

func (p *parser) describe() string {
	switch p.tok {
	case IDENT:
		return fmt.Sprintf("identifier %q", p.lit)
	case NUMBER:
		return "number " + p.lit
	case ILLEGAL:
		return fmt.Sprintf("stray token %q in program", p.lit)
	}
	return p.tok.String()
}

func (p *parser) errorExpected(what string) {
	p.errorf(p.pos, "syntax error: unexpected %s, expecting %s", p.describe(), what)
}

func (p *parser) expect(tok Token) token.Pos {
	pos := p.pos
	if p.tok != tok {
		p.errorExpected(tok.String())
	}
	p.next()
	return pos
}

// sync skips to the end of the broken statement.
func (p *parser) sync() {
	for {
		switch p.tok {
		case SEMICOLON:
			p.next()
			return
		case RBRACE, EOF:
			return
		}
		p.next()
	}
}

// ----------------------------------------------------------------------------
// Statements

func (p *parser) parseProgram() (list []ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			// too many errors; the list is discarded by the caller
		}
	}()
	list = p.parseStmtList(EOF)
	if p.tok != EOF {
		p.errorExpected(EOF.String())
	}
	return list
}

func (p *parser) parseStmtList(end Token) []ast.Stmt {
	var list []ast.Stmt
	for p.tok != end && p.tok != EOF {
		if p.tok == RBRACE {
			// unbalanced '}' at top level
			p.recordUnexpected()
			p.next()
			continue
		}
		if stmt := p.parseStmtRecover(); stmt != nil {
			list = append(list, stmt)
		}
	}
	return list
}

func (p *parser) recordUnexpected() {
	p.errors.Add(p.file.Position(p.pos), fmt.Sprintf("syntax error: unexpected %s", p.describe()))
	if len(p.errors) >= maxErrors {
		panic(bailout{})
	}
}

func (p *parser) parseStmtRecover() (stmt ast.Stmt) {
	depth := p.stack.Depth()
	start := p.i
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(bailout); !ok {
			panic(r)
		}
		for p.stack.Depth() > depth {
			if _, err := p.stack.Leave(); err != nil {
				panic(err)
			}
		}
		if len(p.errors) >= maxErrors {
			panic(r)
		}
		if p.i == start && p.tok != EOF {
			p.next()
		}
		p.sync()
		stmt = nil
	}()
	return p.parseStmt()
}

func (p *parser) parseStmt() ast.Stmt {
	switch p.tok {
	case SEMICOLON:
		pos := p.pos
		p.next()
		return p.arena.NewEmpty(pos)
	case LBRACE:
		return p.parseBlock()
	case IF:
		return p.parseIf()
	case WHILE:
		return p.parseWhile()
	case ELSE:
		p.errorf(p.pos, "syntax error: 'else' without 'if'")
	}
	x := p.parseExpr()
	p.expect(SEMICOLON)
	return p.arena.NewExprStmt(x)
}

func (p *parser) enter(scope *ast.Scope) {
	if err := p.stack.Enter(scope); err != nil {
		p.errorf(scope.Pos(), "internal error: %v", err)
	}
}

func (p *parser) leave() {
	if _, err := p.stack.Leave(); err != nil {
		p.errorf(p.pos, "internal error: %v", err)
	}
}

func (p *parser) parseBlock() *ast.Scope {
	lbrace := p.expect(LBRACE)
	scope := p.arena.NewScope(lbrace)
	p.enter(scope)
	for _, stmt := range p.parseStmtList(RBRACE) {
		scope.AddStatement(stmt)
	}
	p.expect(RBRACE)
	p.leave()
	return scope
}

// parseBody parses the body of if/while. A single statement gets a scope of its own.
func (p *parser) parseBody() *ast.Scope {
	if p.tok == LBRACE {
		return p.parseBlock()
	}
	scope := p.arena.NewScope(p.pos)
	p.enter(scope)
	scope.AddStatement(p.parseStmt())
	p.leave()
	return scope
}

func (p *parser) parseCond() ast.Expr {
	p.expect(LPAREN)
	cond := p.parseExpr()
	p.expect(RPAREN)
	return cond
}

func (p *parser) parseIf() *ast.If {
	pos := p.expect(IF)
	cond := p.parseCond()
	then := p.parseBody()
	var els *ast.Scope
	if p.tok == ELSE {
		p.next()
		els = p.parseBody()
	}
	return p.arena.NewIf(pos, cond, then, els)
}

func (p *parser) parseWhile() *ast.While {
	pos := p.expect(WHILE)
	cond := p.parseCond()
	body := p.parseBody()
	return p.arena.NewWhile(pos, cond, body)
}

// ----------------------------------------------------------------------------
// Expressions

func (p *parser) parseExpr() ast.Expr {
	switch {
	case p.tok == PRINT:
		pos := p.pos
		p.next()
		return p.arena.NewPrint(pos, p.parseExpr())
	case p.tok == IDENT && p.peek() == ASSIGN:
		namePos, name := p.pos, p.lit
		p.next()
		eq := p.expect(ASSIGN)
		value := p.parseExpr()
		// the target is bound after the right-hand side, so `x = x + 1` needs a prior x
		target, err := p.stack.DeclareOrFetch(namePos, name)
		if err != nil {
			p.errorf(namePos, "internal error: %v", err)
		}
		return p.arena.NewAssign(eq, target, value)
	}
	return p.parseBinary(1)
}

func (p *parser) parseBinary(prec1 int) ast.Expr {
	x := p.parseUnary()
	for {
		tok := p.tok
		prec := tok.Precedence()
		if prec == 0 || prec < prec1 {
			return x
		}
		pos := p.pos
		p.next()
		y := p.parseBinary(prec + 1)
		op := tok.Operator()
		if ast.IsArith(op) {
			x = p.arena.NewArith(pos, op, x, y)
		} else {
			x = p.arena.NewLogic(pos, op, x, y)
		}
	}
}

func (p *parser) parseUnary() ast.Expr {
	switch p.tok {
	case ADD, SUB:
		pos, op := p.pos, p.tok.Operator()
		p.next()
		return p.arena.NewUnary(pos, op, p.parseUnary())
	case NOT:
		pos := p.pos
		p.next()
		return p.arena.NewLogic(pos, token.NOT, p.parseUnary(), nil)
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() ast.Expr {
	pos := p.pos
	switch p.tok {
	case NUMBER:
		v, err := strconv.ParseInt(p.lit, 10, 64)
		if err != nil {
			p.errorf(pos, "number %s out of range", p.lit)
		}
		p.next()
		return p.arena.NewNumber(pos, v)
	case IDENT:
		v, ok := p.stack.Resolve(p.lit)
		if !ok {
			p.errorf(pos, "undeclared variable %q", p.lit)
		}
		p.next()
		return v
	case INPUT:
		p.next()
		return p.arena.NewInput(pos)
	case LPAREN:
		p.next()
		x := p.parseExpr()
		p.expect(RPAREN)
		return x
	}
	p.errorExpected("expression")
	return nil
}
