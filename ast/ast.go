// Package ast declares the node set of a paracl program tree.
//
// The node set is closed: every node is either an Expr, which evaluates to an
// integer, or a Stmt, which only has effects. A *Scope is both the owner of a
// symbol table and a block statement.
//
// Nodes are created through an Arena and are never freed individually.
// References between nodes are plain pointers that stay valid for as long as
// the owning Arena is alive.
package ast

import (
	"go/token"
)

// Node is implemented by every node of the tree.
type Node interface {
	// Pos returns the position of the first character of the node,
	// or token.NoPos for nodes built without source.
	Pos() token.Pos
	// ID returns the creation index of the node inside its Arena.
	ID() int

	own() *base
}

// Expr is a node that evaluates to an integer.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a node that is executed for its effects.
type Stmt interface {
	Node
	stmtNode()
}

type base struct {
	id    int
	owner *Arena
}

func (b *base) ID() int       { return b.id }
func (b *base) own() *base    { return b }
func (b *base) Owner() *Arena { return b.owner }

// ----------------------------------------
// Expressions

type (
	// Number is an integer literal.
	Number struct {
		base
		ValuePos token.Pos
		Value    int64
	}

	// Variable is a named, mutable integer cell.
	// Every reference that resolves to the same declaration shares one *Variable.
	Variable struct {
		base
		NamePos token.Pos
		Name    string
		Value   int64
	}

	// Unary is a sign applied to an operand: +X or -X.
	Unary struct {
		base
		OpPos token.Pos
		Op    token.Token // token.ADD or token.SUB
		X     Expr
	}

	// Arith is a binary arithmetic expression.
	Arith struct {
		base
		OpPos token.Pos
		Op    token.Token // token.ADD, SUB, MUL, QUO or REM
		X     Expr
		Y     Expr
	}

	// Logic is a comparison or logical expression; its value is 0 or 1.
	// For token.NOT only X is set.
	Logic struct {
		base
		OpPos token.Pos
		Op    token.Token // LSS, GTR, EQL, LEQ, GEQ, NEQ, LAND, LOR or NOT
		X     Expr
		Y     Expr
	}

	// Assign stores the value of Value into Target and yields it.
	Assign struct {
		base
		Target *Variable
		Assign token.Pos // position of '='
		Value  Expr
	}

	// Print writes the value of X to the output and yields it.
	Print struct {
		base
		Print token.Pos
		X     Expr
	}

	// Input reads one integer from the input and yields it.
	// The value read last is kept in Last.
	Input struct {
		base
		Question token.Pos
		Last     int64
	}
)

func (x *Number) Pos() token.Pos   { return x.ValuePos }
func (x *Variable) Pos() token.Pos { return x.NamePos }
func (x *Unary) Pos() token.Pos    { return x.OpPos }
func (x *Arith) Pos() token.Pos {
	if x.X != nil {
		return x.X.Pos()
	}
	return x.OpPos
}
func (x *Logic) Pos() token.Pos {
	if x.Op != token.NOT && x.X != nil {
		return x.X.Pos()
	}
	return x.OpPos
}
func (x *Assign) Pos() token.Pos {
	if x.Target != nil && x.Target.NamePos.IsValid() {
		return x.Target.NamePos
	}
	return x.Assign
}
func (x *Print) Pos() token.Pos { return x.Print }
func (x *Input) Pos() token.Pos { return x.Question }

func (*Number) exprNode()   {}
func (*Variable) exprNode() {}
func (*Unary) exprNode()    {}
func (*Arith) exprNode()    {}
func (*Logic) exprNode()    {}
func (*Assign) exprNode()   {}
func (*Print) exprNode()    {}
func (*Input) exprNode()    {}

// ----------------------------------------
// Statements

type (
	// ExprStmt evaluates X and discards the result.
	ExprStmt struct {
		base
		X Expr
	}

	// If executes Then when Cond is nonzero, otherwise Else if present.
	If struct {
		base
		If   token.Pos
		Cond Expr
		Then *Scope
		Else *Scope // may be nil
	}

	// While executes Body as long as Cond is nonzero.
	While struct {
		base
		While token.Pos
		Cond  Expr
		Body  *Scope
	}

	// Empty is a stray ';'.
	Empty struct {
		base
		Semicolon token.Pos
	}
)

func (s *ExprStmt) Pos() token.Pos {
	if s.X != nil {
		return s.X.Pos()
	}
	return token.NoPos
}
func (s *If) Pos() token.Pos    { return s.If }
func (s *While) Pos() token.Pos { return s.While }
func (s *Empty) Pos() token.Pos { return s.Semicolon }

func (*ExprStmt) stmtNode() {}
func (*If) stmtNode()       {}
func (*While) stmtNode()    {}
func (*Empty) stmtNode()    {}
func (*Scope) stmtNode()    {}

// IsSign reports whether op can be used by a Unary node.
func IsSign(op token.Token) bool {
	return op == token.ADD || op == token.SUB
}

// IsArith reports whether op can be used by an Arith node.
func IsArith(op token.Token) bool {
	switch op {
	case token.ADD, token.SUB, token.MUL, token.QUO, token.REM:
		return true
	}
	return false
}

// IsLogic reports whether op can be used by a Logic node.
func IsLogic(op token.Token) bool {
	switch op {
	case token.LSS, token.GTR, token.EQL, token.LEQ, token.GEQ, token.NEQ, token.LAND, token.LOR, token.NOT:
		return true
	}
	return false
}
