package ast

import (
	"fmt"
	"go/token"
)

// Arena owns every node of one program tree.
// It has no way to release a single node; everything goes away together
// when the Arena itself is no longer referenced.
type Arena struct {
	nodes []Node
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{nodes: make([]Node, 0, 64)}
}

// Create hands ownership of n to a and returns n.
// It panics if n already belongs to an arena.
func Create[T Node](a *Arena, n T) T {
	b := n.own()
	if b.owner != nil {
		panic(fmt.Sprintf("ast: %T #%d is already owned by an arena", n, b.id))
	}
	b.owner = a
	b.id = len(a.nodes)
	a.nodes = append(a.nodes, n)
	return n
}

// Len returns the number of nodes created so far.
func (a *Arena) Len() int { return len(a.nodes) }

// Node returns the node with the given id, or nil if there is none.
func (a *Arena) Node(id int) Node {
	if id < 0 || id >= len(a.nodes) {
		return nil
	}
	return a.nodes[id]
}

// Owns reports whether n was created by a.
func (a *Arena) Owns(n Node) bool {
	return n != nil && n.own().owner == a
}

// All returns an iterator over the nodes in creation order.
func (a *Arena) All() func(yield func(Node) bool) {
	return func(yield func(Node) bool) {
		for _, n := range a.nodes {
			if !yield(n) {
				return
			}
		}
	}
}

func (a *Arena) NewNumber(pos token.Pos, value int64) *Number {
	return Create(a, &Number{ValuePos: pos, Value: value})
}

func (a *Arena) NewVariable(pos token.Pos, name string) *Variable {
	return Create(a, &Variable{NamePos: pos, Name: name})
}

func (a *Arena) NewUnary(pos token.Pos, op token.Token, x Expr) *Unary {
	if !IsSign(op) {
		panic(fmt.Sprintf("ast: %s is not a sign operator", op))
	}
	return Create(a, &Unary{OpPos: pos, Op: op, X: x})
}

func (a *Arena) NewArith(pos token.Pos, op token.Token, x, y Expr) *Arith {
	if !IsArith(op) {
		panic(fmt.Sprintf("ast: %s is not an arithmetic operator", op))
	}
	return Create(a, &Arith{OpPos: pos, Op: op, X: x, Y: y})
}

// NewLogic creates a comparison or logical node. y must be nil for token.NOT.
func (a *Arena) NewLogic(pos token.Pos, op token.Token, x, y Expr) *Logic {
	if !IsLogic(op) {
		panic(fmt.Sprintf("ast: %s is not a logic operator", op))
	}
	return Create(a, &Logic{OpPos: pos, Op: op, X: x, Y: y})
}

func (a *Arena) NewAssign(pos token.Pos, target *Variable, value Expr) *Assign {
	return Create(a, &Assign{Target: target, Assign: pos, Value: value})
}

func (a *Arena) NewPrint(pos token.Pos, x Expr) *Print {
	return Create(a, &Print{Print: pos, X: x})
}

func (a *Arena) NewInput(pos token.Pos) *Input {
	return Create(a, &Input{Question: pos})
}

func (a *Arena) NewExprStmt(x Expr) *ExprStmt {
	return Create(a, &ExprStmt{X: x})
}

// NewIf creates an if statement; els may be nil.
func (a *Arena) NewIf(pos token.Pos, cond Expr, then, els *Scope) *If {
	return Create(a, &If{If: pos, Cond: cond, Then: then, Else: els})
}

func (a *Arena) NewWhile(pos token.Pos, cond Expr, body *Scope) *While {
	return Create(a, &While{While: pos, Cond: cond, Body: body})
}

func (a *Arena) NewEmpty(pos token.Pos) *Empty {
	return Create(a, &Empty{Semicolon: pos})
}

func (a *Arena) NewScope(pos token.Pos) *Scope {
	return Create(a, &Scope{Lbrace: pos})
}
