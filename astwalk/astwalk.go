// Package astwalk provides range-over-func iterators over a paracl tree.
package astwalk

import (
	"github.com/podhmo/paracl/ast"
)

// Preorder returns an iterator over root and all nodes below it, parents
// before children. depth is 0 for root.
// A *ast.Variable is visited where it is referenced and where it is an
// assignment target, so the same cell can be yielded more than once.
//
//	for depth, n := range Preorder(root) {
//		// use n
//	}
func Preorder(root ast.Node) func(yield func(depth int, n ast.Node) bool) {
	return func(yield func(int, ast.Node) bool) {
		walk(root, 0, yield)
	}
}

func walk(n ast.Node, depth int, yield func(int, ast.Node) bool) bool {
	if n == nil || isNilNode(n) {
		return true
	}
	if !yield(depth, n) {
		return false
	}
	depth++
	switch n := n.(type) {
	case *ast.Unary:
		return walk(n.X, depth, yield)
	case *ast.Arith:
		return walk(n.X, depth, yield) && walk(n.Y, depth, yield)
	case *ast.Logic:
		if !walk(n.X, depth, yield) {
			return false
		}
		if n.Y != nil {
			return walk(n.Y, depth, yield)
		}
	case *ast.Assign:
		return walk(n.Target, depth, yield) && walk(n.Value, depth, yield)
	case *ast.Print:
		return walk(n.X, depth, yield)
	case *ast.ExprStmt:
		return walk(n.X, depth, yield)
	case *ast.If:
		if !walk(n.Cond, depth, yield) || !walk(n.Then, depth, yield) {
			return false
		}
		if n.Else != nil {
			return walk(n.Else, depth, yield)
		}
	case *ast.While:
		return walk(n.Cond, depth, yield) && walk(n.Body, depth, yield)
	case *ast.Scope:
		for _, stmt := range n.Statements() {
			if !walk(stmt, depth, yield) {
				return false
			}
		}
	}
	return true
}

// isNilNode catches typed nil pointers stored in an interface, e.g. a nil *ast.Scope.
func isNilNode(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.Scope:
		return n == nil
	case *ast.Variable:
		return n == nil
	case *ast.If:
		return n == nil
	case *ast.While:
		return n == nil
	}
	return false
}

// Variables returns an iterator over every cell declared in root and in the
// scopes nested below it. Each scope's cells come in declaration order, and a
// scope comes before the scopes nested in it.
func Variables(root *ast.Scope) func(yield func(scope *ast.Scope, v *ast.Variable) bool) {
	return func(yield func(*ast.Scope, *ast.Variable) bool) {
		if root == nil {
			return
		}
		for _, n := range Preorder(root) {
			scope, ok := n.(*ast.Scope)
			if !ok {
				continue
			}
			for _, v := range scope.Symbols() {
				if !yield(scope, v) {
					return
				}
			}
		}
	}
}
