package astwalk

import (
	"fmt"
	"go/token"
	"io"
	"strings"

	"github.com/podhmo/paracl/ast"
)

// Dump writes one line per node of root, indented by depth. For "x = 1;":
//
//	#0 Scope [x] 1:1
//	  #4 ExprStmt 1:1
//	    #3 Assign = 1:1
//	      #2 Variable x 1:1
//	      #1 Number 1 1:5
//
// Positions are printed as line:col when fset knows them.
func Dump(w io.Writer, fset *token.FileSet, root ast.Node) error {
	for depth, n := range Preorder(root) {
		line := fmt.Sprintf("%s#%d %s", strings.Repeat("  ", depth), n.ID(), Describe(n))
		if fset != nil && n.Pos().IsValid() {
			p := fset.Position(n.Pos())
			line += fmt.Sprintf(" %d:%d", p.Line, p.Column)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Describe returns a short label for n, such as "Arith +" or "Variable x".
func Describe(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Number:
		return fmt.Sprintf("Number %d", n.Value)
	case *ast.Variable:
		return "Variable " + n.Name
	case *ast.Unary:
		return "Unary " + n.Op.String()
	case *ast.Arith:
		return "Arith " + n.Op.String()
	case *ast.Logic:
		return "Logic " + n.Op.String()
	case *ast.Assign:
		return "Assign ="
	case *ast.Print:
		return "Print"
	case *ast.Input:
		return "Input ?"
	case *ast.ExprStmt:
		return "ExprStmt"
	case *ast.If:
		if n.Else != nil {
			return "If else"
		}
		return "If"
	case *ast.While:
		return "While"
	case *ast.Empty:
		return "Empty"
	case *ast.Scope:
		names := make([]string, 0, len(n.Symbols()))
		for _, v := range n.Symbols() {
			names = append(names, v.Name)
		}
		return "Scope [" + strings.Join(names, " ") + "]"
	}
	return fmt.Sprintf("%T", n)
}
