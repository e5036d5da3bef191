package parser

import (
	"bytes"
	"errors"
	goscanner "go/scanner"
	"go/token"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/podhmo/paracl/ast"
	"github.com/podhmo/paracl/evaluator"
	"github.com/podhmo/paracl/resolver"
)

func parse(t *testing.T, src string) (*token.FileSet, *ast.Scope, error) {
	t.Helper()
	fset := token.NewFileSet()
	root, err := ParseFile(fset, ast.NewArena(), "prog.pcl", []byte(src))
	return fset, root, err
}

func mustParse(t *testing.T, src string) (*token.FileSet, *ast.Scope) {
	t.Helper()
	fset, root, err := parse(t, src)
	if err != nil {
		t.Fatalf("ParseFile(%q) failed: %v", src, err)
	}
	return fset, root
}

// run parses and executes src, returning what it printed.
func run(t *testing.T, src string, input string) string {
	t.Helper()
	fset, root := mustParse(t, src)
	var out bytes.Buffer
	e := evaluator.New(evaluator.Config{Fset: fset, Stdin: strings.NewReader(input), Stdout: &out})
	if err := e.Exec(root); err != nil {
		t.Fatalf("Exec() failed: %v", err)
	}
	return out.String()
}

func errorList(t *testing.T, err error) []string {
	t.Helper()
	var list goscanner.ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("expected a scanner.ErrorList, got %T: %v", err, err)
	}
	var msgs []string
	for _, e := range list {
		msgs = append(msgs, e.Error())
	}
	return msgs
}

func TestParseFile_Programs(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		input  string
		output string
	}{
		{"precedence", "print 1 + 2 * 3;", "", "7\n"},
		{"left associative", "print 1 - 2 - 3;", "", "-4\n"},
		{"parens", "print (1 + 2) * 3;", "", "9\n"},
		{"unary", "print -2 * 3; print +-4;", "", "-6\n-4\n"},
		{"not binds tighter", "print !0 + 1;", "", "2\n"},
		{"comparison and logic", "print 2 + 3 * 4 == 14 && 1; print 1 || 0 && 0;", "", "1\n1\n"},
		{"remainder vs compare", "print 7 % 3 < 2;", "", "1\n"},
		{"assign is an expression", "x = y = 3; print x + y;", "", "6\n"},
		{"print is an expression", "x = print 5; print x;", "", "5\n5\n"},
		{"self increment", "x = 1; x = x + 1; print x;", "", "2\n"},
		{"input", "a = ?; b = ?; print a * b;", "6 7", "42\n"},
		{"if else", "x = ?; if (x > 0) print 1; else print 0;", "-5", "0\n"},
		{"if without else", "if (0) print 1; print 2;", "", "2\n"},
		{"while", "i = 0; while (i < 3) { print i; i = i + 1; }", "", "0\n1\n2\n"},
		{"empty statements", ";; print 1;;", "", "1\n"},
		{"comments", "// header\nprint 1; // one\n", "", "1\n"},
		{"outer variable is assigned in block", "x = 1; { x = 2; } print x;", "", "2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := run(t, tt.src, tt.input)
			if diff := cmp.Diff(tt.output, got); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFile_Structure(t *testing.T) {
	_, root := mustParse(t, "x = 1; { x = 2; y = 3; } while (x) x = 0;")

	stmts := root.Statements()
	if len(stmts) != 3 {
		t.Fatalf("len(root.Statements()) = %d, want 3", len(stmts))
	}
	var names []string
	for _, v := range root.Symbols() {
		names = append(names, v.Name)
	}
	if diff := cmp.Diff([]string{"x"}, names); diff != "" {
		t.Errorf("root symbols mismatch (-want +got):\n%s", diff)
	}

	block, ok := stmts[1].(*ast.Scope)
	if !ok {
		t.Fatalf("stmts[1] is %T, want *ast.Scope", stmts[1])
	}
	if block.IsDeclared("x") {
		t.Errorf("x must not be redeclared in the block")
	}
	if !block.IsDeclared("y") {
		t.Errorf("y must be declared in the block")
	}
	inner := block.Statements()[0].(*ast.ExprStmt).X.(*ast.Assign)
	outer, _ := root.Lookup("x")
	if inner.Target != outer {
		t.Errorf("assignment in block must target the outer x")
	}

	loop, ok := stmts[2].(*ast.While)
	if !ok {
		t.Fatalf("stmts[2] is %T, want *ast.While", stmts[2])
	}
	if loop.Body == nil || len(loop.Body.Statements()) != 1 {
		t.Errorf("a single statement body must be wrapped in its own scope")
	}
	if cond, ok := loop.Cond.(*ast.Variable); !ok || cond != outer {
		t.Errorf("while condition must be the outer x, got %T", loop.Cond)
	}
}

func TestParseFile_ReferencesShareVariable(t *testing.T) {
	_, root := mustParse(t, "x = 1; print x; print x + 1;")
	x, _ := root.Lookup("x")
	refs := 0
	for _, stmt := range root.Statements()[1:] {
		switch e := stmt.(*ast.ExprStmt).X.(*ast.Print).X.(type) {
		case *ast.Variable:
			if e == x {
				refs++
			}
		case *ast.Arith:
			if e.X == ast.Expr(x) {
				refs++
			}
		}
	}
	if refs != 2 {
		t.Errorf("found %d references to the declared x, want 2", refs)
	}
}

func TestParseFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "undeclared variable",
			src:  "print y;",
			want: []string{`prog.pcl:1:7: undeclared variable "y"`},
		},
		{
			name: "self reference before declaration",
			src:  "x = x + 1;",
			want: []string{`prog.pcl:1:5: undeclared variable "x"`},
		},
		{
			name: "body variable does not leak",
			src:  "if (1) y = 2; print y;",
			want: []string{`prog.pcl:1:21: undeclared variable "y"`},
		},
		{
			name: "recovers at semicolon",
			src:  "x = ; y = 2; print z;",
			want: []string{
				"prog.pcl:1:5: syntax error: unexpected ';', expecting expression",
				`prog.pcl:1:20: undeclared variable "z"`,
			},
		},
		{
			name: "stray token",
			src:  "x = 1 $ 2;",
			want: []string{`prog.pcl:1:7: syntax error: unexpected stray token "$" in program, expecting ';'`},
		},
		{
			name: "missing semicolon",
			src:  "print 1\nprint 2;",
			want: []string{"prog.pcl:2:1: syntax error: unexpected 'print', expecting ';'"},
		},
		{
			name: "unterminated block",
			src:  "{ x = 1;",
			want: []string{"prog.pcl:1:9: syntax error: unexpected end of file, expecting '}'"},
		},
		{
			name: "unbalanced brace",
			src:  "x = 1; }",
			want: []string{"prog.pcl:1:8: syntax error: unexpected '}'"},
		},
		{
			name: "else without if",
			src:  "else print 1;",
			want: []string{"prog.pcl:1:1: syntax error: 'else' without 'if'"},
		},
		{
			name: "missing condition parens",
			src:  "while 1 print 1;",
			want: []string{"prog.pcl:1:7: syntax error: unexpected number 1, expecting '('"},
		},
		{
			name: "number out of range",
			src:  "print 99999999999999999999;",
			want: []string{"prog.pcl:1:7: number 99999999999999999999 out of range"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, root, err := parse(t, tt.src)
			if err == nil {
				t.Fatalf("ParseFile(%q) must fail", tt.src)
			}
			if root != nil {
				t.Errorf("root must be nil on failure")
			}
			if diff := cmp.Diff(tt.want, errorList(t, err)); diff != "" {
				t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFile_TooManyErrors(t *testing.T) {
	src := strings.Repeat("print q;\n", 20)
	_, _, err := parse(t, src)
	if got := len(errorList(t, err)); got != maxErrors {
		t.Errorf("got %d diagnostics, want %d", got, maxErrors)
	}
}

func TestParseStatements(t *testing.T) {
	fset := token.NewFileSet()
	arena := ast.NewArena()
	stack := resolver.New(arena)

	if _, err := ParseStatements(fset, arena, stack, "line1", []byte("x = 1;")); !errors.Is(err, resolver.ErrEmptyStack) {
		t.Fatalf("ParseStatements() without scope = %v, want ErrEmptyStack", err)
	}

	root := arena.NewScope(token.NoPos)
	if err := stack.Enter(root); err != nil {
		t.Fatal(err)
	}

	stmts, err := ParseStatements(fset, arena, stack, "line1", []byte("x = 5;"))
	if err != nil {
		t.Fatalf("ParseStatements() failed: %v", err)
	}
	if len(stmts) != 1 || !root.IsDeclared("x") {
		t.Fatalf("x = 5; must yield one statement and declare x in the current scope")
	}
	if len(root.Statements()) != 0 {
		t.Errorf("ParseStatements must not add statements to the scope")
	}

	stmts, err = ParseStatements(fset, arena, stack, "line2", []byte("print x;"))
	if err != nil {
		t.Fatalf("a later line must see x: %v", err)
	}
	x, _ := root.Lookup("x")
	if stmts[0].(*ast.ExprStmt).X.(*ast.Print).X != ast.Expr(x) {
		t.Errorf("print x must refer to the declared x")
	}

	if _, err := ParseStatements(fset, arena, stack, "line3", []byte("{ y = ;")); err == nil {
		t.Fatalf("broken input must fail")
	}
	if stack.Depth() != 1 || stack.Current() != root {
		t.Errorf("stack must be restored after a failure, depth=%d", stack.Depth())
	}
}
