package paracl

import (
	"bytes"
	"context"
	"errors"
	goscanner "go/scanner"
	"go/token"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/podhmo/paracl/evaluator"
)

// newTestInterpreter returns an interpreter reading input and printing to the returned buffer.
func newTestInterpreter(t *testing.T, input string) (*Interpreter, *bytes.Buffer) {
	t.Helper()
	var stdout bytes.Buffer
	interp, err := NewInterpreter(
		WithStdin(strings.NewReader(input)),
		WithStdout(&stdout),
		WithStderr(io.Discard),
	)
	if err != nil {
		t.Fatalf("NewInterpreter() failed: %v", err)
	}
	return interp, &stdout
}

func runScript(t *testing.T, src string, input string) (string, error) {
	t.Helper()
	interp, stdout := newTestInterpreter(t, input)
	if err := interp.LoadFile("main.pcl", []byte(src)); err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	err := interp.Run(context.Background())
	return stdout.String(), err
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		input    string
		expected string
	}{
		{"if else", "x = 5; if (x > 3) { print x; } else { print 0; }", "", "5\n"},
		{"while", "x = 0; while (x < 3) { print x; x = x + 1; }", "", "0\n1\n2\n"},
		{"input", "x = ?; print x;", "42", "42\n"},
		{"input across lines", "a = ?; b = ?; print a + b;", "1\n\n  2\n", "3\n"},
		{"truncating division", "print 7 / 2; print -7 / 2; print -7 % 2;", "", "3\n-3\n-1\n"},
		{"factorial", "n = ?; f = 1; while (n > 1) { f = f * n; n = n - 1; } print f;", "10", "3628800\n"},
		{
			name: "fibonacci",
			script: `
n = ?;
a = 0; b = 1; i = 0;
while (i < n) {
	print a;
	t = a + b;
	a = b;
	b = t;
	i = i + 1;
}`,
			input:    "6",
			expected: "0\n1\n1\n2\n3\n5\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runScript(t, tt.script, tt.input)
			if err != nil {
				t.Fatalf("Run() failed: %v", err)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRun_RuntimeErrors(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		input    string
		kind     error
		expected string // output before the failure
		message  string
	}{
		{"divide by zero", "x = 10 / 0;", "", evaluator.ErrDivideByZero, "", "runtime error: division by zero"},
		{"modulo by zero", "print 1; x = 0; print 10 % x;", "", evaluator.ErrDivideByZero, "1\n", "runtime error: modulo by zero"},
		{"malformed input", "print 1; x = ?;", "abc", evaluator.ErrMalformedInput, "1\n", `runtime error: malformed integer input "abc"`},
		{"input exhausted", "x = ?; y = ?;", "1", evaluator.ErrInputExhausted, "", "runtime error: unexpected end of input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runScript(t, tt.script, tt.input)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("Run() = %v, want %v", err, tt.kind)
			}
			if err.Error() != tt.message {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.message)
			}
			var rerr *evaluator.RuntimeError
			if !errors.As(err, &rerr) || !strings.HasPrefix(rerr.Inspect(), tt.message+"\n\tmain.pcl:1:") {
				t.Errorf("Inspect() must carry the position, got %v", err)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("output before the failure mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRun_EffectsKeptOnFailure(t *testing.T) {
	interp, stdout := newTestInterpreter(t, "")
	if err := interp.LoadFile("main.pcl", []byte("x = 7; print x; y = x / 0; print 99;")); err != nil {
		t.Fatal(err)
	}
	if err := interp.Run(context.Background()); !errors.Is(err, evaluator.ErrDivideByZero) {
		t.Fatalf("Run() = %v, want ErrDivideByZero", err)
	}
	if got := stdout.String(); got != "7\n" {
		t.Errorf("output = %q, want %q", got, "7\n")
	}
	x, _ := interp.Root().Lookup("x")
	if x.Value != 7 {
		t.Errorf("x = %d, want 7", x.Value)
	}
}

func TestLoadFile_ParseError(t *testing.T) {
	interp, _ := newTestInterpreter(t, "")
	err := interp.LoadFile("bad.pcl", []byte("print (1;"))
	var list goscanner.ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("LoadFile() = %v, want a scanner.ErrorList", err)
	}
	if want := "bad.pcl:1:9: syntax error: unexpected ';', expecting ')'"; list[0].Error() != want {
		t.Errorf("diagnostic = %q, want %q", list[0].Error(), want)
	}
	if interp.Root() != nil {
		t.Errorf("a failed load must not install a root")
	}
	if err := interp.Run(context.Background()); !errors.Is(err, ErrNoProgramRoot) {
		t.Errorf("Run() = %v, want ErrNoProgramRoot", err)
	}
}

func TestSetProgramRoot(t *testing.T) {
	interp, stdout := newTestInterpreter(t, "")
	if err := interp.SetProgramRoot(nil); !errors.Is(err, ErrNoProgramRoot) {
		t.Errorf("SetProgramRoot(nil) = %v, want ErrNoProgramRoot", err)
	}

	// print 2 + 3; assembled by hand
	a := interp.Arena()
	root := a.NewScope(token.NoPos)
	sum := a.NewArith(token.NoPos, token.ADD, a.NewNumber(token.NoPos, 2), a.NewNumber(token.NoPos, 3))
	root.AddStatement(a.NewExprStmt(a.NewPrint(token.NoPos, sum)))

	if err := interp.SetProgramRoot(root); err != nil {
		t.Fatal(err)
	}
	if err := interp.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if got := stdout.String(); got != "5\n" {
		t.Errorf("output = %q, want %q", got, "5\n")
	}
}

func TestNewInterpreter_Options(t *testing.T) {
	if _, err := NewInterpreter(WithStdout(nil)); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("WithStdout(nil) = %v, want ErrInvalidOption", err)
	}
	if _, err := NewInterpreter(WithFileSet(nil)); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("WithFileSet(nil) = %v, want ErrInvalidOption", err)
	}

	fset := token.NewFileSet()
	var logs bytes.Buffer
	logger := NewLogger(&logs, slog.LevelDebug)
	interp, err := NewInterpreter(append(Config{Fset: fset, Logger: logger}.Options(), WithStdout(io.Discard))...)
	if err != nil {
		t.Fatal(err)
	}
	if interp.FileSet() != fset || interp.Logger() != logger {
		t.Errorf("shared components from Config must be used")
	}
	if err := interp.LoadFile("a.pcl", []byte("print 1;")); err != nil {
		t.Fatal(err)
	}
	if err := interp.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs.String(), "program loaded") || !strings.Contains(logs.String(), "msg=run") {
		t.Errorf("debug logs are missing:\n%s", logs.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseLogLevel("loud"); err == nil {
		t.Errorf("ParseLogLevel(loud) must fail")
	}
}
