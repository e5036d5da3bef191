// Package paracltest provides helpers for tests that run paracl programs.
package paracltest

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/podhmo/paracl"
	"github.com/podhmo/paracl/ast"
)

// Result holds what a program left behind.
type Result struct {
	// Output is everything the program printed, also when it failed.
	Output string
	root   *ast.Scope
}

// Get returns the value of a variable declared in the outermost scope.
func (r *Result) Get(name string) (int64, bool) {
	if r.root == nil {
		return 0, false
	}
	v, ok := r.root.Lookup(name)
	if !ok {
		return 0, false
	}
	return v.Value, true
}

// Run parses and executes src with input as the stream of '?'.
// The error is the parse or runtime error of the program; the Result is
// returned in both cases.
func Run(t *testing.T, src string, input string) (*Result, error) {
	t.Helper()
	var stdout bytes.Buffer
	interp, err := paracl.NewInterpreter(
		paracl.WithStdin(strings.NewReader(input)),
		paracl.WithStdout(&stdout),
		paracl.WithStderr(io.Discard),
	)
	if err != nil {
		t.Fatalf("NewInterpreter(): %v", err)
	}
	result := &Result{}
	if err := interp.LoadFile(t.Name()+".pcl", []byte(src)); err != nil {
		return result, err
	}
	result.root = interp.Root()
	err = interp.Run(context.Background())
	result.Output = stdout.String()
	return result, err
}

// WriteFiles creates a temporary directory and populates it with files.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("MkdirAll(%q): %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile(%q): %v", path, err)
		}
	}
	return dir
}
