package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/podhmo/paracl"
	"github.com/podhmo/paracl/astwalk"
	"gopkg.in/urfave/cli.v1"
)

const (
	historyFile = ".paracl_history"
	promptMain  = ">> "
	promptCont  = ".. "
	promptInput = "? "
)

// prompter is the part of *liner.State the repl uses.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// inputReader feeds '?' from the line editor, one prompted line at a time.
type inputReader struct {
	p   prompter
	buf []byte
}

func (r *inputReader) Read(b []byte) (int, error) {
	if len(r.buf) == 0 {
		line, err := r.p.Prompt(promptInput)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return 0, io.EOF
			}
			return 0, err
		}
		r.buf = []byte(line + "\n")
	}
	n := copy(b, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

func (e *env) repl(c *cli.Context) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	fmt.Fprintf(e.stdout, "paracl %s, :help for commands\n", paracl.Version)
	return e.loop(context.Background(), ln)
}

func (e *env) loop(ctx context.Context, p prompter) error {
	interp, err := e.interpreter(&inputReader{p: p})
	if err != nil {
		return err
	}
	session, err := interp.NewSession()
	if err != nil {
		return err
	}

	for {
		src, ok := readStatements(p)
		if !ok {
			fmt.Fprintln(e.stdout)
			return nil
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		p.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if quit := e.command(interp, session, trimmed); quit {
				return nil
			}
			continue
		}
		if err := session.Eval(ctx, src); err != nil {
			e.diag.report(err)
		}
	}
}

func (e *env) command(interp *paracl.Interpreter, session *paracl.Session, cmd string) (quit bool) {
	switch cmd {
	case ":quit", ":q":
		return true
	case ":vars":
		for scope, v := range astwalk.Variables(session.Root()) {
			if scope != session.Root() {
				continue
			}
			fmt.Fprintf(e.stdout, "%s = %d\n", v.Name, v.Value)
		}
	case ":dump":
		if err := astwalk.Dump(e.stdout, interp.FileSet(), session.Root()); err != nil {
			e.diag.report(err)
		}
	case ":help":
		fmt.Fprintln(e.stdout, ":vars  show variables of the session")
		fmt.Fprintln(e.stdout, ":dump  print the tree of the session")
		fmt.Fprintln(e.stdout, ":quit  leave")
	default:
		fmt.Fprintf(e.stdout, "unknown command %s. Type :help for commands.\n", cmd)
	}
	return false
}

// readStatements reads lines until braces balance and the input ends with ';' or '}'.
func readStatements(p prompter) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := p.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// ^C drops the pending input
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if complete(b.String()) {
			return b.String(), true
		}
	}
}

func complete(src string) bool {
	var code strings.Builder
	for _, line := range strings.Split(src, "\n") {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		code.WriteString(line)
		code.WriteByte('\n')
	}
	s := strings.TrimSpace(code.String())
	if s == "" || strings.HasPrefix(s, ":") {
		return true
	}
	if depth := strings.Count(s, "{") - strings.Count(s, "}"); depth != 0 {
		return depth < 0
	}
	return strings.HasSuffix(s, ";") || strings.HasSuffix(s, "}")
}
