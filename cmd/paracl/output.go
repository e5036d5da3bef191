package main

import (
	"errors"
	"fmt"
	goscanner "go/scanner"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/podhmo/paracl/evaluator"
	"github.com/podhmo/paracl/suite"
)

// printer writes diagnostics and suite results, colored when w is a terminal.
type printer struct {
	w    io.Writer
	red  *color.Color
	bold *color.Color
	ok   *color.Color
}

func newPrinter(w io.Writer, allowColor bool) *printer {
	p := &printer{
		w:    w,
		red:  color.New(color.FgRed),
		bold: color.New(color.FgRed, color.Bold),
		ok:   color.New(color.FgGreen),
	}
	if allowColor && isTerminal(w) {
		for _, c := range []*color.Color{p.red, p.bold, p.ok} {
			c.EnableColor()
		}
	} else {
		for _, c := range []*color.Color{p.red, p.bold, p.ok} {
			c.DisableColor()
		}
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// report prints err, one line per diagnostic. Runtime errors get their position on a second line.
func (p *printer) report(err error) {
	var list goscanner.ErrorList
	var rerr *evaluator.RuntimeError
	switch {
	case errors.As(err, &list):
		for _, e := range list {
			p.bold.Fprint(p.w, e.Pos.String()+": ")
			p.red.Fprintln(p.w, e.Msg)
		}
	case errors.As(err, &rerr):
		p.bold.Fprintln(p.w, rerr.Error())
		if pos := rerr.Position(); pos.IsValid() {
			fmt.Fprintf(p.w, "\tat %s\n", pos)
		}
	default:
		p.red.Fprintln(p.w, err.Error())
	}
}

func (p *printer) result(m *suite.Manifest, r suite.Result) {
	if r.Passed {
		p.ok.Fprint(p.w, "PASS")
		fmt.Fprintf(p.w, " %s/%s (%s)\n", m.Path, r.Case.Name, r.Duration.Round(time.Microsecond))
		return
	}
	p.bold.Fprint(p.w, "FAIL")
	fmt.Fprintf(p.w, " %s/%s\n", m.Path, r.Case.Name)
	fmt.Fprintf(p.w, "\t%s\n", r.Reason)
}

func (p *printer) summary(s suite.Summary) {
	if s.Failed > 0 {
		p.bold.Fprintln(p.w, s.String())
		return
	}
	p.ok.Fprintln(p.w, s.String())
}
