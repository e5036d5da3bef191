package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/podhmo/paracl"
	"github.com/podhmo/paracl/astwalk"
	"github.com/podhmo/paracl/fs"
	"github.com/podhmo/paracl/suite"
	"gopkg.in/urfave/cli.v1"
)

// errFailed is returned by commands that already reported their failure.
var errFailed = errors.New("failed")

type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	fsys   fs.FS

	logger *slog.Logger
	diag   *printer
}

func main() {
	e := &env{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr, fsys: fs.NewOSFS()}
	if err := newApp(e).Run(os.Args); err != nil {
		if !errors.Is(err, errFailed) {
			log.Printf("!! %+v", err)
		}
		os.Exit(1)
	}
}

var (
	logLevelFlag = cli.StringFlag{
		Name:  "log-level",
		Value: "warn",
		Usage: "log level (debug, info, warn, error)",
	}
	noColorFlag = cli.BoolFlag{
		Name:  "no-color",
		Usage: "disable colored diagnostics",
	}
	inputFlag = cli.StringFlag{
		Name:  "input",
		Usage: "read '?' values from `FILE` instead of stdin",
	}
	parallelFlag = cli.IntFlag{
		Name:  "parallel",
		Usage: "number of cases run at the same time (0 means GOMAXPROCS)",
	}
)

func newApp(e *env) *cli.App {
	app := cli.NewApp()
	app.Name = "paracl"
	app.Usage = "run paracl programs"
	app.Version = paracl.Version
	app.ArgsUsage = "[FILE]"
	app.Writer = e.stdout
	app.ErrWriter = e.stderr
	app.Flags = []cli.Flag{logLevelFlag, noColorFlag}
	app.Before = func(c *cli.Context) error {
		level, err := paracl.ParseLogLevel(c.GlobalString(logLevelFlag.Name))
		if err != nil {
			return err
		}
		e.logger = paracl.NewLogger(e.stderr, level)
		e.diag = newPrinter(e.stderr, !c.GlobalBool(noColorFlag.Name))
		return nil
	}
	app.Action = func(c *cli.Context) error {
		if c.NArg() == 0 {
			return cli.ShowAppHelp(c)
		}
		return e.run(c)
	}
	app.Commands = []cli.Command{
		{
			Name:      "run",
			Usage:     "Run a program",
			ArgsUsage: "FILE",
			Flags:     []cli.Flag{inputFlag},
			Action:    e.run,
		},
		{
			Name:      "check",
			Usage:     "Parse a program and report diagnostics without running it",
			ArgsUsage: "FILE...",
			Action:    e.check,
		},
		{
			Name:      "dump",
			Usage:     "Print the tree of a program",
			ArgsUsage: "FILE",
			Action:    e.dump,
		},
		{
			Name:      "suite",
			Usage:     "Run end-to-end suites",
			ArgsUsage: "MANIFEST|DIR...",
			Flags:     []cli.Flag{parallelFlag},
			Action:    e.suite,
		},
		{
			Name:   "repl",
			Usage:  "Start an interactive session",
			Action: e.repl,
		},
	}
	return app
}

func (e *env) interpreter(stdin io.Reader) (*paracl.Interpreter, error) {
	return paracl.NewInterpreter(
		paracl.WithStdin(stdin),
		paracl.WithStdout(e.stdout),
		paracl.WithStderr(e.stderr),
		paracl.WithLogger(e.logger),
	)
}

// load reads and parses filename into a new interpreter.
func (e *env) load(filename string, stdin io.Reader) (*paracl.Interpreter, error) {
	src, err := e.fsys.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	interp, err := e.interpreter(stdin)
	if err != nil {
		return nil, err
	}
	if err := interp.LoadFile(filename, src); err != nil {
		e.diag.report(err)
		return nil, errFailed
	}
	return interp, nil
}

func oneFile(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("exactly one FILE is required, got %d", c.NArg())
	}
	return c.Args().First(), nil
}

func (e *env) run(c *cli.Context) error {
	filename, err := oneFile(c)
	if err != nil {
		return err
	}
	stdin := e.stdin
	if name := c.String(inputFlag.Name); name != "" {
		data, err := e.fsys.ReadFile(name)
		if err != nil {
			return err
		}
		stdin = bytes.NewReader(data)
	}
	interp, err := e.load(filename, stdin)
	if err != nil {
		return err
	}
	if err := interp.Run(context.Background()); err != nil {
		e.diag.report(err)
		return errFailed
	}
	return nil
}

func (e *env) check(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("check: at least one FILE is required")
	}
	failed := false
	for _, filename := range c.Args() {
		if _, err := e.load(filename, strings.NewReader("")); err != nil {
			if !errors.Is(err, errFailed) {
				return err
			}
			failed = true
		}
	}
	if failed {
		return errFailed
	}
	return nil
}

func (e *env) dump(c *cli.Context) error {
	filename, err := oneFile(c)
	if err != nil {
		return err
	}
	interp, err := e.load(filename, strings.NewReader(""))
	if err != nil {
		return err
	}
	return astwalk.Dump(e.stdout, interp.FileSet(), interp.Root())
}

func (e *env) suite(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("suite: at least one MANIFEST or DIR is required")
	}
	ctx := context.Background()
	runner := suite.New(suite.Config{
		FS:       e.fsys,
		Parallel: c.Int(parallelFlag.Name),
		Logger:   e.logger,
	})

	var total suite.Summary
	failed := false
	for _, root := range c.Args() {
		manifests, err := suite.Discover(e.fsys, root)
		if err != nil {
			e.diag.report(err)
			failed = true
		}
		for _, m := range manifests {
			results, err := runner.Run(ctx, m)
			if err != nil {
				return err
			}
			for _, r := range results {
				e.diag.result(m, r)
			}
			s := suite.Summarize(results)
			total.Passed += s.Passed
			total.Failed += s.Failed
		}
	}
	e.diag.summary(total)
	if failed || total.Failed > 0 {
		return errFailed
	}
	return nil
}
