package suite

import (
	"bytes"
	"context"
	"fmt"
	"go/token"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/podhmo/paracl"
	"github.com/podhmo/paracl/fs"
	"golang.org/x/sync/errgroup"
)

// Config configures a Runner.
type Config struct {
	// FS reads programs, inputs and answers. Defaults to the OS file system.
	FS fs.FS
	// Parallel is the number of cases run at the same time. Defaults to GOMAXPROCS.
	Parallel int
	// Fset is shared by all interpreters. Defaults to a new file set.
	Fset *token.FileSet
	// Logger receives one record per case. Defaults to a discarding logger.
	Logger *slog.Logger
}

// Result is the outcome of one case.
type Result struct {
	Case     Case
	Passed   bool
	Output   string
	Err      error  // error of the run, expected for failing cases
	Reason   string // why the case did not pass
	Duration time.Duration
}

// Runner runs the cases of manifests, each with its own interpreter.
type Runner struct {
	fsys     fs.FS
	parallel int
	fset     *token.FileSet
	logger   *slog.Logger
}

// New creates a runner.
func New(cfg Config) *Runner {
	r := &Runner{
		fsys:     cfg.FS,
		parallel: cfg.Parallel,
		fset:     cfg.Fset,
		logger:   cfg.Logger,
	}
	if r.fsys == nil {
		r.fsys = fs.NewOSFS()
	}
	if r.parallel <= 0 {
		r.parallel = runtime.GOMAXPROCS(0)
	}
	if r.fset == nil {
		r.fset = token.NewFileSet()
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

// Run runs every case of m and returns the results in manifest order.
// The error is non-nil only when ctx is done before all cases ran.
func (r *Runner) Run(ctx context.Context, m *Manifest) ([]Result, error) {
	results := make([]Result, len(m.Cases))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallel)
	for i, c := range m.Cases {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.runCase(ctx, m, c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) runCase(ctx context.Context, m *Manifest, c Case) Result {
	start := time.Now()
	res := r.execute(ctx, m, c)
	res.Duration = time.Since(start)
	if res.Passed {
		r.logger.InfoContext(ctx, "case passed", "suite", m.Path, "case", c.Name, "duration", res.Duration)
	} else {
		r.logger.WarnContext(ctx, "case failed", "suite", m.Path, "case", c.Name, "reason", res.Reason)
	}
	return res
}

func (r *Runner) execute(ctx context.Context, m *Manifest, c Case) Result {
	res := Result{Case: c}

	filename, src, err := r.source(m, c)
	if err != nil {
		res.Reason = err.Error()
		return res
	}
	input, err := r.text(m, c.Input, c.InputFile)
	if err != nil {
		res.Reason = err.Error()
		return res
	}
	expect, err := r.text(m, c.Expect, c.ExpectFile)
	if err != nil {
		res.Reason = err.Error()
		return res
	}

	var stdout bytes.Buffer
	options := append(paracl.Config{Fset: r.fset, Logger: r.logger}.Options(),
		paracl.WithStdin(strings.NewReader(input)),
		paracl.WithStdout(&stdout),
		paracl.WithStderr(io.Discard),
	)
	interp, err := paracl.NewInterpreter(options...)
	if err != nil {
		res.Reason = err.Error()
		return res
	}
	err = interp.LoadFile(filename, src)
	if err == nil {
		err = interp.Run(ctx)
	}
	res.Output = stdout.String()
	res.Err = err

	switch {
	case c.ExpectsFailure():
		switch {
		case err == nil:
			res.Reason = "expected a failure, but the program succeeded"
		case !strings.Contains(err.Error(), c.Fail):
			res.Reason = fmt.Sprintf("failure %q does not contain %q", err.Error(), c.Fail)
		default:
			res.Passed = true
		}
	case err != nil:
		res.Reason = err.Error()
	case strings.TrimSpace(res.Output) != strings.TrimSpace(expect):
		res.Reason = fmt.Sprintf("output mismatch\nexpected:\n%s\ngot:\n%s", strings.TrimSpace(expect), strings.TrimSpace(res.Output))
	default:
		res.Passed = true
	}
	return res
}

func (r *Runner) source(m *Manifest, c Case) (string, []byte, error) {
	if c.Source != "" {
		return c.Name + ".pcl", []byte(c.Source), nil
	}
	path := m.resolve(c.Program)
	src, err := r.fsys.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read program: %w", err)
	}
	return path, src, nil
}

func (r *Runner) text(m *Manifest, inline, file string) (string, error) {
	if file == "" {
		return inline, nil
	}
	data, err := r.fsys.ReadFile(m.resolve(file))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", file, err)
	}
	return string(data), nil
}

// Summary counts results.
type Summary struct {
	Passed int
	Failed int
}

// Summarize counts passed and failed results.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		if r.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d passed, %d failed", s.Passed, s.Failed)
}
