// Package suite runs end-to-end checks of paracl programs.
//
// A suite is described by a YAML manifest:
//
//	requires: v0.1.0
//	cases:
//	  - name: sum
//	    source: "print ? + ?;"
//	    input: "1 2"
//	    expect: "3"
//	  - name: div
//	    program: data/div.pcl
//	    fail: division by zero
//
// or by a directory in the data/, input/, answers/ layout (see LoadDir).
package suite

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/podhmo/paracl"
	"github.com/podhmo/paracl/fs"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// Manifest is a loaded suite.
type Manifest struct {
	// Path is the file or directory the manifest was read from.
	Path string
	// Dir is the directory relative case files are resolved against.
	Dir      string
	Requires string
	Cases    []Case
}

// Case is one program run.
// Exactly one of Program and Source is set. A case with MustFail or Fail
// passes only when the program fails; otherwise its output must match.
type Case struct {
	Name string `yaml:"name"`

	Program string `yaml:"program,omitempty"`
	Source  string `yaml:"source,omitempty"`

	Input     string `yaml:"input,omitempty"`
	InputFile string `yaml:"input_file,omitempty"`

	Expect     string `yaml:"expect,omitempty"`
	ExpectFile string `yaml:"expect_file,omitempty"`

	// Fail is a substring the failure message must contain.
	Fail     string `yaml:"fail,omitempty"`
	MustFail bool   `yaml:"mustfail,omitempty"`
}

// ExpectsFailure reports whether c passes by failing.
func (c Case) ExpectsFailure() bool {
	return c.MustFail || c.Fail != ""
}

type manifestFile struct {
	Requires string `yaml:"requires"`
	Cases    []Case `yaml:"cases"`
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "suite: invalid manifest %s:", e.Path)
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load reads and validates the manifest at path.
func Load(fsys fs.FS, path string) (*Manifest, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("suite: read %s: %w", path, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("suite: %s is empty", path)
		}
		return nil, fmt.Errorf("suite: parse %s: %w", path, err)
	}

	m := &Manifest{Path: path, Dir: filepath.Dir(path), Requires: raw.Requires, Cases: raw.Cases}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) validate() error {
	errs := ValidationError{Path: m.Path}
	if m.Requires != "" {
		switch {
		case !semver.IsValid(m.Requires):
			errs.Issues = append(errs.Issues, fmt.Sprintf("requires %q is not a semantic version", m.Requires))
		case semver.Compare(m.Requires, paracl.Version) > 0:
			errs.Issues = append(errs.Issues, fmt.Sprintf("requires %s, but this is paracl %s", m.Requires, paracl.Version))
		}
	}
	if len(m.Cases) == 0 {
		errs.Issues = append(errs.Issues, "no cases")
	}

	seen := make(map[string]int, len(m.Cases))
	for i, c := range m.Cases {
		label := fmt.Sprintf("cases[%d]", i)
		if c.Name == "" {
			errs.Issues = append(errs.Issues, label+": name must be provided")
		} else {
			label = fmt.Sprintf("cases[%d] %q", i, c.Name)
			if j, ok := seen[c.Name]; ok {
				errs.Issues = append(errs.Issues, fmt.Sprintf("%s: duplicate of cases[%d]", label, j))
			} else {
				seen[c.Name] = i
			}
		}
		if (c.Program == "") == (c.Source == "") {
			errs.Issues = append(errs.Issues, label+": exactly one of program and source must be set")
		}
		if c.Input != "" && c.InputFile != "" {
			errs.Issues = append(errs.Issues, label+": input and input_file are exclusive")
		}
		if c.Expect != "" && c.ExpectFile != "" {
			errs.Issues = append(errs.Issues, label+": expect and expect_file are exclusive")
		}
		if c.ExpectsFailure() && (c.Expect != "" || c.ExpectFile != "") {
			errs.Issues = append(errs.Issues, label+": a failing case cannot expect output")
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// resolve returns name relative to the directory of the manifest.
func (m *Manifest) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(m.Dir, name)
}
