package suite

import (
	"errors"
	"fmt"
	i_fs "io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/podhmo/paracl/fs"
)

// LoadDir builds a manifest from a directory laid out as
//
//	data/N.dat           program
//	input/N_input.dat    input, optional
//	answers/N_answ.dat   expected output; without it the program must fail
func LoadDir(fsys fs.FS, dir string) (*Manifest, error) {
	entries, err := fsys.ReadDir(filepath.Join(dir, "data"))
	if err != nil {
		return nil, fmt.Errorf("suite: read %s: %w", dir, err)
	}

	m := &Manifest{Path: dir, Dir: dir}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".dat" {
			continue
		}
		n := strings.TrimSuffix(e.Name(), ".dat")
		c := Case{Name: n, Program: filepath.Join("data", e.Name())}
		if input := filepath.Join("input", n+"_input.dat"); exists(fsys, m.resolve(input)) {
			c.InputFile = input
		}
		if answer := filepath.Join("answers", n+"_answ.dat"); exists(fsys, m.resolve(answer)) {
			c.ExpectFile = answer
		} else {
			c.MustFail = true
		}
		m.Cases = append(m.Cases, c)
	}
	sort.SliceStable(m.Cases, func(i, j int) bool { return caseLess(m.Cases[i].Name, m.Cases[j].Name) })

	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// caseLess orders "2" before "10".
func caseLess(a, b string) bool {
	if len(a) != len(b) && isNumber(a) && isNumber(b) {
		return len(a) < len(b)
	}
	return a < b
}

func isNumber(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func exists(fsys fs.FS, name string) bool {
	info, err := fsys.Stat(name)
	return err == nil && !info.IsDir()
}

// Discover loads every suite below root. root may be a manifest file, a
// directory in the LoadDir layout, or a directory searched for *.yaml and
// *.yml manifests. Manifests that fail to load are reported in the returned
// error; the others are still returned.
func Discover(fsys fs.FS, root string) ([]*Manifest, error) {
	info, err := fsys.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("suite: %w", err)
	}
	if !info.IsDir() {
		m, err := Load(fsys, root)
		if err != nil {
			return nil, err
		}
		return []*Manifest{m}, nil
	}
	if data, err := fsys.Stat(filepath.Join(root, "data")); err == nil && data.IsDir() {
		m, err := LoadDir(fsys, root)
		if err != nil {
			return nil, err
		}
		return []*Manifest{m}, nil
	}

	var manifests []*Manifest
	var errs []error
	err = fsys.WalkDir(root, func(path string, d i_fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			m, err := Load(fsys, path)
			if err != nil {
				errs = append(errs, err)
				return nil
			}
			manifests = append(manifests, m)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("suite: walk %s: %w", root, err)
	}
	if len(manifests) == 0 && len(errs) == 0 {
		return nil, fmt.Errorf("suite: no manifest found in %s", root)
	}
	return manifests, errors.Join(errs...)
}
