// Package fs abstracts the file access of the suite runner and the CLI.
package fs

import (
	i_fs "io/fs"
	"os"
	"path/filepath"
)

// FS is the file system used to load programs, inputs and suite manifests.
type FS interface {
	Stat(name string) (i_fs.FileInfo, error)
	ReadDir(name string) ([]i_fs.DirEntry, error)
	ReadFile(name string) ([]byte, error)
	WalkDir(root string, fn i_fs.WalkDirFunc) error
}

type osFS struct{}

// NewOSFS returns an FS backed by the operating system.
func NewOSFS() FS {
	return &osFS{}
}

func (f *osFS) Stat(name string) (i_fs.FileInfo, error) {
	return os.Stat(name)
}

func (f *osFS) ReadDir(name string) ([]i_fs.DirEntry, error) {
	return os.ReadDir(name)
}

func (f *osFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (f *osFS) WalkDir(root string, fn i_fs.WalkDirFunc) error {
	return filepath.WalkDir(root, fn)
}

type ioFS struct {
	fsys i_fs.FS
}

// FromFS adapts an io/fs file system, such as an fstest.MapFS or an embed.FS.
// Names are slash separated and relative to the root of fsys.
func FromFS(fsys i_fs.FS) FS {
	return &ioFS{fsys: fsys}
}

func (f *ioFS) Stat(name string) (i_fs.FileInfo, error) {
	return i_fs.Stat(f.fsys, name)
}

func (f *ioFS) ReadDir(name string) ([]i_fs.DirEntry, error) {
	return i_fs.ReadDir(f.fsys, name)
}

func (f *ioFS) ReadFile(name string) ([]byte, error) {
	return i_fs.ReadFile(f.fsys, name)
}

func (f *ioFS) WalkDir(root string, fn i_fs.WalkDirFunc) error {
	return i_fs.WalkDir(f.fsys, root, fn)
}
