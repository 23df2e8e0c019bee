package migrator

import (
	"io/fs"
	"os"
	"path"
	"strings"
)

type (
	// FS lists and reads migration files. ReadDir returns the names of the regular files directly
	// inside name. A missing path must produce an error matching fs.ErrNotExist.
	FS interface {
		ReadDir(name string) ([]string, error)
		ReadFile(name string) ([]byte, error)
	}

	osFS struct{}

	ioFS struct {
		fsys fs.FS
	}
)

// OS returns an FS backed by the operating system. Relative paths resolve against the working
// directory.
func OS() FS {
	return osFS{}
}

// FromFS adapts an fs.FS (os.DirFS, embed.FS, fstest.MapFS) to FS. Leading "./" and "/" are
// stripped since fs.FS paths are always unrooted.
//
// Example:
//
//	//go:embed migrations
//	var migrations embed.FS
//
//	plan, err := migrator.Resolve(ctx, migrator.FromFS(migrations), target)
func FromFS(fsys fs.FS) FS {
	return ioFS{fsys: fsys}
}

func (osFS) ReadDir(name string) ([]string, error) {
	entries, err := os.ReadDir(name)
	if err != nil {
		return nil, err
	}

	return fileNames(entries), nil
}

func (osFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (f ioFS) ReadDir(name string) ([]string, error) {
	entries, err := fs.ReadDir(f.fsys, fsPath(name))
	if err != nil {
		return nil, err
	}

	return fileNames(entries), nil
}

func (f ioFS) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(f.fsys, fsPath(name))
}

func fileNames(entries []fs.DirEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}

	return names
}

func fsPath(name string) string {
	name = strings.TrimLeft(path.Clean(name), "/")
	if name == "" {
		return "."
	}

	return name
}
