package migrator

import (
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlmigrate/pkg/consts"
)

var migrationNamePattern = regexp.MustCompile(`^\d+[-_].*\.sql$`)

type (
	// Batch holds the migrations discovered in one folder.
	Batch struct {
		// Folder is the resolved folder the files were discovered in
		Folder string

		// Once lists run-once migrations, sorted by file name
		Once []string

		// Always lists run-always migrations, sorted by file name
		Always []string
	}

	// RunPlan is the ordered list of batches: before folders, the local folder, after folders.
	RunPlan []Batch

	// InvalidFilenamesError reports .sql files that don't follow the NNN[-_]name.sql convention.
	InvalidFilenamesError struct {
		Folder string
		Files  []string
	}
)

func (e *InvalidFilenamesError) Error() string {
	return fmt.Sprintf(
		"invalid migration file names in %s (expected <number>-<name>.sql or <number>_<name>.sql): %s",
		e.Folder,
		strings.Join(e.Files, ", "),
	)
}

// Len returns the number of files in the batch.
func (b Batch) Len() int {
	return len(b.Once) + len(b.Always)
}

// Files returns the batch's files in execution order, run-once before run-always.
func (b Batch) Files() []string {
	files := make([]string, 0, b.Len())
	files = append(files, b.Once...)
	return append(files, b.Always...)
}

// Len returns the number of files across all batches.
func (p RunPlan) Len() int {
	n := 0
	for _, b := range p {
		n += b.Len()
	}

	return n
}

// Files returns every file in the plan in execution order.
func (p RunPlan) Files() []string {
	files := make([]string, 0, p.Len())
	for _, b := range p {
		files = append(files, b.Files()...)
	}

	return files
}

// ListFiles returns the migrations in folder/run-once (or folder/run-always when runAlways is set)
// as full paths, sorted by file name. A missing directory yields no files. Any .sql file that
// doesn't follow the naming convention fails the whole listing with an *InvalidFilenamesError.
//
// Example:
//
//	files, err := migrator.ListFiles(migrator.OS(), "migrations", false)
//	// []string{"migrations/run-once/001_init.sql", "migrations/run-once/002_users.sql"}
func ListFiles(fsys FS, folder string, runAlways bool) ([]string, error) {
	dir := path.Join(folder, consts.RunOnceDir)
	if runAlways {
		dir = path.Join(folder, consts.RunAlwaysDir)
	}

	names, err := fsys.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, errors.Wrapf(err, "failed to list migrations in %s", dir)
	}

	sort.Strings(names)

	var (
		files   []string
		invalid []string
	)

	for _, name := range names {
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		if !migrationNamePattern.MatchString(name) {
			invalid = append(invalid, name)
			continue
		}

		files = append(files, path.Join(dir, name))
	}

	if len(invalid) > 0 {
		return nil, &InvalidFilenamesError{Folder: dir, Files: invalid}
	}

	return files, nil
}
