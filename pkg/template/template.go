package template

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

var placeholderPattern = regexp.MustCompile(`\{\{([-A-Za-z0-9_]+)\}\}`)

type (
	// FileReader reads migration files. migrator.FS satisfies it.
	FileReader interface {
		ReadFile(name string) ([]byte, error)
	}

	// Parameters maps placeholder names to their substitution values. Empty values leave
	// the placeholder untouched.
	Parameters map[string]string

	// MissingParametersError is returned when placeholders remain after substitution.
	MissingParametersError struct {
		File  string
		Names []string
	}

	// EmptyMigrationError is returned for migrations containing only whitespace.
	EmptyMigrationError struct {
		File string
	}
)

func (e *MissingParametersError) Error() string {
	return fmt.Sprintf("found extra parameters (%s) in %s", strings.Join(e.Names, ", "), e.File)
}

func (e *EmptyMigrationError) Error() string {
	return "found empty migration in " + e.File
}

// Merge returns a new Parameters containing p overlaid with other. Values in other win.
func (p Parameters) Merge(other Parameters) Parameters {
	out := make(Parameters, len(p)+len(other))
	for k, v := range p {
		out[k] = v
	}

	for k, v := range other {
		out[k] = v
	}

	return out
}

// Apply substitutes every {{key}} in sql with its non-empty value from params. Parameters that
// do not appear in sql are ignored. Any placeholder left afterwards produces a
// MissingParametersError naming each distinct placeholder in order of first appearance.
//
// Example:
//
//	out, err := template.Apply("migrations/run-once/001_init.sql", "create table {{table}} ();", template.Parameters{
//		"table": "users",
//	})
//	// out == "create table users ();"
func Apply(file, sql string, params Parameters) (string, error) {
	if strings.TrimSpace(sql) == "" {
		return "", &EmptyMigrationError{File: file}
	}

	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != "" {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	for _, k := range keys {
		sql = strings.ReplaceAll(sql, "{{"+k+"}}", params[k])
	}

	matches := placeholderPattern.FindAllStringSubmatch(sql, -1)
	if len(matches) == 0 {
		return sql, nil
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}

	return "", &MissingParametersError{File: file, Names: names}
}

// Load reads file through fsys and applies params to its contents.
func Load(fsys FileReader, file string, params Parameters) (string, error) {
	data, err := fsys.ReadFile(file)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read migration %s", file)
	}

	return Apply(file, string(data), params)
}
