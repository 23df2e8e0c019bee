package project

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlmigrate/pkg/consts"
	"github.com/pseudomuto/sqlmigrate/pkg/migrator"
	"github.com/stoewer/go-strcase"
)

// DefaultMigrationName is used when CreateMigration gets an empty name.
const DefaultMigrationName = "new migration"

var nonSlugChars = regexp.MustCompile(`[^A-Za-z0-9]+`)

// CreateMigration creates an empty migration file named <unix seconds>_<slug>.sql in the run-once
// (or run-always) folder of target and returns its path. Relative folders resolve against the
// project root. An existing file with the same name is left untouched.
//
// Example:
//
//	path, err := proj.CreateMigration(target, "Add users table", false, time.Now())
//	// migrations/public/run-once/1718236800_add_users_table.sql
func (p *Project) CreateMigration(target migrator.Target, name string, runAlways bool, now time.Time) (string, error) {
	dir := filepath.FromSlash(target.ResolveFolder())
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(p.root, dir)
	}

	if runAlways {
		dir = filepath.Join(dir, consts.RunAlwaysDir)
	} else {
		dir = filepath.Join(dir, consts.RunOnceDir)
	}

	if err := os.MkdirAll(dir, consts.ModeDir); err != nil {
		return "", errors.Wrapf(err, "failed to create directory %s", dir)
	}

	path := filepath.Join(dir, fmt.Sprintf("%d_%s.sql", now.UTC().Unix(), Slug(name)))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, consts.ModeFile)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create migration %s", path)
	}

	if err := f.Close(); err != nil {
		return "", errors.Wrapf(err, "failed to create migration %s", path)
	}

	return path, nil
}

// Slug turns a free form migration name into lower snake case, dropping anything that isn't a
// letter or digit.
//
// Example:
//
//	project.Slug("Add users.email (unique)!")  // add_users_email_unique
func Slug(name string) string {
	name = strings.TrimSpace(nonSlugChars.ReplaceAllString(name, " "))
	if name == "" {
		name = DefaultMigrationName
	}

	return strcase.SnakeCase(name)
}
