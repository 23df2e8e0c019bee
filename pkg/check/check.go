package check

import (
	"context"

	"github.com/pseudomuto/sqlmigrate/pkg/migrator"
	"github.com/pseudomuto/sqlmigrate/pkg/parser"
	"github.com/pseudomuto/sqlmigrate/pkg/template"
	"go.uber.org/multierr"
)

// Checker validates migrations without touching a database.
type Checker struct {
	fs     migrator.FS
	parser parser.Parser
}

// New creates a Checker reading files from fsys and validating them with p. A nil parser only
// validates templates.
func New(fsys migrator.FS, p parser.Parser) *Checker {
	if fsys == nil {
		fsys = migrator.OS()
	}

	if p == nil {
		p = parser.Func(func(string, string) error { return nil })
	}

	return &Checker{fs: fsys, parser: p}
}

// Check renders and parses every file of plan, in the order they would be applied, and returns
// every problem found. Nothing is short-circuited: a file that fails to render is skipped by the
// parser but the remaining files are still checked.
//
// Example usage:
//
//	errs := check.New(migrator.OS(), p).Check(ctx, plan, values)
//	for _, err := range errs {
//		fmt.Println(err)
//	}
func (c *Checker) Check(ctx context.Context, plan migrator.RunPlan, params template.Parameters) []error {
	var errs []error

	for _, file := range plan.Files() {
		if err := ctx.Err(); err != nil {
			return append(errs, err)
		}

		sql, err := template.Load(c.fs, file, params)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := c.parser.Parse(file, sql); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

// Combine folds errs into a single error, nil when there are none. multierr.Errors recovers the
// list.
func Combine(errs []error) error {
	return multierr.Combine(errs...)
}
