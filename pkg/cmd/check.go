package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlmigrate/pkg/config"
	"github.com/pseudomuto/sqlmigrate/pkg/migrate"
	"github.com/pseudomuto/sqlmigrate/pkg/parser"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
	"go.uber.org/multierr"
)

type checkParams struct {
	fx.In

	Config *config.Config
}

// checkCmd creates the check command, which validates migrations without a database.
//
// Example usage:
//
//	sqlmigrate check --dialect postgres
//	sqlmigrate check --schema app --folder db/migrations
func checkCmd(p checkParams) *cli.Command {
	return &cli.Command{
		Name:    "check",
		Aliases: []string{"test"},
		Usage:   "Check all migrations for errors",
		Description: `Render every migration with the configured template parameters and parse the
result with the SQL parser for --dialect. Every problem is reported, not just
the first. The database is never contacted, so parameters from the configured
query are not available.`,
		Flags: []cli.Flag{
			schemaFlag,
			folderFlag,
			&cli.StringFlag{
				Name:  "dialect",
				Usage: fmt.Sprintf("SQL dialect used to parse migrations (%s)", strings.Join(parser.Dialects(), ", ")),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runCheck(ctx, cmd, p)
		},
	}
}

func runCheck(ctx context.Context, cmd *cli.Command, p checkParams) error {
	out := cmd.Root().Writer
	tgt := target(cmd, p.Config)

	dialect := p.Config.Check.Dialect
	if cmd.IsSet("dialect") {
		dialect = cmd.String("dialect")
	}

	sqlParser, err := parser.New(dialect)
	if err != nil {
		return err
	}

	if tgt.Schema != "" {
		fmt.Fprintf(out, "Checking migrations for schema %q\n", tgt.Schema)
	} else {
		fmt.Fprintln(out, "Checking migrations")
	}

	runner := migrate.New(migrate.Config{
		Params: parameterSource(p.Config, nil),
		Logger: slog.Default(),
	})

	if err := runner.Check(ctx, tgt, sqlParser); err != nil {
		errs := multierr.Errors(err)
		for _, e := range errs {
			fmt.Fprintln(out, e)
		}

		return errors.Errorf("%d errors found", len(errs))
	}

	fmt.Fprintln(out, "Clean")
	return nil
}
