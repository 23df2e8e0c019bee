package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type (
	Params struct {
		fx.In

		Args       []string
		Commands   []*cli.Command `group:"commands"`
		Ctx        context.Context
		Lifecycle  fx.Lifecycle
		Shutdowner fx.Shutdowner
		Version    *Version
	}

	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}
)

// Run creates and executes the sqlmigrate CLI with the registered commands. The process exit code
// is set through the fx Shutdowner once the command finishes.
//
// Global Flags:
//   - --verbose, -v: log at debug level
//
// The configuration is read from sqlmigrate.yaml in the working directory, or from the file named
// by $SQLMIGRATE_CONFIG.
//
// Example usage:
//
//	sqlmigrate up --schema app --use-versioning --version 2024.06.01
//	sqlmigrate check --dialect postgres
//	sqlmigrate create add users table
func Run(p Params) {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Writer, "Version:", p.Version.Version)
		fmt.Fprintln(cmd.Writer, "Commit:", p.Version.Commit)
		fmt.Fprintln(cmd.Writer, "Date:", p.Version.Timestamp)
	}

	app := &cli.Command{
		Name:  "sqlmigrate",
		Usage: "Apply ordered SQL migrations to a database",
		Description: `sqlmigrate applies the SQL files found in a migrations folder to a database,
recording run-once migrations in a history table so that re-running is safe.

Migrations live in <folder>/run-once and <folder>/run-always, and a
<folder>/migrations.json can name other folders to run before or after them.`,
		Version: p.Version.Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("SQLMIGRATE_VERBOSE"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := slog.LevelInfo
			if cmd.Bool("verbose") {
				level = slog.LevelDebug
			}

			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return ctx, nil
		},
		Commands: p.Commands,
	}

	p.Lifecycle.Append(fx.StartHook(func() {
		if err := app.Run(p.Ctx, p.Args); err != nil {
			slog.Error("Error running command", "err", err)
			_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
			return
		}

		_ = p.Shutdowner.Shutdown(fx.ExitCode(0))
	}))
}
