package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pseudomuto/sqlmigrate/pkg/config"
	"github.com/pseudomuto/sqlmigrate/pkg/migrate"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type upParams struct {
	fx.In

	Config *config.Config
}

// upCmd creates the up command for applying pending migrations.
//
// Every flag overrides the matching sqlmigrate.yaml setting.
//
// Example usage:
//
//	# Apply everything pending
//	sqlmigrate up --driver postgres --dsn postgres://localhost:5432/app
//
//	# Only run when v2 hasn't been applied yet
//	sqlmigrate up --use-versioning --version v2
//
//	# List what would run
//	sqlmigrate up --dry-run
func upCmd(p upParams) *cli.Command {
	return &cli.Command{
		Name:  "up",
		Usage: "Apply all pending migrations",
		Description: `Apply every run-once migration that isn't recorded in the history table yet,
followed by all run-always migrations, folder by folder in the order given by
migrations.json.

With --use-versioning, the run is skipped entirely when --version matches the
last recorded version. --force applies the version again anyway.`,
		Flags: []cli.Flag{
			schemaFlag,
			tableFlag,
			folderFlag,
			&cli.BoolFlag{
				Name:  "use-versioning",
				Usage: "skip the run when --version is already applied",
			},
			&cli.StringFlag{
				Name:  "version",
				Usage: "version recorded after a successful versioned run",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "run even when --version is already applied",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "list pending migrations without applying them",
			},
			&cli.StringFlag{
				Name:  "driver",
				Usage: "database driver (postgres, pgx, mysql, sqlite or clickhouse)",
			},
			&cli.StringFlag{
				Name:    "dsn",
				Usage:   "database connection string",
				Sources: cli.EnvVars("SQLMIGRATE_DSN"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runUp(ctx, cmd, p)
		},
	}
}

func runUp(ctx context.Context, cmd *cli.Command, p upParams) error {
	out := cmd.Root().Writer
	tgt := target(cmd, p.Config)

	opts := migrate.Options{
		Target:        tgt,
		UseVersioning: p.Config.Migrations.UseVersioning,
		Version:       p.Config.Migrations.Version,
		Force:         cmd.Bool("force"),
		OnApplied: func(name string) {
			fmt.Fprintf(out, "> %s\n", name)
		},
	}

	if cmd.IsSet("use-versioning") {
		opts.UseVersioning = cmd.Bool("use-versioning")
	}

	if cmd.IsSet("version") {
		opts.Version = cmd.String("version")
	}

	conn, dialect, err := openDatabase(ctx, cmd, p.Config)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	runner := migrate.New(migrate.Config{
		DB:      conn,
		Dialect: dialect,
		Params:  parameterSource(p.Config, conn),
		Now:     p.Config.Migrations.Now,
		Logger:  slog.Default(),
	})

	if cmd.Bool("dry-run") {
		return printPending(ctx, cmd, runner, opts)
	}

	if tgt.Schema != "" {
		fmt.Fprintf(out, "Applying migrations to schema %q\n", tgt.Schema)
	} else {
		fmt.Fprintln(out, "Applying migrations")
	}

	applied, err := runner.Up(ctx, opts)
	if err != nil {
		return err
	}

	if applied == 0 {
		fmt.Fprintln(out, "No migrations to run. DB is up to date.")
		return nil
	}

	fmt.Fprintf(out, "%d migrations applied. DB is up to date.\n", applied)
	return nil
}

func printPending(ctx context.Context, cmd *cli.Command, runner *migrate.Runner, opts migrate.Options) error {
	out := cmd.Root().Writer

	pending, ok, err := runner.Pending(ctx, opts)
	if err != nil {
		return err
	}

	if !ok || pending.Len() == 0 {
		fmt.Fprintln(out, "No migrations to run. DB is up to date.")
		return nil
	}

	fmt.Fprintf(out, "%d migrations pending:\n", pending.Len())
	for _, file := range pending.Files() {
		fmt.Fprintf(out, "> %s\n", file)
	}

	return nil
}
