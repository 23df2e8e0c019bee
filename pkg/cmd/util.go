package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlmigrate/pkg/clickhouse"
	"github.com/pseudomuto/sqlmigrate/pkg/config"
	"github.com/pseudomuto/sqlmigrate/pkg/database"
	"github.com/pseudomuto/sqlmigrate/pkg/migrator"
	"github.com/pseudomuto/sqlmigrate/pkg/params"
	"github.com/urfave/cli/v3"
)

var (
	schemaFlag = &cli.StringFlag{
		Name:  "schema",
		Usage: "schema holding the history table; migrations are read from <folder>/<schema>. Empty disables both",
		Config: cli.StringConfig{
			TrimSpace: true,
		},
	}

	tableFlag = &cli.StringFlag{
		Name:  "table",
		Usage: "name of the history table",
		Config: cli.StringConfig{
			TrimSpace: true,
		},
	}

	folderFlag = &cli.StringFlag{
		Name:  "folder",
		Usage: "root folder of the migrations",
		Config: cli.StringConfig{
			TrimSpace: true,
		},
	}
)

// target builds the migration target from config, overridden by any flag the user set.
func target(cmd *cli.Command, cfg *config.Config) migrator.Target {
	t := migrator.Target{
		Schema: cfg.Migrations.SchemaName(),
		Folder: cfg.Migrations.Folder,
		Table:  cfg.Migrations.Table,
	}

	if cmd.IsSet("schema") {
		t.Schema = cmd.String("schema")
	}

	if cmd.IsSet("folder") {
		t.Folder = cmd.String("folder")
	}

	if cmd.IsSet("table") {
		t.Table = cmd.String("table")
	}

	return t
}

// openDatabase connects using the database settings in cfg, overridden by the driver and dsn
// flags.
func openDatabase(ctx context.Context, cmd *cli.Command, cfg *config.Config) (database.Conn, *database.Dialect, error) {
	driver := cfg.Database.Driver
	if cmd.IsSet("driver") {
		driver = cmd.String("driver")
	}

	dsn := cfg.Database.DSN
	if cmd.IsSet("dsn") {
		dsn = cmd.String("dsn")
	}

	if driver == "" || dsn == "" {
		return nil, nil, errors.New("a database driver and dsn are required (set them in sqlmigrate.yaml or with --driver and --dsn)")
	}

	dialect, err := database.DialectFor(driver)
	if err != nil {
		return nil, nil, err
	}

	conn, err := database.Open(ctx, database.Options{
		Driver: driver,
		DSN:    dsn,
		Debug:  cfg.Database.Debug,
		Logger: slog.Default(),
		ClickHouseTLS: clickhouse.TLSSettings{
			CAFile:   cfg.Database.TLS.CAFile,
			CertFile: cfg.Database.TLS.CertFile,
			KeyFile:  cfg.Database.TLS.KeyFile,
		},
	})
	if err != nil {
		return nil, nil, err
	}

	return conn, dialect, nil
}

// parameterSource combines the configured parameter sources. The query source is only added when
// a database is given.
func parameterSource(cfg *config.Config, db database.DB) params.Source {
	sources := []params.Source{
		params.Static(cfg.Parameters.Values),
		params.Env(cfg.Parameters.EnvPrefix, os.Environ()),
	}

	if db != nil && cfg.Parameters.Query != "" {
		sources = append(sources, params.Query(db, cfg.Parameters.Query))
	}

	return params.Chain(sources...)
}
