package database

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlmigrate/pkg/clickhouse"
	sqldblogger "github.com/simukti/sqldb-logger"

	// database/sql drivers
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres   = "postgres"
	DriverPgx        = "pgx"
	DriverMySQL      = "mysql"
	DriverSQLite     = "sqlite"
	DriverClickHouse = "clickhouse"
)

type (
	// DB is the SQL executing collaborator. Exec runs DDL or DML without result rows, Select runs a
	// query and scans the rows into dest (a pointer to a slice).
	DB interface {
		Exec(ctx context.Context, query string) error
		Select(ctx context.Context, dest any, query string) error
	}

	// Conn is a DB that owns its underlying connection.
	Conn interface {
		DB
		Close() error
	}

	// Options describes how to open a connection.
	Options struct {
		// Driver is one of postgres, pgx, mysql, sqlite or clickhouse
		Driver string

		// DSN is passed to the driver. MySQL DSNs always get multiStatements enabled.
		DSN string

		// Debug logs every statement through Logger
		Debug bool

		// Logger receives statement logs when Debug is set. Defaults to slog.Default().
		Logger *slog.Logger

		// ClickHouseTLS configures TLS for the clickhouse driver. Ignored by other drivers.
		ClickHouseTLS clickhouse.TLSSettings
	}

	// SQLDB implements Conn on top of database/sql through sqlx.
	SQLDB struct {
		db *sqlx.DB
	}
)

// Open connects to the database described by opts and verifies the connection.
//
// Example usage:
//
//	conn, err := database.Open(ctx, database.Options{
//		Driver: database.DriverPostgres,
//		DSN:    "postgres://localhost:5432/app?sslmode=disable",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer conn.Close()
func Open(ctx context.Context, opts Options) (Conn, error) {
	if opts.Driver == DriverClickHouse {
		client, err := clickhouse.NewClientWithOptions(ctx, opts.DSN, clickhouse.ClientOptions{
			TLSSettings: opts.ClickHouseTLS,
		})
		if err != nil {
			return nil, err
		}

		return client, nil
	}

	dsn, err := normalizeDSN(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(opts.Driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s connection", opts.Driver)
	}

	if opts.Debug {
		logger := opts.Logger
		if logger == nil {
			logger = slog.Default()
		}

		raw := db
		db = sqldblogger.OpenDriver(dsn, raw.Driver(), &queryLogger{logger: logger})
		_ = raw.Close()
	}

	// Statements run one at a time and SQLite locks the whole file.
	if opts.Driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	conn := sqlx.NewDb(db, opts.Driver)
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, errors.Wrapf(err, "failed to connect to %s", opts.Driver)
	}

	return NewSQLDB(conn), nil
}

// NewSQLDB wraps an existing sqlx connection.
func NewSQLDB(db *sqlx.DB) *SQLDB {
	return &SQLDB{db: db}
}

func (s *SQLDB) Exec(ctx context.Context, query string) error {
	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *SQLDB) Select(ctx context.Context, dest any, query string) error {
	return s.db.SelectContext(ctx, dest, query)
}

func (s *SQLDB) Close() error {
	return s.db.Close()
}

func normalizeDSN(driver, dsn string) (string, error) {
	switch driver {
	case DriverPostgres, DriverPgx, DriverSQLite:
		return dsn, nil
	case DriverMySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", errors.Wrap(err, "invalid mysql dsn")
		}

		// Migration files routinely hold more than one statement.
		cfg.MultiStatements = true
		return cfg.FormatDSN(), nil
	default:
		return "", errors.Errorf("unsupported driver: %s", driver)
	}
}
