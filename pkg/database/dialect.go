package database

import (
	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlmigrate/pkg/utils"
)

var (
	// Postgres renders history statements for PostgreSQL (lib/pq and pgx drivers).
	Postgres = &Dialect{
		Name:         "postgres",
		quote:        utils.DoubleQuote,
		schemaObject: "SCHEMA",
		columns:      []string{"name text not null", "created_at timestamp not null"},
		now:          "now()",
		terminate:    true,
	}

	// MySQL renders history statements for MySQL and MariaDB. Schemas are databases.
	MySQL = &Dialect{
		Name:         "mysql",
		quote:        utils.Backtick,
		schemaObject: "SCHEMA",
		columns:      []string{"name text not null", "created_at datetime(6) not null"},
		now:          "current_timestamp(6)",
		terminate:    true,
	}

	// SQLite renders history statements for SQLite, which has no schemas.
	SQLite = &Dialect{
		Name:      "sqlite",
		quote:     utils.DoubleQuote,
		columns:   []string{"name text not null", "created_at timestamp not null"},
		now:       "strftime('%Y-%m-%d %H:%M:%f', 'now')",
		terminate: true,
	}

	// ClickHouse renders history statements for ClickHouse. Schemas are databases and the
	// history table is a MergeTree ordered the way history is read back.
	ClickHouse = &Dialect{
		Name:         "clickhouse",
		quote:        utils.Backtick,
		schemaObject: "DATABASE",
		columns:      []string{"name String", "created_at DateTime64(3)"},
		engine:       "MergeTree",
		tableSuffix:  "ORDER BY (created_at, name)",
		now:          "now64(3)",
	}
)

// Dialect describes how the history table is created, written and read for a database engine.
// Migration SQL itself is never translated.
type Dialect struct {
	// Name identifies the dialect and doubles as the default check parser dialect.
	Name string

	quote        rune
	schemaObject string
	columns      []string
	engine       string
	tableSuffix  string
	now          string
	terminate    bool
}

// DialectFor returns the Dialect for a configured driver name.
//
// Example:
//
//	dialect, err := database.DialectFor("pgx")
//	// dialect == database.Postgres
func DialectFor(driver string) (*Dialect, error) {
	switch driver {
	case DriverPostgres, DriverPgx:
		return Postgres, nil
	case DriverMySQL:
		return MySQL, nil
	case DriverSQLite:
		return SQLite, nil
	case DriverClickHouse:
		return ClickHouse, nil
	default:
		return nil, errors.Errorf("unsupported driver: %s", driver)
	}
}

// SupportsSchemas reports whether history can be qualified by a schema.
func (d *Dialect) SupportsSchemas() bool {
	return d.schemaObject != ""
}

// CreateSchema returns the statement ensuring schema exists, or "" when there is nothing to do.
func (d *Dialect) CreateSchema(schema string) string {
	if schema == "" || !d.SupportsSchemas() {
		return ""
	}

	return d.finish(utils.NewSQLBuilder(d.quote).Create(d.schemaObject).IfNotExists().Name(schema))
}

// CreateHistoryTable returns the statement ensuring the history table exists.
//
// Example:
//
//	database.Postgres.CreateHistoryTable("public", "migrations")
//	// CREATE TABLE IF NOT EXISTS "public"."migrations" (name text not null, created_at timestamp not null);
func (d *Dialect) CreateHistoryTable(schema, table string) string {
	b := utils.NewSQLBuilder(d.quote).
		Create("TABLE").
		IfNotExists().
		QualifiedName(d.schema(schema), table).
		Columns(d.columns...).
		Engine(d.engine).
		Raw(d.tableSuffix)

	return d.finish(b)
}

// InsertHistory returns the statement recording name. An empty now uses CurrentTimestamp.
func (d *Dialect) InsertHistory(schema, table, name, now string) string {
	if now == "" {
		now = d.now
	}

	b := utils.NewSQLBuilder(d.quote).
		InsertInto(d.schema(schema), table).
		Columns("name", "created_at").
		Values(utils.QuoteString(name), now)

	return d.finish(b)
}

// SelectHistory returns the query listing distinct history names in the order they were last
// recorded, ties broken by name.
func (d *Dialect) SelectHistory(schema, table string) string {
	b := utils.NewSQLBuilder(d.quote).
		Raw("SELECT name FROM").
		QualifiedName(d.schema(schema), table).
		Raw("GROUP BY name ORDER BY MAX(created_at), name")

	return d.finish(b)
}

// CurrentTimestamp is the SQL expression used for created_at when no override is configured.
func (d *Dialect) CurrentTimestamp() string {
	return d.now
}

func (d *Dialect) schema(schema string) string {
	if !d.SupportsSchemas() {
		return ""
	}

	return schema
}

func (d *Dialect) finish(b *utils.SQLBuilder) string {
	if d.terminate {
		return b.String()
	}

	return b.StringWithoutSemicolon()
}
