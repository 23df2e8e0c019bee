package utils

import (
	"strings"
)

// SQLBuilder provides a fluent interface for building the bootstrap and history statements
// issued against the target database. Identifiers are quoted with the builder's quote character
// so the same code can render PostgreSQL, MySQL, SQLite and ClickHouse statements.
//
// Example usage:
//
//	sql := NewSQLBuilder(DoubleQuote).
//		Create("TABLE").
//		IfNotExists().
//		QualifiedName("public", "migrations").
//		Columns("name text not null", "created_at timestamp not null").
//		String()
//	// Output: CREATE TABLE IF NOT EXISTS "public"."migrations" (name text not null, created_at timestamp not null);
type SQLBuilder struct {
	parts []string
	quote rune
}

// NewSQLBuilder creates a new SQLBuilder quoting identifiers with quote.
//
// Example:
//
//	builder := utils.NewSQLBuilder(utils.Backtick)
func NewSQLBuilder(quote rune) *SQLBuilder {
	return &SQLBuilder{
		parts: make([]string, 0, 10),
		quote: quote,
	}
}

// Create adds a CREATE clause with the specified object type.
//
// Example:
//
//	builder.Create("SCHEMA")  // CREATE SCHEMA
//	builder.Create("TABLE")   // CREATE TABLE
func (b *SQLBuilder) Create(objectType string) *SQLBuilder {
	b.parts = append(b.parts, "CREATE", objectType)
	return b
}

// IfNotExists adds an IF NOT EXISTS clause. This should be called after CREATE operations.
//
// Example:
//
//	builder.Create("SCHEMA").IfNotExists()  // CREATE SCHEMA IF NOT EXISTS
func (b *SQLBuilder) IfNotExists() *SQLBuilder {
	b.parts = append(b.parts, "IF", "NOT", "EXISTS")
	return b
}

// InsertInto adds an INSERT INTO clause for the qualified table.
//
// Example:
//
//	builder.InsertInto("public", "migrations")  // INSERT INTO "public"."migrations"
func (b *SQLBuilder) InsertInto(schema, table string) *SQLBuilder {
	b.parts = append(b.parts, "INSERT", "INTO")
	return b.QualifiedName(schema, table)
}

// Name adds a quoted object name.
//
// Example:
//
//	builder.Name("analytics")   // "analytics"
//	builder.Name("db.table")    // "db"."table"
func (b *SQLBuilder) Name(name string) *SQLBuilder {
	if name != "" {
		b.parts = append(b.parts, QuoteIdentifier(name, b.quote))
	}
	return b
}

// QualifiedName adds a quoted name with optional schema prefix.
//
// Example:
//
//	builder.QualifiedName("", "migrations")        // "migrations"
//	builder.QualifiedName("app", "migrations")     // "app"."migrations"
func (b *SQLBuilder) QualifiedName(schema, name string) *SQLBuilder {
	if qn := QualifiedName(schema, name, b.quote); qn != "" {
		b.parts = append(b.parts, qn)
	}
	return b
}

// Columns adds a parenthesized, comma separated list of column definitions or names.
//
// Example:
//
//	builder.Columns("name text", "created_at timestamp")  // (name text, created_at timestamp)
func (b *SQLBuilder) Columns(defs ...string) *SQLBuilder {
	if len(defs) > 0 {
		b.parts = append(b.parts, "("+strings.Join(defs, ", ")+")")
	}
	return b
}

// Values adds a VALUES clause with the given raw SQL expressions.
//
// Example:
//
//	builder.Values(QuoteString("001.sql"), "now()")  // VALUES ('001.sql', now())
func (b *SQLBuilder) Values(exprs ...string) *SQLBuilder {
	b.parts = append(b.parts, "VALUES", "("+strings.Join(exprs, ", ")+")")
	return b
}

// Engine adds an ENGINE clause with the specified engine name.
//
// Example:
//
//	builder.Engine("MergeTree")  // ENGINE = MergeTree
func (b *SQLBuilder) Engine(engine string) *SQLBuilder {
	if engine != "" {
		b.parts = append(b.parts, "ENGINE", "=", engine)
	}
	return b
}

// Raw adds raw SQL text to the builder. Use sparingly for complex constructs
// that don't fit the fluent pattern.
//
// Example:
//
//	builder.Raw("ORDER BY (created_at, name)")
func (b *SQLBuilder) Raw(sql string) *SQLBuilder {
	if sql != "" {
		b.parts = append(b.parts, sql)
	}
	return b
}

// String builds and returns the final SQL statement with a semicolon.
//
// Example:
//
//	sql := builder.Create("SCHEMA").Name("test").String()
//	// Returns: "CREATE SCHEMA \"test\";"
func (b *SQLBuilder) String() string {
	if len(b.parts) == 0 {
		return ""
	}
	return strings.Join(b.parts, " ") + ";"
}

// StringWithoutSemicolon builds and returns the final SQL statement without a semicolon.
// The ClickHouse native protocol rejects trailing semicolons, so statements sent there use this.
func (b *SQLBuilder) StringWithoutSemicolon() string {
	return strings.Join(b.parts, " ")
}
