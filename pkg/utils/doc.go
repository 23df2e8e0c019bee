// Package utils provides small helpers shared by the database dialects.
//
// # Identifier Utilities (identifier.go)
//
// Identifiers are quoted per dialect. PostgreSQL and SQLite use double quotes, MySQL and
// ClickHouse use backticks:
//
//	utils.QuoteIdentifier("public.migrations", utils.DoubleQuote)
//	// Result: "public"."migrations"
//
//	utils.QualifiedName("", "migrations", utils.Backtick)
//	// Result: `migrations`
//
// String literals are rendered with QuoteString, which doubles embedded single quotes:
//
//	utils.QuoteString("o'brien")
//	// Result: 'o''brien'
//
// # SQL Builder (sqlbuilder.go)
//
// SQLBuilder renders the few statements sqlmigrate itself issues (schema creation, history
// table creation and history inserts):
//
//	sql := utils.NewSQLBuilder(utils.DoubleQuote).
//		InsertInto("public", "migrations").
//		Values(utils.QuoteString("migrations/run-once/001_init.sql"), "now()").
//		String()
package utils
