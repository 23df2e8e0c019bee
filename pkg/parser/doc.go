// Package parser validates migration SQL for the check command and splits scripts into
// statements for engines that cannot run multi-statement scripts.
//
// Parsers are selected by dialect:
//
//   - postgres: the real PostgreSQL grammar through libpg_query (github.com/wasilibs/go-pgquery)
//   - mysql: the TiDB MySQL grammar (github.com/pingcap/tidb/pkg/parser)
//   - sqlite, clickhouse, generic: a participle statement grammar that checks statement keywords,
//     terminated strings, quoted identifiers and comments, and balanced brackets
//   - none: accepts everything, leaving only template validation
//
// Basic usage:
//
//	p, err := parser.New("sqlite")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := p.Parse("migrations/run-once/001_init.sql", sql); err != nil {
//		var syntaxErr *parser.SyntaxError
//		if errors.As(err, &syntaxErr) {
//			fmt.Println("broken migration:", syntaxErr.File)
//		}
//	}
//
// Splitting:
//
//	stmts, err := parser.Split("create table t (s text); insert into t values ('a;b');")
//	// []string{"create table t (s text)", "insert into t values ('a;b')"}
package parser
