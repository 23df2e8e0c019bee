package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2"
	tidb "github.com/pingcap/tidb/pkg/parser"
	"github.com/pkg/errors"
	pgquery "github.com/wasilibs/go-pgquery"

	// tidb needs a value expression driver registered before parsing
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"
)

const (
	DialectNone       = "none"
	DialectGeneric    = "generic"
	DialectPostgres   = "postgres"
	DialectMySQL      = "mysql"
	DialectSQLite     = "sqlite"
	DialectClickHouse = "clickhouse"
)

type (
	// Parser validates the syntax of a single migration file.
	Parser interface {
		Parse(filename, sql string) error
	}

	// Func adapts a function to the Parser interface.
	Func func(filename, sql string) error

	// SyntaxError reports a file that failed to parse.
	SyntaxError struct {
		File string
		Err  error
	}
)

var dialects = map[string]Parser{
	DialectNone:       Func(func(string, string) error { return nil }),
	DialectGeneric:    statementParser(standardScripts),
	DialectSQLite:     statementParser(standardScripts),
	DialectClickHouse: statementParser(escapedScripts),
	DialectPostgres:   Func(parsePostgres),
	DialectMySQL:      Func(parseMySQL),
}

func (f Func) Parse(filename, sql string) error {
	return f(filename, sql)
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in %s: %s", e.File, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Cause supports github.com/pkg/errors.Cause.
func (e *SyntaxError) Cause() error {
	return e.Err
}

// Dialects lists the supported dialect names in sorted order.
func Dialects() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// New returns the Parser for dialect. postgres uses libpg_query, mysql uses the TiDB parser and
// the remaining dialects share a statement level grammar that checks statement keywords,
// terminated strings and comments, and balanced brackets. Only clickhouse strings take backslash
// escapes, generic and sqlite treat a backslash as an ordinary character. none accepts everything.
//
// Example usage:
//
//	p, err := parser.New(parser.DialectPostgres)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := p.Parse("migrations/run-once/001_init.sql", "create table users (id int);"); err != nil {
//		fmt.Println(err)
//	}
func New(dialect string) (Parser, error) {
	p, ok := dialects[strings.ToLower(dialect)]
	if !ok {
		return nil, errors.Errorf("unsupported dialect %q (expected one of %s)", dialect, strings.Join(Dialects(), ", "))
	}

	return p, nil
}

// Split breaks a script into its individual statements, dropping empty statements and the
// separating semicolons. Semicolons inside strings, quoted identifiers and comments do not split.
// Strings may contain backslash escapes, as in ClickHouse.
//
// Example:
//
//	stmts, err := parser.Split("create table a (id int); insert into a values (1);")
//	// stmts == []string{"create table a (id int)", "insert into a values (1)"}
func Split(sql string) ([]string, error) {
	script, err := parseScript(escapedScripts, "", sql)
	if err != nil {
		return nil, errors.Wrap(err, "failed to split SQL")
	}

	stmts := make([]string, 0, len(script.Statements))
	for _, stmt := range script.Statements {
		stmts = append(stmts, stmt.Text(sql))
	}

	return stmts, nil
}

// statementParser checks statement shape using scripts, which decides how string literals are
// lexed.
func statementParser(scripts *participle.Parser[Script]) Func {
	return func(filename, sql string) error {
		script, err := parseScript(scripts, filename, sql)
		if err != nil {
			return &SyntaxError{File: filename, Err: err}
		}

		for _, stmt := range script.Statements {
			if stmt.Keyword == "" {
				continue
			}

			if _, ok := statementKeywords[strings.ToUpper(stmt.Keyword)]; !ok {
				return &SyntaxError{
					File: filename,
					Err:  errors.Errorf("%s: unexpected statement keyword %q", stmt.Pos, stmt.Keyword),
				}
			}
		}

		return nil
	}
}

func parsePostgres(filename, sql string) error {
	if _, err := pgquery.ParseToJSON(sql); err != nil {
		return &SyntaxError{File: filename, Err: err}
	}

	return nil
}

func parseMySQL(filename, sql string) error {
	// tidb parsers are not safe for concurrent use
	if _, _, err := tidb.New().ParseSQL(sql); err != nil {
		return &SyntaxError{File: filename, Err: err}
	}

	return nil
}
