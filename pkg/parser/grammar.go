package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

const (
	// standardString treats a backslash as an ordinary character, as standard SQL and SQLite do.
	standardString = `[eEnNxXbB]?'(''|[^'])*'`

	// escapedString also accepts backslash escapes, as ClickHouse and MySQL do.
	escapedString = `[eEnNxXbB]?'(''|\\.|[^'\\])*'`
)

var (
	standardScripts = newScriptParser(standardString)
	escapedScripts  = newScriptParser(escapedString)

	// statementKeywords are the words a statement may open with across PostgreSQL, MySQL, SQLite
	// and ClickHouse.
	statementKeywords = map[string]struct{}{}
)

func init() {
	for _, kw := range strings.Fields(`
		ABORT ALTER ANALYZE ATTACH BEGIN CALL CHECK CHECKPOINT CLOSE CLUSTER COMMENT COMMIT COPY
		CREATE DEALLOCATE DECLARE DELETE DESC DESCRIBE DETACH DISCARD DO DROP END EXCHANGE EXECUTE
		EXISTS EXPLAIN FETCH FLUSH GRANT HANDLER IMPORT INSERT INSTALL KILL LISTEN LOAD LOCK MERGE
		MOVE NOTIFY OPTIMIZE PRAGMA PREPARE REASSIGN REFRESH REINDEX RELEASE RENAME REPLACE RESET
		REVOKE ROLLBACK SAVEPOINT SECURITY SELECT SET SHOW START SYSTEM TABLE TRUNCATE UNDROP
		UNLISTEN UNLOCK UPDATE UPSERT USE VACUUM VALUES WATCH WITH`) {
		statementKeywords[kw] = struct{}{}
	}
}

type (
	// Script is a sequence of statements separated by semicolons.
	Script struct {
		Statements []*Statement `parser:"( @@ | ';' )*"`
	}

	// Statement is a single SQL statement. Only its shape is checked: it opens with a keyword or a
	// parenthesized group and every bracket inside it is balanced.
	Statement struct {
		Pos    lexer.Position
		EndPos lexer.Position

		Keyword string      `parser:"(  @Ident"`
		Group   []*Fragment `parser:" | '(' @@* ')' )"`
		Body    []*Fragment `parser:"@@*"`
	}

	// Fragment is a token or a bracketed group of fragments.
	Fragment struct {
		Parens   []*Fragment `parser:"  '(' @@* ')'"`
		Brackets []*Fragment `parser:"| '[' @@* ']'"`
		Token    string      `parser:"| @(Ident | String | DollarString | QuotedIdent | BacktickIdent | Number | Operator | Param | Punct)"`
	}
)

// Text returns the statement's source text from src, without the terminating semicolon.
func (s *Statement) Text(src string) string {
	end := min(s.EndPos.Offset, len(src))
	return strings.TrimSpace(src[s.Pos.Offset:end])
}

// newScriptParser builds a statement parser whose string literals match stringPattern. The lexer
// only needs to be precise about things that can hide statement terminators or brackets:
// comments, strings and quoted names.
func newScriptParser(stringPattern string) *participle.Parser[Script] {
	sqlLexer := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `--[^\r\n]*`},
		{Name: "MultilineComment", Pattern: `/\*[^*]*\*+([^/*][^*]*\*+)*/`},
		{Name: "String", Pattern: stringPattern},
		{Name: "DollarString", Pattern: `\$([a-zA-Z_][a-zA-Z0-9_]*)?\$(?s:.)*?\$([a-zA-Z_][a-zA-Z0-9_]*)?\$`},
		{Name: "QuotedIdent", Pattern: `"(""|[^"])*"`},
		{Name: "BacktickIdent", Pattern: "`(``|[^`])*`"},
		{Name: "Number", Pattern: `(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?`},
		{Name: "Operator", Pattern: `::|:=|<=>|<>|!=|<=|>=|=>|->>|->|#>>|#>|\|\||&&|<<|>>|@>|<@`},
		{Name: "Param", Pattern: `\$\d+|[:@][a-zA-Z_][a-zA-Z0-9_]*|\?`},
		{Name: "Ident", Pattern: `[a-zA-Z_\p{L}][a-zA-Z0-9_$\p{L}]*`},
		{Name: "Semicolon", Pattern: `;`},
		{Name: "Bracket", Pattern: `[()\[\]]`},
		{Name: "Punct", Pattern: `[,.=+\-*/%<>!~^&|:?@#$\\{}]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	return participle.MustBuild[Script](
		participle.Lexer(sqlLexer),
		participle.Elide("Comment", "MultilineComment", "Whitespace"),
		participle.UseLookahead(2),
	)
}

func parseScript(scripts *participle.Parser[Script], filename, sql string) (*Script, error) {
	return scripts.ParseString(filename, sql)
}
