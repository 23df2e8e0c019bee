package utils

import "strings"

const (
	// Backtick quotes identifiers for MySQL and ClickHouse.
	Backtick = '`'

	// DoubleQuote quotes identifiers for PostgreSQL and SQLite.
	DoubleQuote = '"'
)

// QuoteIdentifier wraps each dot separated part of name in the quote character.
// Parts that are already quoted are left alone.
//
// Examples:
//   - ("migrations", '"') -> "\"migrations\""
//   - ("public.migrations", '"') -> "\"public\".\"migrations\""
//   - ("db.table", '`') -> "`db`.`table`"
//   - ("`table`", '`') -> "`table`"
//   - ("", '"') -> ""
func QuoteIdentifier(name string, quote rune) string {
	if name == "" {
		return ""
	}

	q := string(quote)
	if IsQuoted(name, quote) {
		return name
	}

	parts := strings.Split(name, ".")
	for i, part := range parts {
		if IsQuoted(part, quote) {
			continue
		}

		parts[i] = q + strings.ReplaceAll(part, q, q+q) + q
	}

	return strings.Join(parts, ".")
}

// QualifiedName joins schema and name, quoting both. An empty schema yields just the quoted name.
//
// Examples:
//   - ("public", "migrations", '"') -> "\"public\".\"migrations\""
//   - ("", "migrations", '"') -> "\"migrations\""
func QualifiedName(schema, name string, quote rune) string {
	if schema != "" {
		return QuoteIdentifier(schema, quote) + "." + QuoteIdentifier(name, quote)
	}

	return QuoteIdentifier(name, quote)
}

// IsQuoted reports whether s is a single identifier wrapped in the quote character.
func IsQuoted(s string, quote rune) bool {
	q := string(quote)
	return len(s) >= 2 &&
		strings.HasPrefix(s, q) &&
		strings.HasSuffix(s, q) &&
		!strings.Contains(strings.ReplaceAll(s[1:len(s)-1], q+q, ""), q)
}

// QuoteString renders value as a single quoted SQL string literal, doubling embedded quotes.
//
// Example:
//
//	utils.QuoteString("users")    // 'users'
//	utils.QuoteString("o'brien")  // 'o''brien'
func QuoteString(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
