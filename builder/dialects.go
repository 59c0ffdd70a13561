package builder

import (
	"fmt"
	"strings"
)

// NewPostgres returns the PostgreSQL builder: $N placeholders, double-quoted
// identifiers, RETURNING supported.
func NewPostgres() Builder {
	return &core{dialect{
		name:              "postgres",
		placeholder:       func(n int) string { return fmt.Sprintf("$%d", n) },
		quote:             quoteDouble,
		xorOp:             " # ",
		supportsReturning: true,
	}}
}

// NewSQLite returns the SQLite builder: ? placeholders, double-quoted
// identifiers, RETURNING supported. SQLite has no bitwise XOR operator.
func NewSQLite() Builder {
	return &core{dialect{
		name:              "sqlite",
		placeholder:       func(int) string { return "?" },
		quote:             quoteDouble,
		supportsReturning: true,
	}}
}

// NewMySQL returns the MySQL builder: ? placeholders, backtick-quoted
// identifiers, no RETURNING.
func NewMySQL() Builder {
	return &core{dialect{
		name:        "mysql",
		placeholder: func(int) string { return "?" },
		quote:       quoteBacktick,
		xorOp:       " ^ ",
	}}
}

func quoteDouble(part string) string {
	return `"` + strings.ReplaceAll(part, `"`, `""`) + `"`
}

func quoteBacktick(part string) string {
	return "`" + strings.ReplaceAll(part, "`", "``") + "`"
}
