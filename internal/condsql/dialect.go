package condsql

import (
	"fmt"
	"strings"

	"github.com/anentropic/condagg/internal/condition"
)

// Dialect carries the host database conventions the compiler is agnostic
// to: identifier quoting and placeholder style.
type Dialect struct {
	Name string

	// Quote quotes a column or table identifier. Idempotent: quoting an
	// already-quoted identifier returns it unchanged.
	Quote condition.Quoter

	// Rebind rewrites ? placeholders to the host style. It runs once over
	// the fully assembled statement so positional numbering spans the whole
	// text. Quoted regions are skipped.
	Rebind func(sql string) string
}

// SQLite uses double-quoted identifiers and ? placeholders as-is.
var SQLite = Dialect{
	Name:   "sqlite",
	Quote:  quoteDouble,
	Rebind: func(sql string) string { return sql },
}

// Postgres uses double-quoted identifiers and numbered $N placeholders.
var Postgres = Dialect{
	Name:   "postgres",
	Quote:  quoteDouble,
	Rebind: rebindDollar,
}

// DialectByName looks up a built-in dialect.
func DialectByName(name string) (Dialect, bool) {
	switch name {
	case SQLite.Name:
		return SQLite, true
	case Postgres.Name:
		return Postgres, true
	default:
		return Dialect{}, false
	}
}

// quoteDouble wraps an identifier in double quotes, doubling any embedded
// quote characters. A dotted path quotes each segment separately, so
// relation-qualified columns come out as "table"."column".
func quoteDouble(ident string) string {
	if isQuoted(ident) {
		return ident
	}
	parts := strings.Split(ident, ".")
	for i, p := range parts {
		if !isQuoted(p) {
			parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
		}
	}
	return strings.Join(parts, ".")
}

func isQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

// rebindDollar rewrites each ? outside quoted regions to $1..$n in order.
func rebindDollar(sql string) string {
	var b strings.Builder
	b.Grow(len(sql) + 8)

	n := 0
	var inQuote byte
	for i := 0; i < len(sql); i++ {
		ch := sql[i]
		switch {
		case inQuote != 0:
			b.WriteByte(ch)
			if ch == inQuote {
				inQuote = 0
			}
		case ch == '\'' || ch == '"':
			inQuote = ch
			b.WriteByte(ch)
		case ch == '?':
			n++
			fmt.Fprintf(&b, "$%d", n)
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}
