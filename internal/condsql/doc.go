// Package condsql compiles normalized condition trees to parameterized SQL
// and wraps them into conditional aggregate fragments:
//
//	SUM(CASE WHEN ("stat_type" = ? AND "event_type" = ?) THEN "count" ELSE 0 END)
//
// The emitted fragment grammar is fixed: filter values only ever appear as
// placeholders, identifiers only ever pass through the dialect's quoting
// function, and the THEN/ELSE operands are library-controlled literals or
// quoted column names. The params slice is ordered exactly as placeholders
// occur left-to-right in the text.
//
// The compiler always emits ? placeholders; Dialect.Rebind rewrites them to
// the host convention (e.g. $1..$n for Postgres) as a final pass over the
// assembled statement, which leaves the parameter order untouched.
package condsql
