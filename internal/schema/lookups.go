package schema

import (
	"fmt"
	"strings"

	"github.com/anentropic/condagg/internal/ir"
)

// Lookup renders one comparison operator, given the already-quoted column
// and the filter value. The varying data per operator lives here; the
// comparison predicate is one generic shell around this table.
type Lookup func(column string, value ir.Value) (sql string, params []any, err error)

// lookups maps trailing lookup tokens to their renderers. The default
// lookup for a bare field path is "exact".
var lookups = map[string]Lookup{
	"exact":      binaryLookup("="),
	"ne":         binaryLookup("<>"),
	"gt":         binaryLookup(">"),
	"gte":        binaryLookup(">="),
	"lt":         binaryLookup("<"),
	"lte":        binaryLookup("<="),
	"in":         lookupIn,
	"isnull":     lookupIsNull,
	"contains":   patternLookup("%", "%"),
	"startswith": patternLookup("", "%"),
	"endswith":   patternLookup("%", ""),
}

// IsLookup reports whether the token names a supported lookup.
func IsLookup(name string) bool {
	_, ok := lookups[name]
	return ok
}

func binaryLookup(op string) Lookup {
	return func(column string, value ir.Value) (string, []any, error) {
		param, err := ir.ToParam(value)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("%s %s ?", column, op), []any{param}, nil
	}
}

// lookupIn renders "col IN (?, ?, ...)". An empty list matches nothing and
// renders the always-false constant instead of invalid SQL.
func lookupIn(column string, value ir.Value) (string, []any, error) {
	arr, ok := value.(ir.Array)
	if !ok {
		return "", nil, fmt.Errorf("in lookup requires an array value, got %T", value)
	}
	if len(arr) == 0 {
		return "1 = 0", nil, nil
	}

	placeholders := make([]string, len(arr))
	params := make([]any, len(arr))
	for i, elem := range arr {
		param, err := ir.ToParam(elem)
		if err != nil {
			return "", nil, fmt.Errorf("in lookup element %d: %w", i, err)
		}
		placeholders[i] = "?"
		params[i] = param
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")), params, nil
}

func lookupIsNull(column string, value ir.Value) (string, []any, error) {
	b, ok := value.(ir.Bool)
	if !ok {
		return "", nil, fmt.Errorf("isnull lookup requires a bool value, got %T", value)
	}
	if bool(b) {
		return column + " IS NULL", nil, nil
	}
	return column + " IS NOT NULL", nil, nil
}

// patternLookup renders "col LIKE ? ESCAPE '\'" with the value embedded
// between prefix and suffix wildcards. LIKE metacharacters in the value are
// escaped so user data matches literally.
func patternLookup(prefix, suffix string) Lookup {
	return func(column string, value ir.Value) (string, []any, error) {
		s, ok := value.(ir.String)
		if !ok {
			return "", nil, fmt.Errorf("pattern lookup requires a string value, got %T", value)
		}
		pattern := prefix + escapeLike(string(s)) + suffix
		return column + ` LIKE ? ESCAPE '\'`, []any{pattern}, nil
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
