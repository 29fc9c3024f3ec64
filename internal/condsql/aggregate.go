package condsql

import (
	"fmt"

	"github.com/anentropic/condagg/internal/condition"
)

// Kind describes an aggregate function variant as data: the SQL function
// name, the literal emitted when the condition fails, and optionally a
// fixed literal emitted when it holds. When Literal is empty the aggregate
// target column is quoted and used instead.
//
// New aggregate kinds are new Kind values, not new rendering code.
type Kind struct {
	Function string // SUM, COUNT, ...
	Default  string // ELSE operand, a fixed literal
	Literal  string // THEN operand; empty means "use the quoted column"
}

var (
	// KindSum sums the target column over rows matching the condition.
	KindSum = Kind{Function: "SUM", Default: "0"}

	// KindCount counts rows matching the condition. COUNT ignores NULL, so
	// the ELSE operand is NULL and the THEN operand a constant 1.
	KindCount = Kind{Function: "COUNT", Default: "NULL", Literal: "1"}
)

// kinds maps report-definition names to aggregate kinds.
var kinds = map[string]Kind{
	"sum":   KindSum,
	"count": KindCount,
}

// KindByName looks up an aggregate kind by its report-definition name.
func KindByName(name string) (Kind, bool) {
	k, ok := kinds[name]
	return k, ok
}

// Aggregate pairs a condition template with an aggregate kind and target
// column. The When tree is a template: Compile normalizes a derived copy
// and never mutates the original, so one template can back any number of
// aggregates.
type Aggregate struct {
	Kind   Kind
	Column string // target column; ignored when Kind.Literal is set
	When   *condition.Tree
}

// Sum builds a conditional SUM over column, counting only rows that match
// the condition.
func Sum(column string, when *condition.Tree) Aggregate {
	return Aggregate{Kind: KindSum, Column: column, When: when}
}

// Count builds a conditional COUNT of rows matching the condition.
func Count(when *condition.Tree) Aggregate {
	return Aggregate{Kind: KindCount, When: when}
}

// Compile normalizes the condition template against the resolver and emits
// the aggregate fragment:
//
//	<FUNCTION>(CASE WHEN <condition> THEN <value> ELSE <default> END)
//
// The returned params are the condition's bind values, in placeholder
// order. The THEN/ELSE operands are never parameter-bound: they are either
// quoted identifiers or fixed literals owned by the library, not user data.
func (a Aggregate) Compile(r condition.Resolver, quote condition.Quoter) (string, []any, error) {
	if a.When == nil {
		return "", nil, &condition.MalformedTreeError{Reason: "aggregate has no condition"}
	}

	normalized, err := condition.Normalize(a.When, r)
	if err != nil {
		return "", nil, err
	}

	whenSQL, params, err := Render(normalized, quote)
	if err != nil {
		return "", nil, err
	}

	value := a.Kind.Literal
	if value == "" {
		if a.Column == "" {
			return "", nil, fmt.Errorf("aggregate kind %s requires a target column", a.Kind.Function)
		}
		value = quote(a.Column)
	}

	sql := fmt.Sprintf("%s(CASE WHEN %s THEN %s ELSE %s END)",
		a.Kind.Function, whenSQL, value, a.Kind.Default)

	return sql, params, nil
}
