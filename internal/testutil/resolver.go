// Package testutil provides deterministic helpers for compiler tests:
// fixed-output predicates and a schema-free resolver.
package testutil

import (
	"fmt"

	"github.com/anentropic/condagg/internal/condition"
	"github.com/anentropic/condagg/internal/ir"
)

// Identity is a pass-through quoter, useful when a test wants to assert
// bare column names rather than a dialect's quoting.
func Identity(ident string) string { return ident }

// StaticPredicate renders a fixed fragment regardless of the quoter.
type StaticPredicate struct {
	SQL    string
	Params []any
}

// Render implements condition.Predicate.
func (p StaticPredicate) Render(quote condition.Quoter) (string, []any, error) {
	return p.SQL, append([]any(nil), p.Params...), nil
}

// Pred builds a StaticPredicate leaf node.
func Pred(sql string, params ...any) condition.Resolved {
	return condition.Resolved{Pred: StaticPredicate{SQL: sql, Params: params}}
}

// ExactResolver resolves every field path to an equality comparison on the
// path itself, with no schema involved: "path = ?". Paths listed in Unknown
// fail with FieldResolutionError.
type ExactResolver struct {
	Unknown map[string]bool
}

// Resolve implements condition.Resolver.
func (r ExactResolver) Resolve(path string, value ir.Value) (condition.Predicate, error) {
	if r.Unknown[path] {
		return nil, &condition.FieldResolutionError{Path: path, Reason: "unknown field"}
	}
	param, err := ir.ToParam(value)
	if err != nil {
		return nil, err
	}
	return exactPredicate{column: path, param: param}, nil
}

type exactPredicate struct {
	column string
	param  any
}

func (p exactPredicate) Render(quote condition.Quoter) (string, []any, error) {
	return fmt.Sprintf("%s = ?", quote(p.column)), []any{p.param}, nil
}
