package schema

import (
	"fmt"
	"strings"

	"github.com/anentropic/condagg/internal/condition"
	"github.com/anentropic/condagg/internal/ir"
)

// PathSeparator splits relation hops and the trailing lookup token in a
// field path.
const PathSeparator = "__"

// Resolver resolves field paths against a schema, rooted at one table.
// It implements condition.Resolver.
type Resolver struct {
	Schema *Schema
	Table  string
}

// NewResolver builds a resolver rooted at the named table.
func NewResolver(s *Schema, table string) Resolver {
	return Resolver{Schema: s, Table: table}
}

// Resolve walks the field path from the root table: zero or more relation
// hops, a terminal scalar field, and an optional trailing lookup token
// (default "exact"). It returns a predicate rendering one comparison
// against the resolved, table-qualified column.
//
// A null value under "exact" coerces to the isnull lookup, matching the
// usual ORM convention that field=null means IS NULL.
func (r Resolver) Resolve(path string, value ir.Value) (condition.Predicate, error) {
	if path == "" {
		return nil, &condition.FieldResolutionError{Path: path, Reason: "empty field path"}
	}
	parts := strings.Split(path, PathSeparator)

	table, ok := r.Schema.Tables[r.Table]
	if !ok {
		return nil, &condition.FieldResolutionError{
			Path:   path,
			Reason: fmt.Sprintf("unknown root table %q", r.Table),
		}
	}

	start := table
	var field *Field
	i := 0
	for i < len(parts) {
		f, ok := table.Fields[parts[i]]
		if !ok {
			break
		}
		field = f
		i++
		if f.References != "" && i < len(parts) {
			// Relation hop: continue walking in the target table.
			next, ok := r.Schema.Tables[f.References]
			if !ok {
				return nil, &condition.FieldResolutionError{
					Path:   path,
					Reason: fmt.Sprintf("relation %q references unknown table %q", f.Name, f.References),
				}
			}
			table = next
			continue
		}
		break
	}

	if field == nil {
		return nil, &condition.FieldResolutionError{
			Path:   path,
			Reason: fmt.Sprintf("unknown field %q on table %q", parts[0], start.Name),
		}
	}

	lookupName := "exact"
	switch remaining := parts[i:]; len(remaining) {
	case 0:
		// Bare field path, default lookup.
	case 1:
		lookupName = remaining[0]
		if !IsLookup(lookupName) {
			return nil, &condition.UnsupportedLookupError{Lookup: lookupName, Path: path}
		}
	default:
		return nil, &condition.FieldResolutionError{
			Path:   path,
			Reason: fmt.Sprintf("cannot traverse non-relational field %q", field.Name),
		}
	}

	if field.References != "" {
		return nil, &condition.FieldResolutionError{
			Path:   path,
			Reason: fmt.Sprintf("relation field %q needs a target field or lookup", field.Name),
		}
	}

	// Null under exact means IS NULL; null under any other lookup is a
	// programming error.
	if _, isNull := value.(ir.Null); isNull {
		if lookupName != "exact" {
			return nil, &condition.FieldResolutionError{
				Path:   path,
				Reason: "cannot use null with the " + lookupName + " lookup",
			}
		}
		lookupName = "isnull"
		value = ir.Bool(true)
	}

	column := field.ColumnName()
	if table != start {
		// Field reached through a relation hop: qualify with the target
		// table. The host splices the joins this reference depends on.
		column = table.TableSQLName() + "." + column
	}

	return comparison{column: column, lookup: lookupName, value: value}, nil
}

// comparison is the generic renderable predicate: one column, one lookup,
// one value. All operator-specific behavior lives in the lookup table.
type comparison struct {
	column string
	lookup string
	value  ir.Value
}

// Render implements condition.Predicate.
func (c comparison) Render(quote condition.Quoter) (string, []any, error) {
	return lookups[c.lookup](quote(c.column), c.value)
}
