package report

import (
	"fmt"
	"strings"

	"github.com/anentropic/condagg/internal/condsql"
	"github.com/anentropic/condagg/internal/schema"
)

// Compile renders the report as one SELECT statement for the dialect,
// returning the SQL and the ordered bind parameters.
//
// Group columns come first in the select list, then one aggregate per
// report column, aliased with the column name. Results are grouped and
// ordered by the group columns so repeated runs return rows in the same
// order.
func (r *Report) Compile(s *schema.Schema, dialect condsql.Dialect) (string, []any, error) {
	table, ok := s.Tables[r.Table]
	if !ok {
		return "", nil, fmt.Errorf("report %q: unknown table %q", r.Name, r.Table)
	}
	resolver := schema.NewResolver(s, r.Table)

	groupCols := make([]string, 0, len(r.GroupBy))
	for _, name := range r.GroupBy {
		field, ok := table.Fields[name]
		if !ok {
			return "", nil, fmt.Errorf("report %q: unknown group_by field %q on table %q", r.Name, name, r.Table)
		}
		groupCols = append(groupCols, dialect.Quote(field.ColumnName()))
	}

	selectCols := make([]string, 0, len(groupCols)+len(r.Columns))
	selectCols = append(selectCols, groupCols...)

	var params []any
	for _, col := range r.Columns {
		kind, ok := condsql.KindByName(col.Kind)
		if !ok {
			return "", nil, fmt.Errorf("report %q: column %q: unknown aggregate kind %q", r.Name, col.Name, col.Kind)
		}

		var sourceCol string
		if col.Column != "" {
			field, ok := table.Fields[col.Column]
			if !ok {
				return "", nil, fmt.Errorf("report %q: column %q: unknown source field %q on table %q",
					r.Name, col.Name, col.Column, r.Table)
			}
			if field.References != "" {
				return "", nil, fmt.Errorf("report %q: column %q: cannot aggregate over relation field %q",
					r.Name, col.Name, col.Column)
			}
			sourceCol = field.ColumnName()
		}

		agg := condsql.Aggregate{Kind: kind, Column: sourceCol, When: col.When}
		aggSQL, aggParams, err := agg.Compile(resolver, dialect.Quote)
		if err != nil {
			return "", nil, fmt.Errorf("report %q: column %q: %w", r.Name, col.Name, err)
		}

		selectCols = append(selectCols, aggSQL+" AS "+dialect.Quote(col.Name))
		params = append(params, aggParams...)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(selectCols, ", "))
	b.WriteString(" FROM ")
	b.WriteString(dialect.Quote(table.TableSQLName()))
	if len(groupCols) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(groupCols, ", "))
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(groupCols, ", "))
	}

	return dialect.Rebind(b.String()), params, nil
}
