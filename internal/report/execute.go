package report

import (
	"context"
	"fmt"

	"github.com/anentropic/condagg/internal/condsql"
	"github.com/anentropic/condagg/internal/schema"
	"github.com/anentropic/condagg/internal/store"
)

// Result is the outcome of one report execution.
type Result struct {
	SQL    string
	Params []any

	// Columns are the output column names, group columns first.
	Columns []string

	// Rows holds the scanned result rows. SQLite byte slices are converted
	// to strings so values survive canonical JSON serialization.
	Rows [][]any

	// Run is the run-log record this execution appended.
	Run store.Run
}

// Execute compiles the report, runs it against the store's database and
// appends a record to the run log.
func (r *Report) Execute(ctx context.Context, st *store.Store, s *schema.Schema, dialect condsql.Dialect) (*Result, error) {
	sqlText, params, err := r.Compile(s, dialect)
	if err != nil {
		return nil, err
	}

	rows, err := st.Query(ctx, sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("report %q: %w", r.Name, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("report %q: %w", r.Name, err)
	}

	result := &Result{
		SQL:     sqlText,
		Params:  params,
		Columns: cols,
	}

	for rows.Next() {
		row := make([]any, len(cols))
		scan := make([]any, len(cols))
		for i := range row {
			scan[i] = &row[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("report %q: %w", r.Name, err)
		}
		for i, v := range row {
			if b, ok := v.([]byte); ok {
				row[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("report %q: %w", r.Name, err)
	}

	run, err := st.RecordRun(ctx, r.Name, sqlText, params, len(result.Rows))
	if err != nil {
		return nil, err
	}
	result.Run = run

	return result, nil
}
