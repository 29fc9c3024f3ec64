package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/anentropic/condagg/internal/condsql"
	"github.com/anentropic/condagg/internal/report"
	"github.com/anentropic/condagg/internal/schema"
	"github.com/anentropic/condagg/internal/store"
)

// Result captures one scenario execution for snapshotting.
type Result struct {
	Report  string
	SQL     string
	Params  []any
	Columns []string
	Rows    [][]any
}

// Run executes a scenario against a fresh throwaway database: load the
// schema and report, apply fixtures in order, execute the report.
func Run(ctx context.Context, s *Scenario) (*Result, error) {
	dialectName := s.Dialect
	if dialectName == "" {
		dialectName = condsql.SQLite.Name
	}
	dialect, ok := condsql.DialectByName(dialectName)
	if !ok {
		return nil, fmt.Errorf("scenario %q: unknown dialect %q", s.Name, dialectName)
	}
	if dialect.Name != condsql.SQLite.Name {
		return nil, fmt.Errorf("scenario %q: dialect %q is compile-only, scenarios execute against sqlite", s.Name, dialectName)
	}

	sch, err := schema.LoadDir(s.SchemaDir)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}

	rep, err := report.Load(s.Report)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}

	dbDir, err := os.MkdirTemp("", "condagg-scenario-*")
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	defer os.RemoveAll(dbDir)

	st, err := store.Open(filepath.Join(dbDir, "scenario.db"))
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	defer st.Close()

	for _, fixture := range s.Fixtures {
		script, err := os.ReadFile(fixture)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: reading fixture: %w", s.Name, err)
		}
		if err := st.ExecScript(ctx, string(script)); err != nil {
			return nil, fmt.Errorf("scenario %q: fixture %s: %w", s.Name, fixture, err)
		}
	}

	res, err := rep.Execute(ctx, st, sch, dialect)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}

	return &Result{
		Report:  rep.Name,
		SQL:     res.SQL,
		Params:  res.Params,
		Columns: res.Columns,
		Rows:    res.Rows,
	}, nil
}
