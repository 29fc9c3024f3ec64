package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/anentropic/condagg/internal/ir"
)

// Snapshot is the canonical-JSON view of a scenario execution. It carries
// everything a golden file pins down: the compiled SQL, the ordered bind
// parameters, and the result rows.
type Snapshot struct {
	ScenarioName string
	Result       *Result
}

// toCanonicalMap flattens the snapshot into plain Go values so
// ir.MarshalCanonical can serialize it.
func (s *Snapshot) toCanonicalMap() map[string]any {
	columns := make([]any, len(s.Result.Columns))
	for i, c := range s.Result.Columns {
		columns[i] = c
	}

	rows := make([]any, len(s.Result.Rows))
	for i, row := range s.Result.Rows {
		cells := make([]any, len(row))
		copy(cells, row)
		rows[i] = cells
	}

	return map[string]any{
		"scenario": s.ScenarioName,
		"report":   s.Result.Report,
		"sql":      s.Result.SQL,
		"params":   s.Result.Params,
		"columns":  columns,
		"rows":     rows,
	}
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/<name>.golden. Regenerate golden files with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, s *Scenario) error {
	t.Helper()

	result, err := Run(context.Background(), s)
	if err != nil {
		return err
	}
	return AssertGolden(t, s.Name, result)
}

// AssertGolden compares an already-obtained result against the golden file
// for the given scenario name.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := Snapshot{ScenarioName: scenarioName, Result: result}
	data, err := ir.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
