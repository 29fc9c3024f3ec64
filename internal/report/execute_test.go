package report

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anentropic/condagg/internal/condsql"
	"github.com/anentropic/condagg/internal/store"
)

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	err = st.ExecScript(context.Background(), `
		CREATE TABLE stat (
			campaign_id INTEGER NOT NULL,
			stat_type   TEXT NOT NULL,
			event_type  TEXT NOT NULL DEFAULT '',
			count       INTEGER NOT NULL
		);
		INSERT INTO stat (campaign_id, stat_type, count) VALUES
			(1, 'impression', 10),
			(1, 'impression', 5),
			(1, 'click', 1),
			(2, 'click', 3),
			(2, 'view', 7);
	`)
	require.NoError(t, err)
	return st
}

func TestExecute(t *testing.T) {
	st := seededStore(t)
	r := overviewReport(t)
	s := statSchema(t)
	ctx := context.Background()

	result, err := r.Execute(ctx, st, s, condsql.SQLite)
	require.NoError(t, err)

	assert.Equal(t, []string{"campaign_id", "impressions", "clicks"}, result.Columns)
	require.Len(t, result.Rows, 2)

	// Campaign 1: two impressions summing 15, one click.
	assert.Equal(t, []any{int64(1), int64(15), int64(1)}, result.Rows[0])
	// Campaign 2: no impressions, one click. The view row matches neither.
	assert.Equal(t, []any{int64(2), int64(0), int64(1)}, result.Rows[1])
}

func TestExecuteRecordsRun(t *testing.T) {
	st := seededStore(t)
	ctx := context.Background()

	result, err := overviewReport(t).Execute(ctx, st, statSchema(t), condsql.SQLite)
	require.NoError(t, err)

	assert.NotEmpty(t, result.Run.ID)
	assert.Equal(t, "campaign_overview", result.Run.Report)
	assert.Equal(t, int64(2), result.Run.RowCount)

	runs, err := st.ListRuns(ctx, "campaign_overview", 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, result.Run.ID, runs[0].ID)
	assert.Equal(t, result.SQL, runs[0].SQL)
}

func TestExecuteCompileErrorRecordsNothing(t *testing.T) {
	st := seededStore(t)
	ctx := context.Background()

	r := overviewReport(t)
	r.Table = "nope"
	_, err := r.Execute(ctx, st, statSchema(t), condsql.SQLite)
	require.Error(t, err)

	runs, err := st.ListRuns(ctx, "", 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
