package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anentropic/condagg/internal/condition"
	"github.com/anentropic/condagg/internal/condsql"
	"github.com/anentropic/condagg/internal/ir"
	"github.com/anentropic/condagg/internal/testutil"
)

func TestParse(t *testing.T) {
	r, err := Parse([]byte(`
name: campaign_overview
table: stat
group_by: [campaign_id]
columns:
  - name: impressions
    kind: sum
    column: count
    when: {stat_type: impression}
  - name: clicks
    kind: count
    when: {stat_type: click}
`))
	require.NoError(t, err)

	assert.Equal(t, "campaign_overview", r.Name)
	assert.Equal(t, "stat", r.Table)
	assert.Equal(t, []string{"campaign_id"}, r.GroupBy)
	require.Len(t, r.Columns, 2)

	assert.Equal(t, "impressions", r.Columns[0].Name)
	assert.Equal(t, "sum", r.Columns[0].Kind)
	assert.Equal(t, "count", r.Columns[0].Column)
	require.NotNil(t, r.Columns[0].When)

	assert.Equal(t, "clicks", r.Columns[1].Name)
	assert.Empty(t, r.Columns[1].Column)
}

func TestParseWhenForms(t *testing.T) {
	renderWhen := func(t *testing.T, doc string) (string, []any) {
		t.Helper()
		r, err := Parse([]byte(`
name: r
table: stat
columns:
  - name: c
    kind: count
    when:
` + doc))
		require.NoError(t, err)

		normalized, err := condition.Normalize(r.Columns[0].When, testutil.ExactResolver{})
		require.NoError(t, err)
		sql, params, err := condsql.Render(normalized, testutil.Identity)
		require.NoError(t, err)
		return sql, params
	}

	t.Run("plain map is AND over sorted field names", func(t *testing.T) {
		sql, params := renderWhen(t, `
      stat_type: a
      event_type: v`)
		assert.Equal(t, "(event_type = ? AND stat_type = ?)", sql)
		assert.Equal(t, []any{"v", "a"}, params)
	})

	t.Run("all", func(t *testing.T) {
		sql, params := renderWhen(t, `
      all:
        - stat_type: a
        - count__gt: 0`)
		assert.Equal(t, "(stat_type = ? AND count__gt = ?)", sql)
		assert.Equal(t, []any{"a", int64(0)}, params)
	})

	t.Run("any", func(t *testing.T) {
		sql, _ := renderWhen(t, `
      any:
        - stat_type: a
        - stat_type: b`)
		assert.Equal(t, "(stat_type = ? OR stat_type = ?)", sql)
	})

	t.Run("not", func(t *testing.T) {
		sql, _ := renderWhen(t, `
      not:
        stat_type: a`)
		assert.Equal(t, "NOT (stat_type = ?)", sql)
	})

	t.Run("nested operators", func(t *testing.T) {
		sql, params := renderWhen(t, `
      any:
        - all:
            - stat_type: a
            - event_type: v
        - not:
            stat_type: b`)
		assert.Equal(t, "((stat_type = ? AND event_type = ?) OR (NOT (stat_type = ?)))", sql)
		assert.Equal(t, []any{"a", "v", "b"}, params)
	})

	t.Run("null value", func(t *testing.T) {
		r, err := Parse([]byte(`
name: r
table: stat
columns:
  - name: c
    kind: count
    when: {stat_type: null}
`))
		require.NoError(t, err)
		leaf, ok := r.Columns[0].When.Children[0].(condition.Raw)
		require.True(t, ok)
		assert.Equal(t, ir.Null{}, leaf.Value)
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing name",
			yaml: "table: stat\ncolumns: [{name: c, kind: count, when: {a: 1}}]",
			want: "needs a name",
		},
		{
			name: "missing table",
			yaml: "name: r\ncolumns: [{name: c, kind: count, when: {a: 1}}]",
			want: "needs a table",
		},
		{
			name: "no columns",
			yaml: "name: r\ntable: stat",
			want: "at least one column",
		},
		{
			name: "duplicate column",
			yaml: `
name: r
table: stat
columns:
  - {name: c, kind: count, when: {a: 1}}
  - {name: c, kind: count, when: {a: 2}}`,
			want: "duplicate column",
		},
		{
			name: "unknown kind",
			yaml: "name: r\ntable: stat\ncolumns: [{name: c, kind: avg, when: {a: 1}}]",
			want: "unknown aggregate kind",
		},
		{
			name: "sum without source column",
			yaml: "name: r\ntable: stat\ncolumns: [{name: c, kind: sum, when: {a: 1}}]",
			want: "needs a source column",
		},
		{
			name: "missing when",
			yaml: "name: r\ntable: stat\ncolumns: [{name: c, kind: count}]",
			want: "needs a when condition",
		},
		{
			name: "float value",
			yaml: "name: r\ntable: stat\ncolumns: [{name: c, kind: count, when: {a: 1.5}}]",
			want: "floats are forbidden",
		},
		{
			name: "operator mixed with field keys",
			yaml: `
name: r
table: stat
columns:
  - name: c
    kind: count
    when:
      all: [{a: 1}]
      b: 2`,
			want: "cannot mix",
		},
		{
			name: "empty when map",
			yaml: "name: r\ntable: stat\ncolumns: [{name: c, kind: count, when: {}}]",
			want: "empty",
		},
		{
			name: "all with scalar body",
			yaml: "name: r\ntable: stat\ncolumns: [{name: c, kind: count, when: {all: 3}}]",
			want: "requires a list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
