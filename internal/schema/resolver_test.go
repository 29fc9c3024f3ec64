package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anentropic/condagg/internal/condition"
	"github.com/anentropic/condagg/internal/condsql"
	"github.com/anentropic/condagg/internal/ir"
	"github.com/anentropic/condagg/internal/testutil"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := compileString(t, `
table: stat: {
	field: campaign: {references: "campaign"}
	field: stat_type: {type: "string"}
	field: count: {type: "int", column: "hit_count"}
}
table: campaign: {
	sql_name: "campaigns"
	field: owner: {references: "account"}
	field: name: {type: "string"}
	field: active: {type: "bool"}
}
table: account: {
	field: email: {type: "string"}
}
`)
	require.NoError(t, err)
	return s
}

func TestResolveLookups(t *testing.T) {
	r := NewResolver(testSchema(t), "stat")

	tests := []struct {
		name   string
		path   string
		value  ir.Value
		sql    string
		params []any
	}{
		{
			name:   "bare path defaults to exact",
			path:   "stat_type",
			value:  ir.String("a"),
			sql:    "stat_type = ?",
			params: []any{"a"},
		},
		{
			name:   "explicit exact",
			path:   "stat_type__exact",
			value:  ir.String("a"),
			sql:    "stat_type = ?",
			params: []any{"a"},
		},
		{
			name:   "column override",
			path:   "count__gte",
			value:  ir.Int(10),
			sql:    "hit_count >= ?",
			params: []any{int64(10)},
		},
		{
			name:   "ne",
			path:   "count__ne",
			value:  ir.Int(0),
			sql:    "hit_count <> ?",
			params: []any{int64(0)},
		},
		{
			name:   "lt",
			path:   "count__lt",
			value:  ir.Int(5),
			sql:    "hit_count < ?",
			params: []any{int64(5)},
		},
		{
			name:   "in",
			path:   "stat_type__in",
			value:  ir.Array{ir.String("a"), ir.String("b")},
			sql:    "stat_type IN (?, ?)",
			params: []any{"a", "b"},
		},
		{
			name:   "empty in matches nothing",
			path:   "stat_type__in",
			value:  ir.Array{},
			sql:    "1 = 0",
			params: nil,
		},
		{
			name:   "isnull true",
			path:   "stat_type__isnull",
			value:  ir.Bool(true),
			sql:    "stat_type IS NULL",
			params: nil,
		},
		{
			name:   "isnull false",
			path:   "stat_type__isnull",
			value:  ir.Bool(false),
			sql:    "stat_type IS NOT NULL",
			params: nil,
		},
		{
			name:   "null value coerces to isnull",
			path:   "stat_type",
			value:  ir.Null{},
			sql:    "stat_type IS NULL",
			params: nil,
		},
		{
			name:   "contains escapes metacharacters",
			path:   "stat_type__contains",
			value:  ir.String("50%_off"),
			sql:    `stat_type LIKE ? ESCAPE '\'`,
			params: []any{`%50\%\_off%`},
		},
		{
			name:   "startswith",
			path:   "stat_type__startswith",
			value:  ir.String("imp"),
			sql:    `stat_type LIKE ? ESCAPE '\'`,
			params: []any{`imp%`},
		},
		{
			name:   "endswith",
			path:   "stat_type__endswith",
			value:  ir.String("ion"),
			sql:    `stat_type LIKE ? ESCAPE '\'`,
			params: []any{`%ion`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := r.Resolve(tt.path, tt.value)
			require.NoError(t, err)

			sql, params, err := pred.Render(testutil.Identity)
			require.NoError(t, err)
			assert.Equal(t, tt.sql, sql)
			assert.Equal(t, tt.params, params)
		})
	}
}

func TestResolveRelationHops(t *testing.T) {
	r := NewResolver(testSchema(t), "stat")

	t.Run("single hop qualifies with target table", func(t *testing.T) {
		pred, err := r.Resolve("campaign__name", ir.String("summer"))
		require.NoError(t, err)

		sql, params, err := pred.Render(testutil.Identity)
		require.NoError(t, err)
		assert.Equal(t, "campaigns.name = ?", sql)
		assert.Equal(t, []any{"summer"}, params)
	})

	t.Run("two hops", func(t *testing.T) {
		pred, err := r.Resolve("campaign__owner__email__endswith", ir.String("@example.com"))
		require.NoError(t, err)

		sql, params, err := pred.Render(testutil.Identity)
		require.NoError(t, err)
		assert.Equal(t, `account.email LIKE ? ESCAPE '\'`, sql)
		assert.Equal(t, []any{`%@example.com`}, params)
	})

	t.Run("hop followed by lookup", func(t *testing.T) {
		pred, err := r.Resolve("campaign__active__exact", ir.Bool(true))
		require.NoError(t, err)

		sql, _, err := pred.Render(testutil.Identity)
		require.NoError(t, err)
		assert.Equal(t, "campaigns.active = ?", sql)
	})
}

func TestResolveQuoting(t *testing.T) {
	r := NewResolver(testSchema(t), "stat")

	pred, err := r.Resolve("campaign__name", ir.String("x"))
	require.NoError(t, err)

	sql, _, err := pred.Render(condsql.SQLite.Quote)
	require.NoError(t, err)
	assert.Equal(t, `"campaigns"."name" = ?`, sql)
}

func TestResolveErrors(t *testing.T) {
	r := NewResolver(testSchema(t), "stat")

	tests := []struct {
		name  string
		path  string
		value ir.Value
		check func(t *testing.T, err error)
	}{
		{
			name:  "unknown field",
			path:  "nope",
			value: ir.Int(1),
			check: func(t *testing.T, err error) {
				var ferr *condition.FieldResolutionError
				require.ErrorAs(t, err, &ferr)
				assert.Equal(t, "nope", ferr.Path)
			},
		},
		{
			name:  "empty path",
			path:  "",
			value: ir.Int(1),
			check: func(t *testing.T, err error) {
				var ferr *condition.FieldResolutionError
				require.ErrorAs(t, err, &ferr)
			},
		},
		{
			name:  "unsupported lookup token",
			path:  "stat_type__regex",
			value: ir.String("x"),
			check: func(t *testing.T, err error) {
				var lerr *condition.UnsupportedLookupError
				require.ErrorAs(t, err, &lerr)
				assert.Equal(t, "regex", lerr.Lookup)
				assert.Equal(t, "stat_type__regex", lerr.Path)
			},
		},
		{
			name:  "path continues past scalar field",
			path:  "stat_type__name__exact",
			value: ir.String("x"),
			check: func(t *testing.T, err error) {
				var ferr *condition.FieldResolutionError
				require.ErrorAs(t, err, &ferr)
				assert.Contains(t, ferr.Reason, "non-relational")
			},
		},
		{
			name:  "relation field with no terminal",
			path:  "campaign",
			value: ir.Int(3),
			check: func(t *testing.T, err error) {
				var ferr *condition.FieldResolutionError
				require.ErrorAs(t, err, &ferr)
				assert.Contains(t, ferr.Reason, "target field or lookup")
			},
		},
		{
			name:  "null with non-exact lookup",
			path:  "count__gt",
			value: ir.Null{},
			check: func(t *testing.T, err error) {
				var ferr *condition.FieldResolutionError
				require.ErrorAs(t, err, &ferr)
				assert.Contains(t, ferr.Reason, "null")
			},
		},
		{
			name:  "unknown root table",
			path:  "stat_type",
			value: ir.String("x"),
			check: func(t *testing.T, err error) {
				var ferr *condition.FieldResolutionError
				require.ErrorAs(t, err, &ferr)
				assert.Contains(t, ferr.Reason, "root table")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r
			if tt.name == "unknown root table" {
				res = NewResolver(testSchema(t), "missing")
			}
			_, err := res.Resolve(tt.path, tt.value)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}
