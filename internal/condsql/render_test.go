package condsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anentropic/condagg/internal/condition"
	"github.com/anentropic/condagg/internal/ir"
	"github.com/anentropic/condagg/internal/testutil"
)

func normalize(t *testing.T, tree *condition.Tree) condition.Node {
	t.Helper()
	n, err := condition.Normalize(tree, testutil.ExactResolver{})
	require.NoError(t, err)
	return n
}

func TestRender_AndPair(t *testing.T) {
	tree := condition.And(
		condition.Field("stat_type", ir.String("a")),
		condition.Field("event_type", ir.String("v")),
	)

	sql, params, err := Render(normalize(t, tree), testutil.Identity)
	require.NoError(t, err)

	assert.Equal(t, "(stat_type = ? AND event_type = ?)", sql)
	assert.Equal(t, []any{"a", "v"}, params)
}

func TestRender_SingleLeafNoConnector(t *testing.T) {
	tree := condition.And(condition.Field("stat_type", ir.String("a")))

	sql, params, err := Render(normalize(t, tree), testutil.Identity)
	require.NoError(t, err)

	assert.Equal(t, "(stat_type = ?)", sql)
	assert.NotContains(t, sql, " AND ")
	assert.Equal(t, []any{"a"}, params)
}

func TestRender_NegatedConjunction(t *testing.T) {
	tree := condition.Not(condition.And(
		condition.Field("a", ir.Int(1)),
		condition.Field("b", ir.Int(2)),
	))

	sql, params, err := Render(normalize(t, tree), testutil.Identity)
	require.NoError(t, err)

	// Negation applies to the whole group and leaves param order alone.
	assert.Equal(t, "NOT (a = ? AND b = ?)", sql)
	assert.Equal(t, []any{int64(1), int64(2)}, params)
}

func TestRender_NestedMixedTree(t *testing.T) {
	// (A OR NOT B) OR (C AND NOT D)
	tree := condition.Or(
		condition.Or(
			condition.Field("a", ir.String("1")),
			condition.Not(condition.Field("b", ir.String("2"))),
		),
		condition.And(
			condition.Field("c", ir.String("3")),
			condition.Not(condition.Field("d", ir.String("4"))),
		),
	)

	sql, params, err := Render(normalize(t, tree), testutil.Identity)
	require.NoError(t, err)

	assert.Equal(t,
		"((a = ? OR (NOT (b = ?))) OR (c = ? AND (NOT (d = ?))))",
		sql)
	// All four leaves' params concatenate in A, B, C, D order.
	assert.Equal(t, []any{"1", "2", "3", "4"}, params)
}

func TestRender_ParamOrderMatchesPlaceholders(t *testing.T) {
	// Leaves with differing param arity: order must follow placeholder
	// occurrence, and the total count must be the sum over leaves.
	tree := condition.And(
		testutil.Pred("x IN (?, ?)", "p", "q"),
		condition.Or(
			testutil.Pred("y = ?", "r"),
			testutil.Pred("z IS NULL"),
		),
		testutil.Pred("w = ?", "s"),
	)

	sql, params, err := Render(tree, testutil.Identity)
	require.NoError(t, err)

	assert.Equal(t, "(x IN (?, ?) AND (y = ? OR z IS NULL) AND w = ?)", sql)
	assert.Equal(t, []any{"p", "q", "r", "s"}, params)
}

func TestRender_Idempotent(t *testing.T) {
	tree := condition.And(
		condition.Field("stat_type", ir.String("a")),
		condition.Not(condition.Field("detail", ir.String("e"))),
	)
	normalized := normalize(t, tree)

	sql1, params1, err := Render(normalized, testutil.Identity)
	require.NoError(t, err)
	sql2, params2, err := Render(normalized, testutil.Identity)
	require.NoError(t, err)

	assert.Equal(t, sql1, sql2)
	assert.Equal(t, params1, params2)
}

func TestRender_EmptyChildrenFailsFast(t *testing.T) {
	_, _, err := Render(condition.And(), testutil.Identity)

	var malformed *condition.MalformedTreeError
	require.ErrorAs(t, err, &malformed)
}

func TestRender_RawLeafFailsFast(t *testing.T) {
	tree := condition.And(condition.Field("stat_type", ir.String("a")))

	_, _, err := Render(tree, testutil.Identity)

	var malformed *condition.MalformedTreeError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, err.Error(), "stat_type")
}

func TestRender_NestedEmptyTreeFailsFast(t *testing.T) {
	tree := condition.And(
		testutil.Pred("x = ?", 1),
		condition.Or(),
	)

	_, _, err := Render(tree, testutil.Identity)

	var malformed *condition.MalformedTreeError
	require.ErrorAs(t, err, &malformed)
}

func TestRender_QuoterApplied(t *testing.T) {
	tree := condition.And(condition.Field("stat_type", ir.String("a")))

	sql, _, err := Render(normalize(t, tree), SQLite.Quote)
	require.NoError(t, err)
	assert.Equal(t, `("stat_type" = ?)`, sql)
}
