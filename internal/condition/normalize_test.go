package condition

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anentropic/condagg/internal/ir"
)

// staticPred renders a fixed fragment, standing in for a schema-resolved
// comparison.
type staticPred struct {
	sql    string
	params []any
}

func (p staticPred) Render(quote Quoter) (string, []any, error) {
	return p.sql, p.params, nil
}

// pathResolver resolves every path to "<path> = ?" with the value bound.
type pathResolver struct{}

func (pathResolver) Resolve(path string, value ir.Value) (Predicate, error) {
	param, err := ir.ToParam(value)
	if err != nil {
		return nil, err
	}
	return staticPred{sql: fmt.Sprintf("%s = ?", path), params: []any{param}}, nil
}

// failingResolver fails on a specific path.
type failingResolver struct {
	badPath string
}

func (r failingResolver) Resolve(path string, value ir.Value) (Predicate, error) {
	if path == r.badPath {
		return nil, &FieldResolutionError{Path: path, Reason: "unknown field"}
	}
	return pathResolver{}.Resolve(path, value)
}

func TestNormalize_ResolvesAllLeaves(t *testing.T) {
	template := And(
		Field("stat_type", ir.String("a")),
		Or(Field("event_type", ir.String("v")), Field("detail", ir.String("e"))),
	)

	normalized, err := Normalize(template, pathResolver{})
	require.NoError(t, err)

	root := normalized.(*Tree)
	require.Len(t, root.Children, 2)
	assert.IsType(t, Resolved{}, root.Children[0])

	nested := root.Children[1].(*Tree)
	assert.IsType(t, Resolved{}, nested.Children[0])
	assert.IsType(t, Resolved{}, nested.Children[1])
}

func TestNormalize_DoesNotMutateTemplate(t *testing.T) {
	template := And(
		Field("stat_type", ir.String("a")),
		Or(Field("event_type", ir.String("v"))),
	)

	_, err := Normalize(template, pathResolver{})
	require.NoError(t, err)
	_, err = Normalize(template, pathResolver{})
	require.NoError(t, err)

	// Raw-leaf shape of the template is unchanged after both passes.
	assert.IsType(t, Raw{}, template.Children[0])
	assert.IsType(t, Raw{}, template.Children[1].(*Tree).Children[0])
}

func TestNormalize_PreservesNegationAndOrder(t *testing.T) {
	template := Not(And(
		Field("a", ir.Int(1)),
		Field("b", ir.Int(2)),
	))

	normalized, err := Normalize(template, pathResolver{})
	require.NoError(t, err)

	root := normalized.(*Tree)
	assert.True(t, root.Negated)
	require.Len(t, root.Children, 2)
}

func TestNormalize_ResolutionErrorSurfaces(t *testing.T) {
	template := And(
		Field("good", ir.Int(1)),
		Or(Field("bad__path", ir.Int(2))),
	)

	_, err := Normalize(template, failingResolver{badPath: "bad__path"})
	require.Error(t, err)

	var resErr *FieldResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "bad__path", resErr.Path)
}

func TestNormalize_PassesThroughResolved(t *testing.T) {
	pre := Resolved{Pred: staticPred{sql: "1 = 1"}}
	normalized, err := Normalize(And(pre), pathResolver{})
	require.NoError(t, err)
	assert.Equal(t, pre, normalized.(*Tree).Children[0])
}
