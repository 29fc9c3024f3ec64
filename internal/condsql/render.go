package condsql

import (
	"fmt"
	"strings"

	"github.com/anentropic/condagg/internal/condition"
)

// Render compiles a normalized condition tree into a single parenthesized
// boolean SQL expression plus the ordered bind parameters.
//
// The walk is pre-order, left-to-right. Sub-trees recurse and are wrapped in
// parentheses; resolved leaves render themselves without extra wrapping
// (leaf fragments are atomic by contract). Children are joined with the
// tree's connector, the joined expression gets one outer paren pair, and a
// negated tree is prefixed with "NOT ".
//
// A tree still containing raw leaves, or with an empty child list, fails
// fast with *condition.MalformedTreeError - no partial SQL is emitted.
func Render(n condition.Node, quote condition.Quoter) (string, []any, error) {
	switch node := n.(type) {
	case *condition.Tree:
		return renderTree(node, quote)
	case condition.Resolved:
		return node.Pred.Render(quote)
	case condition.Raw:
		return "", nil, &condition.MalformedTreeError{
			Reason: fmt.Sprintf("unresolved leaf %q: tree must be normalized before rendering", node.Path),
		}
	default:
		return "", nil, fmt.Errorf("unsupported node type: %T", n)
	}
}

func renderTree(t *condition.Tree, quote condition.Quoter) (string, []any, error) {
	if t == nil || len(t.Children) == 0 {
		return "", nil, &condition.MalformedTreeError{Reason: "tree has no children"}
	}

	conditions := make([]string, 0, len(t.Children))
	var params []any

	for _, child := range t.Children {
		switch c := child.(type) {
		case *condition.Tree:
			sql, childParams, err := renderTree(c, quote)
			if err != nil {
				return "", nil, err
			}
			conditions = append(conditions, "("+sql+")")
			params = append(params, childParams...)

		case condition.Resolved:
			sql, childParams, err := c.Pred.Render(quote)
			if err != nil {
				return "", nil, err
			}
			conditions = append(conditions, sql)
			params = append(params, childParams...)

		case condition.Raw:
			return "", nil, &condition.MalformedTreeError{
				Reason: fmt.Sprintf("unresolved leaf %q: tree must be normalized before rendering", c.Path),
			}

		default:
			return "", nil, fmt.Errorf("unsupported node type: %T", child)
		}
	}

	sql := "(" + strings.Join(conditions, " "+string(t.Connector)+" ") + ")"
	if t.Negated {
		sql = "NOT " + sql
	}
	return sql, params, nil
}
