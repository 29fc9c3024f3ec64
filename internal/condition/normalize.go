package condition

import (
	"fmt"

	"github.com/anentropic/condagg/internal/ir"
)

// Resolver resolves a raw (field path, value) leaf into a renderable
// predicate. Implementations are host-specific: internal/schema provides
// one backed by CUE table schemas; tests use static resolvers.
//
// Resolve fails with *FieldResolutionError when the path cannot be resolved
// and *UnsupportedLookupError when the trailing lookup token is unknown.
type Resolver interface {
	Resolve(path string, value ir.Value) (Predicate, error)
}

// Normalize resolves every raw leaf in the tree, returning a new tree whose
// leaves are all Resolved. The input is never mutated: templates stay
// reusable across aggregates and goroutines without defensive cloning.
//
// Errors surface before any SQL is generated; a tree that fails to
// normalize produces no partial output.
func Normalize(n Node, r Resolver) (Node, error) {
	switch node := n.(type) {
	case *Tree:
		out := &Tree{
			Connector: node.Connector,
			Negated:   node.Negated,
			Children:  make([]Node, len(node.Children)),
		}
		for i, child := range node.Children {
			normalized, err := Normalize(child, r)
			if err != nil {
				return nil, err
			}
			out.Children[i] = normalized
		}
		return out, nil

	case Raw:
		pred, err := r.Resolve(node.Path, node.Value)
		if err != nil {
			return nil, err
		}
		return Resolved{Pred: pred}, nil

	case Resolved:
		return node, nil

	default:
		return nil, fmt.Errorf("unsupported node type: %T", n)
	}
}
