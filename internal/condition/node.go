package condition

import "github.com/anentropic/condagg/internal/ir"

// Connector is the boolean operator joining sibling nodes of a Tree.
type Connector string

const (
	ConnectorAnd Connector = "AND"
	ConnectorOr  Connector = "OR"
)

// Quoter quotes a column or table identifier for a target database.
// Supplied by the host dialect; must be idempotent and injection-safe.
type Quoter func(ident string) string

// Node represents one node of a condition tree.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in the SQL compiler.
//
// Node types:
//   - *Tree: internal node, a connector over child nodes
//   - Raw: unresolved leaf, a field path plus a filter value
//   - Resolved: renderable leaf produced by Normalize
type Node interface {
	conditionNode() // Marker method - seals interface to this package
}

// Predicate is the capability a resolved leaf carries: it can render itself
// to an atomic (or self-parenthesizing) SQL fragment plus ordered bind
// parameters, given an identifier quoting function.
//
// Implementations must be immutable and safe for repeated rendering:
// rendering the same predicate twice yields byte-identical output.
type Predicate interface {
	Render(quote Quoter) (sql string, params []any, err error)
}

// Tree is an internal node: a connector, a negation flag, and an ordered
// list of children. Child order is significant - it fixes the left-to-right
// order of placeholders and therefore of bind parameters.
type Tree struct {
	Connector Connector
	Negated   bool
	Children  []Node
}

func (*Tree) conditionNode() {}

// Raw is an unresolved leaf: a field path in lookup-separator convention
// (e.g. "campaign__name__contains") and the value to compare against.
// Raw leaves must be resolved by Normalize before the tree can render.
type Raw struct {
	Path  string
	Value ir.Value
}

func (Raw) conditionNode() {}

// Resolved is a renderable leaf produced by Normalize.
type Resolved struct {
	Pred Predicate
}

func (Resolved) conditionNode() {}

// Field builds a raw leaf for a field path and value.
func Field(path string, value ir.Value) Raw {
	return Raw{Path: path, Value: value}
}

// And combines nodes into a new conjunction tree.
func And(children ...Node) *Tree {
	return &Tree{Connector: ConnectorAnd, Children: children}
}

// Or combines nodes into a new disjunction tree.
func Or(children ...Node) *Tree {
	return &Tree{Connector: ConnectorOr, Children: children}
}

// Not negates a node, returning a new tree. Negating a tree toggles its
// negation flag on a clone, so Not(Not(t)) round-trips; negating a leaf
// wraps it in a single-child negated conjunction.
func Not(n Node) *Tree {
	if t, ok := n.(*Tree); ok {
		c := t.Clone()
		c.Negated = !c.Negated
		return c
	}
	return &Tree{Connector: ConnectorAnd, Negated: true, Children: []Node{n}}
}

// Clone returns a deep structural copy of the tree. Leaf payloads (values
// and predicates) are shared: both are immutable by contract, so structural
// isolation is all a template needs for safe reuse.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	c := &Tree{
		Connector: t.Connector,
		Negated:   t.Negated,
		Children:  make([]Node, len(t.Children)),
	}
	for i, child := range t.Children {
		if sub, ok := child.(*Tree); ok {
			c.Children[i] = sub.Clone()
		} else {
			c.Children[i] = child
		}
	}
	return c
}
