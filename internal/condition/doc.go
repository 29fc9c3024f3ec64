// Package condition provides the boolean predicate tree that conditional
// aggregates filter on, together with the normalization step that resolves
// raw field/value leaves into renderable predicates.
//
// ARCHITECTURE:
//
// A condition starts life as a template built from combinators:
//
//	when := condition.And(
//	    condition.Field("stat_type", ir.String("a")),
//	    condition.Field("event_type", ir.String("v")),
//	)
//
// Template leaves are Raw nodes: a field path and a value, nothing resolved.
// Before SQL can be rendered every Raw leaf must be resolved against a host
// schema, producing Resolved leaves that know how to render themselves:
//
//	[template tree] → Normalize(tree, resolver) → [normalized tree] → condsql.Render
//
// Normalize is a pure transform: it returns a NEW tree and never mutates its
// input. A template can therefore be shared across any number of aggregates,
// or across goroutines, without cloning first. Clone remains available for
// callers that want to derive a variant of a template by hand.
//
// SEALED INTERFACE:
//
// Node is a sealed interface using the marker method pattern. Only *Tree,
// Raw, and Resolved implement it, which keeps type switches in the compiler
// exhaustive and prevents external tree shapes.
package condition
