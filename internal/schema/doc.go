// Package schema provides CUE-defined table schemas and the resolver that
// turns raw field paths into renderable comparison predicates.
//
// Schemas are CUE documents:
//
//	table: stat: {
//		field: campaign: {references: "campaign"}
//		field: stat_type: {type: "string"}
//		field: count: {type: "int", column: "hit_count"}
//	}
//	table: campaign: {
//		field: name: {type: "string"}
//	}
//
// A field path follows the double-underscore convention: zero or more
// relation hops, a terminal field, and an optional trailing lookup token
// (default "exact"):
//
//	stat_type               → "stat_type" = ?
//	campaign__name          → "campaign"."name" = ?
//	campaign__name__contains → "campaign"."name" LIKE ? ESCAPE '\'
//
// Relation hops resolve to a table-qualified column; emitting the joins the
// qualified reference depends on remains the host's job.
package schema
