// Package report defines grouped-report documents: a table, grouping
// columns and a set of conditionally aggregated columns, loaded from YAML
// and compiled to a single SELECT.
//
// A report looks like:
//
//	name: campaign_overview
//	table: stat
//	group_by: [campaign_id]
//	columns:
//	  - name: impressions
//	    kind: sum
//	    column: count
//	    when: {stat_type: impression}
//	  - name: clicks
//	    kind: count
//	    when:
//	      all:
//	        - stat_type: click
//	        - count__gt: 0
//
// A plain "when" map is an AND over its entries, taken in sorted field
// order so parameter order is deterministic. "all", "any" and "not" nest
// arbitrarily.
package report
