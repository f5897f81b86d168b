package relationship

import (
	"strings"

	"relinfer/internal/schema"
)

// MaxJunctionOwnColumns is the junction classification threshold: a table
// with at most this many non-key, non-audit columns and two or more validated
// outgoing edges is treated as a bridge table.
const MaxJunctionOwnColumns = 3

// auditColumns are bookkeeping columns ignored when counting a table's own
// data. Both snake_case and squashed variants appear in the wild.
var auditColumns = map[string]struct{}{
	"id":         {},
	"created_at": {},
	"updated_at": {},
	"created_by": {},
	"updated_by": {},
	"deleted_at": {},
	"deleted_by": {},
	"createdat":  {},
	"updatedat":  {},
	"createdby":  {},
	"updatedby":  {},
	"deletedat":  {},
	"deletedby":  {},
}

// DetectJunctions finds bridge tables among validated high/medium edges and
// synthesizes the many-to-many relationships they imply.
//
// A table qualifies when it has at least two outgoing validated edges and,
// after removing the edges' from-columns and audit columns, carries at most
// MaxJunctionOwnColumns of its own data. Every unordered pair of outgoing
// edges then yields two directed candidates (one per direction), tagged with
// the junction table and confident only as far as its weaker contributing
// edge.
//
// The output is not deduplicated against the validated set; the caller
// concatenates.
func DetectJunctions(validated []Candidate, datasets []schema.Dataset) []Candidate {
	groups := make(map[string][]Candidate)
	var order []string

	for _, c := range validated {
		if c.Confidence != ConfidenceHigh && c.Confidence != ConfidenceMedium {
			continue
		}
		key := strings.ToLower(c.fromKey())
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], c)
	}

	var out []Candidate
	for _, key := range order {
		edges := groups[key]
		if len(edges) < 2 {
			continue
		}
		if !isJunctionTable(edges, datasets) {
			continue
		}

		junctionTable := edges[0].fromKey()
		for i := 0; i < len(edges); i++ {
			for j := i + 1; j < len(edges); j++ {
				out = append(out,
					bridgeCandidate(edges[i], edges[j], junctionTable),
					bridgeCandidate(edges[j], edges[i], junctionTable),
				)
			}
		}
	}

	return out
}

// isJunctionTable counts the group's from-table columns that are neither
// foreign-key columns of the group's edges nor audit columns.
func isJunctionTable(edges []Candidate, datasets []schema.Dataset) bool {
	ds := schema.FindDataset(datasets, edges[0].FromSchema, edges[0].FromTable)
	if ds == nil {
		return false
	}

	keyColumns := make(map[string]struct{})
	for _, e := range edges {
		for _, col := range e.FromColumns {
			keyColumns[strings.ToLower(col)] = struct{}{}
		}
	}

	own := 0
	for _, col := range ds.Columns {
		lower := strings.ToLower(col)
		if _, isKey := keyColumns[lower]; isKey {
			continue
		}
		if _, isAudit := auditColumns[lower]; isAudit {
			continue
		}
		own++
	}

	return own <= MaxJunctionOwnColumns
}

// bridgeCandidate synthesizes one direction of the M:N relationship implied
// by two edges leaving the same junction table.
func bridgeCandidate(from, to Candidate, junctionTable string) Candidate {
	conf := ConfidenceMedium
	if from.Confidence == ConfidenceHigh && to.Confidence == ConfidenceHigh {
		conf = ConfidenceHigh
	}

	return Candidate{
		FromSchema:  from.ToSchema,
		FromTable:   from.ToTable,
		FromColumns: append([]string(nil), from.ToColumns...),
		ToSchema:    to.ToSchema,
		ToTable:     to.ToTable,
		ToColumns:   append([]string(nil), to.ToColumns...),

		Method:     MethodValueOverlap,
		Confidence: conf,

		IsJunction:    true,
		JunctionTable: junctionTable,
	}
}
