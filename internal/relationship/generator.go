package relationship

import "relinfer/internal/schema"

// constraintCandidates converts explicit foreign keys into candidates. A
// foreign key contributes only when both endpoints resolve to a dataset in
// the working set; constraints pointing outside the selection are dropped
// here rather than failing later probes.
//
// Pure function of its inputs.
func constraintCandidates(datasets []schema.Dataset, fks []schema.ForeignKey) []Candidate {
	var out []Candidate

	for _, fk := range fks {
		if len(fk.FromColumns) == 0 || len(fk.FromColumns) != len(fk.ToColumns) {
			continue
		}
		if schema.FindDataset(datasets, fk.FromSchema, fk.FromTable) == nil {
			continue
		}
		if schema.FindDataset(datasets, fk.ToSchema, fk.ToTable) == nil {
			continue
		}

		out = append(out, Candidate{
			FromSchema:     fk.FromSchema,
			FromTable:      fk.FromTable,
			FromColumns:    append([]string(nil), fk.FromColumns...),
			ToSchema:       fk.ToSchema,
			ToTable:        fk.ToTable,
			ToColumns:      append([]string(nil), fk.ToColumns...),
			Method:         MethodConstraint,
			Confidence:     ConfidenceHigh, // placeholder, confirmed by validation
			ConstraintName: fk.ConstraintName,
		})
	}

	return out
}

// Generate produces the full unvalidated candidate list for a working set:
// explicit-constraint candidates first, then naming-heuristic candidates.
func Generate(datasets []schema.Dataset, fks []schema.ForeignKey) []Candidate {
	out := constraintCandidates(datasets, fks)
	return append(out, namingCandidates(datasets)...)
}
