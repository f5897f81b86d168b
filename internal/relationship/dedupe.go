package relationship

// Dedupe drops heuristic candidates whose logical edge is already proven by
// an explicit constraint or claimed by an earlier candidate. Constraint
// candidates are never dropped. Order is preserved, so with Generate's output
// (constraints first) a naming duplicate always loses to its constraint.
//
// Idempotent: applying Dedupe to its own output is a no-op.
func Dedupe(cands []Candidate) []Candidate {
	seen := make(map[string]struct{}, len(cands))
	out := make([]Candidate, 0, len(cands))

	for _, c := range cands {
		sig := c.signature()
		if c.Method == MethodConstraint {
			out = append(out, c)
			seen[sig] = struct{}{}
			continue
		}
		if _, dup := seen[sig]; dup {
			continue
		}
		seen[sig] = struct{}{}
		out = append(out, c)
	}

	return out
}
