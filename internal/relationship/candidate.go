// Package relationship implements relationship inference over a discovered
// schema: candidate generation from explicit constraints and naming
// heuristics, deduplication, evidence-backed validation under a bounded
// concurrency cap, and junction (bridge table) detection.
package relationship

import (
	"strings"

	"relinfer/internal/evidence"
)

// Method records where a candidate came from.
type Method string

const (
	MethodConstraint   Method = "constraint"
	MethodNaming       Method = "naming"
	MethodValueOverlap Method = "value_overlap"
)

// Confidence is the categorical strength tier assigned from evidence.
type Confidence string

const (
	ConfidenceHigh     Confidence = "high"
	ConfidenceMedium   Confidence = "medium"
	ConfidenceLow      Confidence = "low"
	ConfidenceRejected Confidence = "rejected"
)

// Tunable heuristic thresholds. Preserved across ports of this engine; change
// with care, dashboards and downstream consumers assume these tiers.
const (
	// HighOverlapRatio and friends bound the confidence tiers for
	// non-constraint candidates: ratio > high ⇒ high, [medium, high] ⇒
	// medium, [rejected, medium) ⇒ low, below rejected ⇒ dropped.
	HighOverlapRatio     = 0.8
	MediumOverlapRatio   = 0.5
	RejectedOverlapRatio = 0.2

	// OneToOneDistinctRatio: a child sample whose distinct count exceeds
	// this fraction of the sample size is treated as one-to-one.
	OneToOneDistinctRatio = 0.9
)

// Candidate is one directed relationship hypothesis. Created fresh per run,
// mutated in place as validation fills in confidence and evidence, discarded
// after the run emits its result.
//
// Invariant: len(FromColumns) == len(ToColumns) >= 1. Only the first column
// pair is evidence-checked.
type Candidate struct {
	FromSchema  string   `json:"from_schema"`
	FromTable   string   `json:"from_table"`
	FromColumns []string `json:"from_columns"`
	ToSchema    string   `json:"to_schema"`
	ToTable     string   `json:"to_table"`
	ToColumns   []string `json:"to_columns"`

	Method     Method     `json:"source"`
	Confidence Confidence `json:"confidence"`

	ConstraintName string            `json:"constraint_name,omitempty"`
	Overlap        *evidence.Overlap `json:"overlap_evidence,omitempty"`

	IsJunction    bool   `json:"is_junction_relationship,omitempty"`
	JunctionTable string `json:"junction_table,omitempty"`
}

// signature identifies the logical edge a candidate proves, compared
// case-insensitively. Only the first column pair participates, matching what
// validation checks.
func (c Candidate) signature() string {
	return strings.ToLower(
		c.FromSchema + "." + c.FromTable + "." + first(c.FromColumns) +
			"->" +
			c.ToSchema + "." + c.ToTable + "." + first(c.ToColumns),
	)
}

// fromKey is the qualified from-table, used for junction grouping.
func (c Candidate) fromKey() string {
	if c.FromSchema == "" {
		return c.FromTable
	}
	return c.FromSchema + "." + c.FromTable
}

func first(cols []string) string {
	if len(cols) == 0 {
		return ""
	}
	return cols[0]
}

// Logger is the minimal logging interface used by this package.
// *log.Logger satisfies this interface.
type Logger interface {
	Printf(format string, v ...any)
}
