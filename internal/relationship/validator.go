package relationship

import (
	"context"
	"time"

	"relinfer/internal/evidence"
	"relinfer/internal/limiter"
	"relinfer/internal/metrics"
)

// probeOutcome is the metrics status label for one evidence probe.
const (
	probeOK         = "ok"
	probeNoEvidence = "no_evidence"
	probeError      = "error"
)

// validate fetches overlap evidence for every candidate and assigns final
// confidence and cardinality. One limiter-gated probe per candidate; probe
// failures are logged and treated as missing evidence, never propagated, so
// a single bad probe drops only its own candidate.
//
// All probes are joined before confidence assignment. Survivors keep their
// submission order. Each probe goroutine writes only its own slot of the
// results slice; no locking is needed.
func (d *Discoverer) validate(ctx context.Context, cands []Candidate) []Candidate {
	results := make([]*evidence.Overlap, len(cands))

	g := limiter.NewGroup(limiter.Clamp(d.Concurrency))
	for i := range cands {
		i := i
		c := cands[i]
		g.Go(func() {
			results[i] = d.probe(ctx, c)
		})
	}
	g.Wait()

	out := make([]Candidate, 0, len(cands))
	for i, c := range cands {
		ov := results[i]
		if ov != nil {
			ov.Cardinality = cardinalityFor(ov)
			c.Overlap = ov
		}

		c.Confidence = confidenceFor(c.Method, ov)
		if c.Method != MethodConstraint {
			if ov == nil || c.Confidence == ConfidenceRejected {
				continue
			}
		}
		out = append(out, c)
	}

	return out
}

// probe runs one evidence call and converts every failure mode (error, panic,
// unusable statistics) into a nil result.
func (d *Discoverer) probe(ctx context.Context, c Candidate) (ov *evidence.Overlap) {
	defer func() {
		if r := recover(); r != nil {
			d.logf("stage=validate edge=%s panic=%v", c.signature(), r)
			d.metrics().IncCounter(metrics.ProbesTotal, 1, metrics.Labels{"status": probeError})
			ov = nil
		}
	}()

	from := evidence.ColumnRef{Schema: c.FromSchema, Table: c.FromTable, Column: first(c.FromColumns)}
	to := evidence.ColumnRef{Schema: c.ToSchema, Table: c.ToTable, Column: first(c.ToColumns)}

	start := time.Now()
	ov, err := d.Evidence.ColumnValueOverlap(ctx, from, to)
	elapsed := time.Since(start)

	status := probeOK
	switch {
	case err != nil:
		status = probeError
		d.logf("stage=validate edge=%s err=%v", c.signature(), err)
		ov = nil
	case ov == nil:
		status = probeNoEvidence
	}

	d.metrics().IncCounter(metrics.ProbesTotal, 1, metrics.Labels{"status": status})
	d.metrics().ObserveHistogram(metrics.ProbeDurationSeconds, elapsed.Seconds(), metrics.Labels{"status": status})

	return ov
}

// confidenceFor applies the tier rule: constraint-sourced candidates are high
// unconditionally, everything else is a step function of the overlap ratio.
func confidenceFor(method Method, ov *evidence.Overlap) Confidence {
	if method == MethodConstraint {
		return ConfidenceHigh
	}
	if ov == nil {
		return ConfidenceRejected
	}
	switch ratio := ov.OverlapRatio; {
	case ratio > HighOverlapRatio:
		return ConfidenceHigh
	case ratio >= MediumOverlapRatio:
		return ConfidenceMedium
	case ratio >= RejectedOverlapRatio:
		return ConfidenceLow
	default:
		return ConfidenceRejected
	}
}

// cardinalityFor derives cardinality from the child sample. An empty sample
// is always one_to_many; the distinct ratio is undefined there.
func cardinalityFor(ov *evidence.Overlap) evidence.Cardinality {
	if ov.ChildSampleSize > 0 &&
		float64(ov.ChildDistinctCount)/float64(ov.ChildSampleSize) > OneToOneDistinctRatio {
		return evidence.OneToOne
	}
	return evidence.OneToMany
}
