// Package metrics defines the minimal metrics surface the discovery engine
// emits to. Backends (Datadog, or Nop by default) live in subpackages so the
// core never depends on a vendor SDK.
package metrics

// Labels are free-form metric dimensions (e.g. {"tier": "high"}).
type Labels map[string]string

// Backend receives metric observations. Implementations must be safe for
// concurrent use; the validator calls them from probe goroutines.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
}

// Metric names emitted by the discovery engine.
const (
	// CandidatesTotal counts emitted candidates, labeled tier and source.
	CandidatesTotal = "discovery_candidates_total"
	// ProbesTotal counts evidence probes, labeled status
	// (ok | no_evidence | error).
	ProbesTotal = "discovery_probes_total"
	// ProbeDurationSeconds observes per-probe wall time, labeled status.
	ProbeDurationSeconds = "discovery_probe_duration_seconds"
)

// Nop discards all observations. It is the default backend so callers never
// need nil checks.
type Nop struct{}

func (Nop) IncCounter(name string, delta float64, labels Labels) {}

func (Nop) ObserveHistogram(name string, value float64, labels Labels) {}

var _ Backend = Nop{}
