// Package evidence defines the value-overlap statistics used to validate
// relationship candidates, and a backend registry so the prober for a given
// database kind can be selected by configuration.
//
// A probe answers one question: of the values sampled from a child column,
// what fraction also appears in the parent column? Backends implement that
// with a single bounded SQL statement each, in their own dialect.
package evidence

import (
	"context"
	"fmt"
	"sync"
)

// Cardinality is derived from overlap statistics during validation.
type Cardinality string

const (
	OneToOne  Cardinality = "one_to_one"
	OneToMany Cardinality = "one_to_many"
)

// Overlap carries the statistics of one column-pair probe.
//
// A probe that produced no usable statistics is represented by a nil
// *Overlap, never by a zero value: every field here is meaningful when the
// struct exists.
type Overlap struct {
	// OverlapRatio is the fraction of distinct sampled child values found
	// among the parent's values, in [0,1].
	OverlapRatio float64 `json:"overlap_ratio"`

	// ChildDistinctCount and ParentDistinctCount are distinct-value counts
	// over the sampled child values and the full parent column.
	ChildDistinctCount  int64 `json:"child_distinct_count"`
	ParentDistinctCount int64 `json:"parent_distinct_count"`

	// NullRatio is the fraction of sampled child rows whose value was NULL.
	NullRatio float64 `json:"null_ratio"`

	// ChildSampleSize is the number of non-null child values sampled.
	ChildSampleSize int64 `json:"child_sample_size"`

	// Cardinality is filled in by the validator, not by backends.
	Cardinality Cardinality `json:"cardinality,omitempty"`
}

// OverlapFromCounts converts the raw counters every backend probe produces
// into an Overlap. Shared so the three SQL dialects only differ in how they
// count, not in how counts are interpreted.
//
// Returns nil when the sample carried no distinct non-null values; there is
// nothing to measure overlap against.
func OverlapFromCounts(sampledRows, childSampleSize, childDistinct, matchedDistinct, parentDistinct int64) *Overlap {
	if childDistinct <= 0 {
		return nil
	}

	nullRatio := 0.0
	if sampledRows > 0 {
		nullRatio = float64(sampledRows-childSampleSize) / float64(sampledRows)
	}

	return &Overlap{
		OverlapRatio:        float64(matchedDistinct) / float64(childDistinct),
		ChildDistinctCount:  childDistinct,
		ParentDistinctCount: parentDistinct,
		NullRatio:           nullRatio,
		ChildSampleSize:     childSampleSize,
	}
}

// ColumnRef names one side of a probe.
type ColumnRef struct {
	Schema string
	Table  string
	Column string
}

func (r ColumnRef) String() string {
	if r.Schema == "" {
		return r.Table + "." + r.Column
	}
	return r.Schema + "." + r.Table + "." + r.Column
}

// Source fetches value-overlap statistics for a column pair.
//
// Implementations are expected to be slow and fallible (they run against a
// live, possibly rate-limited database); callers throttle and isolate
// failures, so a Source only has to report them.
//
// A (nil, nil) return means the probe ran but produced no usable
// statistics; that is a validation failure for the candidate, not an error.
type Source interface {
	// Close releases backend resources. Call once when done.
	Close()

	ColumnValueOverlap(ctx context.Context, from, to ColumnRef) (*Overlap, error)
}

// DefaultSampleLimit bounds how many child rows a probe samples.
const DefaultSampleLimit = 10000

// Config selects and configures a backend.
//
// Edge cases:
//   - Kind must be non-empty and must match a registered backend kind.
//   - DSN is passed through to the backend factory; validation is
//     backend-specific.
//   - SampleLimit <= 0 falls back to DefaultSampleLimit.
type Config struct {
	Kind        string `json:"kind"`
	DSN         string `json:"dsn"`
	SampleLimit int    `json:"sample_limit,omitempty"`
}

// EffectiveSampleLimit resolves the configured sample bound.
func (c Config) EffectiveSampleLimit() int {
	if c.SampleLimit <= 0 {
		return DefaultSampleLimit
	}
	return c.SampleLimit
}

// ---- backend factories ----

type factory func(ctx context.Context, cfg Config) (Source, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers an evidence backend under a kind (e.g. "postgres").
//
// When to use:
//   - Call Register from an init() function in a backend package.
//
// Panics:
//   - If kind is empty.
//   - If f is nil.
//   - If kind is already registered. Failing fast avoids ambiguous backend
//     selection.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("evidence: Register called with empty kind")
	}
	if f == nil {
		panic("evidence: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("evidence: factory already registered for kind=%q", kind))
	}

	factories[kind] = f
}

// New constructs a Source using the registered backend factory.
//
// Errors:
//   - Returns an error if cfg.Kind is empty or unsupported.
//   - Returns whatever error the registered factory returns.
func New(ctx context.Context, cfg Config) (Source, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("evidence: missing Kind")
	}

	mu.RLock()
	f := factories[cfg.Kind]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("unsupported evidence kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}
