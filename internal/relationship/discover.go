package relationship

import (
	"context"
	"fmt"
	"time"

	"relinfer/internal/evidence"
	"relinfer/internal/metrics"
	"relinfer/internal/progress"
	"relinfer/internal/schema"
)

// Discoverer runs one relationship inference pass. Configure it once, then
// call Discover per run.
//
// Evidence is required. Everything else is optional: a nil Log discards log
// lines, a nil Sink/Recorder drops progress, a nil Metrics discards metrics.
type Discoverer struct {
	Evidence evidence.Source

	// Concurrency caps simultaneous evidence probes. Clamped to [1,20];
	// zero means the default of 5.
	Concurrency int

	Log      Logger
	Sink     progress.Sink
	Recorder progress.Recorder
	Metrics  metrics.Backend
}

// Summary tallies one run's output.
type Summary struct {
	Total     int `json:"total"`
	High      int `json:"high"`
	Medium    int `json:"medium"`
	Low       int `json:"low"`
	Junctions int `json:"junctions"`

	Generated int `json:"generated"`
	Probed    int `json:"probed"`
	Dropped   int `json:"dropped"`
}

// Result is the aggregated output of one run.
type Result struct {
	Candidates []Candidate `json:"candidates"`
	Summary    Summary     `json:"summary"`
}

// Phase step names, as they appear in progress events and logs.
const (
	stepGenerate  = "generate"
	stepDedupe    = "dedupe"
	stepValidate  = "validate"
	stepJunctions = "junctions"
	stepAggregate = "aggregate"
)

// Discover runs the full pipeline: generate, dedupe, validate, detect
// junctions, aggregate. Phases never run backwards and a collaborator
// failure during validation drops only the affected candidate; the worst
// possible outcome is an empty (still valid) result.
//
// Errors:
//   - Only configuration problems fail the run (nil Evidence). Probe and
//     progress failures never do.
func (d *Discoverer) Discover(ctx context.Context, runID string, datasets []schema.Dataset, fks []schema.ForeignKey) (*Result, error) {
	if d.Evidence == nil {
		return nil, fmt.Errorf("relationship: Discoverer requires an evidence source")
	}

	start := time.Now()

	d.emit(runID, progress.Event{Type: progress.StepStart, Step: stepGenerate})
	generated := Generate(datasets, fks)
	d.emit(runID, progress.Event{Type: progress.StepEnd, Step: stepGenerate, Count: len(generated)})
	d.logf("stage=%s candidates=%d", stepGenerate, len(generated))

	d.emit(runID, progress.Event{Type: progress.StepStart, Step: stepDedupe})
	deduped := Dedupe(generated)
	d.emit(runID, progress.Event{Type: progress.StepEnd, Step: stepDedupe, Count: len(deduped)})
	d.logf("stage=%s candidates=%d dropped=%d", stepDedupe, len(deduped), len(generated)-len(deduped))

	d.emit(runID, progress.Event{Type: progress.StepStart, Step: stepValidate})
	d.emit(runID, progress.Event{
		Type: progress.Text, Step: stepValidate,
		Message: fmt.Sprintf("probing %d candidates", len(deduped)),
	})
	validateStart := time.Now()
	validated := d.validate(ctx, deduped)
	d.emit(runID, progress.Event{Type: progress.StepEnd, Step: stepValidate, Count: len(validated)})
	d.logf("stage=%s probed=%d survived=%d dropped=%d duration=%s",
		stepValidate, len(deduped), len(validated), len(deduped)-len(validated), time.Since(validateStart))

	d.emit(runID, progress.Event{Type: progress.StepStart, Step: stepJunctions})
	junctions := DetectJunctions(validated, datasets)
	d.emit(runID, progress.Event{Type: progress.StepEnd, Step: stepJunctions, Count: len(junctions)})
	d.logf("stage=%s synthesized=%d", stepJunctions, len(junctions))

	d.emit(runID, progress.Event{Type: progress.StepStart, Step: stepAggregate})
	res := d.aggregate(validated, junctions)
	res.Summary.Generated = len(generated)
	res.Summary.Probed = len(deduped)
	res.Summary.Dropped = len(deduped) - len(validated)
	d.emit(runID, progress.Event{Type: progress.StepEnd, Step: stepAggregate, Count: res.Summary.Total})
	d.logf("stage=%s total=%d high=%d medium=%d low=%d junctions=%d duration=%s",
		stepAggregate, res.Summary.Total, res.Summary.High, res.Summary.Medium,
		res.Summary.Low, res.Summary.Junctions, time.Since(start))

	return res, nil
}

// aggregate concatenates validated and junction-derived candidates and
// tallies per-tier counts.
func (d *Discoverer) aggregate(validated, junctions []Candidate) *Result {
	all := make([]Candidate, 0, len(validated)+len(junctions))
	all = append(all, validated...)
	all = append(all, junctions...)

	var s Summary
	s.Total = len(all)
	for _, c := range all {
		switch c.Confidence {
		case ConfidenceHigh:
			s.High++
		case ConfidenceMedium:
			s.Medium++
		case ConfidenceLow:
			s.Low++
		}
		if c.IsJunction {
			s.Junctions++
		}
		d.metrics().IncCounter(metrics.CandidatesTotal, 1, metrics.Labels{
			"tier":   string(c.Confidence),
			"source": string(c.Method),
		})
	}

	return &Result{Candidates: all, Summary: s}
}

// emit delivers a progress event to the sink and recorder. Both are
// best-effort: failures are logged and discarded, never surfaced.
func (d *Discoverer) emit(runID string, ev progress.Event) {
	if d.Sink != nil {
		if err := d.Sink.Notify(ev); err != nil {
			d.logf("stage=%s progress sink err=%v", ev.Step, err)
		}
	}
	if d.Recorder != nil {
		if err := d.Recorder.RecordProgress(runID, ev); err != nil {
			d.logf("stage=%s progress recorder err=%v", ev.Step, err)
		}
	}
}

func (d *Discoverer) logf(format string, v ...any) {
	if d.Log != nil {
		d.Log.Printf(format, v...)
	}
}

func (d *Discoverer) metrics() metrics.Backend {
	if d.Metrics != nil {
		return d.Metrics
	}
	return metrics.Nop{}
}
