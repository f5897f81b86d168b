// Package progress carries the best-effort progress stream a discovery run
// emits: phase transitions and running counts delivered to a caller-supplied
// sink, plus an optional per-run persistence hook.
//
// Everything here is advisory. A sink or recorder failure must never affect
// the run's result, so callers discard the returned errors after logging.
package progress

// Event types.
const (
	StepStart = "step_start"
	Text      = "text"
	StepEnd   = "step_end"
)

// Event is one progress notification.
type Event struct {
	// Type is step_start, text, or step_end.
	Type string `json:"type"`

	// Step names the phase the event belongs to (e.g. "validate").
	Step string `json:"step"`

	// Message is free-form human-readable detail, set on text events.
	Message string `json:"message,omitempty"`

	// Count is a running tally when the event carries one.
	Count int `json:"count,omitempty"`
}

// Sink receives progress events. Implementations may fail; emitters treat a
// failure as a dropped notification, nothing more.
type Sink interface {
	Notify(ev Event) error
}

// FuncSink adapts a function to the Sink interface.
type FuncSink func(ev Event) error

func (f FuncSink) Notify(ev Event) error { return f(ev) }

// Logger is the minimal logging interface used by LogSink.
// *log.Logger satisfies this interface.
type Logger interface {
	Printf(format string, v ...any)
}

// LogSink writes events through a Logger. It never fails.
type LogSink struct {
	Log Logger
}

func (s LogSink) Notify(ev Event) error {
	if s.Log == nil {
		return nil
	}
	switch {
	case ev.Message != "":
		s.Log.Printf("progress type=%s step=%s message=%q", ev.Type, ev.Step, ev.Message)
	case ev.Count > 0:
		s.Log.Printf("progress type=%s step=%s count=%d", ev.Type, ev.Step, ev.Count)
	default:
		s.Log.Printf("progress type=%s step=%s", ev.Type, ev.Step)
	}
	return nil
}

// Recorder persists progress keyed by a run identifier, typically into
// whatever store the orchestrating pipeline uses for run status. Best-effort;
// failures are discarded by the emitter.
type Recorder interface {
	RecordProgress(runID string, ev Event) error
}

var (
	_ Sink = FuncSink(nil)
	_ Sink = LogSink{}
)
