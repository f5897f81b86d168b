package progress

import (
	"fmt"
	"strings"
	"testing"
)

// captureLog records Printf lines for assertions.
type captureLog struct {
	lines []string
}

func (l *captureLog) Printf(format string, v ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func TestLogSink_FormatsByEventShape(t *testing.T) {
	t.Parallel()

	log := &captureLog{}
	sink := LogSink{Log: log}

	events := []Event{
		{Type: StepStart, Step: "validate"},
		{Type: Text, Step: "validate", Message: "probing 12 candidates"},
		{Type: StepEnd, Step: "validate", Count: 9},
	}
	for _, ev := range events {
		if err := sink.Notify(ev); err != nil {
			t.Fatalf("Notify(%+v): %v", ev, err)
		}
	}

	if len(log.lines) != 3 {
		t.Fatalf("got %d log lines, want 3", len(log.lines))
	}
	if !strings.Contains(log.lines[0], "type=step_start step=validate") {
		t.Errorf("step_start line: %q", log.lines[0])
	}
	if !strings.Contains(log.lines[1], `message="probing 12 candidates"`) {
		t.Errorf("text line: %q", log.lines[1])
	}
	if !strings.Contains(log.lines[2], "count=9") {
		t.Errorf("step_end line: %q", log.lines[2])
	}
}

func TestLogSink_NilLoggerIsSafe(t *testing.T) {
	t.Parallel()

	if err := (LogSink{}).Notify(Event{Type: Text, Step: "generate"}); err != nil {
		t.Fatalf("Notify on nil logger: %v", err)
	}
}

func TestFuncSink_PassesEventThrough(t *testing.T) {
	t.Parallel()

	var got []Event
	sink := FuncSink(func(ev Event) error {
		got = append(got, ev)
		return nil
	})

	want := Event{Type: StepEnd, Step: "junctions", Count: 2}
	if err := sink.Notify(want); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(got) != 1 || got[0] != want {
		t.Fatalf("captured %+v, want [%+v]", got, want)
	}
}
