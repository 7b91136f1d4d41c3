package events

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEventSubject(t *testing.T) {
	tests := []struct {
		command string
		want    string
	}{
		{"solve", "solver.solve.completed"},
		{"count", "solver.count.completed"},
		{"truecandidates", "solver.truecandidates.completed"},
	}

	for _, tt := range tests {
		e := &Event{Command: tt.command}
		if got := e.Subject("solver"); got != tt.want {
			t.Errorf("Subject(%q) = %q, want %q", tt.command, got, tt.want)
		}
	}
}

func TestEventJSONFields(t *testing.T) {
	e := &Event{
		ID:         "abc",
		Command:    "solve",
		Source:     "listener",
		Outcome:    "success",
		PuzzleHash: "deadbeef",
		Solutions:  1,
		DurationMS: 12,
		Timestamp:  time.Now(),
	}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}

	for _, key := range []string{"id", "command", "source", "outcome", "puzzle_hash", "solutions", "duration_ms", "timestamp"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("expected field %q in event JSON", key)
		}
	}
}
