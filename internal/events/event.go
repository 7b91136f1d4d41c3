package events

import (
	"fmt"
	"time"
)

// Event is one published solver result. Subjects follow the pattern
// <prefix>.<command>.completed, e.g. solver.solve.completed.
type Event struct {
	ID         string    `json:"id"`
	Command    string    `json:"command"`
	Source     string    `json:"source"`
	Outcome    string    `json:"outcome"`
	PuzzleHash string    `json:"puzzle_hash,omitempty"`
	Solutions  int       `json:"solutions,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// Subject returns the JetStream subject this event is published on.
func (e *Event) Subject(prefix string) string {
	return fmt.Sprintf("%s.%s.completed", prefix, e.Command)
}
