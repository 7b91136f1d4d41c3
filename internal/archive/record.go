package archive

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Request sources recorded alongside each result.
const (
	SourceListener = "listener"
	SourceCLI      = "cli"
	SourceQueue    = "queue"
)

// Outcome labels for archived results. These match the result labels
// reported to metrics so dashboards and archive queries line up.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
	OutcomeCanceled = "canceled"
)

// Record is one archived solver request with its result payload.
type Record struct {
	ID         string
	Created    time.Time
	Source     string
	Command    string
	PuzzleHash string
	Puzzle     string
	Result     []byte
	DurationMS int64
	Outcome    string
}

// HashPuzzle returns the hex-encoded SHA-256 digest of puzzle data.
// Used to find earlier results for the same puzzle without comparing
// full payloads.
func HashPuzzle(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
