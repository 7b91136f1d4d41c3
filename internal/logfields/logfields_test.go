package logfields

import (
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    interface{}
	}{
		{"JobID", KeyJobID, "123", JobID("123")},
		{"JobType", KeyJobType, "count", JobType("count")},
		{"JobStatus", KeyJobStatus, "queued", JobStatus("queued")},
		{"Worker", KeyWorker, "w1", Worker("w1")},
		{"Stage", KeyStage, "archive", Stage("archive")},
		{"ScheduleID", KeyScheduleID, "sch1", ScheduleID("sch1")},
		{"ScheduleName", KeySchedule, "nightly", ScheduleName("nightly")},
		{"Pack", KeyPack, "classics", Pack("classics")},
		{"Repository", KeyRepo, "repo1", Repository("repo1")},
		{"URL", KeyURL, "http://example", URL("http://example")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"File", KeyFile, "puzzle.md", File("puzzle.md")},
		{"Command", KeyCommand, "solve", Command("solve")},
		{"RemoteAddr", KeyRemoteAddr, "1.2.3.4", RemoteAddr("1.2.3.4")},
		{"Addr", KeyAddr, "127.0.0.1:4545", Addr("127.0.0.1:4545")},
		{"PuzzleID", KeyPuzzleID, "p1", PuzzleID("p1")},
		{"Subject", KeySubject, "solver.solve.completed", Subject("solver.solve.completed")},
	}

	for _, tc := range cases {
		a := tc.attr.(slog.Attr)
		if a.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, a.Key)
		}
		if got := a.Value.String(); got != tc.attrVal { // Value is slog.Value
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

// TestNumericHelpers verifies keys for numeric & float helpers.
func TestNumericHelpers(t *testing.T) {
	if v := JobPriority(5); v.Key != KeyJobPriority { t.Fatalf("JobPriority key mismatch: %s", v.Key) }
	if v := Nonce(7); v.Key != KeyNonce { t.Fatalf("Nonce key mismatch: %s", v.Key) }
	if v := Size(9); v.Key != KeySize { t.Fatalf("Size key mismatch: %s", v.Key) }
	if v := Solutions(2); v.Key != KeySolutions { t.Fatalf("Solutions key mismatch: %s", v.Key) }
	if v := DurationMS(12.5); v.Key != KeyDurationMS { t.Fatalf("DurationMS key mismatch: %s", v.Key) }
}

// TestErrorHelper ensures Error() handles nil and non-nil errors predictably.
func TestErrorHelper(t *testing.T) {
	attr := Error(nil)
	if attr.Key != KeyError { t.Fatalf("Error key mismatch: %s", attr.Key) }
	if attr.Value.String() != "" { t.Fatalf("Expected empty error string, got %s", attr.Value.String()) }
	attr = Error(errTest{})
	if attr.Value.String() != "err-test" { t.Fatalf("Expected 'err-test', got %s", attr.Value.String()) }
}

type errTest struct{}
func (e errTest) Error() string { return "err-test" }
