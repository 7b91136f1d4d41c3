package metrics

import "time"

// ResultLabel enumerates request/job result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultInvalid  ResultLabel = "invalid"
	ResultError    ResultLabel = "error"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for the solver service. Implementations
// may forward to Prometheus, OpenTelemetry, etc. All methods must be safe for nil receivers
// when using the NoopRecorder (allowing optional injection).
type Recorder interface {
	ObserveCommandDuration(command string, d time.Duration)
	IncCommandResult(command string, result ResultLabel)
	SetActiveConnections(n int)
	IncConnections()
	ObserveJobDuration(jobType string, d time.Duration)
	IncJobResult(jobType string, result ResultLabel)
	SetQueueDepth(n int)
	IncCacheLookup(hit bool)
	IncPublishResult(success bool)
	ObservePackRefreshDuration(pack string, d time.Duration, success bool)
	IncPuzzlesDiscovered(pack string, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveCommandDuration(string, time.Duration)           {}
func (NoopRecorder) IncCommandResult(string, ResultLabel)                   {}
func (NoopRecorder) SetActiveConnections(int)                               {}
func (NoopRecorder) IncConnections()                                        {}
func (NoopRecorder) ObserveJobDuration(string, time.Duration)               {}
func (NoopRecorder) IncJobResult(string, ResultLabel)                       {}
func (NoopRecorder) SetQueueDepth(int)                                      {}
func (NoopRecorder) IncCacheLookup(bool)                                    {}
func (NoopRecorder) IncPublishResult(bool)                                  {}
func (NoopRecorder) ObservePackRefreshDuration(string, time.Duration, bool) {}
func (NoopRecorder) IncPuzzlesDiscovered(string, int)                       {}
