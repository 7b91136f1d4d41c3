package daemon

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/gridsolver/internal/archive"
	"git.home.luguber.info/inful/gridsolver/internal/events"
	"git.home.luguber.info/inful/gridsolver/internal/logfields"
	"git.home.luguber.info/inful/gridsolver/internal/queue"
)

// Emitter bridges queue job lifecycle events to the result archive and
// the event stream. Both sinks are optional; a nil store or publisher
// disables that side.
type Emitter struct {
	store     archive.Store
	publisher *events.Publisher
	logger    *slog.Logger
}

// NewEmitter creates a job event emitter.
func NewEmitter(store archive.Store, publisher *events.Publisher, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{store: store, publisher: publisher, logger: logger}
}

// EmitJobStarted logs the job pickup. Started jobs are not archived.
func (e *Emitter) EmitJobStarted(_ context.Context, job *queue.Job, workerID string) error {
	e.logger.Debug("job started",
		logfields.JobID(job.ID),
		logfields.JobType(string(job.Type)),
		logfields.Command(job.Command),
		logfields.Worker(workerID))
	return nil
}

// EmitJobCompleted archives the result and publishes a completion
// event. Archive and publish failures are logged, not returned: the
// job itself succeeded.
func (e *Emitter) EmitJobCompleted(_ context.Context, job *queue.Job, result []byte, duration time.Duration) error {
	hash := archive.HashPuzzle(job.Data)
	e.insert(job, hash, result, archive.OutcomeSuccess, duration)

	if e.publisher != nil {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		event := &events.Event{
			Command:    job.Command,
			Source:     archive.SourceQueue,
			Outcome:    archive.OutcomeSuccess,
			PuzzleHash: hash,
			Solutions:  solutionsInResult(result),
			DurationMS: duration.Milliseconds(),
		}
		if err := e.publisher.PublishResult(pubCtx, event); err != nil {
			e.logger.Warn("event publish failed", logfields.JobID(job.ID), logfields.Error(err))
		}
	}
	return nil
}

// EmitJobFailed archives the failure so the drop directory and pack
// discovery leave a trace even when a puzzle is broken.
func (e *Emitter) EmitJobFailed(_ context.Context, job *queue.Job, errorMsg string) error {
	outcome := archive.OutcomeError
	if job.Status == queue.JobStatusCanceled {
		outcome = archive.OutcomeCanceled
	}
	result, _ := json.Marshal(map[string]string{"error": errorMsg})
	e.insert(job, archive.HashPuzzle(job.Data), result, outcome, job.Duration)
	return nil
}

func (e *Emitter) insert(job *queue.Job, hash string, result []byte, outcome string, duration time.Duration) {
	if e.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rec := &archive.Record{
		Source:     archive.SourceQueue,
		Command:    job.Command,
		PuzzleHash: hash,
		Puzzle:     job.Data,
		Result:     result,
		DurationMS: duration.Milliseconds(),
		Outcome:    outcome,
	}
	if err := e.store.Insert(ctx, rec); err != nil {
		e.logger.Warn("archive insert failed", logfields.JobID(job.ID), logfields.Error(err))
	}
}

// solutionsInResult extracts the solution count from a JobResult
// payload, zero when the payload does not carry one.
func solutionsInResult(result []byte) int {
	var r JobResult
	if err := json.Unmarshal(result, &r); err != nil {
		return 0
	}
	switch r.Command {
	case commandCount, commandCheck, commandSolve:
		return r.Count
	default:
		return 0
	}
}
