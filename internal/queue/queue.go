package queue

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/gridsolver/internal/logfields"
	"git.home.luguber.info/inful/gridsolver/internal/metrics"
)

// Solver executes a solve job and returns the encoded result payload.
type Solver interface {
	Solve(ctx context.Context, job *Job) ([]byte, error)
}

// EventEmitter abstracts event emission for job lifecycle events.
// This allows the Queue to emit events without depending on a daemon
// implementation.
type EventEmitter interface {
	EmitJobStarted(ctx context.Context, job *Job, workerID string) error
	EmitJobCompleted(ctx context.Context, job *Job, result []byte, duration time.Duration) error
	EmitJobFailed(ctx context.Context, job *Job, errorMsg string) error
}

// Queue manages background solve jobs with a fixed worker pool.
type Queue struct {
	jobs        chan *Job
	workers     int
	maxSize     int
	mu          sync.RWMutex
	active      map[string]*Job
	history     []*Job
	historySize int
	stopChan    chan struct{}
	wg          sync.WaitGroup
	solver      Solver
	timeout     time.Duration

	recorder metrics.Recorder
	emitter  EventEmitter
}

// New creates a new solve queue with the specified size, worker count,
// and solver.
func New(maxSize, workers int, solver Solver) *Queue {
	if maxSize <= 0 {
		maxSize = 100
	}
	if workers <= 0 {
		workers = 2
	}
	if solver == nil {
		panic("queue.New: solver is required")
	}

	return &Queue{
		jobs:        make(chan *Job, maxSize),
		workers:     workers,
		maxSize:     maxSize,
		active:      make(map[string]*Job),
		history:     make([]*Job, 0),
		historySize: 50,
		stopChan:    make(chan struct{}),
		solver:      solver,
		recorder:    metrics.NoopRecorder{},
	}
}

// SetRecorder injects a metrics recorder (optional).
func (q *Queue) SetRecorder(r metrics.Recorder) {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	q.recorder = r
}

// SetEmitter injects a job event emitter.
func (q *Queue) SetEmitter(emitter EventEmitter) {
	q.emitter = emitter
}

// SetTimeout bounds the runtime of a single job. Zero disables the bound.
func (q *Queue) SetTimeout(d time.Duration) {
	q.timeout = d
}

// SetHistorySize bounds the completed-job history ring.
func (q *Queue) SetHistorySize(n int) {
	if n > 0 {
		q.historySize = n
	}
}

// Start begins processing jobs with the configured number of workers.
func (q *Queue) Start(ctx context.Context) {
	slog.Info("Starting solve queue", slog.Int("workers", q.workers), slog.Int("max_size", q.maxSize))
	for i := range q.workers {
		q.wg.Add(1)
		go q.worker(ctx, fmt.Sprintf("worker-%d", i))
	}
}

// Stop gracefully shuts down the queue.
func (q *Queue) Stop(_ context.Context) {
	close(q.stopChan)

	// Cancel all active jobs
	q.mu.Lock()
	for _, job := range q.active {
		if job.cancel != nil {
			job.cancel()
		}
	}
	q.mu.Unlock()

	q.wg.Wait()
}

// Length returns the current queue length.
func (q *Queue) Length() int {
	return len(q.jobs)
}

// ActiveJobs returns a copy of the currently running jobs.
func (q *Queue) ActiveJobs() []*Job {
	q.mu.RLock()
	defer q.mu.RUnlock()

	active := make([]*Job, 0, len(q.active))
	for _, job := range q.active {
		cp := *job
		active = append(active, &cp)
	}
	return active
}

// History returns a copy of completed jobs, oldest first.
func (q *Queue) History() []*Job {
	q.mu.RLock()
	defer q.mu.RUnlock()

	history := make([]*Job, 0, len(q.history))
	for _, job := range q.history {
		cp := *job
		history = append(history, &cp)
	}
	return history
}

// Enqueue adds a new solve job to the queue.
func (q *Queue) Enqueue(job *Job) error {
	if job == nil {
		return stdErrors.New("job cannot be nil")
	}
	if job.ID == "" {
		return stdErrors.New("job ID is required")
	}

	job.Status = JobStatusQueued

	select {
	case q.jobs <- job:
		q.recorder.SetQueueDepth(len(q.jobs))
		return nil
	default:
		return stdErrors.New("solve queue is full")
	}
}

// JobSnapshot returns a copy of a job (active first, then history).
func (q *Queue) JobSnapshot(id string) (*Job, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if j, ok := q.active[id]; ok {
		cp := *j
		return &cp, true
	}
	for _, j := range q.history {
		if j.ID == id {
			cp := *j
			return &cp, true
		}
	}
	return nil, false
}

// Cancel cancels a running job by ID.
func (q *Queue) Cancel(id string) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if j, ok := q.active[id]; ok && j.cancel != nil {
		j.cancel()
		return true
	}
	return false
}

func (q *Queue) worker(ctx context.Context, workerID string) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.stopChan:
			return
		case job := <-q.jobs:
			if job != nil {
				q.processJob(ctx, job, workerID)
			}
		}
	}
}

func (q *Queue) processJob(ctx context.Context, job *Job, workerID string) {
	var jobCtx context.Context
	var cancel context.CancelFunc
	if q.timeout > 0 {
		jobCtx, cancel = context.WithTimeout(ctx, q.timeout)
	} else {
		jobCtx, cancel = context.WithCancel(ctx)
	}
	job.cancel = cancel
	defer cancel()

	startTime := time.Now()
	q.mu.Lock()
	job.StartedAt = &startTime
	job.Status = JobStatusRunning
	q.active[job.ID] = job
	q.mu.Unlock()

	q.emitJobStarted(jobCtx, job, workerID)

	result, err := q.solver.Solve(jobCtx, job)

	duration := q.markJobCompleted(job, result, err)
	q.recorder.ObserveJobDuration(string(job.Type), duration)
	q.recorder.IncJobResult(string(job.Type), jobResultLabel(err))
	q.recorder.SetQueueDepth(len(q.jobs))
	q.emitCompletionEvents(ctx, job, result, err, duration)
}

func (q *Queue) emitJobStarted(ctx context.Context, job *Job, workerID string) {
	if q.emitter == nil {
		return
	}
	if err := q.emitter.EmitJobStarted(ctx, job, workerID); err != nil {
		slog.Warn("Failed to emit job started event", logfields.JobID(job.ID), logfields.Error(err))
	}
}

func (q *Queue) markJobCompleted(job *Job, result []byte, err error) time.Duration {
	endTime := time.Now()
	q.mu.Lock()
	job.CompletedAt = &endTime
	if job.StartedAt != nil {
		job.Duration = endTime.Sub(*job.StartedAt)
	}
	delete(q.active, job.ID)
	q.addToHistory(job)
	switch {
	case stdErrors.Is(err, context.Canceled):
		job.Status = JobStatusCanceled
		job.Error = err.Error()
	case err != nil:
		job.Status = JobStatusFailed
		job.Error = err.Error()
	default:
		job.Status = JobStatusCompleted
		job.Result = result
	}
	duration := job.Duration
	q.mu.Unlock()

	return duration
}

func (q *Queue) emitCompletionEvents(ctx context.Context, job *Job, result []byte, err error, duration time.Duration) {
	if q.emitter == nil {
		return
	}

	if err != nil {
		if emitErr := q.emitter.EmitJobFailed(ctx, job, err.Error()); emitErr != nil {
			slog.Warn("Failed to emit job failed event", logfields.JobID(job.ID), logfields.Error(emitErr))
		}
		return
	}
	if emitErr := q.emitter.EmitJobCompleted(ctx, job, result, duration); emitErr != nil {
		slog.Warn("Failed to emit job completed event", logfields.JobID(job.ID), logfields.Error(emitErr))
	}
}

func (q *Queue) addToHistory(job *Job) {
	q.history = append(q.history, job)
	if len(q.history) > q.historySize {
		copy(q.history, q.history[len(q.history)-q.historySize:])
		q.history = q.history[:q.historySize]
	}
}

func jobResultLabel(err error) metrics.ResultLabel {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case stdErrors.Is(err, context.Canceled):
		return metrics.ResultCanceled
	default:
		return metrics.ResultError
	}
}
