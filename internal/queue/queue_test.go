package queue

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// Mock event emitter for testing.
type mockEmitter struct {
	startedCalls   int
	completedCalls int
	failedCalls    int
	emitStartedErr error
	lastResult     []byte
	lastErrorMsg   string
}

func (m *mockEmitter) EmitJobStarted(ctx context.Context, job *Job, workerID string) error {
	m.startedCalls++
	return m.emitStartedErr
}

func (m *mockEmitter) EmitJobCompleted(ctx context.Context, job *Job, result []byte, duration time.Duration) error {
	m.completedCalls++
	m.lastResult = result
	return nil
}

func (m *mockEmitter) EmitJobFailed(ctx context.Context, job *Job, errorMsg string) error {
	m.failedCalls++
	m.lastErrorMsg = errorMsg
	return nil
}

// Mock solver for processJob testing.
type mockSolver struct {
	result []byte
	err    error
	block  chan struct{} // when set, Solve waits for ctx or close
}

func (m *mockSolver) Solve(ctx context.Context, job *Job) ([]byte, error) {
	if m.block != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-m.block:
		}
	}
	return m.result, m.err
}

func TestProcessJob_Success(t *testing.T) {
	emitter := &mockEmitter{}
	solver := &mockSolver{result: []byte(`{"type":"solved"}`)}

	q := New(10, 1, solver)
	q.SetEmitter(emitter)

	job := &Job{ID: "test-job-1", Type: JobTypeManual, Priority: PriorityNormal, Status: JobStatusQueued, Command: "solve"}
	q.processJob(t.Context(), job, "worker-1")

	if job.Status != JobStatusCompleted {
		t.Fatalf("expected status %s, got %s", JobStatusCompleted, job.Status)
	}
	if string(job.Result) != `{"type":"solved"}` {
		t.Fatalf("expected result stored on job, got %s", job.Result)
	}
	if emitter.startedCalls != 1 {
		t.Fatalf("expected 1 started call, got %d", emitter.startedCalls)
	}
	if emitter.completedCalls != 1 {
		t.Fatalf("expected 1 completed call, got %d", emitter.completedCalls)
	}
	if emitter.failedCalls != 0 {
		t.Fatalf("expected 0 failed calls, got %d", emitter.failedCalls)
	}
	if string(emitter.lastResult) != `{"type":"solved"}` {
		t.Fatalf("expected result passed to emitter, got %s", emitter.lastResult)
	}
}

func TestProcessJob_Failure(t *testing.T) {
	emitter := &mockEmitter{}
	solveErr := errors.New("solve failed")
	solver := &mockSolver{err: solveErr}

	q := New(10, 1, solver)
	q.SetEmitter(emitter)

	job := &Job{ID: "test-job-2", Type: JobTypeDiscovery, Priority: PriorityNormal, Status: JobStatusQueued, Command: "solve"}
	q.processJob(t.Context(), job, "worker-1")

	if job.Status != JobStatusFailed {
		t.Fatalf("expected status %s, got %s", JobStatusFailed, job.Status)
	}
	if job.Error != solveErr.Error() {
		t.Fatalf("expected error %q, got %q", solveErr.Error(), job.Error)
	}
	if emitter.failedCalls != 1 {
		t.Fatalf("expected 1 failed call, got %d", emitter.failedCalls)
	}
	if emitter.completedCalls != 0 {
		t.Fatalf("expected 0 completed calls, got %d", emitter.completedCalls)
	}
}

func TestProcessJob_NoEmitter(t *testing.T) {
	solver := &mockSolver{result: []byte("ok")}
	q := New(10, 1, solver)

	job := &Job{ID: "test-job-3", Type: JobTypeManual, Priority: PriorityNormal, Status: JobStatusQueued}
	q.processJob(t.Context(), job, "worker-1")

	if job.Status != JobStatusCompleted {
		t.Fatalf("expected status %s, got %s", JobStatusCompleted, job.Status)
	}
}

func TestProcessJob_EmitterErrorDoesNotFailJob(t *testing.T) {
	emitter := &mockEmitter{emitStartedErr: errors.New("emit error")}
	solver := &mockSolver{result: []byte("ok")}

	q := New(10, 1, solver)
	q.SetEmitter(emitter)

	job := &Job{ID: "test-job-4", Type: JobTypeManual, Priority: PriorityNormal, Status: JobStatusQueued}
	q.processJob(t.Context(), job, "worker-1")

	if job.Status != JobStatusCompleted {
		t.Fatalf("expected status %s, got %s", JobStatusCompleted, job.Status)
	}
	if emitter.startedCalls != 1 {
		t.Fatalf("expected 1 started call, got %d", emitter.startedCalls)
	}
}

func TestEnqueueValidation(t *testing.T) {
	q := New(1, 1, &mockSolver{})

	if err := q.Enqueue(nil); err == nil {
		t.Fatal("expected error for nil job")
	}
	if err := q.Enqueue(&Job{}); err == nil {
		t.Fatal("expected error for missing job ID")
	}

	if err := q.Enqueue(NewJob(JobTypeManual, PriorityNormal, "solve", "DATA")); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	// Queue size is 1, second enqueue must be rejected
	if err := q.Enqueue(NewJob(JobTypeManual, PriorityNormal, "solve", "DATA")); err == nil {
		t.Fatal("expected error for full queue")
	}
	if q.Length() != 1 {
		t.Fatalf("expected length 1, got %d", q.Length())
	}
}

func TestNewJobDefaults(t *testing.T) {
	job := NewJob(JobTypeWatch, PriorityHigh, "count", "PAYLOAD")

	if job.ID == "" {
		t.Fatal("expected generated job ID")
	}
	if job.Status != JobStatusQueued {
		t.Fatalf("expected status queued, got %s", job.Status)
	}
	if job.Type != JobTypeWatch || job.Priority != PriorityHigh {
		t.Fatalf("unexpected job type/priority: %s/%d", job.Type, job.Priority)
	}
	if job.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
}

func TestQueueWorkersProcessJobs(t *testing.T) {
	emitter := &mockEmitter{}
	solver := &mockSolver{result: []byte("done")}

	q := New(10, 2, solver)
	q.SetEmitter(emitter)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	q.Start(ctx)
	defer q.Stop(context.Background())

	job := NewJob(JobTypeManual, PriorityNormal, "solve", "DATA")
	if err := q.Enqueue(job); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		if snap, ok := q.JobSnapshot(job.ID); ok && snap.Status == JobStatusCompleted {
			if string(snap.Result) != "done" {
				t.Fatalf("expected result done, got %s", snap.Result)
			}
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for job completion")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestQueueCancelActiveJob(t *testing.T) {
	block := make(chan struct{})
	solver := &mockSolver{block: block}

	q := New(10, 1, solver)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	q.Start(ctx)
	defer q.Stop(context.Background())
	defer close(block)

	job := NewJob(JobTypeManual, PriorityNormal, "solve", "DATA")
	if err := q.Enqueue(job); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	// Wait until the job is running
	deadline := time.After(2 * time.Second)
	for {
		if snap, ok := q.JobSnapshot(job.ID); ok && snap.Status == JobStatusRunning {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for job start")
		case <-time.After(10 * time.Millisecond):
		}
	}

	if !q.Cancel(job.ID) {
		t.Fatal("expected Cancel to find the active job")
	}

	deadline = time.After(2 * time.Second)
	for {
		if snap, ok := q.JobSnapshot(job.ID); ok && snap.Status == JobStatusCanceled {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for job cancellation")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestHistoryRing(t *testing.T) {
	q := New(100, 1, &mockSolver{result: []byte("r")})
	q.SetHistorySize(3)

	for i := 0; i < 5; i++ {
		job := &Job{ID: fmt.Sprintf("job-%d", i), Type: JobTypeManual, Priority: PriorityNormal}
		q.processJob(t.Context(), job, "worker-1")
	}

	history := q.History()
	if len(history) != 3 {
		t.Fatalf("expected history capped at 3, got %d", len(history))
	}
	if history[0].ID != "job-2" || history[2].ID != "job-4" {
		t.Fatalf("expected oldest job-2 and newest job-4, got %s and %s", history[0].ID, history[2].ID)
	}
}
