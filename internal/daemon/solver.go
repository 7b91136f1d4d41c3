package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"git.home.luguber.info/inful/gridsolver/internal/archive"
	"git.home.luguber.info/inful/gridsolver/internal/config"
	"git.home.luguber.info/inful/gridsolver/internal/events"
	"git.home.luguber.info/inful/gridsolver/internal/fpuzzles"
	"git.home.luguber.info/inful/gridsolver/internal/metrics"
	"git.home.luguber.info/inful/gridsolver/internal/queue"
	"git.home.luguber.info/inful/gridsolver/internal/solve"
	"git.home.luguber.info/inful/gridsolver/internal/sudoku"
)

// Job commands understood by the queue solver.
const (
	commandSolve          = "solve"
	commandCount          = "count"
	commandCheck          = "check"
	commandTrueCandidates = "truecandidates"
)

var errNoSolution = errors.New("puzzle has no solutions")

// JobResult is the payload stored for a completed queue job. Command
// discriminates the shape: solve fills Solution, count fills Count and
// Capped, check fills Count, truecandidates fills Candidates with one
// 0/1 entry per cell and digit.
type JobResult struct {
	Command    string `json:"command"`
	Solution   []int  `json:"solution,omitempty"`
	Count      int    `json:"count"`
	Capped     bool   `json:"capped,omitempty"`
	Candidates []int  `json:"candidates,omitempty"`
}

// QueueSolver runs queued puzzle jobs on the sudoku engine. It is the
// queue.Solver used by the daemon for jobs from packs, the drop
// directory and scheduled work.
type QueueSolver struct {
	mu       sync.RWMutex
	cfg      config.SolverConfig
	cache    *events.Cache
	recorder metrics.Recorder
}

// NewQueueSolver creates a solver with the given limits. The cache is
// optional and shared with the listener when events are configured.
func NewQueueSolver(cfg config.SolverConfig, cache *events.Cache, recorder metrics.Recorder) *QueueSolver {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &QueueSolver{cfg: cfg, cache: cache, recorder: recorder}
}

// SetConfig swaps the solver limits, used on configuration reload.
func (s *QueueSolver) SetConfig(cfg config.SolverConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *QueueSolver) countLimit() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.CountLimit
}

// Solve executes the job and returns the JSON-encoded JobResult.
func (s *QueueSolver) Solve(ctx context.Context, job *queue.Job) ([]byte, error) {
	puz, err := fpuzzles.DecodeData(job.Data)
	if err != nil {
		return nil, err
	}
	board, err := sudoku.FromPuzzle(puz)
	if err != nil {
		return nil, err
	}

	var result *JobResult
	switch job.Command {
	case commandSolve:
		result, err = s.solve(ctx, board)
	case commandCount:
		result, err = s.count(ctx, board)
	case commandCheck:
		result, err = s.check(ctx, board)
	case commandTrueCandidates:
		result, err = s.trueCandidates(ctx, job.Data, board)
	default:
		return nil, fmt.Errorf("unknown job command: %s", job.Command)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}

func (s *QueueSolver) solve(ctx context.Context, board *sudoku.Board) (*JobResult, error) {
	sol, ok := board.Solutions().Next()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNoSolution
	}
	return &JobResult{Command: commandSolve, Solution: sol.Digits(), Count: 1}, nil
}

func (s *QueueSolver) count(ctx context.Context, board *sudoku.Board) (*JobResult, error) {
	limit := s.countLimit()
	countCtx, stop := context.WithCancel(ctx)
	defer stop()

	partials := make(chan int, 16)
	go func() {
		board.SolutionCount(countCtx, partials)
		close(partials)
	}()

	total := 0
	capped := false
	for n := range partials {
		total += n
		if limit > 0 && total > limit {
			capped = true
			stop()
			break
		}
	}
	// Collect what the stopped search still flushed.
	for n := range partials {
		total += n
	}
	if !capped {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return &JobResult{Command: commandCount, Count: total, Capped: capped}, nil
}

func (s *QueueSolver) check(ctx context.Context, board *sudoku.Board) (*JobResult, error) {
	it := board.Solutions()
	count := 0
	for count < 2 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, ok := it.Next(); !ok {
			break
		}
		count++
	}
	return &JobResult{Command: commandCheck, Count: count}, nil
}

func (s *QueueSolver) trueCandidates(ctx context.Context, data string, board *sudoku.Board) (*JobResult, error) {
	key := archive.HashPuzzle(data)
	payload, hit, err := s.cache.GetOrCompute(ctx, key, func(ctx context.Context) ([]byte, error) {
		union, ok := solve.TrueCandidatesContext(ctx, board)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !ok {
			return nil, errNoSolution
		}
		return json.Marshal(union.CandidateVector())
	})
	if s.cache != nil {
		s.recorder.IncCacheLookup(hit)
	}
	if err != nil {
		return nil, err
	}

	var vec []int
	if err := json.Unmarshal(payload, &vec); err != nil {
		return nil, fmt.Errorf("decode cached candidates: %w", err)
	}
	live := 0
	for _, v := range vec {
		if v != 0 {
			live++
		}
	}
	return &JobResult{Command: commandTrueCandidates, Count: live, Candidates: vec}, nil
}
