package listener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"git.home.luguber.info/inful/gridsolver/internal/archive"
	"git.home.luguber.info/inful/gridsolver/internal/events"
	"git.home.luguber.info/inful/gridsolver/internal/fpuzzles"
	"git.home.luguber.info/inful/gridsolver/internal/logfields"
	"git.home.luguber.info/inful/gridsolver/internal/metrics"
	"git.home.luguber.info/inful/gridsolver/internal/solve"
	"git.home.luguber.info/inful/gridsolver/internal/sudoku"
)

const noSolutionsMessage = "Puzzle has no solutions."

// errNoSolutions keeps the no-solution case distinguishable from
// engine failures inside the cache compute path.
var errNoSolutions = errors.New("no solutions")

// run executes one solver command and reports the outcome to metrics,
// the archive, and the event stream. A nil response means the command
// was cancelled and the client gets nothing, matching the protocol.
func (l *Listener) run(ctx context.Context, sess *session, req Request, puz *fpuzzles.Puzzle) {
	start := time.Now()

	var resp any
	var outcome metrics.ResultLabel
	switch req.Command {
	case CommandCheck:
		resp, outcome = l.check(ctx, req, puz)
	case CommandCount:
		resp, outcome = l.count(ctx, sess, req, puz)
	case CommandSolve:
		resp, outcome = l.solve(ctx, req, puz)
	case CommandTrueCandidates:
		resp, outcome = l.trueCandidates(ctx, req, puz)
	case CommandSolvePath:
		resp, outcome = l.logicalRun(req, puz, true)
	case CommandStep:
		resp, outcome = l.logicalRun(req, puz, false)
	default:
		resp, outcome = invalid(req.Nonce, fmt.Sprintf("Unknown command: %s", req.Command)), metrics.ResultInvalid
	}

	duration := time.Since(start)
	if resp != nil {
		sess.send(resp)
	}
	l.recorder.ObserveCommandDuration(req.Command, duration)
	l.recorder.IncCommandResult(req.Command, outcome)
	l.finish(req, resp, outcome, duration)
}

// check reports whether the puzzle has zero, one, or at least two
// solutions. The search stops at two.
func (l *Listener) check(ctx context.Context, req Request, puz *fpuzzles.Puzzle) (any, metrics.ResultLabel) {
	board, err := sudoku.FromPuzzle(puz)
	if err != nil {
		return invalid(req.Nonce, err.Error()), metrics.ResultInvalid
	}

	it := board.Solutions()
	count := 0
	for count < 2 {
		if ctx.Err() != nil {
			return nil, metrics.ResultCanceled
		}
		if _, ok := it.Next(); !ok {
			break
		}
		count++
	}
	if ctx.Err() != nil {
		return nil, metrics.ResultCanceled
	}
	return countResult(req.Nonce, count, false), metrics.ResultSuccess
}

// count streams partial totals while the search runs and finishes with
// the exact count. A configured count limit stops the search once the
// total passes it; the reported count is then a floor, not a total.
func (l *Listener) count(ctx context.Context, sess *session, req Request, puz *fpuzzles.Puzzle) (any, metrics.ResultLabel) {
	board, err := sudoku.FromPuzzle(puz)
	if err != nil {
		return invalid(req.Nonce, err.Error()), metrics.ResultInvalid
	}

	countCtx, stop := context.WithCancel(ctx)
	defer stop()

	partials := make(chan int, responseBuffer)
	go func() {
		board.SolutionCount(countCtx, partials)
		close(partials)
	}()

	total := 0
	for n := range partials {
		if ctx.Err() != nil {
			return nil, metrics.ResultCanceled
		}
		total += n
		sess.send(countResult(req.Nonce, total, true))
		if l.solver.CountLimit > 0 && total > l.solver.CountLimit {
			stop()
			break
		}
	}
	// Collect what the stopped search still flushed.
	for n := range partials {
		total += n
	}
	return countResult(req.Nonce, total, false), metrics.ResultSuccess
}

// solve answers with the first solution found, without checking for
// uniqueness.
func (l *Listener) solve(ctx context.Context, req Request, puz *fpuzzles.Puzzle) (any, metrics.ResultLabel) {
	board, err := sudoku.FromPuzzle(puz)
	if err != nil {
		return invalid(req.Nonce, err.Error()), metrics.ResultInvalid
	}

	sol, ok := board.Solutions().Next()
	if ctx.Err() != nil {
		return nil, metrics.ResultCanceled
	}
	if !ok {
		return invalid(req.Nonce, noSolutionsMessage), metrics.ResultInvalid
	}
	return solved(req.Nonce, sol.Digits()), metrics.ResultSuccess
}

// trueCandidates reports which digit placements survive into at least
// one solution. Results are cached by puzzle hash when a result cache
// is configured, since clients re-request this on every grid change.
func (l *Listener) trueCandidates(ctx context.Context, req Request, puz *fpuzzles.Puzzle) (any, metrics.ResultLabel) {
	board, err := sudoku.FromPuzzle(puz)
	if err != nil {
		return invalid(req.Nonce, err.Error()), metrics.ResultInvalid
	}

	key := archive.HashPuzzle(req.Data)
	payload, hit, err := l.cache.GetOrCompute(ctx, key, func(ctx context.Context) ([]byte, error) {
		union, ok := solve.TrueCandidatesContext(ctx, board)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !ok {
			return nil, errNoSolutions
		}
		return json.Marshal(union.CandidateVector())
	})
	if l.cache != nil {
		l.recorder.IncCacheLookup(hit)
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, metrics.ResultCanceled
		}
		if errors.Is(err, errNoSolutions) {
			return invalid(req.Nonce, noSolutionsMessage), metrics.ResultInvalid
		}
		return invalid(req.Nonce, err.Error()), metrics.ResultError
	}

	var perCandidate []int
	if err := json.Unmarshal(payload, &perCandidate); err != nil {
		return invalid(req.Nonce, err.Error()), metrics.ResultError
	}
	return trueCandidatesResult(req.Nonce, perCandidate), metrics.ResultSuccess
}

// logicalRun applies solving strategies to the board: the full
// fixpoint for solvepath, a single strategy application for step.
func (l *Listener) logicalRun(req Request, puz *fpuzzles.Puzzle, full bool) (any, metrics.ResultLabel) {
	board, err := sudoku.FromPuzzle(puz)
	if err != nil {
		return invalid(req.Nonce, err.Error()), metrics.ResultInvalid
	}

	steps, valid := applyStrategies(board, full)
	message := strings.Join(steps, "\n")
	if len(steps) == 0 {
		message = "No logical steps found."
	}
	if !valid {
		message = "Board is invalid."
	}
	return logicalResult(req.Nonce, logicalCells(board), message, valid), metrics.ResultSuccess
}

// namedStrategy pairs a solving strategy with the name reported in
// solve path messages.
type namedStrategy struct {
	name  string
	apply func(*sudoku.Board) (sudoku.Elimination, error)
}

var strategies = []namedStrategy{
	{"Naked Single", func(b *sudoku.Board) (sudoku.Elimination, error) { return b.NakedSingles() }},
	{"Hidden Single", func(b *sudoku.Board) (sudoku.Elimination, error) { return b.HiddenSingles() }},
	{"Naked Pair", func(b *sudoku.Board) (sudoku.Elimination, error) { return b.NakedTuples(2) }},
	{"Naked Triple", func(b *sudoku.Board) (sudoku.Elimination, error) { return b.NakedTuples(3) }},
}

// applyStrategies mutates the board by running strategies cheapest
// first, restarting after every hit. With full false it stops after
// the first hit. The step names are returned in application order;
// valid turns false on contradiction.
func applyStrategies(b *sudoku.Board, full bool) (steps []string, valid bool) {
	for {
		progress := false
		for _, s := range strategies {
			res, err := s.apply(b)
			if err != nil {
				return steps, false
			}
			if res == sudoku.Eliminated {
				steps = append(steps, s.name)
				progress = true
				break
			}
		}
		if !progress || !full || b.Solved() {
			return steps, true
		}
	}
}

func logicalCells(b *sudoku.Board) []LogicalCell {
	cells := make([]LogicalCell, b.Len())
	digits := b.Digits()
	for i := range cells {
		cells[i] = LogicalCell{Value: digits[i], Candidates: b.Candidates(i)}
	}
	return cells
}

// finish archives the outcome and publishes a completion event for
// commands that produce solver results. Failures here are logged and
// otherwise ignored; the client already has its response.
func (l *Listener) finish(req Request, resp any, outcome metrics.ResultLabel, d time.Duration) {
	switch req.Command {
	case CommandSolve, CommandCount, CommandTrueCandidates, CommandCheck:
	default:
		return
	}
	if resp == nil || outcome == metrics.ResultCanceled {
		return
	}

	result, err := json.Marshal(resp)
	if err != nil {
		return
	}
	hash := archive.HashPuzzle(req.Data)

	if l.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rec := &archive.Record{
			Source:     archive.SourceListener,
			Command:    req.Command,
			PuzzleHash: hash,
			Puzzle:     req.Data,
			Result:     result,
			DurationMS: d.Milliseconds(),
			Outcome:    string(outcome),
		}
		if err := l.store.Insert(ctx, rec); err != nil {
			l.logger.Warn("archive insert failed",
				logfields.Command(req.Command), logfields.Error(err))
		}
	}

	if l.publisher != nil && outcome == metrics.ResultSuccess {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		ev := &events.Event{
			Command:    req.Command,
			Source:     archive.SourceListener,
			Outcome:    string(outcome),
			PuzzleHash: hash,
			Solutions:  solutionsIn(resp),
			DurationMS: d.Milliseconds(),
		}
		if err := l.publisher.PublishResult(ctx, ev); err != nil {
			l.logger.Warn("event publish failed",
				logfields.Command(req.Command), logfields.Error(err))
		}
	}
}

// solutionsIn extracts a solution count from a response for event
// payloads. Responses without a count report zero.
func solutionsIn(resp any) int {
	switch r := resp.(type) {
	case CountResponse:
		return r.Count
	case SolvedResponse:
		return 1
	default:
		return 0
	}
}
