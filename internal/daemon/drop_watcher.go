package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/gridsolver/internal/config"
	"git.home.luguber.info/inful/gridsolver/internal/fpuzzles"
	"git.home.luguber.info/inful/gridsolver/internal/logfields"
	"git.home.luguber.info/inful/gridsolver/internal/queue"
)

// DropWatcher queues puzzles dropped into the watch directory as
// files. A .txt file carries one digit string per line, a .json file
// one f-puzzles puzzle document. The command defaults to solve; a
// second extension picks another one (board.count.txt counts).
type DropWatcher struct {
	dir      string
	debounce time.Duration
	enqueuer interface{ Enqueue(job *queue.Job) error }
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	stopChan chan struct{}

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewDropWatcher creates a watcher for the configured drop directory,
// creating the directory when missing.
func NewDropWatcher(cfg *config.WatchConfig, enqueuer interface{ Enqueue(job *queue.Job) error }, logger *slog.Logger) (*DropWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create drop directory %s: %w", cfg.Dir, err)
	}

	debounce, err := time.ParseDuration(cfg.Debounce)
	if err != nil || debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	return &DropWatcher{
		dir:      cfg.Dir,
		debounce: debounce,
		enqueuer: enqueuer,
		watcher:  watcher,
		logger:   logger,
		stopChan: make(chan struct{}),
		pending:  make(map[string]*time.Timer),
	}, nil
}

// Start begins watching the drop directory.
func (dw *DropWatcher) Start(ctx context.Context) error {
	if err := dw.watcher.Add(dw.dir); err != nil {
		return fmt.Errorf("watch drop directory %s: %w", dw.dir, err)
	}
	dw.logger.Info("drop watcher started", logfields.Path(dw.dir))
	go dw.watchLoop(ctx)
	return nil
}

// Stop stops the watcher and drops pending ingests.
func (dw *DropWatcher) Stop() error {
	close(dw.stopChan)
	dw.mu.Lock()
	for path, timer := range dw.pending {
		timer.Stop()
		delete(dw.pending, path)
	}
	dw.mu.Unlock()
	return dw.watcher.Close()
}

func (dw *DropWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-dw.stopChan:
			return
		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !puzzleFile(event.Name) {
				continue
			}
			dw.schedule(event.Name)
		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			dw.logger.Error("drop watcher error", logfields.Error(err))
		}
	}
}

// puzzleFile reports whether path names an ingestible puzzle file.
func puzzleFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".txt", ".json":
		return true
	}
	return false
}

// schedule arms a per-file debounce timer so a file still being
// written is ingested once, after the writes settle.
func (dw *DropWatcher) schedule(path string) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if timer, ok := dw.pending[path]; ok {
		timer.Stop()
	}
	dw.pending[path] = time.AfterFunc(dw.debounce, func() {
		dw.mu.Lock()
		delete(dw.pending, path)
		dw.mu.Unlock()

		select {
		case <-dw.stopChan:
			return
		default:
		}
		dw.ingest(path)
	})
}

func (dw *DropWatcher) ingest(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		dw.logger.Warn("drop file unreadable", logfields.File(path), logfields.Error(err))
		return
	}

	command := commandForFile(path)
	var payloads []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		payloads = dw.jsonPayloads(path, content)
	default:
		payloads = dw.digitPayloads(path, content)
	}

	for _, data := range payloads {
		job := queue.NewJob(queue.JobTypeWatch, queue.PriorityNormal, command, data)
		job.Title = filepath.Base(path)
		if err := dw.enqueuer.Enqueue(job); err != nil {
			dw.logger.Warn("drop enqueue failed", logfields.File(path), logfields.Error(err))
			return
		}
		dw.logger.Info("puzzle queued from drop directory",
			logfields.File(path),
			logfields.JobID(job.ID),
			logfields.Command(command))
	}
}

// digitPayloads encodes every non-empty line of a .txt drop as its own
// puzzle. Bad lines are reported and skipped.
func (dw *DropWatcher) digitPayloads(path string, content []byte) []string {
	var payloads []string
	for i, line := range strings.Split(string(content), "\n") {
		repr := strings.TrimSpace(line)
		if repr == "" {
			continue
		}
		puz, err := fpuzzles.ParseDigits(repr)
		if err != nil {
			dw.logger.Warn("drop line skipped",
				logfields.File(path),
				slog.Int("line", i+1),
				logfields.Error(err))
			continue
		}
		data, err := fpuzzles.EncodeData(puz)
		if err != nil {
			dw.logger.Warn("drop line skipped",
				logfields.File(path),
				slog.Int("line", i+1),
				logfields.Error(err))
			continue
		}
		payloads = append(payloads, data)
	}
	return payloads
}

// jsonPayloads encodes a .json drop holding one f-puzzles document.
func (dw *DropWatcher) jsonPayloads(path string, content []byte) []string {
	var puz fpuzzles.Puzzle
	if err := json.Unmarshal(content, &puz); err != nil {
		dw.logger.Warn("drop file skipped", logfields.File(path), logfields.Error(err))
		return nil
	}
	data, err := fpuzzles.EncodeData(&puz)
	if err != nil {
		dw.logger.Warn("drop file skipped", logfields.File(path), logfields.Error(err))
		return nil
	}
	return []string{data}
}

// commandForFile picks the job command from a second filename
// extension, defaulting to solve.
func commandForFile(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if i := strings.LastIndex(stem, "."); i >= 0 {
		switch cmd := strings.ToLower(stem[i+1:]); cmd {
		case commandSolve, commandCount, commandCheck, commandTrueCandidates:
			return cmd
		}
	}
	return commandSolve
}
