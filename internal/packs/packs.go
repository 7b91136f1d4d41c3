// Package packs mirrors puzzle pack repositories and discovers solvable
// puzzle cards in them.
//
// A pack is a git repository holding Markdown cards with YAML
// frontmatter, optionally alongside exported HTML pages. Cards carry
// their puzzle either inline (puzzle field), as an f-puzzles share link
// (url field), or as a link in the card body. Refresh syncs every
// configured repository and reports cards that are new or changed since
// the previous scan.
package packs

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/gridsolver/internal/config"
	"git.home.luguber.info/inful/gridsolver/internal/logfields"
	"git.home.luguber.info/inful/gridsolver/internal/metrics"
	"git.home.luguber.info/inful/gridsolver/internal/retry"
)

// Puzzle is one discovered puzzle ready for solving.
type Puzzle struct {
	Pack  string // repository name
	Card  string // card path relative to the repository root
	Title string
	Data  string // compressed f-puzzles payload
	URL   string // source share link, when known
}

// Manager keeps pack checkouts in sync and tracks which cards have
// already been seen.
type Manager struct {
	cfg      *config.PacksConfig
	policy   retry.Policy
	logger   *slog.Logger
	recorder metrics.Recorder

	mu   sync.Mutex
	seen map[string]string // pack/card -> fingerprint
}

// NewManager creates a pack manager for the given configuration.
func NewManager(cfg *config.PacksConfig, logger *slog.Logger, recorder metrics.Recorder) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	initial, _ := time.ParseDuration(cfg.RetryInitialDelay)
	maxDelay, _ := time.ParseDuration(cfg.RetryMaxDelay)

	return &Manager{
		cfg:      cfg,
		policy:   retry.NewPolicy(cfg.RetryBackoff, initial, maxDelay, cfg.MaxRetries),
		logger:   logger,
		recorder: recorder,
		seen:     make(map[string]string),
	}
}

// Refresh syncs every configured repository and returns the puzzles
// that are new or changed since the last refresh. Repositories that
// fail to sync are skipped; the first error is returned after all
// repositories have been attempted.
func (m *Manager) Refresh(ctx context.Context) ([]Puzzle, error) {
	var discovered []Puzzle
	var firstErr error

	for _, repo := range m.cfg.Repositories {
		start := time.Now()

		repoPath, err := m.syncRepository(ctx, repo)
		if err != nil {
			m.recorder.ObservePackRefreshDuration(repo.Name, time.Since(start), false)
			m.logger.Error("pack sync failed",
				logfields.Pack(repo.Name),
				logfields.URL(repo.URL),
				logfields.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		puzzles, err := m.scanRepository(repoPath, repo.Name)
		if err != nil {
			m.recorder.ObservePackRefreshDuration(repo.Name, time.Since(start), false)
			m.logger.Error("pack scan failed",
				logfields.Pack(repo.Name),
				logfields.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		m.recorder.ObservePackRefreshDuration(repo.Name, time.Since(start), true)
		if len(puzzles) > 0 {
			m.recorder.IncPuzzlesDiscovered(repo.Name, len(puzzles))
			m.logger.Info("discovered puzzles",
				logfields.Pack(repo.Name),
				slog.Int("count", len(puzzles)))
		}
		discovered = append(discovered, puzzles...)
	}

	return discovered, firstErr
}

// scanRepository walks a checkout and collects puzzle cards that are
// new or changed since the previous scan.
func (m *Manager) scanRepository(repoPath, pack string) ([]Puzzle, error) {
	var found []Puzzle

	err := filepath.WalkDir(repoPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(repoPath, path)
		if err != nil {
			return err
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".md":
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			card, err := ParseCard(rel, content)
			if err != nil {
				m.logger.Warn("skipping unparsable card",
					logfields.Pack(pack),
					logfields.File(rel),
					logfields.Error(err))
				return nil
			}
			if !card.HasPuzzle() {
				return nil
			}
			if !m.changed(pack, rel, card.Fingerprint) {
				return nil
			}
			found = append(found, Puzzle{Pack: pack, Card: rel, Title: card.Title, Data: card.Data, URL: card.URL})

		case ".html":
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			links, err := extractHTMLLinks(bytes.NewReader(content))
			if err != nil {
				m.logger.Warn("skipping unparsable page",
					logfields.Pack(pack),
					logfields.File(rel),
					logfields.Error(err))
				return nil
			}
			for i, link := range links {
				data, ok := puzzleDataFromURL(link)
				if !ok {
					continue
				}
				key := fmt.Sprintf("%s#%d", rel, i)
				if !m.changed(pack, key, mdfp.CalculateFingerprintFromParts("", data)) {
					continue
				}
				found = append(found, Puzzle{Pack: pack, Card: rel, Data: data, URL: link})
			}
		}
		return nil
	})

	return found, err
}

// changed records the card fingerprint and reports whether it differs
// from the previously seen one.
func (m *Manager) changed(pack, card, fingerprint string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := pack + "/" + card
	if m.seen[key] == fingerprint {
		return false
	}
	m.seen[key] = fingerprint
	return true
}
