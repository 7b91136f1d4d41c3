package packs

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/gridsolver/internal/config"
)

// writeAndPush writes a file into the seed repo, commits it and pushes
// to the bare remote.
func writeAndPush(t *testing.T, repo *git.Repository, repoPath, filename, content string) {
	t.Helper()

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	full := filepath.Join(repoPath, filename)
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", filename, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
	if _, err := wt.Add(filename); err != nil {
		t.Fatalf("add %s: %v", filename, err)
	}
	if _, err := wt.Commit("update "+filename, &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "t@example.com", When: time.Now()},
	}); err != nil {
		t.Fatalf("commit %s: %v", filename, err)
	}
	if err := repo.Push(&git.PushOptions{RemoteName: "origin"}); err != nil {
		t.Fatalf("push: %v", err)
	}
}

// newPackRemote creates a bare remote seeded through a working repo and
// returns the bare path plus the seed repo for later updates.
func newPackRemote(t *testing.T) (string, *git.Repository, string) {
	t.Helper()

	tmp := t.TempDir()
	barePath := filepath.Join(tmp, "remote.git")
	if _, err := git.PlainInit(barePath, true); err != nil {
		t.Fatalf("init bare: %v", err)
	}

	seedPath := filepath.Join(tmp, "seed")
	seedRepo, err := git.PlainInit(seedPath, false)
	if err != nil {
		t.Fatalf("init seed: %v", err)
	}
	if _, err := seedRepo.CreateRemote(&ggitcfg.RemoteConfig{Name: "origin", URLs: []string{barePath}}); err != nil {
		t.Fatalf("create remote: %v", err)
	}

	return barePath, seedRepo, seedPath
}

func TestManagerRefreshDiscoversAndTracksChanges(t *testing.T) {
	barePath, seedRepo, seedPath := newPackRemote(t)

	writeAndPush(t, seedRepo, seedPath, "easy/warmup.md", `---
title: Warmup
puzzle: WARMUPDATA
---

A gentle opener.
`)
	writeAndPush(t, seedRepo, seedPath, "index.html",
		`<html><body><a href="https://f-puzzles.com/?load=HTMLDATA">bonus</a></body></html>`)
	writeAndPush(t, seedRepo, seedPath, "notes.md", "No puzzle in this card.\n")

	cfg := &config.PacksConfig{
		Root: t.TempDir(),
		Repositories: []config.PackRepository{
			{URL: barePath, Name: "testpack", Branch: "master"},
		},
	}
	mgr := NewManager(cfg, slog.Default(), nil)

	ctx := t.Context()
	puzzles, err := mgr.Refresh(ctx)
	if err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if len(puzzles) != 2 {
		t.Fatalf("expected 2 puzzles, got %d: %+v", len(puzzles), puzzles)
	}

	byCard := make(map[string]Puzzle, len(puzzles))
	for _, p := range puzzles {
		if p.Pack != "testpack" {
			t.Errorf("expected pack testpack, got %s", p.Pack)
		}
		byCard[p.Card] = p
	}
	if byCard[filepath.Join("easy", "warmup.md")].Data != "WARMUPDATA" {
		t.Errorf("missing markdown card puzzle: %+v", byCard)
	}
	if byCard["index.html"].Data != "HTMLDATA" {
		t.Errorf("missing html page puzzle: %+v", byCard)
	}

	// Nothing changed, second refresh discovers nothing
	puzzles, err = mgr.Refresh(ctx)
	if err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	if len(puzzles) != 0 {
		t.Fatalf("expected no puzzles on unchanged refresh, got %d", len(puzzles))
	}

	// An updated card is rediscovered through the fetch+reset path
	writeAndPush(t, seedRepo, seedPath, "easy/warmup.md", `---
title: Warmup v2
puzzle: WARMUPDATA2
---

Now with harder clues.
`)

	puzzles, err = mgr.Refresh(ctx)
	if err != nil {
		t.Fatalf("third refresh: %v", err)
	}
	if len(puzzles) != 1 {
		t.Fatalf("expected 1 changed puzzle, got %d: %+v", len(puzzles), puzzles)
	}
	if puzzles[0].Data != "WARMUPDATA2" {
		t.Errorf("expected updated puzzle data, got %q", puzzles[0].Data)
	}
	if puzzles[0].Title != "Warmup v2" {
		t.Errorf("expected updated title, got %q", puzzles[0].Title)
	}
}

func TestManagerRefreshSyncFailure(t *testing.T) {
	cfg := &config.PacksConfig{
		Root: t.TempDir(),
		Repositories: []config.PackRepository{
			{URL: filepath.Join(t.TempDir(), "missing.git"), Name: "broken"},
		},
	}
	mgr := NewManager(cfg, slog.Default(), nil)

	puzzles, err := mgr.Refresh(t.Context())
	if err == nil {
		t.Fatal("expected sync error for missing remote")
	}
	if len(puzzles) != 0 {
		t.Fatalf("expected no puzzles, got %d", len(puzzles))
	}
}
