package packs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/gridsolver/internal/config"
	"git.home.luguber.info/inful/gridsolver/internal/logfields"
)

// syncRepository clones or updates one pack checkout, retrying
// transient failures per the configured policy, and returns its path.
func (m *Manager) syncRepository(ctx context.Context, repo config.PackRepository) (string, error) {
	repoPath := filepath.Join(m.cfg.Root, repo.Name)

	var lastErr error
	for attempt := 0; attempt <= m.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			m.logger.Warn("retrying pack sync",
				logfields.Pack(repo.Name),
				slog.Int("attempt", attempt))
		}

		var err error
		if _, statErr := os.Stat(filepath.Join(repoPath, ".git")); statErr == nil {
			err = m.updateRepo(ctx, repoPath, repo)
		} else {
			err = m.cloneRepo(ctx, repoPath, repo)
		}
		if err == nil {
			return repoPath, nil
		}
		lastErr = err

		if attempt == m.cfg.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(m.policy.Delay(attempt + 1)):
		}
	}

	return "", fmt.Errorf("pack %s sync failed after retries: %w", repo.Name, lastErr)
}

// cloneRepo clones a pack repository into repoPath.
func (m *Manager) cloneRepo(ctx context.Context, repoPath string, repo config.PackRepository) error {
	m.logger.Debug("cloning pack repository",
		logfields.Pack(repo.Name),
		logfields.URL(repo.URL),
		logfields.Path(repoPath))

	// Remove partial checkouts left by earlier failures
	if err := os.RemoveAll(repoPath); err != nil {
		return fmt.Errorf("failed to remove existing directory: %w", err)
	}

	cloneOptions := &git.CloneOptions{URL: repo.URL}
	if repo.Branch != "" {
		cloneOptions.ReferenceName = plumbing.NewBranchReferenceName(repo.Branch)
		cloneOptions.SingleBranch = true
	}
	if repo.Auth != nil {
		auth, err := authMethod(repo.Auth)
		if err != nil {
			return fmt.Errorf("failed to setup authentication: %w", err)
		}
		cloneOptions.Auth = auth
	}

	if _, err := git.PlainCloneContext(ctx, repoPath, false, cloneOptions); err != nil {
		return fmt.Errorf("failed to clone repository %s: %w", repo.URL, err)
	}

	return nil
}

// updateRepo fetches the remote and resets the checkout to its state.
// Pack checkouts are read-only mirrors, so local state always follows
// the remote.
func (m *Manager) updateRepo(ctx context.Context, repoPath string, repo config.PackRepository) error {
	m.logger.Debug("updating pack repository",
		logfields.Pack(repo.Name),
		logfields.Path(repoPath))

	repository, err := git.PlainOpen(repoPath)
	if err != nil {
		return fmt.Errorf("open repo: %w", err)
	}
	wt, err := repository.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}

	fetchOptions := &git.FetchOptions{
		RemoteName: "origin",
		Tags:       git.NoTags,
		RefSpecs:   []ggitcfg.RefSpec{"+refs/heads/*:refs/remotes/origin/*"},
	}
	if repo.Auth != nil {
		auth, err := authMethod(repo.Auth)
		if err != nil {
			return fmt.Errorf("failed to setup authentication: %w", err)
		}
		fetchOptions.Auth = auth
	}
	if err := repository.FetchContext(ctx, fetchOptions); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("fetch: %w", err)
	}

	branch := resolveBranch(repository, repo)
	remoteRef, err := repository.Reference(plumbing.NewRemoteReferenceName("origin", branch), true)
	if err != nil {
		return fmt.Errorf("remote ref: %w", err)
	}

	localBranchRef := plumbing.NewBranchReferenceName(branch)
	if _, err := repository.Reference(localBranchRef, true); err != nil {
		if err := wt.Checkout(&git.CheckoutOptions{Branch: localBranchRef, Create: true, Force: true}); err != nil {
			return fmt.Errorf("checkout new branch: %w", err)
		}
	} else {
		if err := wt.Checkout(&git.CheckoutOptions{Branch: localBranchRef, Force: true}); err != nil {
			return fmt.Errorf("checkout existing branch: %w", err)
		}
	}

	if err := wt.Reset(&git.ResetOptions{Mode: git.HardReset, Commit: remoteRef.Hash()}); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	return nil
}

// resolveBranch determines the branch to track: explicit config, then
// the current HEAD branch, then main.
func resolveBranch(repository *git.Repository, repo config.PackRepository) string {
	if repo.Branch != "" {
		return repo.Branch
	}
	if headRef, err := repository.Head(); err == nil && headRef.Name().IsBranch() {
		return headRef.Name().Short()
	}
	return "main"
}
