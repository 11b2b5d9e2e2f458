package git

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/cryptogen/internal/logfields"
)

const remoteName = "origin"

// VCS is the set of version control operations Source needs. Every method operates on
// the repository at path and never relies on the process working directory.
type VCS interface {
	Clone(ctx context.Context, url, path string) error
	Fetch(ctx context.Context, path string) error
	Checkout(ctx context.Context, path, branch string) error
	Pull(ctx context.Context, path, branch string) error
}

// GoGitClient implements VCS with go-git.
type GoGitClient struct {
	Credentials Credentials
	// Progress receives clone and fetch progress; nil discards it.
	Progress io.Writer
}

// NewGoGitClient returns a go-git backed VCS.
func NewGoGitClient(creds Credentials) *GoGitClient {
	return &GoGitClient{Credentials: creds}
}

func (c *GoGitClient) Clone(ctx context.Context, url, path string) error {
	slog.Debug("Cloning repository", logfields.URL(url), logfields.Path(path))
	repo, err := git.PlainCloneContext(ctx, path, false, &git.CloneOptions{
		URL:        url,
		RemoteName: remoteName,
		Auth:       c.Credentials.authMethod(),
		Progress:   c.Progress,
	})
	if err != nil {
		return fmt.Errorf("clone %s: %w", url, err)
	}
	if ref, herr := repo.Head(); herr == nil {
		slog.Info("Repository cloned", logfields.URL(url), logfields.Path(path), slog.String("commit", shortHash(ref.Hash())))
	}
	return nil
}

func (c *GoGitClient) Fetch(ctx context.Context, path string) error {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("open repo: %w", err)
	}
	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remoteName,
		RefSpecs:   []ggitcfg.RefSpec{"+refs/heads/*:refs/remotes/origin/*"},
		Auth:       c.Credentials.authMethod(),
		Progress:   c.Progress,
	})
	if err != nil && !stderrors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("fetch: %w", err)
	}
	return nil
}

// Checkout switches to branch, creating the local branch from its remote tracking ref
// when it does not exist yet.
func (c *GoGitClient) Checkout(_ context.Context, path, branch string) error {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("open repo: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}
	localRef := plumbing.NewBranchReferenceName(branch)
	if _, lerr := repo.Reference(localRef, true); lerr == nil {
		if err := wt.Checkout(&git.CheckoutOptions{Branch: localRef}); err != nil {
			return fmt.Errorf("checkout existing branch %s: %w", branch, err)
		}
		return nil
	}

	remoteRef, err := repo.Reference(plumbing.NewRemoteReferenceName(remoteName, branch), true)
	if err != nil {
		return fmt.Errorf("remote branch %s: %w", branch, err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Branch: localRef, Hash: remoteRef.Hash(), Create: true}); err != nil {
		return fmt.Errorf("checkout new branch %s: %w", branch, err)
	}
	if err := repo.CreateBranch(&ggitcfg.Branch{Name: branch, Remote: remoteName, Merge: localRef}); err != nil && !stderrors.Is(err, git.ErrBranchExists) {
		return fmt.Errorf("track branch %s: %w", branch, err)
	}
	return nil
}

func (c *GoGitClient) Pull(ctx context.Context, path, branch string) error {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("open repo: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}
	err = wt.PullContext(ctx, &git.PullOptions{
		RemoteName:    remoteName,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
		Auth:          c.Credentials.authMethod(),
		Progress:      c.Progress,
	})
	switch {
	case stderrors.Is(err, git.NoErrAlreadyUpToDate):
		slog.Debug("Repository already up-to-date", logfields.Path(path), logfields.Branch(branch))
		return nil
	case err != nil:
		return fmt.Errorf("pull %s: %w", branch, err)
	}
	if head, herr := repo.Head(); herr == nil {
		slog.Info("Repository updated", logfields.Path(path), logfields.Branch(branch), slog.String("commit", shortHash(head.Hash())))
	}
	return nil
}

func shortHash(h plumbing.Hash) string {
	return h.String()[:8]
}
