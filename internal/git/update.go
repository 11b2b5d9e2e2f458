package git

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/cryptogen/internal/foundation/errors"
	"git.home.luguber.info/inful/cryptogen/internal/logfields"
)

// Reference identifies the local repository and where it comes from.
type Reference struct {
	Path   string
	URL    string
	Branch string
}

// Source brings a local repository up to date through a VCS backend.
type Source struct {
	vcs VCS
}

// NewSource returns a Source using vcs.
func NewSource(vcs VCS) *Source {
	return &Source{vcs: vcs}
}

// Ensure clones ref.URL into ref.Path when no repository is present, then fetches,
// checks out branch and pulls, in that order. It does nothing when shouldClone is
// false. The process working directory is the same before and after the call.
func (s *Source) Ensure(ctx context.Context, ref Reference, shouldClone bool, branch string) (err error) {
	if !shouldClone {
		return nil
	}
	if branch == "" {
		return errors.ArgumentError("a branch is required when cloning").
			WithContext("url", ref.URL).
			Build()
	}
	ref.Branch = branch

	wd, wdErr := os.Getwd()
	if wdErr == nil {
		defer func() {
			now, nerr := os.Getwd()
			if nerr == nil && now == wd {
				return
			}
			slog.Warn("working directory changed during repository update, restoring", logfields.Path(wd))
			if cerr := os.Chdir(wd); cerr != nil && err == nil {
				err = errors.InternalError("restore working directory").WithCause(cerr).Build()
			}
		}()
	}

	if _, statErr := os.Stat(filepath.Join(ref.Path, ".git")); statErr != nil {
		slog.Info("Cloning repository", logfields.URL(ref.URL), logfields.Path(ref.Path))
		if mkErr := os.MkdirAll(filepath.Dir(ref.Path), 0o750); mkErr != nil {
			return classify(fmt.Errorf("create parent directory: %w", mkErr), "clone", ref)
		}
		if cerr := s.vcs.Clone(ctx, ref.URL, ref.Path); cerr != nil {
			return classify(cerr, "clone", ref)
		}
	}

	slog.Info("Updating repository", logfields.Path(ref.Path), logfields.Branch(branch))
	steps := []struct {
		op string
		fn func() error
	}{
		{"fetch", func() error { return s.vcs.Fetch(ctx, ref.Path) }},
		{"checkout", func() error { return s.vcs.Checkout(ctx, ref.Path, branch) }},
		{"pull", func() error { return s.vcs.Pull(ctx, ref.Path, branch) }},
	}
	for _, step := range steps {
		if serr := step.fn(); serr != nil {
			return classify(serr, step.op, ref)
		}
	}
	return nil
}
