package git

import (
	"strings"

	"git.home.luguber.info/inful/cryptogen/internal/foundation/errors"
)

// classify wraps a backend failure as a RepositoryAccessError. A coarse reason hint is
// attached so the CLI diagnostic can say more than "git failed".
func classify(err error, op string, ref Reference) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsClassified(err); ok {
		return err
	}

	b := errors.RepositoryAccessError(op+" failed").
		WithCause(err).
		WithContext("op", op).
		WithContext("path", ref.Path)
	if ref.URL != "" {
		b.WithContext("url", ref.URL)
	}
	if ref.Branch != "" {
		b.WithContext("branch", ref.Branch)
	}

	l := strings.ToLower(err.Error())
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "authorization") || strings.Contains(l, "could not read username"):
		b.WithContext("reason", "auth")
	case strings.Contains(l, "repository not found") || strings.Contains(l, "does not exist"):
		b.WithContext("reason", "not_found")
	case strings.Contains(l, "reference not found") || strings.Contains(l, "did not match any"):
		b.WithContext("reason", "unknown_branch")
	case strings.Contains(l, "connection reset") || strings.Contains(l, "no route to host") || strings.Contains(l, "timeout"):
		b.WithContext("reason", "network")
	case strings.Contains(l, "diverged") || strings.Contains(l, "non-fast-forward"):
		b.WithContext("reason", "diverged")
	}
	return b.Build()
}
