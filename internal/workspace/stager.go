package workspace

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/cryptogen/internal/foundation/errors"
	"git.home.luguber.info/inful/cryptogen/internal/fsutil"
	"git.home.luguber.info/inful/cryptogen/internal/logfields"
	"git.home.luguber.info/inful/cryptogen/internal/module"
)

// CopyGroup is one generation input group: a source subtree and its staged location.
type CopyGroup struct {
	Name string
	Src  string
	Dst  string
}

// Groups returns the three input groups in their fixed copy order.
func Groups(repoPath string, id module.ID, l Layout) []CopyGroup {
	return []CopyGroup{
		{Name: "module", Src: id.SourceDir(repoPath), Dst: l.Module},
		{Name: "common", Src: filepath.Join(repoPath, module.CommonDir), Dst: l.Common},
		{Name: "templates", Src: filepath.Join(repoPath, module.TemplatesDir), Dst: l.Templates},
	}
}

// Stager copies generation inputs from the source repository into the workspace.
type Stager struct {
	copyDir func(src, dst string) error
}

// NewStager returns a Stager using recursive filesystem copies.
func NewStager() *Stager {
	return &Stager{copyDir: fsutil.CopyDir}
}

// Stage creates the skeleton, then replaces each staged input group with a fresh copy.
// The first failing group stops staging; groups copied before it are kept.
func (s *Stager) Stage(repoPath string, id module.ID, l Layout) error {
	if err := l.Create(); err != nil {
		return err
	}
	slog.Info("Copying source FTL files", logfields.Module(id.String()))
	for _, g := range Groups(repoPath, id, l) {
		if err := s.replace(g); err != nil {
			return err
		}
	}
	return nil
}

func (s *Stager) replace(g CopyGroup) error {
	info, err := os.Stat(g.Src)
	if err != nil || !info.IsDir() {
		b := errors.StagingIOError("could not locate source FTL files").
			WithContext("group", g.Name).
			WithContext("path", g.Src)
		if err != nil {
			b.WithCause(err)
		}
		return b.Build()
	}
	if err := os.RemoveAll(g.Dst); err != nil {
		return errors.StagingIOError("failed to remove stale staged copy").
			WithCause(err).
			WithContext("group", g.Name).
			WithContext("path", g.Dst).
			Build()
	}
	slog.Info("Staging input group", slog.String("group", g.Name), slog.String("from", g.Src), slog.String("to", g.Dst))
	if err := s.copyDir(g.Src, g.Dst); err != nil {
		return errors.StagingIOError("failed to copy files").
			WithCause(err).
			WithContext("group", g.Name).
			WithContext("from", g.Src).
			WithContext("to", g.Dst).
			Build()
	}
	return nil
}
