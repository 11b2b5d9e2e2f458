package distribute

import (
	"log/slog"
	"os"

	"git.home.luguber.info/inful/cryptogen/internal/foundation/errors"
	"git.home.luguber.info/inful/cryptogen/internal/fsutil"
	"git.home.luguber.info/inful/cryptogen/internal/logfields"
	"git.home.luguber.info/inful/cryptogen/internal/mapping"
	"git.home.luguber.info/inful/cryptogen/internal/module"
)

// ProjectResult is the number of files delivered to one project.
type ProjectResult struct {
	Name   string
	Target string
	Files  int
}

// Summary records per-project results in table order. On failure it holds the
// projects that completed before the failing one.
type Summary struct {
	Projects []ProjectResult
}

// Total is the number of files copied across all projects.
func (s Summary) Total() int {
	n := 0
	for _, p := range s.Projects {
		n += p.Files
	}
	return n
}

// Distributor copies generated artifacts to project targets.
type Distributor struct {
	copyFile func(src, dir string) (string, error)
}

// NewDistributor returns a Distributor that copies with fsutil.
func NewDistributor() *Distributor {
	return &Distributor{copyFile: fsutil.CopyInto}
}

// Distribute copies every project's artifacts in table order and stops at the first
// missing file or copy failure. Files already delivered stay in place.
func (d *Distributor) Distribute(outputRoot string, id module.ID, table *mapping.Table) (Summary, error) {
	var sum Summary
	value, err := id.Value()
	if err != nil {
		return sum, errors.InternalError("module value unavailable for distribution").
			WithCause(err).
			WithContext("module", string(id)).
			Build()
	}

	for _, p := range table.Projects {
		n, err := d.project(outputRoot, id, value, p)
		if err != nil {
			return sum, err
		}
		sum.Projects = append(sum.Projects, ProjectResult{Name: p.Name, Target: p.Target, Files: n})
		slog.Info("Distributed generated files", logfields.Project(p.Name), logfields.Path(p.Target), logfields.Count(n))
	}
	return sum, nil
}

func (d *Distributor) project(outputRoot string, id module.ID, value string, p mapping.Project) (int, error) {
	if err := fsutil.EnsureDirs(TargetsFor(p.Target).Dirs()...); err != nil {
		return 0, errors.DistributionIOError("create project directories").
			WithCause(err).
			WithContext("project", p.Name).
			WithContext("path", p.Target).
			Build()
	}

	copied := 0
	for _, a := range Plan(outputRoot, id, value, p) {
		if _, err := os.Stat(a.Source); err != nil {
			return copied, errors.DistributionIOError("generated file missing").
				WithCause(err).
				WithContext("project", p.Name).
				WithContext("path", a.Source).
				Build()
		}
		dst, err := d.copyFile(a.Source, a.DestDir)
		if err != nil {
			return copied, errors.DistributionIOError("copy generated file").
				WithCause(err).
				WithContext("project", p.Name).
				WithContext("path", a.Source).
				Build()
		}
		slog.Debug("Copied", logfields.Path(dst))
		copied++
	}
	return copied, nil
}
