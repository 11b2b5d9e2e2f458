package pipeline

import (
	"git.home.luguber.info/inful/cryptogen/internal/command"
	"git.home.luguber.info/inful/cryptogen/internal/config"
	"git.home.luguber.info/inful/cryptogen/internal/distribute"
	"git.home.luguber.info/inful/cryptogen/internal/generator"
	"git.home.luguber.info/inful/cryptogen/internal/git"
	"git.home.luguber.info/inful/cryptogen/internal/mapping"
	"git.home.luguber.info/inful/cryptogen/internal/workspace"
)

// Deps are the collaborators a run drives.
type Deps struct {
	Source      *git.Source
	Stager      *workspace.Stager
	Invoker     *generator.Invoker
	Distributor *distribute.Distributor
	Table       *mapping.Table
}

// NewDeps wires the production collaborators for cfg. runner executes git (for the cli
// backend) and the generation engine.
func NewDeps(cfg *config.Config, table *mapping.Table, runner command.Runner) Deps {
	var vcs git.VCS = git.NewGoGitClient(cfg.Credentials())
	if cfg.Repository.VCS == config.VCSCLI {
		vcs = git.NewCLIClient(runner)
	}
	return Deps{
		Source:      git.NewSource(vcs),
		Stager:      workspace.NewStager(),
		Invoker:     generator.NewInvoker(&generator.FMPPEngine{Binary: cfg.Engine.Binary, Runner: runner}),
		Distributor: distribute.NewDistributor(),
		Table:       table,
	}
}
