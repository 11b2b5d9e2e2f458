package commands

import (
	"context"

	"git.home.luguber.info/inful/cryptogen/internal/command"
	"git.home.luguber.info/inful/cryptogen/internal/config"
	"git.home.luguber.info/inful/cryptogen/internal/module"
	"git.home.luguber.info/inful/cryptogen/internal/pipeline"
	"git.home.luguber.info/inful/cryptogen/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Repository string `short:"r" help:"Use this crypto_v4 repository (must be a git checkout)"`
	IPName     string `short:"i" name:"ipname" required:"" help:"CAM IP to generate for (e.g. cam_aes)"`
	Mappings   string `help:"Project mapping table (YAML); defaults to the built-in table"`
}

func (w *WatchCmd) Run(ctx context.Context, globals *Globals, root *CLI) error {
	cfg, err := root.load(config.Overrides{Repository: w.Repository, Module: w.IPName, Mappings: w.Mappings})
	if err != nil {
		return err
	}
	if err := module.Validate(cfg.Repository.Path, cfg.Module); err != nil {
		return err
	}
	table, err := loadTable(cfg)
	if err != nil {
		return err
	}

	deps := pipeline.NewDeps(cfg, table, command.ExecRunner{})
	watcher := watch.New(watch.SourceDirs(cfg.Repository.Path, cfg.Module), cfg.Watch.Debounce, func(ctx context.Context) error {
		report := pipeline.New(cfg, deps).Run(ctx)
		renderReport(globals.Stdout, report)
		return report.Err
	})
	return watcher.Run(ctx)
}
