package commands

import (
	"context"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/cryptogen/internal/command"
	"git.home.luguber.info/inful/cryptogen/internal/config"
	"git.home.luguber.info/inful/cryptogen/internal/history"
	"git.home.luguber.info/inful/cryptogen/internal/logfields"
	"git.home.luguber.info/inful/cryptogen/internal/metrics"
	"git.home.luguber.info/inful/cryptogen/internal/pipeline"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Repository  string `short:"r" help:"Use this crypto_v4 repository (must be a git checkout)"`
	Clone       bool   `short:"k" help:"Clone/update the repository before generating (-c in the legacy script; -c is now --config)"`
	URL         string `help:"Repository URL used when cloning"`
	Branch      string `short:"b" help:"Branch to check out when cloning/updating"`
	IPName      string `short:"i" name:"ipname" required:"" help:"CAM IP to generate for (e.g. cam_aes)"`
	Mappings    string `help:"Project mapping table (YAML); defaults to the built-in table"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics to this file after the run"`
	HistoryDB   string `name:"history-db" help:"Record the run in this SQLite database"`
	VCS         string `name:"vcs" help:"Repository backend: go-git or cli"`
}

func (g *GenerateCmd) Run(ctx context.Context, globals *Globals, root *CLI) error {
	cfg, err := root.load(config.Overrides{
		Repository:  g.Repository,
		Clone:       g.Clone,
		URL:         g.URL,
		Branch:      g.Branch,
		Module:      g.IPName,
		Mappings:    g.Mappings,
		MetricsFile: g.MetricsFile,
		HistoryDB:   g.HistoryDB,
		VCS:         g.VCS,
	})
	if err != nil {
		return err
	}
	table, err := loadTable(cfg)
	if err != nil {
		return err
	}

	var opts []pipeline.Option
	var rec *metrics.PrometheusRecorder
	if cfg.MetricsFile != "" {
		rec = metrics.NewPrometheusRecorder(prom.NewRegistry())
		opts = append(opts, pipeline.WithObserver(pipeline.RecorderObserver(rec)))
	}
	if cfg.HistoryDB != "" {
		store, err := history.Open(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, pipeline.WithObserver(history.NewObserver(store)))
	}

	report := pipeline.New(cfg, pipeline.NewDeps(cfg, table, command.ExecRunner{}), opts...).Run(ctx)

	if rec != nil {
		if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
			slog.Warn("failed to write metrics file", logfields.Path(cfg.MetricsFile), logfields.Error(err))
		}
	}
	renderReport(globals.Stdout, report)
	return report.Err
}
