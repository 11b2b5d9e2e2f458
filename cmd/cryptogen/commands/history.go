package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"git.home.luguber.info/inful/cryptogen/internal/config"
	"git.home.luguber.info/inful/cryptogen/internal/foundation/errors"
	"git.home.luguber.info/inful/cryptogen/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	DB    string `name:"db" help:"Run history database (defaults to history_db from the config file)"`
	Limit int    `short:"n" default:"10" help:"Number of runs to show (0 for all)"`
}

func (h *HistoryCmd) Run(ctx context.Context, globals *Globals, root *CLI) error {
	cfg, err := root.load(config.Overrides{HistoryDB: h.DB})
	if err != nil {
		return err
	}
	if cfg.HistoryDB == "" {
		return errors.ArgumentError("no history database given (use --db or history_db)").Build()
	}
	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return errors.ConfigError("cannot open history database").WithCause(err).WithContext("path", cfg.HistoryDB).Build()
	}
	defer store.Close()

	recs, err := store.Recent(ctx, h.Limit)
	if err != nil {
		return errors.InternalError("read run history").WithCause(err).Build()
	}
	if len(recs) == 0 {
		_, _ = fmt.Fprintln(globals.Stdout, "No runs recorded.")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(valueStyle).
		Headers("STARTED", "MODULE", "BRANCH", "OUTCOME", "FAILED STAGE", "FILES", "DURATION").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return labelStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, r := range recs {
		t.Row(
			r.Start.Local().Format(time.DateTime),
			r.Module,
			r.Branch,
			r.Outcome,
			r.FailedStage,
			strconv.Itoa(r.FilesCopied),
			r.End.Sub(r.Start).Round(time.Millisecond).String(),
		)
	}
	_, _ = fmt.Fprintln(globals.Stdout, t.Render())
	return nil
}
