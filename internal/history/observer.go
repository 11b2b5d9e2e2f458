package history

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/cryptogen/internal/logfields"
	"git.home.luguber.info/inful/cryptogen/internal/pipeline"
)

// Observer appends every finished run to a store. A ledger write failure is logged
// and never changes the run's outcome.
type Observer struct {
	pipeline.NoopObserver
	store *SQLiteStore
}

// NewObserver returns an Observer writing to store.
func NewObserver(store *SQLiteStore) *Observer {
	return &Observer{store: store}
}

func (o *Observer) OnRunComplete(r *pipeline.Report) {
	if err := o.store.Append(context.Background(), FromReport(r)); err != nil {
		slog.Warn("failed to record run history", logfields.RunID(r.RunID), logfields.Error(err))
	}
}
