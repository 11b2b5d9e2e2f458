// Package history keeps a SQLite ledger of pipeline runs.
package history

import (
	"time"

	"git.home.luguber.info/inful/cryptogen/internal/pipeline"
)

// StageTiming is the persisted form of a stage outcome.
type StageTiming struct {
	Stage      string `json:"stage"`
	Result     string `json:"result"`
	DurationMS int64  `json:"duration_ms"`
}

// Record is one run as stored in the ledger.
type Record struct {
	ID          int64
	RunID       string
	Module      string
	Branch      string
	Start       time.Time
	End         time.Time
	Outcome     string
	FailedStage string
	Error       string
	FilesCopied int
	Stages      []StageTiming
}

// FromReport converts a finished pipeline report into a Record.
func FromReport(r *pipeline.Report) Record {
	rec := Record{
		RunID:       r.RunID,
		Module:      r.Module.String(),
		Branch:      r.Branch,
		Start:       r.Start,
		End:         r.End,
		Outcome:     string(r.State),
		FilesCopied: r.FilesCopied(),
	}
	if stage, ok := r.FailedStage(); ok {
		rec.FailedStage = string(stage)
	}
	if r.Err != nil {
		rec.Error = r.Err.Error()
	}
	for _, s := range r.Stages {
		rec.Stages = append(rec.Stages, StageTiming{
			Stage:      string(s.Stage),
			Result:     string(s.Result),
			DurationMS: s.Duration.Milliseconds(),
		})
	}
	return rec
}
