package pipeline

import (
	"time"

	"git.home.luguber.info/inful/cryptogen/internal/distribute"
	"git.home.luguber.info/inful/cryptogen/internal/module"
)

// State is the pipeline state machine position. Failed is absorbing.
type State string

const (
	StateStart      State = "start"
	StateClone      State = "clone"
	StateValidate   State = "validate"
	StateStage      State = "stage"
	StateGenerate   State = "generate"
	StateDistribute State = "distribute"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Report describes a finished (or in-progress) run.
type Report struct {
	RunID  string
	Module module.ID
	Branch string
	Start  time.Time
	End    time.Time
	Stages []StageOutcome
	State  State
	// Err is the error that ended the run; nil when State is StateDone.
	Err          error
	Distribution distribute.Summary
}

// Succeeded reports whether the run reached StateDone.
func (r *Report) Succeeded() bool { return r.State == StateDone }

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

// FailedStage returns the stage that ended the run, if any.
func (r *Report) FailedStage() (StageName, bool) {
	for _, o := range r.Stages {
		if o.Result == ResultFatal {
			return o.Stage, true
		}
	}
	return "", false
}

// Outcome returns the recorded outcome for stage.
func (r *Report) Outcome(stage StageName) (StageOutcome, bool) {
	for _, o := range r.Stages {
		if o.Stage == stage {
			return o, true
		}
	}
	return StageOutcome{}, false
}

// FilesCopied is the number of files delivered to downstream projects.
func (r *Report) FilesCopied() int { return r.Distribution.Total() }
