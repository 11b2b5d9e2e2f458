package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/cryptogen/internal/config"
	"git.home.luguber.info/inful/cryptogen/internal/foundation/errors"
	"git.home.luguber.info/inful/cryptogen/internal/logfields"
	"git.home.luguber.info/inful/cryptogen/internal/module"
	"git.home.luguber.info/inful/cryptogen/internal/workspace"
)

// Run is the mutable state of one pipeline execution handed to each stage.
type Run struct {
	Config *config.Config
	Layout workspace.Layout
	Report *Report
	Logger *slog.Logger
}

// Orchestrator sequences the stages of a run.
type Orchestrator struct {
	cfg       *config.Config
	deps      Deps
	observers observers
	newID     func() string
	now       func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithObserver registers an observer; observers are called in registration order.
func WithObserver(o Observer) Option {
	return func(orch *Orchestrator) { orch.observers = append(orch.observers, o) }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(orch *Orchestrator) { orch.now = now }
}

// New returns an Orchestrator for cfg. cfg is not modified.
func New(cfg *config.Config, deps Deps, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:   cfg,
		deps:  deps,
		newID: func() string { return uuid.NewString() },
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Stages returns the ordered stage list for this configuration. The clone stage is
// only present when cloning was requested.
func (o *Orchestrator) Stages() []StageDef {
	var stages []StageDef
	if o.cfg.Clone {
		stages = append(stages, StageDef{Name: StageClone, Fn: o.clone})
	}
	return append(stages,
		StageDef{Name: StageValidate, Fn: o.validate},
		StageDef{Name: StageStage, Fn: o.stage},
		StageDef{Name: StageGenerate, Fn: o.generate},
		StageDef{Name: StageDistribute, Fn: o.distribute},
	)
}

// Run executes every stage in order and stops at the first failure. Stages after a
// failure are recorded as skipped. The returned report is never nil.
func (o *Orchestrator) Run(ctx context.Context) *Report {
	report := &Report{
		RunID:  o.newID(),
		Module: o.cfg.Module,
		Branch: o.cfg.Repository.Branch,
		Start:  o.now(),
		State:  StateStart,
	}
	run := &Run{
		Config: o.cfg,
		Layout: o.cfg.Layout(),
		Report: report,
		Logger: slog.With(logfields.RunID(report.RunID), logfields.Module(o.cfg.Module.String())),
	}
	run.Logger.Info("Starting generation run", logfields.Path(o.cfg.Repository.Path))

	stages := o.Stages()
	for i, st := range stages {
		report.State = State(st.Name)
		if err := ctx.Err(); err != nil {
			o.fail(run, st.Name, 0, errors.InternalError("run canceled").WithCause(err).Build())
			o.skip(run, stages[i+1:])
			break
		}

		o.observers.stageStart(st.Name)
		t0 := o.now()
		err := st.Fn(ctx, run)
		dur := o.now().Sub(t0)

		if err != nil {
			o.fail(run, st.Name, dur, err)
			o.skip(run, stages[i+1:])
			break
		}
		out := StageOutcome{Stage: st.Name, Result: ResultSuccess, Duration: dur}
		report.Stages = append(report.Stages, out)
		o.observers.stageComplete(out)
		run.Logger.Debug("Stage complete", logfields.Stage(string(st.Name)), logfields.DurationMS(float64(dur.Microseconds())/1000))
	}

	if report.Err == nil {
		report.State = StateDone
	}
	report.End = o.now()
	o.observers.runComplete(report)

	if report.Succeeded() {
		run.Logger.Info("Generation run complete",
			logfields.Count(report.FilesCopied()),
			logfields.DurationMS(float64(report.Duration().Milliseconds())))
	} else {
		failed, _ := report.FailedStage()
		run.Logger.Error("Generation run failed", logfields.Stage(string(failed)), logfields.Error(report.Err))
	}
	return report
}

func (o *Orchestrator) fail(run *Run, stage StageName, dur time.Duration, err error) {
	if ce, ok := errors.AsClassified(err); ok {
		err = ce.WithContext("stage", string(stage))
	}
	out := StageOutcome{Stage: stage, Result: ResultFatal, Duration: dur, Err: err}
	run.Report.Stages = append(run.Report.Stages, out)
	run.Report.Err = err
	run.Report.State = StateFailed
	o.observers.stageComplete(out)
}

func (o *Orchestrator) skip(run *Run, rest []StageDef) {
	for _, st := range rest {
		out := StageOutcome{Stage: st.Name, Result: ResultSkipped}
		run.Report.Stages = append(run.Report.Stages, out)
		o.observers.stageComplete(out)
	}
}

func (o *Orchestrator) clone(ctx context.Context, r *Run) error {
	return o.deps.Source.Ensure(ctx, r.Config.Reference(), true, r.Config.Repository.Branch)
}

func (o *Orchestrator) validate(_ context.Context, r *Run) error {
	return module.Validate(r.Config.Repository.Path, r.Config.Module)
}

func (o *Orchestrator) stage(_ context.Context, r *Run) error {
	return o.deps.Stager.Stage(r.Config.Repository.Path, r.Config.Module, r.Layout)
}

func (o *Orchestrator) generate(ctx context.Context, r *Run) error {
	return o.deps.Invoker.Generate(ctx, r.Config.Engine.Config, r.Layout.Input, r.Layout.Output)
}

func (o *Orchestrator) distribute(_ context.Context, r *Run) error {
	sum, err := o.deps.Distributor.Distribute(r.Layout.Output, r.Config.Module, o.deps.Table)
	r.Report.Distribution = sum
	return err
}
