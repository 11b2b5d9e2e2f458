package pipeline

import "git.home.luguber.info/inful/cryptogen/internal/metrics"

// Observer receives callbacks around stage execution and the run lifecycle.
type Observer interface {
	OnStageStart(stage StageName)
	OnStageComplete(outcome StageOutcome)
	OnRunComplete(report *Report)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnStageStart(StageName)       {}
func (NoopObserver) OnStageComplete(StageOutcome) {}
func (NoopObserver) OnRunComplete(*Report)        {}

// RecorderObserver adapts a metrics.Recorder into an Observer.
func RecorderObserver(rec metrics.Recorder) Observer {
	return recorderObserver{rec: rec}
}

type recorderObserver struct{ rec metrics.Recorder }

func (r recorderObserver) OnStageStart(StageName) {}

func (r recorderObserver) OnStageComplete(o StageOutcome) {
	if o.Result != ResultSkipped {
		r.rec.ObserveStageDuration(string(o.Stage), o.Duration)
	}
	r.rec.IncStageResult(string(o.Stage), metrics.ResultLabel(o.Result))
}

func (r recorderObserver) OnRunComplete(report *Report) {
	r.rec.ObserveRunDuration(report.Duration())
	r.rec.IncRunOutcome(string(report.State))
	for _, p := range report.Distribution.Projects {
		r.rec.AddFilesDistributed(p.Name, p.Files)
	}
}

// observers fans callbacks out in registration order.
type observers []Observer

func (obs observers) stageStart(s StageName) {
	for _, o := range obs {
		o.OnStageStart(s)
	}
}

func (obs observers) stageComplete(out StageOutcome) {
	for _, o := range obs {
		o.OnStageComplete(out)
	}
}

func (obs observers) runComplete(r *Report) {
	for _, o := range obs {
		o.OnRunComplete(r)
	}
}

