package pipeline

import (
	"time"

	"git.home.luguber.info/inful/sitedeploy/internal/metrics"
)

// DeployObserver receives callbacks around stage execution and deploy
// lifecycle. It abstracts away the metrics.Recorder so other observers
// (run history, notifications) can hook in without changing stage code.
type DeployObserver interface {
	OnDeployStart(report *DeployReport)
	OnStageStart(stage StageName)
	OnStageComplete(stage StageName, duration time.Duration, result StageResult)
	OnDeployComplete(report *DeployReport)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnDeployStart(*DeployReport)                           {}
func (NoopObserver) OnStageStart(StageName)                                {}
func (NoopObserver) OnStageComplete(StageName, time.Duration, StageResult) {}
func (NoopObserver) OnDeployComplete(*DeployReport)                        {}

// recorderObserver adapts metrics.Recorder into a DeployObserver.
type recorderObserver struct{ rec metrics.Recorder }

func (r recorderObserver) OnDeployStart(*DeployReport) {}
func (r recorderObserver) OnStageStart(StageName)      {}
func (r recorderObserver) OnStageComplete(stage StageName, d time.Duration, res StageResult) {
	if r.rec != nil {
		r.rec.ObserveStageDuration(string(stage), d)
		r.rec.IncStageResult(string(stage), metrics.ResultLabel(res))
	}
}
func (r recorderObserver) OnDeployComplete(report *DeployReport) {
	if r.rec != nil {
		r.rec.ObserveDeployDuration(report.End.Sub(report.Start))
		r.rec.IncDeployOutcome(string(report.Outcome))
		r.rec.IncEntriesRelocated(report.EntriesRelocated)
	}
}

// multiObserver fans out callbacks to several observers.
type multiObserver []DeployObserver

func (m multiObserver) OnDeployStart(report *DeployReport) {
	for _, o := range m {
		o.OnDeployStart(report)
	}
}

func (m multiObserver) OnStageStart(stage StageName) {
	for _, o := range m {
		o.OnStageStart(stage)
	}
}

func (m multiObserver) OnStageComplete(stage StageName, d time.Duration, res StageResult) {
	for _, o := range m {
		o.OnStageComplete(stage, d, res)
	}
}

func (m multiObserver) OnDeployComplete(report *DeployReport) {
	for _, o := range m {
		o.OnDeployComplete(report)
	}
}
