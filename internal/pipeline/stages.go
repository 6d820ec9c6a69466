// Package pipeline orchestrates the three-stage deploy: install declared
// dependencies, run the site generator, relocate the generated output into
// the deployment root. Stages execute strictly in sequence and the first
// error aborts the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.home.luguber.info/inful/sitedeploy/internal/config"
	"git.home.luguber.info/inful/sitedeploy/internal/runner"
)

// StageName is a strongly-typed identifier for a deploy stage. All canonical
// stages are declared as constants here for compile-time safety.
type StageName string

// Canonical stage names.
const (
	StageInstall  StageName = "install"
	StageGenerate StageName = "generate"
	StageRelocate StageName = "relocate"
)

// Stage is a discrete unit of work in the deploy.
type Stage func(ctx context.Context, ds *DeployState) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Deploy must abort.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}
func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// DeployState carries mutable state across stages.
type DeployState struct {
	Config *config.Config
	Runner runner.Runner
	Report *DeployReport
}

func newDeployState(cfg *config.Config, r runner.Runner, report *DeployReport) *DeployState {
	return &DeployState{
		Config: cfg,
		Runner: r,
		Report: report,
	}
}

// runStages executes stages in order, recording timing and stopping on the
// first error. Cancellation is checked between stages; a running subprocess
// is interrupted through its own context.
func runStages(ctx context.Context, ds *DeployState, observer DeployObserver, stages []StageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.Name, ctx.Err())
			ds.Report.recordStageError(se)
			return se
		default:
		}

		observer.OnStageStart(st.Name)
		t0 := time.Now()
		err := st.Fn(ctx, ds)
		dur := time.Since(t0)
		ds.Report.StageDurations[st.Name] = dur

		if err != nil {
			var se *StageError
			if !errors.As(err, &se) {
				// Wrap unknown errors as fatal by default.
				se = newFatalStageError(st.Name, err)
			}
			ds.Report.recordStageError(se)
			observer.OnStageComplete(st.Name, dur, StageResult(se.Kind))
			return se
		}

		ds.Report.recordStageSuccess(st.Name)
		observer.OnStageComplete(st.Name, dur, StageResultSuccess)
	}
	return nil
}
