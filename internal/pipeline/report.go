package pipeline

import (
	"time"

	"github.com/google/uuid"
)

// DeployOutcome is the typed enumeration of final deploy result states.
type DeployOutcome string

const (
	OutcomeSuccess  DeployOutcome = "success"
	OutcomeFailed   DeployOutcome = "failed"
	OutcomeCanceled DeployOutcome = "canceled"
)

// StageResult enumerates per-stage classification outcomes.
// Values mirror metrics result labels to simplify emission.
type StageResult string

const (
	StageResultSuccess  StageResult = "success"
	StageResultFatal    StageResult = "fatal"
	StageResultCanceled StageResult = "canceled"
)

// DeployReport captures high-level metrics about a deploy run.
type DeployReport struct {
	RunID            string
	Start            time.Time
	End              time.Time
	Outcome          DeployOutcome
	Errors           []error // fatal errors causing deploy abortion (at most one today)
	StageDurations   map[StageName]time.Duration
	StageResults     map[StageName]StageResult
	EntriesRelocated int // top-level output entries copied into the deployment root
}

func newDeployReport() *DeployReport {
	return &DeployReport{
		RunID:          uuid.NewString(),
		Start:          time.Now(),
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]StageResult),
	}
}

func (r *DeployReport) recordStageSuccess(stage StageName) {
	r.StageResults[stage] = StageResultSuccess
}

func (r *DeployReport) recordStageError(se *StageError) {
	r.Errors = append(r.Errors, se)
	switch se.Kind {
	case StageErrorCanceled:
		r.StageResults[se.Stage] = StageResultCanceled
	default:
		r.StageResults[se.Stage] = StageResultFatal
	}
}

// finalize stamps the end time and derives the overall outcome.
func (r *DeployReport) finalize() {
	r.End = time.Now()
	r.Outcome = OutcomeSuccess
	for _, res := range r.StageResults {
		switch res {
		case StageResultCanceled:
			r.Outcome = OutcomeCanceled
			return
		case StageResultFatal:
			r.Outcome = OutcomeFailed
			return
		}
	}
}

// FirstError returns the error that aborted the deploy, or nil.
func (r *DeployReport) FirstError() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[0]
}
