package pipeline

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/sitedeploy/internal/config"
	"git.home.luguber.info/inful/sitedeploy/internal/metrics"
	"git.home.luguber.info/inful/sitedeploy/internal/runner"
)

// Deployer executes deploy pipelines against a configuration.
type Deployer struct {
	cfg       *config.Config
	runner    runner.Runner
	observers multiObserver
}

// NewDeployer creates a Deployer that invokes the real external binaries.
func NewDeployer(cfg *config.Config) *Deployer {
	return &Deployer{
		cfg:    cfg,
		runner: &runner.BinaryRunner{},
	}
}

// WithRunner allows tests or callers to inject a custom runner.
func (d *Deployer) WithRunner(r runner.Runner) *Deployer {
	if r != nil {
		d.runner = r
	}
	return d
}

// WithRecorder attaches a metrics recorder to the deploy lifecycle.
func (d *Deployer) WithRecorder(rec metrics.Recorder) *Deployer {
	if rec != nil {
		d.observers = append(d.observers, recorderObserver{rec: rec})
	}
	return d
}

// WithObserver attaches an additional lifecycle observer (e.g. run history).
func (d *Deployer) WithObserver(o DeployObserver) *Deployer {
	if o != nil {
		d.observers = append(d.observers, o)
	}
	return d
}

// deployStages is the canonical full pipeline, strictly ordered.
func deployStages() []StageDef {
	return []StageDef{
		{Name: StageInstall, Fn: stageInstall},
		{Name: StageGenerate, Fn: stageGenerate},
		{Name: StageRelocate, Fn: stageRelocate},
	}
}

// Deploy runs the full install, generate, relocate pipeline. The returned
// report is always non-nil, even on failure.
func (d *Deployer) Deploy(ctx context.Context) (*DeployReport, error) {
	return d.run(ctx, deployStages())
}

// Install runs only the dependency-install stage.
func (d *Deployer) Install(ctx context.Context) (*DeployReport, error) {
	return d.run(ctx, []StageDef{{Name: StageInstall, Fn: stageInstall}})
}

// Generate runs only the site-builder stage.
func (d *Deployer) Generate(ctx context.Context) (*DeployReport, error) {
	return d.run(ctx, []StageDef{{Name: StageGenerate, Fn: stageGenerate}})
}

// Relocate runs only the output-relocation stage.
func (d *Deployer) Relocate(ctx context.Context) (*DeployReport, error) {
	return d.run(ctx, []StageDef{{Name: StageRelocate, Fn: stageRelocate}})
}

func (d *Deployer) run(ctx context.Context, stages []StageDef) (*DeployReport, error) {
	report := newDeployReport()
	ds := newDeployState(d.cfg, d.runner, report)

	var observer DeployObserver = d.observers
	if len(d.observers) == 0 {
		observer = NoopObserver{}
	}

	observer.OnDeployStart(report)
	err := runStages(ctx, ds, observer, stages)
	report.finalize()
	observer.OnDeployComplete(report)

	if err != nil {
		return report, err
	}
	slog.Info("Deploy completed successfully", "run_id", report.RunID, "duration", report.End.Sub(report.Start))
	return report, nil
}
