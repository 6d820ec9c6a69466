package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitedeploy/internal/config"
	"git.home.luguber.info/inful/sitedeploy/internal/fsops"
	"git.home.luguber.info/inful/sitedeploy/internal/runner"
)

// fakeRunner records invocations and fails commands on demand.
type fakeRunner struct {
	calls   []string
	failOn  map[string]error
	onBuild func() // invoked when the generator command runs
}

func (f *fakeRunner) Run(_ context.Context, c runner.Command) error {
	f.calls = append(f.calls, c.Name)
	if f.onBuild != nil && c.Name == "mkdocs" {
		f.onBuild()
	}
	if err, ok := f.failOn[c.Name]; ok {
		return err
	}
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Generator.OutputDir = filepath.Join(t.TempDir(), "site")
	cfg.Deploy.TargetDir = t.TempDir()
	cfg.History.Enabled = new(bool) // disabled
	return cfg
}

func populateOutput(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "style.css"), []byte("body{}"), 0o644))
}

func TestDeploy_FullPipelineSuccess(t *testing.T) {
	cfg := testConfig(t)
	fr := &fakeRunner{onBuild: func() { populateOutput(t, cfg.Generator.OutputDir) }}

	report, err := NewDeployer(cfg).WithRunner(fr).Deploy(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"pip", "mkdocs"}, fr.calls)
	require.Equal(t, OutcomeSuccess, report.Outcome)
	require.Equal(t, 2, report.EntriesRelocated)
	require.Equal(t, StageResultSuccess, report.StageResults[StageInstall])
	require.Equal(t, StageResultSuccess, report.StageResults[StageGenerate])
	require.Equal(t, StageResultSuccess, report.StageResults[StageRelocate])
	require.NotEmpty(t, report.RunID)
	require.False(t, report.End.Before(report.Start))

	data, err := os.ReadFile(filepath.Join(cfg.Deploy.TargetDir, "index.html"))
	require.NoError(t, err)
	require.Equal(t, "<html></html>", string(data))
}

func TestDeploy_InstallFailureStopsPipeline(t *testing.T) {
	cfg := testConfig(t)
	fr := &fakeRunner{failOn: map[string]error{"pip": errors.New("exit status 1")}}

	report, err := NewDeployer(cfg).WithRunner(fr).Deploy(context.Background())
	require.Error(t, err)

	var se *StageError
	require.True(t, errors.As(err, &se))
	require.Equal(t, StageInstall, se.Stage)
	require.Equal(t, StageErrorFatal, se.Kind)

	// Neither the build nor the relocation may have run.
	require.Equal(t, []string{"pip"}, fr.calls)
	require.Equal(t, OutcomeFailed, report.Outcome)
	require.NotContains(t, report.StageResults, StageGenerate)
	require.NotContains(t, report.StageResults, StageRelocate)
}

func TestDeploy_BuildFailureStopsPipeline(t *testing.T) {
	cfg := testConfig(t)
	fr := &fakeRunner{failOn: map[string]error{"mkdocs": errors.New("exit status 2")}}

	report, err := NewDeployer(cfg).WithRunner(fr).Deploy(context.Background())
	require.Error(t, err)

	var se *StageError
	require.True(t, errors.As(err, &se))
	require.Equal(t, StageGenerate, se.Stage)

	require.Equal(t, []string{"pip", "mkdocs"}, fr.calls)
	require.Equal(t, OutcomeFailed, report.Outcome)
	require.NotContains(t, report.StageResults, StageRelocate)
	require.Zero(t, report.EntriesRelocated)
}

func TestDeploy_MissingOutputDirFailsRelocation(t *testing.T) {
	cfg := testConfig(t)
	// Generator "succeeds" but writes nothing.
	fr := &fakeRunner{}

	report, err := NewDeployer(cfg).WithRunner(fr).Deploy(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, fsops.ErrOutputMissing))

	var se *StageError
	require.True(t, errors.As(err, &se))
	require.Equal(t, StageRelocate, se.Stage)
	require.Equal(t, OutcomeFailed, report.Outcome)
}

func TestDeploy_CanceledBeforeStart(t *testing.T) {
	cfg := testConfig(t)
	fr := &fakeRunner{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewDeployer(cfg).WithRunner(fr).Deploy(ctx)
	require.Error(t, err)

	var se *StageError
	require.True(t, errors.As(err, &se))
	require.Equal(t, StageErrorCanceled, se.Kind)
	require.Empty(t, fr.calls)
	require.Equal(t, OutcomeCanceled, report.Outcome)
}

func TestRelocateOnly_SkipsExternalTools(t *testing.T) {
	cfg := testConfig(t)
	populateOutput(t, cfg.Generator.OutputDir)
	fr := &fakeRunner{}

	report, err := NewDeployer(cfg).WithRunner(fr).Relocate(context.Background())
	require.NoError(t, err)
	require.Empty(t, fr.calls)
	require.Equal(t, 2, report.EntriesRelocated)
}

func TestDeploy_StageDurationsRecorded(t *testing.T) {
	cfg := testConfig(t)
	fr := &fakeRunner{onBuild: func() { populateOutput(t, cfg.Generator.OutputDir) }}

	report, err := NewDeployer(cfg).WithRunner(fr).Deploy(context.Background())
	require.NoError(t, err)

	for _, stage := range []StageName{StageInstall, StageGenerate, StageRelocate} {
		_, ok := report.StageDurations[stage]
		require.True(t, ok, "missing duration for stage %s", stage)
	}
}
