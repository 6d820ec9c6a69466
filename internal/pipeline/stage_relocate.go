package pipeline

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/sitedeploy/internal/fsops"
)

// stageRelocate copies the generated output into the deployment root,
// replacing colliding entries wholesale. An absent output directory means
// the generator failed silently or produced nothing; it is the one
// locally-detected failure of the pipeline.
func stageRelocate(ctx context.Context, ds *DeployState) error {
	outputDir := ds.Config.Generator.OutputDir
	targetDir := ds.Config.Deploy.TargetDir
	slog.Info("Relocating site output", "output", outputDir, "target", targetDir)

	relocated, err := fsops.Relocate(outputDir, targetDir)
	ds.Report.EntriesRelocated = relocated
	if err != nil {
		if ctx.Err() != nil {
			return newCanceledStageError(StageRelocate, ctx.Err())
		}
		return newFatalStageError(StageRelocate, err)
	}

	slog.Info("Site output relocated", "entries", relocated)
	return nil
}
