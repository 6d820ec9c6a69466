package pipeline

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/sitedeploy/internal/runner"
)

// stageGenerate invokes the static-site generator. The tool locates its own
// configuration file in the working directory and writes the generated tree
// into its conventional output directory.
func stageGenerate(ctx context.Context, ds *DeployState) error {
	gen := ds.Config.Generator
	slog.Info("Building site", "command", gen.Command, "output", gen.OutputDir)

	err := ds.Runner.Run(ctx, runner.Command{Name: gen.Command, Args: gen.Args})
	if err != nil {
		if ctx.Err() != nil {
			return newCanceledStageError(StageGenerate, ctx.Err())
		}
		return newFatalStageError(StageGenerate, err)
	}
	return nil
}
