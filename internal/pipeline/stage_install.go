package pipeline

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/sitedeploy/internal/runner"
)

// stageInstall runs the package manager against the dependency manifest.
// The manifest itself is not pre-validated: the external tool reports a
// missing or unresolvable manifest through its exit status.
func stageInstall(ctx context.Context, ds *DeployState) error {
	inst := ds.Config.Installer
	slog.Info("Installing dependencies", "command", inst.Command, "manifest", inst.Manifest)

	err := ds.Runner.Run(ctx, runner.Command{Name: inst.Command, Args: inst.Args})
	if err != nil {
		if ctx.Err() != nil {
			return newCanceledStageError(StageInstall, ctx.Err())
		}
		return newFatalStageError(StageInstall, err)
	}
	return nil
}
