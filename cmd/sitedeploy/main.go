package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitedeploy/cmd/sitedeploy/commands"
	"git.home.luguber.info/inful/sitedeploy/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("sitedeploy"),
		kong.Description("Install dependencies, build the static site and relocate its output into the deployment root."),
		kong.UsageOnError(),
		kong.Vars{
			"version": fmt.Sprintf("sitedeploy %s (commit %s, built %s)",
				version.Version, version.GitCommit, version.BuildTime),
		},
	)

	if err := ctx.Run(&commands.Global{Logger: slog.Default()}, &cli); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
