package commands

import (
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitedeploy/internal/config"
	"git.home.luguber.info/inful/sitedeploy/internal/history"
	"git.home.luguber.info/inful/sitedeploy/internal/pipeline"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags. Deploy is the default command so the bare
// `sitedeploy` invocation runs the full pipeline with conventional defaults.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"sitedeploy.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Deploy   DeployCmd   `cmd:"" default:"withargs" help:"Install dependencies, build the site and relocate output into the deployment root"`
	Install  InstallCmd  `cmd:"" help:"Install declared dependencies only"`
	Build    BuildCmd    `cmd:"" help:"Run the site generator only"`
	Relocate RelocateCmd `cmd:"" help:"Relocate generated output into the deployment root only"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
	Watch    WatchCmd    `cmd:"" help:"Redeploy continuously on source changes"`
	History  HistoryCmd  `cmd:"" help:"Show recent deploy runs"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := parseLogLevel(c.Verbose)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel handles both the verbose flag and SITEDEPLOY_LOG_LEVEL.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(os.Getenv("SITEDEPLOY_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newDeployer loads configuration and wires a Deployer with the run store
// attached when history is enabled. The returned closer releases the store.
func newDeployer(configPath string) (*pipeline.Deployer, *config.Config, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	deployer := pipeline.NewDeployer(cfg)
	closer := func() {}

	if cfg.HistoryEnabled() {
		store, err := history.NewStore(cfg.History.Path)
		if err != nil {
			// History is best-effort; a broken store must not block deploys.
			slog.Warn("Run history unavailable", "path", cfg.History.Path, "error", err)
		} else {
			deployer.WithObserver(pipeline.NewHistoryObserver(store))
			closer = func() {
				if err := store.Close(); err != nil {
					slog.Warn("Failed to close run store", "error", err)
				}
			}
		}
	}

	return deployer, cfg, closer, nil
}
