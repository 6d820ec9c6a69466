package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitedeploy/internal/metrics"
	"git.home.luguber.info/inful/sitedeploy/internal/watch"
)

// WatchCmd implements the 'watch' command: continuous redeploys driven by
// filesystem changes, with optional periodic redeploys and a metrics endpoint.
type WatchCmd struct {
	Interval    string `help:"Periodic redeploy interval (e.g. 30m); overrides config"`
	MetricsAddr string `name:"metrics-addr" help:"Serve Prometheus metrics on this address (e.g. :9090); overrides config"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	deployer, cfg, closeStore, err := newDeployer(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	defer closeStore()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	metricsAddr := cfg.Watch.MetricsAddr
	if w.MetricsAddr != "" {
		metricsAddr = w.MetricsAddr
	}
	if metricsAddr != "" {
		reg := prom.NewRegistry()
		deployer.WithRecorder(metrics.NewPrometheusRecorder(reg))
		startMetricsServer(ctx, metricsAddr, reg)
	}

	interval := cfg.Watch.IntervalDuration()
	if w.Interval != "" {
		d, err := time.ParseDuration(w.Interval)
		if err != nil {
			return fmt.Errorf("invalid --interval value: %w", err)
		}
		interval = d
	}

	opts := watch.Options{
		Paths:       cfg.Watch.Paths,
		QuietWindow: cfg.Watch.QuietWindowDuration(),
		Interval:    interval,
	}

	return watch.Run(ctx, opts, func(ctx context.Context) error {
		_, err := deployer.Deploy(ctx)
		return err
	})
}

func startMetricsServer(ctx context.Context, addr string, reg *prom.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		slog.Info("Serving metrics", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
}
