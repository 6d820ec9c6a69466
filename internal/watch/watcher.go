// Package watch re-runs the deploy pipeline whenever watched source paths
// change, with optional scheduled redeploys.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
)

// DeployFunc executes one deploy pipeline run.
type DeployFunc func(ctx context.Context) error

// Options control the watch loop.
type Options struct {
	Paths       []string      // files or directories to watch; directories are watched recursively
	QuietWindow time.Duration // debounce quiet window
	Interval    time.Duration // >0 schedules periodic redeploys
}

// Run watches the configured paths and invokes deploy after each quiet
// window following a change. It blocks until ctx is done or the watcher
// fails. An initial deploy runs before watching starts so the served tree
// is never stale.
func Run(ctx context.Context, opts Options, deploy DeployFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := 0
	for _, p := range opts.Paths {
		n, err := addRecursive(watcher, p)
		if err != nil {
			return err
		}
		watched += n
	}
	if watched == 0 {
		return fmt.Errorf("none of the watch paths exist: %v", opts.Paths)
	}

	if err := deploy(ctx); err != nil {
		// Continuous mode keeps serving; surface and wait for a fix.
		slog.Error("Initial deploy failed", "error", err)
	}

	deb := NewDebouncer(opts.QuietWindow)
	go deb.Run(ctx, func() {
		if err := deploy(ctx); err != nil {
			slog.Error("Deploy failed", "error", err)
		}
	})

	var scheduler gocron.Scheduler
	if opts.Interval > 0 {
		scheduler, err = gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("create scheduler: %w", err)
		}
		_, err = scheduler.NewJob(
			gocron.DurationJob(opts.Interval),
			gocron.NewTask(deb.Trigger),
			gocron.WithName("scheduled-redeploy"),
		)
		if err != nil {
			return fmt.Errorf("schedule periodic redeploy: %w", err)
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				slog.Warn("Failed to shut down scheduler", "error", err)
			}
		}()
		slog.Info("Scheduled periodic redeploys", "interval", opts.Interval)
	}

	slog.Info("Watching for changes", "paths", opts.Paths, "quiet_window", opts.QuietWindow)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// New subdirectories must be watched too.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if _, err := addRecursive(watcher, event.Name); err != nil {
						slog.Warn("Failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}
			slog.Debug("Change detected", "path", event.Name, "op", event.Op.String())
			deb.Trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "error", err)
		}
	}
}

// addRecursive watches path, descending into directories. Missing paths are
// skipped so conventional defaults work in any repository layout.
// Returns the number of watches added.
func addRecursive(watcher *fsnotify.Watcher, path string) (int, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		slog.Debug("Watch path does not exist, skipping", "path", path)
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("stat watch path %s: %w", path, err)
	}

	if !info.IsDir() {
		if err := watcher.Add(path); err != nil {
			return 0, fmt.Errorf("watch %s: %w", path, err)
		}
		return 1, nil
	}

	added := 0
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := watcher.Add(p); err != nil {
				return fmt.Errorf("watch %s: %w", p, err)
			}
			added++
		}
		return nil
	})
	if err != nil {
		return added, err
	}
	return added, nil
}
