// Package runner executes the external tools the deploy pipeline depends
// on (package manager, site generator). The pipeline only relies on the
// documented exit-status convention: zero means success.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
)

var (
	// ErrBinaryNotFound indicates the executable was not detected on PATH.
	ErrBinaryNotFound = errors.New("binary not found")
	// ErrExecutionFailed indicates the command returned a non-zero exit status.
	ErrExecutionFailed = errors.New("command execution failed")
)

// Command describes a single external invocation.
type Command struct {
	Name string
	Args []string
	Dir  string // working directory; empty means the process's own
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + fmt.Sprint(c.Args)
}

// Runner abstracts how external commands are executed. This allows swapping
// the real binaries (BinaryRunner) with a fake in tests without changing
// stage orchestration.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// BinaryRunner invokes executables present on PATH.
type BinaryRunner struct{}

func (b *BinaryRunner) Run(ctx context.Context, c Command) error {
	if _, err := exec.LookPath(c.Name); err != nil {
		return fmt.Errorf("%w: %w", ErrBinaryNotFound, err)
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	slog.Debug("Running command", "command", c.Name, "args", c.Args, "dir", c.Dir)

	err := cmd.Run()

	// Tool output is surfaced even on success; generators print useful
	// progress there.
	if out := stdout.String(); out != "" {
		slog.Debug("command stdout", "command", c.Name, "output", out)
	}
	if errOut := stderr.String(); errOut != "" {
		slog.Warn("command stderr", "command", c.Name, "error_output", errOut)
	}

	if err != nil {
		// Tools write errors to either stream; fold both into the message.
		output := stderr.String()
		if output == "" {
			output = stdout.String()
		} else if stdout.Len() > 0 {
			output = stdout.String() + "\n" + output
		}
		if output != "" {
			return fmt.Errorf("%w: %s: %w: %s", ErrExecutionFailed, c.Name, err, output)
		}
		return fmt.Errorf("%w: %s: %w", ErrExecutionFailed, c.Name, err)
	}
	return nil
}

// NoopRunner performs no execution; useful in tests.
type NoopRunner struct{}

func (n *NoopRunner) Run(_ context.Context, c Command) error {
	slog.Debug("NoopRunner skipping command", "command", c.Name)
	return nil
}
