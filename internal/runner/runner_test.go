package runner

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test relies on POSIX shell utilities")
	}
}

func TestBinaryRunner_Success(t *testing.T) {
	skipOnWindows(t)

	r := &BinaryRunner{}
	if err := r.Run(context.Background(), Command{Name: "true"}); err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
}

func TestBinaryRunner_NonZeroExit(t *testing.T) {
	skipOnWindows(t)

	r := &BinaryRunner{}
	err := r.Run(context.Background(), Command{Name: "false"})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if !errors.Is(err, ErrExecutionFailed) {
		t.Fatalf("expected ErrExecutionFailed, got: %v", err)
	}
}

func TestBinaryRunner_OutputFoldedIntoError(t *testing.T) {
	skipOnWindows(t)

	r := &BinaryRunner{}
	err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo boom >&2; exit 3"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); !strings.Contains(got, "boom") {
		t.Fatalf("expected stderr folded into error, got: %q", got)
	}
}

func TestBinaryRunner_BinaryNotFound(t *testing.T) {
	r := &BinaryRunner{}
	err := r.Run(context.Background(), Command{Name: "definitely-not-a-real-binary-name"})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !errors.Is(err, ErrBinaryNotFound) {
		t.Fatalf("expected ErrBinaryNotFound, got: %v", err)
	}
}

func TestBinaryRunner_WorkingDirectory(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	r := &BinaryRunner{}
	// pwd inside the configured dir must succeed; a bogus dir must not.
	if err := r.Run(context.Background(), Command{Name: "pwd", Dir: dir}); err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
}
