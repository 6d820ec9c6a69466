package fsops

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrOutputMissing indicates the generator's output directory does not exist.
var ErrOutputMissing = errors.New("output directory not found")

// Relocate copies every top-level entry of outputDir into targetDir,
// replacing colliding entries destructively: an existing destination
// directory is removed wholesale before the copy, never merged. Downstream
// deployment tooling relies on each top-level entry being a clean
// replacement, so this must not be softened into a merge.
//
// Entries are processed independently; the first failure aborts the
// remaining entries and already-relocated entries are not rolled back.
// Returns the number of entries relocated.
func Relocate(outputDir, targetDir string) (int, error) {
	if _, err := os.Stat(outputDir); err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrOutputMissing, outputDir)
		}
		return 0, fmt.Errorf("stat output directory: %w", err)
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return 0, fmt.Errorf("read output directory: %w", err)
	}

	relocated := 0
	for _, entry := range entries {
		src := filepath.Join(outputDir, entry.Name())
		dst := filepath.Join(targetDir, entry.Name())

		if err := replaceEntry(src, dst, entry.IsDir()); err != nil {
			return relocated, fmt.Errorf("relocate %s: %w", entry.Name(), err)
		}
		relocated++
		slog.Debug("Relocated entry", "name", entry.Name(), "dir", entry.IsDir())
	}

	return relocated, nil
}

// replaceEntry removes any existing destination, then copies src to dst.
func replaceEntry(src, dst string, isDir bool) error {
	if info, err := os.Lstat(dst); err == nil {
		if info.IsDir() {
			if err := os.RemoveAll(dst); err != nil {
				return fmt.Errorf("remove existing directory: %w", err)
			}
		} else {
			if err := os.Remove(dst); err != nil {
				return fmt.Errorf("remove existing file: %w", err)
			}
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat destination: %w", err)
	}

	if isDir {
		return CopyDir(src, dst)
	}
	return CopyFile(src, dst)
}
