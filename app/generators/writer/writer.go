// Package writer persists rendered artifacts under an output directory.
package writer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jrazmi/crudgen/app/generators/orchestrator"
	"github.com/jrazmi/crudgen/sdk/logger"
)

// Config holds the writer settings.
type Config struct {
	OutputDir string
	Force     bool // overwrite existing files
	DryRun    bool // report what would be written without touching disk
}

// Result lists the files a Write call produced.
type Result struct {
	Written  []string
	Warnings []string
}

// ExistingFilesError reports target files that already exist when Force is
// not set. Nothing is written in that case.
type ExistingFilesError struct {
	Paths []string
}

func (e *ExistingFilesError) Error() string {
	return fmt.Sprintf("%d file(s) already exist (use --force to overwrite): %s",
		len(e.Paths), strings.Join(e.Paths, ", "))
}

// Writer writes artifacts to disk.
type Writer struct {
	log *logger.Logger
	cfg Config
}

// New constructs a Writer.
func New(log *logger.Logger, cfg Config) *Writer {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	return &Writer{log: log, cfg: cfg}
}

// Write checks every target before writing any of them, so a conflict leaves
// the output directory untouched.
func (w *Writer) Write(ctx context.Context, artifacts []orchestrator.Artifact) (*Result, error) {
	var (
		pending  []orchestrator.Artifact
		targets  []string
		existing []string
		seen     = make(map[string]string, len(artifacts))
	)

	for _, a := range artifacts {
		target, err := w.resolve(a.Path)
		if err != nil {
			return nil, err
		}

		// Entities sharing a support file render it identically; write it once.
		if prev, ok := seen[target]; ok {
			if prev != a.Content {
				return nil, fmt.Errorf("conflicting content for %s", target)
			}
			continue
		}
		seen[target] = a.Content

		pending = append(pending, a)
		targets = append(targets, target)
		if fileExists(target) {
			existing = append(existing, target)
		}
	}

	result := &Result{}
	if len(existing) > 0 {
		if !w.cfg.Force {
			return nil, &ExistingFilesError{Paths: existing}
		}
		for _, p := range existing {
			result.Warnings = append(result.Warnings, "overwrote "+p)
		}
	}

	for i, a := range pending {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		target := targets[i]
		if w.cfg.DryRun {
			w.log.DebugContext(ctx, "dry run", "kind", a.Kind, "path", target, "bytes", len(a.Content))
			result.Written = append(result.Written, target)
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return result, fmt.Errorf("create directory: %w", err)
		}
		if err := os.WriteFile(target, []byte(a.Content), 0o644); err != nil {
			return result, fmt.Errorf("write %s: %w", target, err)
		}

		w.log.DebugContext(ctx, "wrote artifact", "kind", a.Kind, "path", target, "bytes", len(a.Content))
		result.Written = append(result.Written, target)
	}

	return result, nil
}

// resolve joins an artifact path to the output directory and rejects paths
// that would escape it.
func (w *Writer) resolve(p string) (string, error) {
	if p == "" {
		return "", errors.New("artifact has an empty path")
	}
	if filepath.IsAbs(p) {
		return "", fmt.Errorf("artifact path %s must be relative", p)
	}

	clean := filepath.Clean(filepath.FromSlash(p))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("artifact path %s escapes the output directory", p)
	}
	return filepath.Join(w.cfg.OutputDir, clean), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
