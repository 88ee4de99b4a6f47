// Package watch re-runs a render whenever a scene file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ha1tch/archdiag/pkg/logging"
)

// DefaultQuiet is the quiet period used by the CLI.
const DefaultQuiet = 200 * time.Millisecond

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename

// Run watches path and calls fn after each burst of changes has been quiet
// for the given period. Calls are sequential; an error from fn is logged and
// watching continues. Run returns when ctx is cancelled.
//
// The parent directory is watched rather than the file itself, so editors
// that save by renaming a temp file over the original are still seen.
func Run(ctx context.Context, path string, quiet time.Duration, fn func(context.Context) error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	logging.Info("watching scene", "path", abs)

	timer := time.NewTimer(quiet)
	timer.Stop()
	pending := 0

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Op.Has(relevantOps) {
				continue
			}
			pending++
			timer.Reset(quiet)

		case <-timer.C:
			logging.Debug("scene changed", "path", abs, "events", pending)
			pending = 0
			if err := fn(ctx); err != nil {
				logging.Error("re-render failed", "path", abs, "error", err)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logging.Error("watcher error", "error", err)
		}
	}
}
