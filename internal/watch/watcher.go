// Package watch re-runs the merge whenever new input workbooks land in the
// input directory.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"mastermerge/internal/logger"
)

// RunFunc performs one merge run.
type RunFunc func(ctx context.Context) error

type Config struct {
	Directory string
	Extension string
	Markers   []string
	Debounce  time.Duration
}

// Watcher batches file events in one directory and triggers a run once
// the directory has been quiet for the debounce interval.
type Watcher struct {
	cfg     Config
	run     RunFunc
	watcher *fsnotify.Watcher
	runs    int
}

func New(cfg Config, run RunFunc) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 2 * time.Second
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}

	return &Watcher{cfg: cfg, run: run, watcher: fsw}, nil
}

// Start watches the directory until ctx is cancelled. Runs execute on the
// watch loop, so they never overlap.
func (w *Watcher) Start(ctx context.Context) error {
	absDir, err := filepath.Abs(w.cfg.Directory)
	if err != nil {
		w.watcher.Close()
		return fmt.Errorf("could not resolve %s: %w", w.cfg.Directory, err)
	}
	if err := w.watcher.Add(absDir); err != nil {
		w.watcher.Close()
		return fmt.Errorf("could not watch %s: %w", absDir, err)
	}

	logger.Info("Watching input directory", "directory", absDir, "debounce", w.cfg.Debounce)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("Stopping watcher", "runs", w.runs)
			return w.watcher.Close()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("Input change detected", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
			} else {
				timer.Reset(w.cfg.Debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error", "error", err)

		case <-fire:
			fire = nil
			w.runs++
			if err := w.run(ctx); err != nil {
				logger.Error("Triggered merge run failed", "error", err)
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return false
	}

	base := filepath.Base(event.Name)
	// Office lock files and editor temp files
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".~") {
		return false
	}
	if !strings.HasSuffix(base, w.cfg.Extension) {
		return false
	}
	for _, m := range w.cfg.Markers {
		if m != "" && strings.Contains(base, m) {
			return false
		}
	}
	return true
}
