package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the configuration file for changes and invokes a reload
// callback. It debounces bursts of filesystem events so editors that write
// in multiple steps trigger a single reload.
//
// Only runtime-tunable settings (the rate-limit knobs) are expected to be
// picked up on reload; server and credential settings require a restart.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher creates a watcher for the given configuration file path.
func NewWatcher(path string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:     path,
		debounce: 100 * time.Millisecond,
		logger:   logger,
	}
}

// Watch blocks until ctx is cancelled, invoking onReload with the freshly
// loaded configuration after each change to the watched file.
func (w *Watcher) Watch(ctx context.Context, onReload func(*Config)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	// Watch the directory rather than the file itself so atomic
	// rename-over-write (the common editor save strategy) is observed.
	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	w.logger.Info("watching configuration file", "path", w.path)

	var timer *time.Timer
	reload := func() {
		cfg, err := Load(w.path)
		if err != nil {
			w.logger.Error("configuration reload failed, keeping previous config", "error", err)
			return
		}
		w.logger.Info("configuration reloaded",
			"rate_limit_window", cfg.RateLimit.Window.String(),
			"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		)
		onReload(cfg)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, reload)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("configuration watcher error", "error", err)
		}
	}
}
