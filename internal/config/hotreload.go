package config

import (
	"context"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a config file for writes and republishes the
// hot-reloadable subset of its contents on change, adapted from the
// engine's HotReloadSystem down to the single file / single subset this
// service needs.
type Watcher struct {
	path string
	log  *slog.Logger
}

// NewWatcher returns a Watcher for the config file at path.
func NewWatcher(path string, log *slog.Logger) *Watcher {
	return &Watcher{path: path, log: log}
}

// Watch blocks until ctx is cancelled, calling onChange with the newly
// loaded Reloadable subset whenever the watched file is written. Parse or
// validation errors are logged and the previous configuration is kept.
func (w *Watcher) Watch(ctx context.Context, onChange func(Reloadable)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.path); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			data, err := os.ReadFile(w.path)
			if err != nil {
				w.log.Warn("config reload: read failed", "error", err)
				continue
			}
			cfg, err := Load(data)
			if err != nil {
				w.log.Warn("config reload: rejected, keeping previous configuration", "error", err)
				continue
			}
			w.log.Info("config reloaded")
			onChange(cfg.ExtractReloadable())
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("config watcher error", "error", err)
		}
	}
}
