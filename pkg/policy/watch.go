package policy

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a permission file whenever it changes
type Watcher struct {
	path   string
	loader *Loader
	logger *slog.Logger

	// loaded is called after every reload attempt
	loaded func(*Result, error)
}

// NewWatcher creates a Watcher for the file at path
func NewWatcher(path string, loader *Loader, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:   path,
		loader: loader,
		logger: logger.With("component", "policy-watch", "path", path),
		loaded: func(*Result, error) {},
	}
}

// OnLoad registers a callback invoked after every reload attempt
func (w *Watcher) OnLoad(fn func(*Result, error)) *Watcher {
	w.loaded = fn
	return w
}

// Run loads the file once and then on every write until ctx is done. The
// parent directory is watched so that editors replacing the file by rename
// are picked up.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}

	w.reload(ctx)

	target := filepath.Clean(w.path)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.reload(ctx)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		case <-ctx.Done():
			return nil
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	doc, err := ParseFile(w.path)
	if err != nil {
		w.logger.Error("failed to parse permission file", "error", err)
		w.loaded(nil, err)
		return
	}

	result, err := w.loader.Load(ctx, doc)
	if err != nil {
		w.logger.Error("failed to load permission file", "error", err)
	} else {
		w.logger.Info("permission file loaded",
			"granted", result.Granted,
			"revoked", result.Revoked,
			"unchanged", result.Unchanged,
		)
	}
	w.loaded(result, err)
}
