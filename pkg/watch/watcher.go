package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mercator-hq/valvemap/pkg/config"
	"mercator-hq/valvemap/pkg/telemetry/metrics"
)

// Config contains configuration for the file watcher.
type Config struct {
	// Paths are the files or directories to watch.
	Paths []string

	// Extensions are the file extensions that produce changes (e.g. ".map").
	Extensions []string

	// Recursive also watches subdirectories, including ones created later.
	Recursive bool

	// Debounce is the quiet period before a batch of changes is delivered.
	Debounce time.Duration

	// SkipHidden ignores files and directories whose name starts with a dot.
	SkipHidden bool
}

// ConfigFromWatch converts the watch section of the application config.
func ConfigFromWatch(cfg config.WatchConfig) Config {
	return Config{
		Paths:      cfg.Paths,
		Extensions: cfg.Extensions,
		Recursive:  cfg.Recursive,
		Debounce:   cfg.Debounce,
		SkipHidden: true,
	}
}

// Handler receives a sorted batch of changed paths. A path may name a file
// that was removed, or a directory whose contents should be rescanned.
type Handler func(ctx context.Context, paths []string)

// Watcher reports changed map files in batches.
type Watcher struct {
	fsw     *fsnotify.Watcher
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Collector

	mu      sync.Mutex
	dirs    map[string]bool
	running bool
}

// New creates a watcher. collector may be nil; logger defaults to slog.Default().
func New(cfg Config, collector *metrics.Collector, logger *slog.Logger) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("no paths to watch")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = config.DefaultWatchDebounce
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{config.DefaultWatchExtension}
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsw:     fsw,
		cfg:     cfg,
		logger:  logger.With("component", "watch"),
		metrics: collector,
		dirs:    make(map[string]bool),
	}, nil
}

// Run watches the configured paths and calls handler with each batch of
// changes until ctx is cancelled. It closes the underlying watcher on return,
// so a Watcher can run only once.
func (w *Watcher) Run(ctx context.Context, handler Handler) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer w.fsw.Close()

	for _, p := range w.cfg.Paths {
		if err := w.addPath(p); err != nil {
			return fmt.Errorf("failed to watch %q: %w", p, err)
		}
	}

	batch := NewBatcher(w.cfg.Debounce, func(paths []string) {
		w.logger.Info("changes detected", "paths", len(paths))
		handler(ctx, paths)
	})
	defer batch.Stop()

	w.logger.Info("file watcher started",
		"paths", w.cfg.Paths,
		"recursive", w.cfg.Recursive,
		"debounce", w.cfg.Debounce,
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("file watcher stopped")
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if path, ok := w.handleEvent(event); ok {
				batch.Add(path)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

// WatchedDirs returns the directories currently registered with fsnotify.
func (w *Watcher) WatchedDirs() []string {
	return w.fsw.WatchList()
}

// handleEvent maps an fsnotify event to the path that should be re-indexed.
func (w *Watcher) handleEvent(event fsnotify.Event) (string, bool) {
	if event.Op == fsnotify.Chmod || w.hidden(event.Name) {
		return "", false
	}

	op := opName(event.Op)

	// A watched directory went away: rescan its parent so the indexer prunes
	// the maps that were inside it.
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.mu.Lock()
		wasDir := w.dirs[event.Name]
		delete(w.dirs, event.Name)
		w.mu.Unlock()

		if wasDir {
			w.metrics.RecordWatchEvent(op)
			return filepath.Dir(event.Name), true
		}
	}

	if event.Has(fsnotify.Create) && w.cfg.Recursive {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addDirectory(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
			w.metrics.RecordWatchEvent(op)
			return event.Name, true
		}
	}

	if !w.matches(event.Name) {
		return "", false
	}

	w.logger.Debug("file event", "path", event.Name, "op", op)
	w.metrics.RecordWatchEvent(op)
	return event.Name, true
}

// addPath watches a file's parent directory or a directory tree.
func (w *Watcher) addPath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		// Editors replace files on save, which drops a watch on the file itself.
		return w.watchDir(filepath.Dir(abs))
	}
	if !w.cfg.Recursive {
		return w.watchDir(abs)
	}
	return w.addDirectory(abs)
}

// addDirectory watches root and every directory below it.
func (w *Watcher) addDirectory(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.hidden(path) {
			return filepath.SkipDir
		}
		return w.watchDir(path)
	})
}

func (w *Watcher) watchDir(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %q: %w", dir, err)
	}

	w.mu.Lock()
	w.dirs[dir] = true
	w.mu.Unlock()

	w.logger.Debug("watching directory", "path", dir)
	return nil
}

func (w *Watcher) matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.cfg.Extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

func (w *Watcher) hidden(path string) bool {
	return w.cfg.SkipHidden && strings.HasPrefix(filepath.Base(path), ".")
}

// opName returns the metric label for the most significant operation in op.
func opName(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	}
	return "other"
}
