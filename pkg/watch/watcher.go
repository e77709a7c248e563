package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/oracle-Solution/hl7/pkg/config"
	"github.com/oracle-Solution/hl7/pkg/telemetry/metrics"
)

// ErrNotRunning is returned by Check when the watcher is not watching.
var ErrNotRunning = errors.New("watcher is not running")

// Config contains configuration for the watcher.
type Config struct {
	// Path is the file or directory to watch.
	Path string

	// DebounceInterval is the quiet period before a changed file is reported.
	DebounceInterval time.Duration

	// Extensions selects the files that are reported, e.g. ".hl7".
	// An empty list reports every file.
	Extensions []string

	// IncludeHidden also reports dot files and descends into dot directories.
	IncludeHidden bool
}

// FromConfig builds a watcher configuration for path from the watch section
// of the application configuration.
func FromConfig(cfg config.WatchConfig, path string) Config {
	return Config{
		Path:             path,
		DebounceInterval: cfg.DebounceInterval,
		Extensions:       append([]string(nil), cfg.Extensions...),
		IncludeHidden:    cfg.IncludeHidden,
	}
}

// Event reports a changed file.
type Event struct {
	// Path is the file that changed.
	Path string

	// Op is the last fsnotify operation seen for the file within the quiet
	// period, e.g. "WRITE" or "REMOVE".
	Op string

	// Removed is set when the file no longer exists.
	Removed bool
}

// Watcher watches message files and reports changes after debouncing.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	metrics  *metrics.Collector
	config   Config
	debounce *Debouncer

	// single is set when Path names a file; its directory is watched so
	// editors that replace the file on save keep being followed.
	single string

	mu       sync.RWMutex
	running  bool
	ready    bool
	files    map[string]struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// New creates a watcher. logger and collector may be nil.
func New(cfg Config, logger *slog.Logger, collector *metrics.Collector) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("watch path is required")
	}
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = config.DefaultDebounceInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat watch path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		watcher:  watcher,
		logger:   logger,
		metrics:  collector,
		config:   cfg,
		debounce: NewDebouncer(cfg.DebounceInterval),
		files:    make(map[string]struct{}),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	if !info.IsDir() {
		w.single = filepath.Clean(cfg.Path)
	}
	return w, nil
}

// Files returns the files currently matched by the watcher in sorted order.
// Before Watch has started it scans the watch path.
func (w *Watcher) Files() ([]string, error) {
	w.mu.RLock()
	running := w.running
	w.mu.RUnlock()

	if !running {
		if err := w.scan(); err != nil {
			return nil, err
		}
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

// Watch follows the watch path and calls onChange for every changed file.
// It blocks until ctx is cancelled or Stop is called.
func (w *Watcher) Watch(ctx context.Context, onChange func(Event)) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.ready = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	if err := w.scan(); err != nil {
		return fmt.Errorf("failed to watch path: %w", err)
	}
	w.mu.Lock()
	w.ready = true
	w.mu.Unlock()

	w.logger.Info("File watcher started",
		"path", w.config.Path,
		"files", w.count(),
		"debounce_ms", w.config.DebounceInterval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("File watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("File watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			w.handle(event, onChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("File watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and cancels pending callbacks. It is safe to call
// more than once and before Watch.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		w.mu.RLock()
		running := w.running
		w.mu.RUnlock()

		close(w.stopCh)
		if running {
			<-w.doneCh
		}
		w.debounce.Stop()

		if cerr := w.watcher.Close(); cerr != nil {
			err = fmt.Errorf("failed to close watcher: %w", cerr)
		}
	})
	return err
}

// Check is a health check reporting whether the watcher is running and has
// registered the watch path.
func (w *Watcher) Check(context.Context) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.ready {
		return ErrNotRunning
	}
	return nil
}

func (w *Watcher) handle(event fsnotify.Event, onChange func(Event)) {
	if event.Op&fsnotify.Create == fsnotify.Create && w.single == "" {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if w.skipHidden(event.Name) {
				return
			}
			if err := w.addDirectory(event.Name); err != nil {
				w.logger.Warn("Failed to watch new directory", "path", event.Name, "error", err)
			}
			return
		}
	}

	if !w.shouldProcessEvent(event) {
		return
	}

	path := filepath.Clean(event.Name)
	removed := event.Op&(fsnotify.Remove|fsnotify.Rename) != 0
	w.track(path, !removed)

	op := strings.ToLower(event.Op.String())
	w.metrics.RecordWatchEvent(op)
	w.logger.Debug("File event detected", "path", path, "op", event.Op.String())

	w.debounce.Trigger(path, func() {
		ev := Event{Path: path, Op: event.Op.String()}
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			ev.Removed = true
			w.track(path, false)
		}
		onChange(ev)
	})
}

// scan registers the watch path with fsnotify and records matching files.
func (w *Watcher) scan() error {
	if w.single != "" {
		if err := w.watcher.Add(filepath.Dir(w.single)); err != nil {
			return fmt.Errorf("failed to watch %q: %w", w.single, err)
		}
		w.track(w.single, true)
		return nil
	}
	return w.addDirectory(w.config.Path)
}

// addDirectory adds a directory and all subdirectories to the watcher.
func (w *Watcher) addDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path != dir && w.skipHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				return fmt.Errorf("failed to watch directory %q: %w", path, err)
			}
			w.logger.Debug("Watching directory", "path", path)
			return nil
		}

		if w.hasValidExtension(path) {
			w.track(filepath.Clean(path), true)
		}
		return nil
	})
}

// shouldProcessEvent determines if an event names a watched message file.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if w.single != "" {
		return filepath.Clean(event.Name) == w.single
	}
	if w.skipHidden(event.Name) {
		return false
	}
	return w.hasValidExtension(event.Name)
}

func (w *Watcher) skipHidden(path string) bool {
	return w.config.skipHidden(path)
}

func (w *Watcher) hasValidExtension(path string) bool {
	return w.config.hasValidExtension(path)
}

func (w *Watcher) track(path string, present bool) {
	w.mu.Lock()
	if present {
		w.files[path] = struct{}{}
	} else {
		delete(w.files, path)
	}
	n := len(w.files)
	w.mu.Unlock()

	w.metrics.SetWatchedFiles(n)
}

func (w *Watcher) count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.files)
}
