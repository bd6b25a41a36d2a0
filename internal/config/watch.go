package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events editors emit on save.
const DefaultDebounce = 250 * time.Millisecond

// Update is delivered after the config file changes. Err is set when the
// new file could not be loaded; the previous config stays in effect.
type Update struct {
	Config *Config
	Err    error
}

// Watcher reloads the config file whenever it changes on disk.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *log.Logger
	fw       *fsnotify.Watcher
	updates  chan Update
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides the reload delay.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithWatchLogger sets the watcher logger.
func WithWatchLogger(l *log.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// NewWatcher watches the directory holding path. The directory is created
// if missing so a config file can appear later.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		path:     path,
		debounce: DefaultDebounce,
		logger:   log.Default(),
		updates:  make(chan Update, 1),
	}
	for _, opt := range opts {
		opt(w)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	w.fw = fw

	return w, nil
}

// Updates returns the channel reloads are delivered on. Only the latest
// update is kept when the reader falls behind.
func (w *Watcher) Updates() <-chan Update {
	return w.updates
}

// Run processes file events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	file := filepath.Base(w.path)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != file {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			cfg, err := LoadFrom(w.path)
			if err != nil {
				w.logger.Warn("config reload failed", "path", w.path, "err", err)
			} else {
				w.logger.Info("config reloaded", "path", w.path)
			}
			w.publish(Update{Config: cfg, Err: err})

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "err", err)
		}
	}
}

func (w *Watcher) publish(u Update) {
	select {
	case w.updates <- u:
		return
	default:
	}
	// drop the stale update, keep the newest
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- u:
	default:
	}
}

// Close stops watching the file system.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
