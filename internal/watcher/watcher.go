// Package watcher reloads the embedded store when curated seed
// documents change on disk, so a long-running local server picks up
// data edits without a restart.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/regwatch/regwatch-mcp/internal/logger"
)

var log = logger.ForComponent("watcher")

type FileEvent struct {
	Path      string
	Op        fsnotify.Op
	Timestamp time.Time
}

// ReloadFunc is invoked once per debounced batch of seed-file changes.
type ReloadFunc func(events []FileEvent)

type Watcher struct {
	config    Config
	seedDir   string
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	onReload  ReloadFunc

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func New(config Config, seedDir string, onReload ReloadFunc) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		config:    config,
		seedDir:   seedDir,
		fsWatcher: fsWatcher,
		onReload:  onReload,
	}
	w.debouncer = NewDebouncer(config.DebounceWindow, config.MaxBatchSize, w.flush)

	return w, nil
}

func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	if err := w.fsWatcher.Add(w.seedDir); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.running = true

	go w.loop(ctx)

	log.Info("watching seed directory", "dir", w.seedDir)
	return nil
}

func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false

	w.cancel()
	<-w.done
	w.debouncer.Stop()
	return w.fsWatcher.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.matches(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.debouncer.Add(FileEvent{
				Path:      event.Name,
				Op:        event.Op,
				Timestamp: time.Now(),
			})

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn("watch error", "error", err)
		}
	}
}

// matches applies the include patterns first, then the excludes, both
// against the path relative to the seed directory.
func (w *Watcher) matches(path string) bool {
	rel, err := filepath.Rel(w.seedDir, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = filepath.ToSlash(rel)

	included := len(w.config.IncludePatterns) == 0
	for _, pattern := range w.config.IncludePatterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}

	for _, pattern := range w.config.ExcludePatterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	return true
}

func (w *Watcher) flush(events []FileEvent) {
	log.Info("seed files changed, reloading", "files", len(events))
	if w.onReload != nil {
		w.onReload(events)
	}
}
