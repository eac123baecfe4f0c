package settings

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/wallprefs/logging"
	"github.com/sirupsen/logrus"
)

// Watcher reloads a file-backed store when its file is edited externally.
// The containing directory is watched because editors and FileBackend.Save
// replace the file by rename.
type Watcher struct {
	watcher   *fsnotify.Watcher
	store     *Store
	file      string
	debounce  time.Duration
	logger    *logrus.Entry
	mu        sync.Mutex
	timer     *time.Timer
	closeOnce sync.Once
}

// NewWatcher creates a watcher for store's backing file. debounceMs collapses
// bursts of events into a single reload; values <= 0 default to 100ms.
func NewWatcher(store *Store, backend *FileBackend, debounceMs int) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// On a fresh install nothing has been saved yet; the directory must
	// exist before it can be watched.
	dir := filepath.Dir(backend.Path())
	if err := os.MkdirAll(dir, 0755); err != nil {
		watcher.Close()
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	if debounceMs <= 0 {
		debounceMs = 100
	}

	return &Watcher{
		watcher:  watcher,
		store:    store,
		file:     filepath.Clean(backend.Path()),
		debounce: time.Duration(debounceMs) * time.Millisecond,
		logger:   logging.NewLogger("settings-watcher").WithField("file", filepath.Base(backend.Path())),
	}, nil
}

// Start processes events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Start(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.file {
				continue
			}
			w.logger.Debugf("fsnotify event: op=%v", event.Op)
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.schedule()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			w.Close()
			return
		}
	}
}

// schedule arms a trailing timer so the reload sees the last write of a burst.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	if err := w.store.Reload(); err != nil {
		w.logger.WithError(err).Warn("Failed to reload settings after external change")
	}
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}
