// Package watcher hot-reloads the asset manifest when the build pipeline
// rewrites it, swapping the new snapshot into the resolver store atomically.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"staticmanifest/internal/manifest"
	"staticmanifest/internal/resolver"
)

// Stats tracks watcher activity for debugging.
type Stats struct {
	EventsSeen    int
	Reloads       int
	ReloadErrors  int
	LastEventTime time.Time
	LastEventOp   string
}

// Watcher reloads one manifest file on change. It watches the containing
// directory rather than the file itself so atomic write-then-rename (the
// way most build tools publish a manifest) is still observed.
type Watcher struct {
	mu          sync.Mutex
	fsw         *fsnotify.Watcher
	store       *resolver.Store
	path        string // absolute manifest path
	format      manifest.Format
	log         *zap.Logger
	debounceDur time.Duration
	pendingAt   time.Time // zero when no reload is pending
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	stats       Stats
}

// New builds a watcher for the manifest at path, swapping reloads into
// store. log may be nil.
func New(path string, format manifest.Format, store *resolver.Store, log *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve manifest path: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		fsw:         fsw,
		store:       store,
		path:        abs,
		format:      format,
		log:         log,
		debounceDur: 200 * time.Millisecond, // build tools write in bursts
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine
// until Stop is called or ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dir := filepath.Dir(w.path)
	if err := w.fsw.Add(dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.log.Info("watching manifest",
		zap.String("path", w.path),
		zap.String("dir", dir))

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit. Safe to
// call once after a successful Start.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.fsw.Close(); err != nil {
		w.log.Error("closing fs watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Error("fs watcher error", zap.Error(err))

		case <-ticker.C:
			if w.takePending() {
				w.reload()
			}
		}
	}
}

// handleEvent marks a reload pending when the manifest file itself changes.
// Other files in the directory (temp files from atomic writes included)
// are ignored.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}

	w.mu.Lock()
	w.stats.EventsSeen++
	w.stats.LastEventTime = time.Now()
	w.stats.LastEventOp = event.Op.String()
	w.pendingAt = time.Now()
	w.mu.Unlock()
}

// takePending reports whether a pending reload has settled past the
// debounce window, clearing it if so.
func (w *Watcher) takePending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pendingAt.IsZero() || time.Since(w.pendingAt) < w.debounceDur {
		return false
	}
	w.pendingAt = time.Time{}
	return true
}

// reload parses the manifest and swaps it in. A manifest that cannot be
// read or parsed leaves the previous snapshot serving; a broken build
// output must never take the resolver down.
func (w *Watcher) reload() {
	m, err := manifest.Load(w.path, w.format)
	if err != nil {
		w.mu.Lock()
		w.stats.ReloadErrors++
		w.mu.Unlock()
		w.log.Warn("manifest reload failed, keeping previous snapshot",
			zap.String("path", w.path),
			zap.Error(err))
		return
	}

	prev := w.store.Swap(m)

	w.mu.Lock()
	w.stats.Reloads++
	w.mu.Unlock()

	w.log.Info("manifest reloaded",
		zap.String("path", w.path),
		zap.String("prev_snapshot", prev.ID()),
		zap.Int("prev_entries", prev.Len()),
		zap.String("snapshot", m.ID()),
		zap.Int("entries", m.Len()))
}

// GetStats returns a copy of the current stats.
func (w *Watcher) GetStats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// IsWatching reports whether the event loop is running.
func (w *Watcher) IsWatching() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
