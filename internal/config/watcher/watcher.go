// Package watcher reports changes to configuration files so a running
// viewer can reload its settings.
//
// Files on the host file system are watched with fsnotify. Any other
// loader.FileSystem is polled for modification time changes.
package watcher

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/dshills/docline/internal/config/loader"
)

// Operation is the kind of change seen on a file.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates a missing file appeared.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Event describes a change to a watched file.
type Event struct {
	Path string
	Op   Operation
	Time time.Time
}

var errNoDirectories = errors.New("no watchable directories")

// Handler is called for every change.
type Handler func(Event)

// Watcher monitors a set of files for changes.
type Watcher struct {
	mu       sync.RWMutex
	fs       loader.FileSystem
	files    map[string]time.Time // zero time: file absent
	handlers []Handler
	logger   *slog.Logger

	interval time.Duration
	debounce time.Duration

	pendingMu sync.Mutex
	pending   map[string]Event

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithDebounce sets how long a file must stay unchanged before its event
// is delivered. Zero delivers events from the poll that saw them.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithFS stats files through fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(w *Watcher) {
		if fsys != nil {
			w.fs = fsys
		}
	}
}

// WithLogger sets the logger for handler panics.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a stopped watcher.
func New(opts ...Option) *Watcher {
	w := &Watcher{
		fs:       loader.DefaultFS(),
		files:    make(map[string]time.Time),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		interval: 500 * time.Millisecond,
		debounce: 100 * time.Millisecond,
		pending:  make(map[string]Event),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch adds path. A missing file is watched for creation. Call Watch
// before Start: fsnotify directories are chosen when the watcher starts.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	mod, err := w.modTime(abs)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.files[abs] = mod
	w.mu.Unlock()
	return nil
}

// Unwatch removes path.
func (w *Watcher) Unwatch(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	w.mu.Lock()
	delete(w.files, abs)
	w.mu.Unlock()
}

// WatchedFiles returns the watched paths in no particular order.
func (w *Watcher) WatchedFiles() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	files := make([]string, 0, len(w.files))
	for path := range w.files {
		files = append(files, path)
	}
	return files
}

// OnChange registers a handler.
func (w *Watcher) OnChange(h Handler) {
	w.mu.Lock()
	w.handlers = append(w.handlers, h)
	w.mu.Unlock()
}

// Start watches in the background until ctx is done or Stop is called.
// When fsnotify cannot watch any of the directories the watcher falls
// back to polling. Starting a running watcher does nothing.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.cancel != nil {
		w.mu.Unlock()
		return
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	if w.usesNotify() {
		fsw, err := w.newNotify()
		if err == nil {
			w.wg.Add(1)
			go w.notifyLoop(ctx, fsw)
			return
		}
		w.logger.Debug("falling back to polling", "error", err)
	}
	w.wg.Add(1)
	go w.loop(ctx)
}

// Stop ends polling and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	w.wg.Wait()
}

// IsRunning reports whether the watcher is polling.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cancel != nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			w.Poll()
			w.flush(now)
		}
	}
}

// Poll checks every file's modification time once. Without debouncing the changes are
// delivered before Poll returns; otherwise they are queued.
func (w *Watcher) Poll() {
	w.mu.RLock()
	files := make(map[string]time.Time, len(w.files))
	for path, mod := range w.files {
		files[path] = mod
	}
	w.mu.RUnlock()

	for path, last := range files {
		ev, ok := w.check(path, last)
		if !ok {
			continue
		}
		if w.debounce == 0 {
			w.emit(ev)
		} else {
			w.queue(ev)
		}
	}
}

func (w *Watcher) modTime(path string) (time.Time, error) {
	info, err := w.fs.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func (w *Watcher) check(path string, last time.Time) (Event, bool) {
	mod, err := w.modTime(path)
	if err != nil || mod.Equal(last) {
		return Event{}, false
	}

	w.mu.Lock()
	if _, ok := w.files[path]; !ok {
		w.mu.Unlock()
		return Event{}, false
	}
	w.files[path] = mod
	w.mu.Unlock()

	ev := Event{Path: path, Op: OpWrite, Time: time.Now()}
	switch {
	case mod.IsZero():
		ev.Op = OpRemove
	case last.IsZero():
		ev.Op = OpCreate
	}
	return ev, true
}

// queue coalesces events per path. A removal wins over everything and a
// creation wins over a later write.
func (w *Watcher) queue(ev Event) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	if prev, ok := w.pending[ev.Path]; ok && ev.Op == OpWrite && prev.Op != OpWrite {
		ev.Op = prev.Op
	}
	w.pending[ev.Path] = ev
}

// flush delivers queued events older than the debounce interval.
func (w *Watcher) flush(now time.Time) {
	cutoff := now.Add(-w.debounce)
	var ready []Event
	w.pendingMu.Lock()
	for path, ev := range w.pending {
		if !ev.Time.After(cutoff) {
			ready = append(ready, ev)
			delete(w.pending, path)
		}
	}
	w.pendingMu.Unlock()

	for _, ev := range ready {
		w.emit(ev)
	}
}

func (w *Watcher) emit(ev Event) {
	w.mu.RLock()
	handlers := append([]Handler(nil), w.handlers...)
	w.mu.RUnlock()
	for _, h := range handlers {
		w.call(h, ev)
	}
}

func (w *Watcher) call(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("watch handler panicked", "path", ev.Path, "panic", r)
		}
	}()
	h(ev)
}
