package watcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/docline/internal/config/loader"
)

// usesNotify reports whether changes come from fsnotify. Only the host
// file system can be watched by the kernel; any other FileSystem is
// polled.
func (w *Watcher) usesNotify() bool {
	_, ok := w.fs.(loader.OSFS)
	return ok
}

// newNotify creates an fsnotify watcher over the directories holding the
// watched files. Directories are watched rather than files so that
// editors which save by renaming, and files created later, are seen.
func (w *Watcher) newNotify() (*fsnotify.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	added := 0
	dirs := make(map[string]bool)
	for _, path := range w.WatchedFiles() {
		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := fsw.Add(dir); err != nil {
			w.logger.Debug("not watching directory", "dir", dir, "error", err)
			continue
		}
		added++
	}
	if added == 0 {
		_ = fsw.Close()
		return nil, errNoDirectories
	}
	return fsw, nil
}

// notifyLoop delivers fsnotify events for watched files until ctx is done.
func (w *Watcher) notifyLoop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer w.wg.Done()
	defer fsw.Close()

	var flush <-chan time.Time
	if w.debounce > 0 {
		ticker := time.NewTicker(w.debounce)
		defer ticker.Stop()
		flush = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleNotify(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		case now := <-flush:
			w.flush(now)
		}
	}
}

// handleNotify turns an fsnotify event on a watched file into an Event.
// Events on other files in the same directory are ignored.
func (w *Watcher) handleNotify(fe fsnotify.Event) {
	path, err := filepath.Abs(fe.Name)
	if err != nil {
		return
	}
	w.mu.RLock()
	_, watched := w.files[path]
	w.mu.RUnlock()
	if !watched {
		return
	}

	mod, err := w.modTime(path)
	if err != nil {
		return
	}
	w.mu.Lock()
	w.files[path] = mod
	w.mu.Unlock()

	ev := Event{Path: path, Op: convertOp(fe.Op), Time: time.Now()}
	if mod.IsZero() {
		ev.Op = OpRemove
	}
	if ev.Op < 0 {
		return
	}
	if w.debounce == 0 {
		w.emit(ev)
	} else {
		w.queue(ev)
	}
}

// convertOp maps an fsnotify operation to an Operation, or -1 for
// attribute-only changes.
func convertOp(op fsnotify.Op) Operation {
	switch {
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return OpRemove
	case op.Has(fsnotify.Create):
		return OpCreate
	case op.Has(fsnotify.Write):
		return OpWrite
	default:
		return -1
	}
}
