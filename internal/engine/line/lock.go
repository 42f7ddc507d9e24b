package line

import (
	"github.com/dshills/docline/internal/renderer/format"
	"github.com/dshills/docline/internal/renderer/layout"
)

// View is a held read lock. Its methods query the line without further
// locking. A View must be released with Unlock and must not be used
// afterwards.
type View struct {
	h     *Handle
	write bool
}

// Editor is a held write lock. It offers every View query plus mutations.
type Editor struct {
	View
	text bool
}

// LockForRead acquires a shared lock.
func (h *Handle) LockForRead() *View {
	h.mu.RLock()
	return &View{h: h}
}

// LockForWrite acquires an exclusive lock for metadata updates. The write
// ticket is not bumped and the returned Editor refuses text changes.
func (h *Handle) LockForWrite() *Editor {
	h.mu.Lock()
	return &Editor{View: View{h: h, write: true}}
}

// LockForWriteText acquires an exclusive lock and bumps the write ticket.
func (h *Handle) LockForWriteText() *Editor {
	h.mu.Lock()
	h.ticket.Add(1)
	return &Editor{View: View{h: h, write: true}, text: true}
}

// Unlock releases the lock held by the guard.
func (v *View) Unlock() {
	if v.write {
		v.h.mu.Unlock()
		return
	}
	v.h.mu.RUnlock()
}

// Handle returns the guarded handle.
func (v *View) Handle() *Handle {
	return v.h
}

// CurrentTicket returns the write ticket. It needs no lock and is only
// meaningful for staleness comparisons.
func (h *Handle) CurrentTicket() uint64 {
	return h.ticket.Load()
}

// IsStale reports whether the text may have changed since ticket was read.
func (h *Handle) IsStale(ticket uint64) bool {
	return h.ticket.Load() != ticket
}

// Versioned pairs a value computed from a line with the ticket it was
// computed at.
type Versioned[T any] struct {
	Value  T
	Ticket uint64
}

// Stale reports whether h has been written since the value was captured.
func (v Versioned[T]) Stale(h *Handle) bool {
	return h.IsStale(v.Ticket)
}

// Capture runs fn under a read lock and tags its result with the ticket.
// Tickets only move under the write lock, so the pair is consistent.
func Capture[T any](h *Handle, fn func(v *View) T) Versioned[T] {
	v := h.LockForRead()
	defer v.Unlock()
	return Versioned[T]{Value: fn(v), Ticket: h.CurrentTicket()}
}

// Snapshot is a copy of the line state safe to hand to another goroutine.
type Snapshot struct {
	Text     string
	Formats  []format.Transition
	Overlays []format.Range
	Rows     []layout.Row
	Indent   int
}

// Snapshot captures a versioned copy of the line.
func (h *Handle) Snapshot() Versioned[Snapshot] {
	return Capture(h, func(v *View) Snapshot {
		l := v.h.layoutLocked()
		return Snapshot{
			Text:     string(v.h.text),
			Formats:  v.Formats(),
			Overlays: v.Overlays(format.Any),
			Rows:     append([]layout.Row(nil), l.Rows...),
			Indent:   v.Indent(),
		}
	})
}
