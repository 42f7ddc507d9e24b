// Package line provides Handle, the reference-counted owner of one line of
// a document.
//
// A Handle owns the line's text and everything derived from it: the wrapped
// visual layout, the format transitions written by the syntax analyzer,
// transient overlays (selection, search hits), parenthesis positions and
// per-line parser cookies.
//
// # Locking
//
// Every query and mutation exists as a self-locking method on Handle. Hot
// paths that issue many queries in a row take a guard once instead:
//
//	v := h.LockForRead()
//	x := v.CursorToX(i)
//	row := v.WrappedLineForCursor(i)
//	v.Unlock()
//
// LockForWrite returns an Editor for metadata updates (formats, overlays,
// parens). LockForWriteText additionally bumps the write ticket; only an
// Editor obtained this way may change the text.
//
// # Staleness
//
// CurrentTicket can be read without any lock. A goroutine that computed
// something from the line keeps the ticket it observed (see Capture and
// Versioned) and compares it later to learn whether the text changed.
//
// # Lifetime
//
// Ref and Deref count external owners. The goroutine whose Deref takes the
// count to zero destroys the handle exactly once. Using a handle after its
// last Deref is a programming error.
package line
