package line

import (
	"sync"
	"sync/atomic"

	"github.com/dshills/docline/internal/renderer/format"
	"github.com/dshills/docline/internal/renderer/layout"
)

// Document is the container a handle belongs to. The handle keeps a plain
// back reference and never owns the document.
type Document interface {
	// LineNumber returns the index of h, or -1 if h is not in the document.
	LineNumber(h *Handle) int

	// LineAt returns the handle at index n, or nil.
	LineAt(n int) *Handle

	// LineOffset returns the character offset of the start of line n.
	LineOffset(n int) int

	// LayoutSettings returns the current wrap width, tab width and metrics.
	LayoutSettings() layout.Settings

	// Scheme resolves format ids to styles.
	Scheme() *format.Scheme

	// IndentRule computes line indentation.
	IndentRule() layout.IndentRule

	// WrapChanged is called after line n changed its number of visual rows.
	WrapChanged(n, oldRows, newRows int)
}

// Flag is a line state bit.
type Flag uint32

// Line state flags.
const (
	FlagHidden Flag = 1 << iota
	FlagCollapsedBlockStart
	FlagCollapsedBlockEnd
	FlagLayoutDirty
	FlagFormatsApplied
)

// Handle owns one line of a document.
type Handle struct {
	// Lock-free state.
	refs      atomic.Int32
	destroyed atomic.Bool
	ticket    atomic.Uint64
	flags     atomic.Uint32
	selection atomic.Int32
	builds    atomic.Int64

	doc Document

	// mu guards the text and every field derived from it.
	mu       sync.RWMutex
	text     []rune
	formats  []format.Transition
	parens   []Paren
	context  any
	overlays []format.Range

	// layoutMu serializes lazy rebuilds performed by readers. Writers hold
	// mu exclusively, so no reader can be inside a rebuild at that time.
	layoutMu  sync.Mutex
	layout    *layout.Layout
	builtWith layout.Settings
	indent    int
	indentTab int
	reported  int // row count last returned by UpdateWrap

	cookieMu sync.RWMutex
	cookies  map[CookieKind]any

	hookMu    sync.Mutex
	onDestroy []func()
}

// New creates a handle holding text. doc may be nil for a detached line.
// The reference count starts at zero.
func New(text string, doc Document) *Handle {
	h := &Handle{
		doc:    doc,
		text:   []rune(text),
		indent: -1,
	}
	h.flags.Store(uint32(FlagLayoutDirty))
	return h
}

// Ref registers an additional owner.
func (h *Handle) Ref() {
	if h.destroyed.Load() {
		panic(ErrDestroyed)
	}
	h.refs.Add(1)
}

// Deref releases one owner. The call that takes the count to zero destroys
// the handle and returns true. Calling Deref on a handle nobody
// referenced destroys it as well.
func (h *Handle) Deref() bool {
	for {
		n := h.refs.Load()
		if n <= 0 {
			return h.destroy()
		}
		if h.refs.CompareAndSwap(n, n-1) {
			if n == 1 {
				return h.destroy()
			}
			return false
		}
	}
}

// RefCount returns the number of registered owners.
func (h *Handle) RefCount() int32 {
	return h.refs.Load()
}

// Destroyed reports whether the handle has been destroyed.
func (h *Handle) Destroyed() bool {
	return h.destroyed.Load()
}

// OnDestroy registers fn to run when the handle is destroyed.
func (h *Handle) OnDestroy(fn func()) {
	h.hookMu.Lock()
	defer h.hookMu.Unlock()
	h.onDestroy = append(h.onDestroy, fn)
}

func (h *Handle) destroy() bool {
	if !h.destroyed.CompareAndSwap(false, true) {
		return false
	}

	// Destruction does not wait for in-flight locks. When a guard is still
	// held the contents are left for the collector.
	if h.mu.TryLock() {
		if h.layoutMu.TryLock() {
			h.layout = nil
			h.layoutMu.Unlock()
		}
		h.text = nil
		h.formats = nil
		h.parens = nil
		h.context = nil
		h.overlays = nil
		h.mu.Unlock()
	}

	h.cookieMu.Lock()
	h.cookies = nil
	h.cookieMu.Unlock()

	h.hookMu.Lock()
	hooks := h.onDestroy
	h.onDestroy = nil
	h.hookMu.Unlock()
	for _, fn := range hooks {
		fn()
	}
	return true
}

// HasFlag reports whether flag is set.
func (h *Handle) HasFlag(flag Flag) bool {
	return Flag(h.flags.Load())&flag != 0
}

// SetFlag sets or clears flag.
func (h *Handle) SetFlag(flag Flag, on bool) {
	for {
		old := h.flags.Load()
		next := old &^ uint32(flag)
		if on {
			next = old | uint32(flag)
		}
		if h.flags.CompareAndSwap(old, next) {
			return
		}
	}
}

// Document returns the owning document, or nil.
func (h *Handle) Document() Document {
	return h.doc
}

// Line returns the line number within the document, or -1.
func (h *Handle) Line() int {
	if h.doc == nil {
		return -1
	}
	return h.doc.LineNumber(h)
}

// Position returns the document character offset of the line start, or -1.
func (h *Handle) Position() int {
	n := h.Line()
	if n < 0 {
		return -1
	}
	return h.doc.LineOffset(n)
}

// Next returns the following line, or nil.
func (h *Handle) Next() *Handle {
	n := h.Line()
	if n < 0 {
		return nil
	}
	return h.doc.LineAt(n + 1)
}

// Previous returns the preceding line, or nil.
func (h *Handle) Previous() *Handle {
	n := h.Line()
	if n <= 0 {
		return nil
	}
	return h.doc.LineAt(n - 1)
}

func (h *Handle) scheme() *format.Scheme {
	if h.doc != nil {
		if s := h.doc.Scheme(); s != nil {
			return s
		}
	}
	return defaultScheme
}

var defaultScheme = format.DefaultScheme()

func (h *Handle) layoutSettings() layout.Settings {
	if h.doc == nil {
		return layout.DefaultSettings()
	}
	return h.doc.LayoutSettings()
}

func (h *Handle) indentRule() layout.IndentRule {
	if h.doc != nil {
		if r := h.doc.IndentRule(); r != nil {
			return r
		}
	}
	return layout.WhitespaceIndent{}
}
