package line

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dshills/docline/internal/renderer/format"
	"github.com/dshills/docline/internal/renderer/layout"
)

// fakeDocument is a minimal Document for tests.
type fakeDocument struct {
	mu       sync.Mutex
	lines    []*Handle
	settings layout.Settings
	rule     layout.IndentRule
	changes  [][3]int
}

func newFakeDocument(texts ...string) *fakeDocument {
	d := &fakeDocument{settings: layout.DefaultSettings()}
	for _, t := range texts {
		d.lines = append(d.lines, New(t, d))
	}
	return d
}

func (d *fakeDocument) LineNumber(h *Handle) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, l := range d.lines {
		if l == h {
			return i
		}
	}
	return -1
}

func (d *fakeDocument) LineAt(n int) *Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n < 0 || n >= len(d.lines) {
		return nil
	}
	return d.lines[n]
}

func (d *fakeDocument) LineOffset(n int) int {
	d.mu.Lock()
	lines := append([]*Handle(nil), d.lines[:n]...)
	d.mu.Unlock()
	offset := 0
	for _, l := range lines {
		offset += l.Length() + 1
	}
	return offset
}

func (d *fakeDocument) LayoutSettings() layout.Settings {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settings
}

func (d *fakeDocument) setWrap(width int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.settings.WrapWidth = width
}

func (d *fakeDocument) Scheme() *format.Scheme { return nil }

func (d *fakeDocument) IndentRule() layout.IndentRule { return d.rule }

func (d *fakeDocument) WrapChanged(n, oldRows, newRows int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.changes = append(d.changes, [3]int{n, oldRows, newRows})
}

func TestNewHandle(t *testing.T) {
	h := New("hello", nil)
	if h.Text() != "hello" {
		t.Errorf("expected text hello, got %q", h.Text())
	}
	if h.Length() != 5 {
		t.Errorf("expected length 5, got %d", h.Length())
	}
	if h.RefCount() != 0 {
		t.Errorf("expected ref count 0, got %d", h.RefCount())
	}
	if !h.HasFlag(FlagLayoutDirty) {
		t.Error("new handle should have a dirty layout")
	}
	if h.Line() != -1 || h.Position() != -1 {
		t.Error("detached handle should report -1 line and position")
	}
	if h.Next() != nil || h.Previous() != nil {
		t.Error("detached handle has no neighbours")
	}
}

func TestRefDerefDestroysOnce(t *testing.T) {
	h := New("x", nil)
	var destroyed atomic.Int32
	h.OnDestroy(func() { destroyed.Add(1) })

	h.Ref()
	h.Ref()
	if h.Deref() {
		t.Error("first Deref should not destroy")
	}
	if !h.Deref() {
		t.Error("last Deref should destroy")
	}
	if h.Deref() {
		t.Error("Deref after destruction should not destroy again")
	}
	if destroyed.Load() != 1 {
		t.Errorf("expected one destruction, got %d", destroyed.Load())
	}
	if !h.Destroyed() {
		t.Error("expected Destroyed to be true")
	}
}

func TestDerefUnreferencedDestroys(t *testing.T) {
	h := New("x", nil)
	if !h.Deref() {
		t.Error("Deref on an unreferenced handle should destroy it")
	}
}

func TestRefAfterDestroyPanics(t *testing.T) {
	h := New("x", nil)
	h.Deref()

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrDestroyed) {
			t.Errorf("expected ErrDestroyed panic, got %v", r)
		}
	}()
	h.Ref()
}

func TestConcurrentRefDeref(t *testing.T) {
	for round := 0; round < 20; round++ {
		h := New("shared", nil)
		var destroyed atomic.Int32
		h.OnDestroy(func() { destroyed.Add(1) })

		h.Ref()
		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				h.Ref()
				_ = h.Text()
				h.Deref()
			}()
		}
		wg.Wait()

		if destroyed.Load() != 0 {
			t.Fatalf("handle destroyed while still referenced")
		}
		h.Deref()
		if destroyed.Load() != 1 {
			t.Fatalf("expected exactly one destruction, got %d", destroyed.Load())
		}
	}
}

func TestConcurrentDerefRace(t *testing.T) {
	h := New("x", nil)
	var destroyed atomic.Int32
	h.OnDestroy(func() { destroyed.Add(1) })

	const owners = 16
	for i := 0; i < owners; i++ {
		h.Ref()
	}
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < owners; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if h.Deref() {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("expected one goroutine to destroy, got %d", wins.Load())
	}
	if destroyed.Load() != 1 {
		t.Errorf("expected one destruction, got %d", destroyed.Load())
	}
}

func TestFlags(t *testing.T) {
	h := New("", nil)
	h.SetFlag(FlagHidden, true)
	h.SetFlag(FlagCollapsedBlockStart, true)
	if !h.HasFlag(FlagHidden) || !h.HasFlag(FlagCollapsedBlockStart) {
		t.Error("expected flags set")
	}
	h.SetFlag(FlagHidden, false)
	if h.HasFlag(FlagHidden) {
		t.Error("expected hidden cleared")
	}
	if !h.HasFlag(FlagCollapsedBlockStart) {
		t.Error("clearing one flag should keep the others")
	}
}

func TestDocumentLinks(t *testing.T) {
	d := newFakeDocument("ab", "cde", "f")
	mid := d.lines[1]

	if mid.Line() != 1 {
		t.Errorf("expected line 1, got %d", mid.Line())
	}
	if mid.Position() != 3 {
		t.Errorf("expected position 3, got %d", mid.Position())
	}
	if mid.Next() != d.lines[2] {
		t.Error("Next returned the wrong line")
	}
	if mid.Previous() != d.lines[0] {
		t.Error("Previous returned the wrong line")
	}
	if d.lines[0].Previous() != nil {
		t.Error("first line has no previous")
	}
	if d.lines[2].Next() != nil {
		t.Error("last line has no next")
	}
	if mid.Document() == nil {
		t.Error("expected a document")
	}
}

func TestCookies(t *testing.T) {
	h := New("x", nil)
	if h.Cookie(CookieLexerState) != nil {
		t.Error("expected nil for missing cookie")
	}
	if h.HasCookie(CookieLexerState) {
		t.Error("expected no cookie")
	}

	h.SetCookie(CookieLexerState, "comment")
	if got := h.Cookie(CookieLexerState); got != "comment" {
		t.Errorf("expected comment, got %v", got)
	}
	h.SetCookie(CookieLexerState, "string")
	if got := h.Cookie(CookieLexerState); got != "string" {
		t.Errorf("expected replaced cookie, got %v", got)
	}

	if !h.RemoveCookie(CookieLexerState) {
		t.Error("expected RemoveCookie to report removal")
	}
	if h.RemoveCookie(CookieLexerState) {
		t.Error("second RemoveCookie should report false")
	}
}

func TestCookiesWhileLineLocked(t *testing.T) {
	h := New("x", nil)
	e := h.LockForWriteText()
	defer e.Unlock()

	// Cookies do not need the line lock.
	h.SetCookie(CookieFoldLevel, 3)
	if v, ok := h.LookupCookie(CookieFoldLevel); !ok || v != 3 {
		t.Errorf("expected cookie 3, got %v %v", v, ok)
	}
}

func TestDestroyClearsState(t *testing.T) {
	h := New("hello", nil)
	h.SetCookie(CookieLexerState, 1)
	h.AddOverlay(format.Range{Start: 0, Length: 2, Format: 3})
	h.Deref()

	if h.HasCookie(CookieLexerState) {
		t.Error("cookies should be released on destruction")
	}
	h.SetCookie(CookieLexerState, 2)
	if h.HasCookie(CookieLexerState) {
		t.Error("setting a cookie on a destroyed handle should be ignored")
	}
}

func TestDestroyDoesNotWaitForReaders(t *testing.T) {
	h := New("hello", nil)
	h.Ref()
	v := h.LockForRead()

	done := make(chan bool, 1)
	go func() { done <- h.Deref() }()

	select {
	case destroyed := <-done:
		if !destroyed {
			t.Error("expected the last Deref to destroy the line")
		}
	case <-time.After(2 * time.Second):
		v.Unlock()
		t.Fatal("Deref blocked on a held read lock")
	}
	v.Unlock()
	if !h.Destroyed() {
		t.Error("expected a destroyed line")
	}
}
