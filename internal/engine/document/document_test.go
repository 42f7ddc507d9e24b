package document

import (
	"errors"
	"sync"
	"testing"

	"github.com/dshills/docline/internal/engine/line"
	"github.com/dshills/docline/internal/renderer/layout"
)

func TestFromString(t *testing.T) {
	d := FromString("line1\nline2\nline3")
	defer d.Close()

	if d.Len() != 3 {
		t.Fatalf("expected 3 lines, got %d", d.Len())
	}
	if got := d.LineAt(1).Text(); got != "line2" {
		t.Errorf("expected line2, got %q", got)
	}
	if d.TotalRows() != 3 {
		t.Errorf("expected 3 rows, got %d", d.TotalRows())
	}
	if d.Text() != "line1\nline2\nline3" {
		t.Errorf("unexpected text %q", d.Text())
	}
}

func TestFromStringKeepsLineEnding(t *testing.T) {
	d := FromString("a\r\nb\r\nc")
	defer d.Close()

	if d.Len() != 3 {
		t.Fatalf("expected 3 lines, got %d", d.Len())
	}
	if d.LineAt(0).Text() != "a" {
		t.Errorf("expected line ending stripped, got %q", d.LineAt(0).Text())
	}
	if d.Text() != "a\r\nb\r\nc" {
		t.Errorf("expected CRLF text, got %q", d.Text())
	}
}

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		text string
		want LineEnding
	}{
		{"", LineEndingLF},
		{"a\nb", LineEndingLF},
		{"a\r\nb\r\n", LineEndingCRLF},
		{"a\rb\r", LineEndingCR},
		{"a\nb\nc\r\n", LineEndingLF},
	}
	for _, tt := range tests {
		if got := DetectLineEnding(tt.text); got != tt.want {
			t.Errorf("DetectLineEnding(%q) = %v, expected %v", tt.text, got, tt.want)
		}
	}
}

func TestLineLinks(t *testing.T) {
	d := FromString("ab\ncde\nf")
	defer d.Close()

	mid := d.LineAt(1)
	if mid.Line() != 1 {
		t.Errorf("expected line 1, got %d", mid.Line())
	}
	if mid.Position() != 3 {
		t.Errorf("expected position 3, got %d", mid.Position())
	}
	if mid.Next() != d.LineAt(2) || mid.Previous() != d.LineAt(0) {
		t.Error("unexpected neighbours")
	}
	if d.LineOffset(3) != 9 {
		t.Errorf("expected offset 9 past the end, got %d", d.LineOffset(3))
	}
}

func TestInsertRemoveLine(t *testing.T) {
	d := FromString("a\nc")
	defer d.Close()

	h, err := d.InsertLine(1, "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.RefCount() != 1 {
		t.Errorf("expected the document to hold one reference, got %d", h.RefCount())
	}
	if d.Text() != "a\nb\nc" {
		t.Errorf("unexpected text %q", d.Text())
	}
	if d.TotalRows() != 3 {
		t.Errorf("expected 3 rows, got %d", d.TotalRows())
	}

	if _, err := d.InsertLine(9, "x"); !errors.Is(err, ErrLineOutOfRange) {
		t.Errorf("expected ErrLineOutOfRange, got %v", err)
	}

	if err := d.RemoveLine(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !h.Destroyed() {
		t.Error("removed line should be destroyed")
	}
	if d.TotalRows() != 2 {
		t.Errorf("expected 2 rows, got %d", d.TotalRows())
	}
	if err := d.RemoveLine(5); !errors.Is(err, ErrLineOutOfRange) {
		t.Errorf("expected ErrLineOutOfRange, got %v", err)
	}
}

func TestRemovedLineSurvivesWhileReferenced(t *testing.T) {
	d := FromString("a\nb")
	defer d.Close()

	h := d.LineAt(1)
	h.Ref()
	if err := d.RemoveLine(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Destroyed() {
		t.Fatal("line destroyed while still referenced")
	}
	if h.Line() != -1 {
		t.Errorf("removed line should report -1, got %d", h.Line())
	}
	h.Deref()
	if !h.Destroyed() {
		t.Error("expected destruction after the last reference")
	}
}

func TestWrapBookkeeping(t *testing.T) {
	d := FromString("hello world\nshort", WithWrapWidth(0))
	defer d.Close()

	if d.TotalRows() != 2 {
		t.Fatalf("expected 2 rows, got %d", d.TotalRows())
	}

	s := d.LayoutSettings()
	s.WrapWidth = 6
	d.SetLayoutSettings(s)
	if d.TotalRows() != 3 {
		t.Errorf("expected 3 rows after wrapping, got %d", d.TotalRows())
	}

	if err := d.Edit(1, func(e *line.Editor) { e.Insert(5, " words") }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.TotalRows() != 4 {
		t.Errorf("expected 4 rows after edit, got %d", d.TotalRows())
	}
	if d.Height() != 4 {
		t.Errorf("expected height 4, got %d", d.Height())
	}
}

func TestEditBumpsTicket(t *testing.T) {
	d := FromString("abc")
	defer d.Close()

	h := d.LineAt(0)
	before := h.CurrentTicket()
	if err := d.Edit(0, func(e *line.Editor) { e.Remove(0, 1) }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !h.IsStale(before) {
		t.Error("edit should bump the ticket")
	}
	if err := d.Edit(4, func(e *line.Editor) {}); !errors.Is(err, ErrLineOutOfRange) {
		t.Errorf("expected ErrLineOutOfRange, got %v", err)
	}
}

func TestSettingsReachLines(t *testing.T) {
	d := FromString("\tx", WithTabWidth(8))
	defer d.Close()

	if x := d.LineAt(0).CursorToX(1); x != 8 {
		t.Errorf("expected x 8, got %d", x)
	}
	if d.LineAt(0).Indent() != 8 {
		t.Errorf("expected indent 8, got %d", d.LineAt(0).Indent())
	}

	d.SetIndentRule(layout.IndentFunc(func([]rune, int) int { return 1 }))
	if d.LineAt(0).Indent() != 1 {
		t.Errorf("expected indent from the new rule, got %d", d.LineAt(0).Indent())
	}
}

func TestClose(t *testing.T) {
	d := FromString("a\nb")
	lines := []*line.Handle{d.LineAt(0), d.LineAt(1)}
	d.Close()

	for i, h := range lines {
		if !h.Destroyed() {
			t.Errorf("line %d should be destroyed", i)
		}
	}
	if _, err := d.InsertLine(0, "x"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestConcurrentEdits(t *testing.T) {
	d := FromString("one\ntwo\nthree\nfour", WithWrapWidth(4))
	defer d.Close()

	var wg sync.WaitGroup
	for i := 0; i < d.Len(); i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for k := 0; k < 20; k++ {
				_ = d.Edit(n, func(e *line.Editor) { e.Insert(0, "x") })
				_ = d.LineAt(n).RowCount()
			}
		}(i)
	}
	wg.Wait()

	want := 0
	for i := 0; i < d.Len(); i++ {
		want += d.LineAt(i).RowCount()
	}
	if d.TotalRows() != want {
		t.Errorf("expected %d rows, got %d", want, d.TotalRows())
	}
}
