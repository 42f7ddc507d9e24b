package line

import (
	"strings"
	"testing"

	"github.com/dshills/docline/internal/renderer/backend"
	"github.com/dshills/docline/internal/renderer/core"
	"github.com/dshills/docline/internal/renderer/format"
)

func TestDrawPlain(t *testing.T) {
	h := New("a\tb", nil)
	surface := backend.NewNullBackend(10, 2)
	h.Draw(surface, DrawOptions{YEnd: -1})

	if got := surface.RowText(0); got != "a   b     " {
		t.Errorf("expected tab expanded to spaces, got %q", got)
	}
	if h.SelectionState() != SelectionNone {
		t.Errorf("expected no selection, got %v", h.SelectionState())
	}
}

func TestDrawWrappedRows(t *testing.T) {
	d := newFakeDocument("hello world")
	d.setWrap(6)
	surface := backend.NewNullBackend(8, 4)
	d.lines[0].Draw(surface, DrawOptions{Origin: core.ScreenPos{Row: 1, Col: 1}, YEnd: -1})

	if got := surface.RowText(1); got != " hello  " {
		t.Errorf("row 1: got %q", got)
	}
	if got := surface.RowText(2); got != " world  " {
		t.Errorf("row 2: got %q", got)
	}
	if got := surface.RowText(0); got != "        " {
		t.Errorf("row 0 should be untouched, got %q", got)
	}
}

func TestDrawRowRange(t *testing.T) {
	d := newFakeDocument("aaaa bbbb cccc")
	d.setWrap(5)
	surface := backend.NewNullBackend(5, 3)
	d.lines[0].Draw(surface, DrawOptions{YStart: 1, YEnd: 2})

	if got := surface.RowText(1); got != "bbbb " {
		t.Errorf("expected second row drawn, got %q", got)
	}
	if got := surface.RowText(0); got != "     " {
		t.Errorf("first row should be skipped, got %q", got)
	}
	if got := surface.RowText(2); got != "     " {
		t.Errorf("third row should be skipped, got %q", got)
	}
}

func TestDrawScrollAndClip(t *testing.T) {
	h := New("abcdefgh", nil)
	surface := backend.NewNullBackend(6, 1)
	h.Draw(surface, DrawOptions{XOffset: 2, ViewportWidth: 4, YEnd: -1})

	if got := surface.RowText(0); got != "cdef  " {
		t.Errorf("expected scrolled and clipped text, got %q", got)
	}
}

func TestDrawWideRunes(t *testing.T) {
	h := New("a中b", nil)
	surface := backend.NewNullBackend(5, 1)
	h.Draw(surface, DrawOptions{YEnd: -1})

	if c := surface.GetCell(1, 0); c.Rune != '中' || c.Width != 2 {
		t.Errorf("expected wide rune at 1, got %+v", c)
	}
	if !surface.GetCell(2, 0).IsContinuation() {
		t.Error("expected continuation cell at 2")
	}
	if c := surface.GetCell(3, 0); c.Rune != 'b' {
		t.Errorf("expected b at 3, got %q", c.Rune)
	}

	// A wide rune cut by the left edge is drawn as blanks.
	surface = backend.NewNullBackend(4, 1)
	h.Draw(surface, DrawOptions{XOffset: 2, YEnd: -1})
	if got := surface.RowText(0); got != " b  " {
		t.Errorf("expected clipped wide rune as blank, got %q", got)
	}
}

func TestDrawStyles(t *testing.T) {
	h := New("abcd", nil)
	scheme := format.DefaultScheme()
	keyword, err := scheme.ID(format.NameKeyword)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	search, _ := scheme.ID(format.NameSearch)

	h.SetFormatsPerChar([]int{keyword, keyword, 0, 0})
	h.AddOverlay(formatRange(1, 2, search))

	pal := format.DefaultPalette()
	surface := backend.NewNullBackend(6, 1)
	h.Draw(surface, DrawOptions{Selection: []int{3, 4}, Palette: &pal, YEnd: -1})

	kw := scheme.Style(keyword)
	if got := surface.GetCell(0, 0).Style; !got.Equals(pal.Base.Merge(kw)) {
		t.Errorf("cell 0: expected keyword style, got %+v", got)
	}
	want := pal.Base.Merge(kw).Merge(scheme.Style(search))
	if got := surface.GetCell(1, 0).Style; !got.Equals(want) {
		t.Errorf("cell 1: expected keyword plus search, got %+v", got)
	}
	if got := surface.GetCell(3, 0).Style; !got.Equals(pal.Base.Merge(pal.Selection)) {
		t.Errorf("cell 3: expected selection style, got %+v", got)
	}
	if got := surface.GetCell(5, 0).Style; !got.Equals(pal.Base) {
		t.Errorf("fill should use the base style, got %+v", got)
	}
	if h.SelectionState() != SelectionPartial {
		t.Errorf("expected partial selection, got %v", h.SelectionState())
	}
}

func TestDrawFullSelection(t *testing.T) {
	h := New("ab", nil)
	pal := format.DefaultPalette()
	surface := backend.NewNullBackend(4, 1)
	h.Draw(surface, DrawOptions{FullSelection: true, YEnd: -1})

	sel := pal.Base.Merge(pal.Selection)
	for x := 0; x < 4; x++ {
		if got := surface.GetCell(x, 0).Style; !got.Equals(sel) {
			t.Errorf("cell %d: expected selection style, got %+v", x, got)
		}
	}
	if h.SelectionState() != SelectionFull {
		t.Errorf("expected full selection, got %v", h.SelectionState())
	}

	h.Draw(surface, DrawOptions{Selection: []int{2, 0}, YEnd: -1})
	if h.SelectionState() != SelectionFull {
		t.Errorf("reversed pair covering the line should be full, got %v", h.SelectionState())
	}
}

func TestExportAsHTML(t *testing.T) {
	h := New("a<b\t&c", nil)
	if got := h.ExportAsHTML(0, -1); got != "a&lt;b &amp;c" {
		t.Errorf("expected escaped plain text, got %q", got)
	}

	keyword, _ := format.DefaultScheme().ID(format.NameKeyword)
	h.SetFormatsPerChar([]int{0, 0, keyword, keyword, 0, 0})
	got := h.ExportAsHTML(0, -1)
	want := `a&lt;<span style="color:#C678DD;font-weight:bold">b </span>&amp;c`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestExportAsHTMLRange(t *testing.T) {
	h := New("x\ty", nil)
	// The tab starts at column 1 of the unwrapped line.
	if got := h.ExportAsHTML(1, 2); got != "   " {
		t.Errorf("expected 3 spaces, got %q", got)
	}
	if got := h.ExportAsHTML(5, 9); got != "" {
		t.Errorf("expected empty export, got %q", got)
	}
	if strings.Contains(h.ExportAsHTML(0, -1), "span") {
		t.Error("undecorated text should not be wrapped")
	}
}
