package line

import (
	"html"
	"strings"

	"github.com/dshills/docline/internal/renderer/backend"
	"github.com/dshills/docline/internal/renderer/core"
	"github.com/dshills/docline/internal/renderer/format"
	"github.com/dshills/docline/internal/renderer/layout"
)

// SelectionState summarizes how much of the line is selected.
type SelectionState int32

// Selection states.
const (
	SelectionNone SelectionState = iota
	SelectionPartial
	SelectionFull
)

func (s SelectionState) String() string {
	switch s {
	case SelectionPartial:
		return "partial"
	case SelectionFull:
		return "full"
	default:
		return "none"
	}
}

// SelectionState returns the summary computed by the last Draw.
func (h *Handle) SelectionState() SelectionState {
	return SelectionState(h.selection.Load())
}

// DrawOptions control how a line is drawn.
type DrawOptions struct {
	// Origin is the surface position of the line's first visual row.
	Origin core.ScreenPos

	// XOffset scrolls the line left by that many cells.
	XOffset int

	// ViewportWidth clips drawing. Zero means up to the surface edge.
	ViewportWidth int

	// Selection holds (start, end) character pairs.
	Selection []int

	// Palette supplies base and selection styles. Nil uses the default.
	Palette *format.Palette

	// FullSelection marks the whole line, including the space past its
	// end, as selected.
	FullSelection bool

	// YStart and YEnd bound the visual rows drawn. YEnd < 0 means all rows.
	YStart int
	YEnd   int
}

func selectionState(length int, sel []int, full bool) SelectionState {
	if full {
		return SelectionFull
	}
	covered := make([]bool, length)
	hit := false
	for i := 0; i+1 < len(sel); i += 2 {
		start, end := sel[i], sel[i+1]
		if start > end {
			start, end = end, start
		}
		start, end = clamp(start, 0, length), clamp(end, 0, length)
		for j := start; j < end; j++ {
			covered[j] = true
			hit = true
		}
	}
	if !hit {
		return SelectionNone
	}
	for _, c := range covered {
		if !c {
			return SelectionPartial
		}
	}
	return SelectionFull
}

// Draw renders the visible rows of the line onto surface.
func (v *View) Draw(surface backend.Surface, opts DrawOptions) {
	h := v.h
	l := h.layoutLocked()
	n := len(h.text)

	pal := format.DefaultPalette()
	if opts.Palette != nil {
		pal = *opts.Palette
	}
	sel := opts.Selection
	if opts.FullSelection {
		sel = []int{0, n}
	}
	state := selectionState(n, sel, opts.FullSelection)
	h.selection.Store(int32(state))

	width := opts.ViewportWidth
	if width <= 0 {
		sw, _ := surface.Size()
		width = sw - opts.Origin.Col
	}
	yEnd := opts.YEnd
	if yEnd < 0 || yEnd > l.RowCount() {
		yEnd = l.RowCount()
	}

	fill := pal.Base
	if opts.FullSelection {
		fill = fill.Merge(pal.Selection)
	}

	scheme := h.scheme()
	segs := format.Split(n, h.formats, h.overlays, sel, 0, -1)
	seg := 0

	for r := max(opts.YStart, 0); r < yEnd; r++ {
		row := l.Rows[r]
		y := opts.Origin.Row + r
		put := func(col int, c core.Cell) {
			if col >= 0 && col < width {
				surface.SetCell(opts.Origin.Col+col, y, c)
			}
		}

		for seg < len(segs) && segs[seg].End <= row.Start {
			seg++
		}
		for i := row.Start; i < row.End; i++ {
			w := l.Widths[i]
			if w == 0 {
				continue
			}
			for seg < len(segs) && segs[seg].End <= i {
				seg++
			}
			style := pal.Base
			if seg < len(segs) {
				style = segs[seg].Resolve(scheme, pal)
			}

			col := l.CursorToColumn(i) - opts.XOffset
			ch := h.text[i]
			switch {
			case ch == '\t':
				for k := 0; k < w; k++ {
					put(col+k, core.NewStyledCell(' ', style))
				}
			case w > 1 && (col < 0 || col+w > width):
				// Partially visible wide glyph.
				for k := 0; k < w; k++ {
					put(col+k, core.NewStyledCell(' ', style))
				}
			default:
				put(col, core.Cell{Rune: ch, Width: w, Style: style})
				for k := 1; k < w; k++ {
					put(col+k, core.ContinuationCell(style))
				}
			}
		}

		for col := max(row.Width-opts.XOffset, 0); col < width; col++ {
			put(col, core.NewStyledCell(' ', fill))
		}
	}
}

// ExportAsHTML renders [from, to) as HTML. to < 0 means the end of the
// line. Decorated runs are wrapped in spans with inline styles and tabs are
// expanded as in an unwrapped layout.
func (v *View) ExportAsHTML(from, to int) string {
	h := v.h
	n := len(h.text)
	if to < 0 || to > n {
		to = n
	}
	from = clamp(from, 0, to)

	settings := h.layoutSettings()
	tabs := layout.NewTabExpander(settings.TabWidth)
	flat := layout.NewEngine(layout.Settings{TabWidth: tabs.TabWidth()}).Layout(h.text)
	scheme := h.scheme()
	pal := format.DefaultPalette()

	var sb strings.Builder
	for _, s := range format.Split(n, h.formats, h.overlays, nil, from, to) {
		text := string(tabs.ExpandTabs(h.text[s.Start:s.End], flat.CursorToColumn(s.Start)))
		text = html.EscapeString(text)
		css := ""
		if s.Decorated() {
			css = format.CSS(s.Resolve(scheme, pal))
		}
		if css == "" {
			sb.WriteString(text)
			continue
		}
		sb.WriteString(`<span style="`)
		sb.WriteString(css)
		sb.WriteString(`">`)
		sb.WriteString(text)
		sb.WriteString("</span>")
	}
	return sb.String()
}

// Draw renders the visible rows of the line onto surface.
func (h *Handle) Draw(surface backend.Surface, opts DrawOptions) {
	v := h.LockForRead()
	defer v.Unlock()
	v.Draw(surface, opts)
}

// ExportAsHTML renders [from, to) as HTML.
func (h *Handle) ExportAsHTML(from, to int) string {
	v := h.LockForRead()
	defer v.Unlock()
	return v.ExportAsHTML(from, to)
}
