// Package layout computes the visual layout of a single line: wrapped rows,
// per-cursor x positions and the mappings between cursor offsets and
// coordinates.
//
// All offsets are character (rune) offsets into the line text. Coordinates
// are measured in cells and converted to pixels through Metrics, which
// defaults to one pixel per cell so that terminal surfaces can use the
// values directly.
package layout

import (
	"sort"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Metrics converts cells to pixel coordinates.
type Metrics struct {
	CellWidth  int // Pixels per cell horizontally
	LineHeight int // Pixels per visual row
}

// DefaultMetrics returns terminal metrics (one pixel per cell).
func DefaultMetrics() Metrics {
	return Metrics{CellWidth: 1, LineHeight: 1}
}

func (m Metrics) normalized() Metrics {
	if m.CellWidth < 1 {
		m.CellWidth = 1
	}
	if m.LineHeight < 1 {
		m.LineHeight = 1
	}
	return m
}

// Settings configure layout computation.
type Settings struct {
	TabWidth   int  // Tab stop interval in cells
	WrapWidth  int  // Wrap width in cells (0 = no wrap)
	WrapAtWord bool // Break at line-break opportunities when possible
	Metrics    Metrics
}

// DefaultSettings returns unwrapped settings with a tab width of 4.
func DefaultSettings() Settings {
	return Settings{
		TabWidth:   DefaultTabWidth,
		WrapAtWord: true,
		Metrics:    DefaultMetrics(),
	}
}

// Row is one visual row of a wrapped line.
type Row struct {
	Start int // First character offset (inclusive)
	End   int // Last character offset (exclusive)
	Width int // Width in cells
}

// Frontier records a wrap point: the row starting at Offset follows a row
// that was Column cells wide.
type Frontier struct {
	Offset int
	Column int
}

// Layout is the visual layout of one line. A Layout is immutable once built
// and may be shared between readers.
type Layout struct {
	// Rows holds at least one row, even for empty text.
	Rows []Row

	// Cache holds the row-relative column of every cursor position 0..n.
	Cache []int

	// Widths holds the cells taken by each character.
	Widths []int

	// Frontiers holds one entry per wrap point.
	Frontiers []Frontier

	// Width is the width of the widest row in cells.
	Width int

	metrics Metrics
}

// Engine computes line layouts.
type Engine struct {
	settings Settings
	tabs     TabExpander
}

// NewEngine creates a layout engine.
func NewEngine(settings Settings) *Engine {
	if settings.WrapWidth < 0 {
		settings.WrapWidth = 0
	}
	settings.Metrics = settings.Metrics.normalized()
	tabs := NewTabExpander(settings.TabWidth)
	settings.TabWidth = tabs.TabWidth()
	return &Engine{settings: settings, tabs: tabs}
}

// Settings returns the effective settings.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Layout computes the visual layout for text.
func (e *Engine) Layout(text []rune) *Layout {
	n := len(text)
	l := &Layout{
		Cache:   make([]int, n+1),
		Widths:  make([]int, n),
		metrics: e.settings.Metrics,
	}

	wrap := e.settings.WrapWidth
	var canBreak []bool
	if wrap > 0 && e.settings.WrapAtWord {
		canBreak = breakOpportunities(text)
	}

	rowStart, col := 0, 0
	for i := 0; i < n; {
		w := e.tabs.cellWidth(text[i], col)
		l.Cache[i] = col

		if wrap > 0 && col > 0 && col+w > wrap {
			at := i
			for k := i; canBreak != nil && k > rowStart; k-- {
				if canBreak[k] {
					at = k
					break
				}
			}
			l.addRow(rowStart, at, l.Cache[at])
			l.Frontiers = append(l.Frontiers, Frontier{Offset: at, Column: l.Cache[at]})

			// Characters after the break are laid out again: tab widths
			// depend on the column within the row.
			rowStart, col, i = at, 0, at
			continue
		}

		l.Widths[i] = w
		col += w
		i++
	}
	l.Cache[n] = col
	l.addRow(rowStart, n, col)
	return l
}

func (l *Layout) addRow(start, end, width int) {
	l.Rows = append(l.Rows, Row{Start: start, End: end, Width: width})
	if width > l.Width {
		l.Width = width
	}
}

// breakOpportunities reports, for each offset, whether a line may break
// before the character at that offset.
func breakOpportunities(text []rune) []bool {
	ok := make([]bool, len(text)+1)
	rest := string(text)
	state := -1
	pos := 0
	for len(rest) > 0 {
		var segment string
		segment, rest, _, state = uniseg.FirstLineSegmentInString(rest, state)
		pos += utf8.RuneCountInString(segment)
		ok[pos] = true
	}
	return ok
}

// Length returns the number of characters laid out.
func (l *Layout) Length() int {
	return len(l.Widths)
}

// RowCount returns the number of visual rows.
func (l *Layout) RowCount() int {
	return len(l.Rows)
}

// Height returns the line height in pixels.
func (l *Layout) Height() int {
	return len(l.Rows) * l.metrics.LineHeight
}

// Metrics returns the metrics the layout was built with.
func (l *Layout) Metrics() Metrics {
	return l.metrics
}

// Breaks returns the offsets at which wrapped rows start, excluding row 0.
func (l *Layout) Breaks() []int {
	breaks := make([]int, 0, len(l.Frontiers))
	for _, f := range l.Frontiers {
		breaks = append(breaks, f.Offset)
	}
	return breaks
}

func (l *Layout) clampCursor(i int) int {
	if i < 0 {
		return 0
	}
	if i > l.Length() {
		return l.Length()
	}
	return i
}

func (l *Layout) clampRow(row int) int {
	if row < 0 {
		return 0
	}
	if row >= len(l.Rows) {
		return len(l.Rows) - 1
	}
	return row
}

// RowForCursor returns the visual row holding cursor offset i.
// A cursor sitting on a wrap point belongs to the later row.
func (l *Layout) RowForCursor(i int) int {
	i = l.clampCursor(i)
	row := sort.Search(len(l.Rows), func(r int) bool {
		return l.Rows[r].Start > i
	})
	return l.clampRow(row - 1)
}

// CursorToColumn returns the row-relative cell column of cursor offset i.
func (l *Layout) CursorToColumn(i int) int {
	return l.Cache[l.clampCursor(i)]
}

// CursorToX returns the row-relative x coordinate of cursor offset i.
func (l *Layout) CursorToX(i int) int {
	return l.CursorToColumn(i) * l.metrics.CellWidth
}

// XToCursor maps an x coordinate on the first row to the nearest cursor offset.
func (l *Layout) XToCursor(x int) int {
	return l.XToCursorInRow(0, x)
}

// XToCursorInRow maps an x coordinate within a row to the nearest cursor
// offset. Coordinates left of the row resolve to its start and coordinates
// right of it resolve to its end.
func (l *Layout) XToCursorInRow(row, x int) int {
	row = l.clampRow(row)
	r := l.Rows[row]
	cw := l.metrics.CellWidth
	for i := r.Start; i < r.End; i++ {
		left := l.Cache[i] * cw
		width := l.Widths[i] * cw
		// Choose i when x lies in the left half of the glyph.
		if 2*x < 2*left+width {
			return i
		}
	}
	// The wrap point belongs to the next row.
	if row < len(l.Rows)-1 && r.End > r.Start {
		return r.End - 1
	}
	return r.End
}

// CursorToPoint returns the (x, y) pixel position of cursor offset i
// relative to the line's top-left corner.
func (l *Layout) CursorToPoint(i int) (x, y int) {
	i = l.clampCursor(i)
	return l.CursorToX(i), l.RowForCursor(i) * l.metrics.LineHeight
}

// PointToCursor maps a pixel position relative to the line's top-left
// corner to the nearest cursor offset. Points above or below the line
// resolve to the first or last row.
func (l *Layout) PointToCursor(x, y int) int {
	row := 0
	if y > 0 {
		row = y / l.metrics.LineHeight
	}
	return l.XToCursorInRow(row, x)
}
