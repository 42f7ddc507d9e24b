package line

import (
	"github.com/dshills/docline/internal/renderer/core"
	"github.com/dshills/docline/internal/renderer/layout"
)

// layoutLocked returns the current layout, rebuilding it when the text or
// the document settings changed. The caller holds mu in either mode.
func (h *Handle) layoutLocked() *layout.Layout {
	settings := h.layoutSettings()

	h.layoutMu.Lock()
	defer h.layoutMu.Unlock()

	if h.layout != nil && h.builtWith == settings {
		return h.layout
	}
	h.layout = layout.NewEngine(settings).Layout(h.text)
	h.builtWith = settings
	h.indent = -1
	h.builds.Add(1)
	h.SetFlag(FlagLayoutDirty, false)
	return h.layout
}

// indentLocked returns the memoized indent. The caller holds mu.
func (h *Handle) indentLocked() int {
	settings := h.layoutSettings()
	rule := h.indentRule()

	h.layoutMu.Lock()
	defer h.layoutMu.Unlock()
	tab := layout.NewTabExpander(settings.TabWidth).TabWidth()
	if h.indent < 0 || h.indentTab != tab {
		h.indent = rule.Indent(h.text, tab)
		h.indentTab = tab
		if h.indent < 0 {
			h.indent = 0
		}
	}
	return h.indent
}

// CursorToX returns the row-relative x coordinate of cursor offset i.
func (v *View) CursorToX(i int) int {
	return v.h.layoutLocked().CursorToX(i)
}

// XToCursor maps x on the first visual row to the nearest cursor offset.
func (v *View) XToCursor(x int) int {
	return v.h.layoutLocked().XToCursor(x)
}

// XToCursorInRow maps x on the given visual row to the nearest cursor offset.
func (v *View) XToCursorInRow(row, x int) int {
	return v.h.layoutLocked().XToCursorInRow(row, x)
}

// WrappedLineForCursor returns the visual row holding cursor offset i.
func (v *View) WrappedLineForCursor(i int) int {
	return v.h.layoutLocked().RowForCursor(i)
}

// DocumentOffsetToCursor maps a point relative to the line's top-left
// corner to the nearest cursor offset.
func (v *View) DocumentOffsetToCursor(x, y int) int {
	return v.h.layoutLocked().PointToCursor(x, y)
}

// CursorToDocumentOffset returns the point of cursor offset i relative to
// the line's top-left corner.
func (v *View) CursorToDocumentOffset(i int) (x, y int) {
	return v.h.layoutLocked().CursorToPoint(i)
}

// CursorToPoint returns the cell position of cursor offset i.
func (v *View) CursorToPoint(i int) core.ScreenPos {
	l := v.h.layoutLocked()
	return core.ScreenPos{Row: l.RowForCursor(i), Col: l.CursorToColumn(i)}
}

// RowCount returns the number of visual rows.
func (v *View) RowCount() int {
	return v.h.layoutLocked().RowCount()
}

// Height returns the line height in pixels.
func (v *View) Height() int {
	return v.h.layoutLocked().Height()
}

// Breaks returns the offsets at which wrapped rows start.
func (v *View) Breaks() []int {
	return v.h.layoutLocked().Breaks()
}

// Indent returns the indentation width in cells.
func (v *View) Indent() int {
	return v.h.indentLocked()
}

// ClearFrontiers drops the memoized layout. The next query rebuilds it.
func (e *Editor) ClearFrontiers() {
	e.h.invalidate()
}

// UpdateWrap rebuilds the layout if needed and returns the row count
// reported by the previous call (zero the first time) and the current one.
func (e *Editor) UpdateWrap() (oldRows, newRows int) {
	newRows = e.h.layoutLocked().RowCount()
	e.h.layoutMu.Lock()
	oldRows = e.h.reported
	e.h.reported = newRows
	e.h.layoutMu.Unlock()
	return oldRows, newRows
}

// LayoutBuilds returns how many times the layout has been computed.
func (h *Handle) LayoutBuilds() int64 {
	return h.builds.Load()
}

// CursorToX returns the row-relative x coordinate of cursor offset i.
func (h *Handle) CursorToX(i int) int {
	v := h.LockForRead()
	defer v.Unlock()
	return v.CursorToX(i)
}

// XToCursor maps x on the first visual row to the nearest cursor offset.
func (h *Handle) XToCursor(x int) int {
	v := h.LockForRead()
	defer v.Unlock()
	return v.XToCursor(x)
}

// XToCursorInRow maps x on the given visual row to the nearest cursor offset.
func (h *Handle) XToCursorInRow(row, x int) int {
	v := h.LockForRead()
	defer v.Unlock()
	return v.XToCursorInRow(row, x)
}

// WrappedLineForCursor returns the visual row holding cursor offset i.
func (h *Handle) WrappedLineForCursor(i int) int {
	v := h.LockForRead()
	defer v.Unlock()
	return v.WrappedLineForCursor(i)
}

// DocumentOffsetToCursor maps a point relative to the line's top-left
// corner to the nearest cursor offset.
func (h *Handle) DocumentOffsetToCursor(x, y int) int {
	v := h.LockForRead()
	defer v.Unlock()
	return v.DocumentOffsetToCursor(x, y)
}

// CursorToDocumentOffset returns the point of cursor offset i relative to
// the line's top-left corner.
func (h *Handle) CursorToDocumentOffset(i int) (x, y int) {
	v := h.LockForRead()
	defer v.Unlock()
	return v.CursorToDocumentOffset(i)
}

// CursorToPoint returns the cell position of cursor offset i.
func (h *Handle) CursorToPoint(i int) core.ScreenPos {
	v := h.LockForRead()
	defer v.Unlock()
	return v.CursorToPoint(i)
}

// RowCount returns the number of visual rows.
func (h *Handle) RowCount() int {
	v := h.LockForRead()
	defer v.Unlock()
	return v.RowCount()
}

// Height returns the line height in pixels.
func (h *Handle) Height() int {
	v := h.LockForRead()
	defer v.Unlock()
	return v.Height()
}

// Breaks returns the offsets at which wrapped rows start.
func (h *Handle) Breaks() []int {
	v := h.LockForRead()
	defer v.Unlock()
	return v.Breaks()
}

// Indent returns the indentation width in cells.
func (h *Handle) Indent() int {
	v := h.LockForRead()
	defer v.Unlock()
	return v.Indent()
}

// ClearFrontiers drops the memoized layout.
func (h *Handle) ClearFrontiers() {
	e := h.LockForWrite()
	defer e.Unlock()
	e.ClearFrontiers()
}

// UpdateWrap rebuilds the layout if needed and returns the previously
// reported and the current visual row counts.
func (h *Handle) UpdateWrap() (oldRows, newRows int) {
	e := h.LockForWrite()
	defer e.Unlock()
	return e.UpdateWrap()
}

// UpdateWrapAndNotifyDocument rebuilds the layout and tells the document
// when the number of visual rows changed. The document is called after the
// line lock is released.
func (h *Handle) UpdateWrapAndNotifyDocument(lineNumber int) {
	oldRows, newRows := h.UpdateWrap()
	if oldRows != newRows && h.doc != nil {
		h.doc.WrapChanged(lineNumber, oldRows, newRows)
	}
}
