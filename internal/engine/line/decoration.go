package line

import (
	"slices"

	"github.com/dshills/docline/internal/renderer/format"
)

// ParenRole describes what a parenthesis does.
type ParenRole uint8

// Paren roles.
const (
	ParenOpen ParenRole = 1 << iota
	ParenClose
	ParenIndent // affects indentation of following lines
	ParenFold   // starts or ends a fold region
	ParenMatch  // takes part in bracket matching
)

// Paren is a bracket found by the analyzer.
type Paren struct {
	Offset int
	Length int
	ID     int // bracket kind, equal for matching open/close pairs
	Role   ParenRole
}

// Formats returns a copy of the format transitions.
func (v *View) Formats() []format.Transition {
	return slices.Clone(v.h.formats)
}

// Compose returns one format id per character with overlays applied on
// top of the base formats. Later overlays win.
func (v *View) Compose() []int {
	out := format.ToPerChar(v.h.formats, len(v.h.text))
	for _, o := range v.h.overlays {
		o = o.Clamp(len(out))
		for i := o.Start; i < o.End(); i++ {
			out[i] = o.Format
		}
	}
	return out
}

// Overlays returns the overlays with the given format, or all of them when
// preferred is format.Any.
func (v *View) Overlays(preferred int) []format.Range {
	var out []format.Range
	for _, o := range v.h.overlays {
		if preferred == format.Any || o.Format == preferred {
			out = append(out, o)
		}
	}
	return out
}

// OverlayAt returns the most recently added overlay covering index, filtered by
// preferred.
func (v *View) OverlayAt(index, preferred int) (format.Range, bool) {
	for i := len(v.h.overlays) - 1; i >= 0; i-- {
		o := v.h.overlays[i]
		if (preferred == format.Any || o.Format == preferred) && o.Contains(index) {
			return o, true
		}
	}
	return format.Range{}, false
}

// HasOverlay reports whether an overlay with the given format exists.
func (v *View) HasOverlay(f int) bool {
	for _, o := range v.h.overlays {
		if f == format.Any || o.Format == f {
			return true
		}
	}
	return false
}

// FirstOverlayBetween returns the overlay with the lowest start that
// intersects [start, end).
func (v *View) FirstOverlayBetween(start, end, preferred int) (format.Range, bool) {
	var best format.Range
	found := false
	for _, o := range v.h.overlays {
		if preferred != format.Any && o.Format != preferred {
			continue
		}
		if !o.Intersects(start, end) {
			continue
		}
		if !found || o.Start < best.Start {
			best, found = o, true
		}
	}
	return best, found
}

// LastOverlayBetween returns the overlay with the highest end that
// intersects [start, end).
func (v *View) LastOverlayBetween(start, end, preferred int) (format.Range, bool) {
	var best format.Range
	found := false
	for _, o := range v.h.overlays {
		if preferred != format.Any && o.Format != preferred {
			continue
		}
		if !o.Intersects(start, end) {
			continue
		}
		if !found || o.End() >= best.End() {
			best, found = o, true
		}
	}
	return best, found
}

// Decorations splits [from, until) into runs sharing one decoration. sel
// holds (start, end) selection pairs. until < 0 means the end of the line.
func (v *View) Decorations(from, until int, sel []int) []format.Segment {
	return format.Split(len(v.h.text), v.h.formats, v.h.overlays, sel, from, until)
}

// Parens returns a copy of the parenthesis list.
func (v *View) Parens() []Paren {
	return slices.Clone(v.h.parens)
}

// MatchContext returns the analyzer state stored with the line.
func (v *View) MatchContext() any {
	return v.h.context
}

// SetFormats replaces the format transitions. The layout is invalidated.
func (e *Editor) SetFormats(ts []format.Transition) {
	e.h.formats = format.Normalize(ts, len(e.h.text))
	e.h.invalidate()
	e.h.SetFlag(FlagFormatsApplied, true)
}

// SetFormatsPerChar replaces the formats from one id per character.
func (e *Editor) SetFormatsPerChar(ids []int) {
	e.SetFormats(format.FromPerChar(ids))
}

// AddOverlay appends an overlay clamped to the text.
func (e *Editor) AddOverlay(r format.Range) {
	e.h.overlays = append(e.h.overlays, r.Clamp(len(e.h.text)))
}

// RemoveOverlay removes every overlay equal to r and reports whether any
// was found.
func (e *Editor) RemoveOverlay(r format.Range) bool {
	n := len(e.h.overlays)
	e.h.overlays = slices.DeleteFunc(e.h.overlays, func(o format.Range) bool {
		return o == r
	})
	return len(e.h.overlays) != n
}

// ClearOverlays removes every overlay.
func (e *Editor) ClearOverlays() {
	e.h.overlays = nil
}

// ClearOverlaysOf removes the overlays with the given format.
func (e *Editor) ClearOverlaysOf(f int) {
	if f == format.Any {
		e.ClearOverlays()
		return
	}
	e.h.overlays = slices.DeleteFunc(e.h.overlays, func(o format.Range) bool {
		return o.Format == f
	})
}

// ShiftOverlays moves every overlay starting at or after position by
// offset. Other overlays are left alone. A moved overlay keeps its length
// and slides back inside the text when the shift pushes it out; only an
// overlay longer than the text is shortened.
func (e *Editor) ShiftOverlays(position, offset int) {
	n := len(e.h.text)
	for i, o := range e.h.overlays {
		if o.Start < position {
			continue
		}
		o.Start += offset
		if o.End() > n {
			o.Start = n - o.Length
		}
		e.h.overlays[i] = o.Clamp(n)
	}
}

// SetParens replaces the parenthesis list.
func (e *Editor) SetParens(ps []Paren) {
	e.h.parens = slices.Clone(ps)
}

// SetMatchContext stores analyzer state with the line.
func (e *Editor) SetMatchContext(ctx any) {
	e.h.context = ctx
}

// Formats returns a copy of the format transitions.
func (h *Handle) Formats() []format.Transition {
	v := h.LockForRead()
	defer v.Unlock()
	return v.Formats()
}

// Compose returns one format id per character with overlays applied.
func (h *Handle) Compose() []int {
	v := h.LockForRead()
	defer v.Unlock()
	return v.Compose()
}

// Overlays returns the overlays with the given format, or all of them.
func (h *Handle) Overlays(preferred int) []format.Range {
	v := h.LockForRead()
	defer v.Unlock()
	return v.Overlays(preferred)
}

// OverlayAt returns the last added overlay covering index.
func (h *Handle) OverlayAt(index, preferred int) (format.Range, bool) {
	v := h.LockForRead()
	defer v.Unlock()
	return v.OverlayAt(index, preferred)
}

// HasOverlay reports whether an overlay with the given format exists.
func (h *Handle) HasOverlay(f int) bool {
	v := h.LockForRead()
	defer v.Unlock()
	return v.HasOverlay(f)
}

// FirstOverlayBetween returns the first overlay intersecting [start, end).
func (h *Handle) FirstOverlayBetween(start, end, preferred int) (format.Range, bool) {
	v := h.LockForRead()
	defer v.Unlock()
	return v.FirstOverlayBetween(start, end, preferred)
}

// LastOverlayBetween returns the last overlay intersecting [start, end).
func (h *Handle) LastOverlayBetween(start, end, preferred int) (format.Range, bool) {
	v := h.LockForRead()
	defer v.Unlock()
	return v.LastOverlayBetween(start, end, preferred)
}

// Decorations splits [from, until) into runs sharing one decoration.
func (h *Handle) Decorations(from, until int, sel []int) []format.Segment {
	v := h.LockForRead()
	defer v.Unlock()
	return v.Decorations(from, until, sel)
}

// Parens returns a copy of the parenthesis list.
func (h *Handle) Parens() []Paren {
	v := h.LockForRead()
	defer v.Unlock()
	return v.Parens()
}

// MatchContext returns the analyzer state stored with the line.
func (h *Handle) MatchContext() any {
	v := h.LockForRead()
	defer v.Unlock()
	return v.MatchContext()
}

// SetFormats replaces the format transitions.
func (h *Handle) SetFormats(ts []format.Transition) {
	e := h.LockForWrite()
	defer e.Unlock()
	e.SetFormats(ts)
}

// SetFormatsPerChar replaces the formats from one id per character.
func (h *Handle) SetFormatsPerChar(ids []int) {
	e := h.LockForWrite()
	defer e.Unlock()
	e.SetFormatsPerChar(ids)
}

// AddOverlay appends an overlay.
func (h *Handle) AddOverlay(r format.Range) {
	e := h.LockForWrite()
	defer e.Unlock()
	e.AddOverlay(r)
}

// RemoveOverlay removes every overlay equal to r.
func (h *Handle) RemoveOverlay(r format.Range) bool {
	e := h.LockForWrite()
	defer e.Unlock()
	return e.RemoveOverlay(r)
}

// ClearOverlays removes every overlay.
func (h *Handle) ClearOverlays() {
	e := h.LockForWrite()
	defer e.Unlock()
	e.ClearOverlays()
}

// ClearOverlaysOf removes the overlays with the given format.
func (h *Handle) ClearOverlaysOf(f int) {
	e := h.LockForWrite()
	defer e.Unlock()
	e.ClearOverlaysOf(f)
}

// ShiftOverlays moves every overlay starting at or after position.
func (h *Handle) ShiftOverlays(position, offset int) {
	e := h.LockForWrite()
	defer e.Unlock()
	e.ShiftOverlays(position, offset)
}

// SetParens replaces the parenthesis list.
func (h *Handle) SetParens(ps []Paren) {
	e := h.LockForWrite()
	defer e.Unlock()
	e.SetParens(ps)
}

// SetMatchContext stores analyzer state with the line.
func (h *Handle) SetMatchContext(ctx any) {
	e := h.LockForWrite()
	defer e.Unlock()
	e.SetMatchContext(ctx)
}
