package line

import "unicode"

// Text returns the line text.
func (v *View) Text() string {
	return string(v.h.text)
}

// Length returns the number of characters in the line.
func (v *View) Length() int {
	return len(v.h.text)
}

// NextNonSpaceChar returns the offset of the first non-whitespace
// character at or after pos, or -1.
func (v *View) NextNonSpaceChar(pos int) int {
	if pos < 0 {
		pos = 0
	}
	for i := pos; i < len(v.h.text); i++ {
		if !unicode.IsSpace(v.h.text[i]) {
			return i
		}
	}
	return -1
}

// PreviousNonSpaceChar returns the offset of the last non-whitespace
// character at or before pos, or -1.
func (v *View) PreviousNonSpaceChar(pos int) int {
	if pos >= len(v.h.text) {
		pos = len(v.h.text) - 1
	}
	for i := pos; i >= 0; i-- {
		if !unicode.IsSpace(v.h.text[i]) {
			return i
		}
	}
	return -1
}

func (e *Editor) checkText() {
	if !e.text {
		panic(ErrTextNotTicketed)
	}
}

// SetText replaces the whole text.
func (e *Editor) SetText(s string) {
	e.checkText()
	e.h.text = []rune(s)
	e.h.invalidate()
}

// Insert inserts s at offset, clamped to the text bounds.
func (e *Editor) Insert(offset int, s string) {
	e.checkText()
	if s == "" {
		return
	}
	offset = clamp(offset, 0, len(e.h.text))
	ins := []rune(s)
	text := make([]rune, 0, len(e.h.text)+len(ins))
	text = append(text, e.h.text[:offset]...)
	text = append(text, ins...)
	text = append(text, e.h.text[offset:]...)
	e.h.text = text
	e.h.invalidate()
}

// Remove deletes up to n characters starting at offset.
func (e *Editor) Remove(offset, n int) {
	e.checkText()
	offset = clamp(offset, 0, len(e.h.text))
	end := clamp(offset+n, offset, len(e.h.text))
	if end == offset {
		return
	}
	e.h.text = append(e.h.text[:offset:offset], e.h.text[end:]...)
	e.h.invalidate()
}

// invalidate drops everything derived from text or formats.
// The caller holds mu exclusively.
func (h *Handle) invalidate() {
	h.layoutMu.Lock()
	h.layout = nil
	h.indent = -1
	h.layoutMu.Unlock()
	h.SetFlag(FlagLayoutDirty, true)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Text returns the line text.
func (h *Handle) Text() string {
	v := h.LockForRead()
	defer v.Unlock()
	return v.Text()
}

// Length returns the number of characters in the line.
func (h *Handle) Length() int {
	v := h.LockForRead()
	defer v.Unlock()
	return v.Length()
}

// SetText replaces the whole text.
func (h *Handle) SetText(s string) {
	e := h.LockForWriteText()
	defer e.Unlock()
	e.SetText(s)
}

// Insert inserts s at offset.
func (h *Handle) Insert(offset int, s string) {
	e := h.LockForWriteText()
	defer e.Unlock()
	e.Insert(offset, s)
}

// Remove deletes up to n characters starting at offset.
func (h *Handle) Remove(offset, n int) {
	e := h.LockForWriteText()
	defer e.Unlock()
	e.Remove(offset, n)
}

// NextNonSpaceChar returns the offset of the first non-whitespace
// character at or after pos, or -1.
func (h *Handle) NextNonSpaceChar(pos int) int {
	v := h.LockForRead()
	defer v.Unlock()
	return v.NextNonSpaceChar(pos)
}

// PreviousNonSpaceChar returns the offset of the last non-whitespace
// character at or before pos, or -1.
func (h *Handle) PreviousNonSpaceChar(pos int) int {
	v := h.LockForRead()
	defer v.Unlock()
	return v.PreviousNonSpaceChar(pos)
}
