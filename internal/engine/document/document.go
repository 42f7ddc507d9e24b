package document

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dshills/docline/internal/engine/line"
	"github.com/dshills/docline/internal/renderer/format"
	"github.com/dshills/docline/internal/renderer/layout"
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// DetectLineEnding returns the most common line ending in text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lf, crlf, cr int
	for i := 0; i < len(text); i++ {
		switch {
		case text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n':
			crlf++
			i++
		case text[i] == '\r':
			cr++
		case text[i] == '\n':
			lf++
		}
	}
	if crlf > 0 && crlf >= lf && crlf >= cr {
		return LineEndingCRLF
	}
	if cr > 0 && cr >= lf {
		return LineEndingCR
	}
	return LineEndingLF
}

// Document is an ordered sequence of lines.
type Document struct {
	mu         sync.RWMutex
	lines      []*line.Handle
	rows       map[*line.Handle]int
	totalRows  int
	settings   layout.Settings
	scheme     *format.Scheme
	indent     layout.IndentRule
	lineEnding LineEnding
	closed     bool
}

// New creates an empty document.
func New(opts ...Option) *Document {
	d := &Document{
		rows:     make(map[*line.Handle]int),
		settings: layout.DefaultSettings(),
		scheme:   format.DefaultScheme(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FromString creates a document holding the lines of s. The line ending is
// detected unless set by an option.
func FromString(s string, opts ...Option) *Document {
	opts = append([]Option{WithLineEnding(DetectLineEnding(s))}, opts...)
	d := New(opts...)

	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	for i, text := range strings.Split(s, "\n") {
		// Cannot fail: i is always the current length.
		_, _ = d.InsertLine(i, text)
	}
	return d
}

// Len returns the number of lines.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.lines)
}

// LineAt returns the handle at index n, or nil.
func (d *Document) LineAt(n int) *line.Handle {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if n < 0 || n >= len(d.lines) {
		return nil
	}
	return d.lines[n]
}

// Lines returns a copy of the line sequence.
func (d *Document) Lines() []*line.Handle {
	return d.snapshot(0, d.Len())
}

// LineNumber returns the index of h, or -1.
func (d *Document) LineNumber(h *line.Handle) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.indexLocked(h)
}

func (d *Document) indexLocked(h *line.Handle) int {
	for i, l := range d.lines {
		if l == h {
			return i
		}
	}
	return -1
}

// LineOffset returns the character offset of the start of line n. Each
// line ending counts as one character.
func (d *Document) LineOffset(n int) int {
	offset := 0
	for _, h := range d.snapshot(0, n) {
		offset += h.Length() + 1
	}
	return offset
}

// snapshot copies lines [from, to) so they can be used without d.mu.
func (d *Document) snapshot(from, to int) []*line.Handle {
	d.mu.RLock()
	defer d.mu.RUnlock()
	from = max(from, 0)
	to = min(to, len(d.lines))
	if from >= to {
		return nil
	}
	return append([]*line.Handle(nil), d.lines[from:to]...)
}

// LayoutSettings returns the settings lines are laid out with.
func (d *Document) LayoutSettings() layout.Settings {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.settings
}

// Scheme returns the format scheme.
func (d *Document) Scheme() *format.Scheme {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.scheme
}

// IndentRule returns the indent rule, or nil for the default.
func (d *Document) IndentRule() layout.IndentRule {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.indent
}

// SetIndentRule replaces the indent rule.
func (d *Document) SetIndentRule(r layout.IndentRule) {
	d.mu.Lock()
	d.indent = r
	lines := append([]*line.Handle(nil), d.lines...)
	d.mu.Unlock()

	for _, h := range lines {
		h.ClearFrontiers()
	}
}

// SetLayoutSettings replaces the layout settings and rewraps every line.
func (d *Document) SetLayoutSettings(s layout.Settings) {
	d.mu.Lock()
	d.settings = s
	lines := append([]*line.Handle(nil), d.lines...)
	d.mu.Unlock()

	for i, h := range lines {
		h.UpdateWrapAndNotifyDocument(i)
	}
}

// WrapChanged records that line n now spans newRows visual rows.
func (d *Document) WrapChanged(n, oldRows, newRows int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n < 0 || n >= len(d.lines) {
		return
	}
	h := d.lines[n]
	d.totalRows += newRows - d.rows[h]
	d.rows[h] = newRows
}

// TotalRows returns the number of visual rows of all lines.
func (d *Document) TotalRows() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.totalRows
}

// Height returns the document height in pixels.
func (d *Document) Height() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	lh := d.settings.Metrics.LineHeight
	if lh < 1 {
		lh = 1
	}
	return d.totalRows * lh
}

// InsertLine inserts a new line holding text at index n.
func (d *Document) InsertLine(n int, text string) (*line.Handle, error) {
	h := line.New(text, d)
	h.Ref()

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		h.Deref()
		return nil, ErrClosed
	}
	if n < 0 || n > len(d.lines) {
		size := len(d.lines)
		d.mu.Unlock()
		h.Deref()
		return nil, fmt.Errorf("insert line %d of %d: %w", n, size, ErrLineOutOfRange)
	}
	d.lines = append(d.lines, nil)
	copy(d.lines[n+1:], d.lines[n:])
	d.lines[n] = h
	d.mu.Unlock()

	h.UpdateWrapAndNotifyDocument(n)
	return h, nil
}

// RemoveLine removes line n and releases the document's reference.
func (d *Document) RemoveLine(n int) error {
	d.mu.Lock()
	if n < 0 || n >= len(d.lines) {
		size := len(d.lines)
		d.mu.Unlock()
		return fmt.Errorf("remove line %d of %d: %w", n, size, ErrLineOutOfRange)
	}
	h := d.lines[n]
	d.lines = append(d.lines[:n], d.lines[n+1:]...)
	d.totalRows -= d.rows[h]
	delete(d.rows, h)
	d.mu.Unlock()

	h.Deref()
	return nil
}

// Edit runs fn with a text lock on line n, then rewraps the line.
func (d *Document) Edit(n int, fn func(e *line.Editor)) error {
	h := d.LineAt(n)
	if h == nil {
		return fmt.Errorf("edit line %d: %w", n, ErrLineOutOfRange)
	}
	e := h.LockForWriteText()
	fn(e)
	e.Unlock()

	h.UpdateWrapAndNotifyDocument(d.LineNumber(h))
	return nil
}

// Text returns the document text joined with the document's line ending.
func (d *Document) Text() string {
	d.mu.RLock()
	sep := d.lineEnding.Sequence()
	d.mu.RUnlock()

	lines := d.Lines()
	parts := make([]string, len(lines))
	for i, h := range lines {
		parts[i] = h.Text()
	}
	return strings.Join(parts, sep)
}

// Close releases every line. Lines still referenced elsewhere stay alive
// until their last owner lets go.
func (d *Document) Close() {
	d.mu.Lock()
	lines := d.lines
	d.lines = nil
	d.rows = make(map[*line.Handle]int)
	d.totalRows = 0
	d.closed = true
	d.mu.Unlock()

	for _, h := range lines {
		h.Deref()
	}
}
