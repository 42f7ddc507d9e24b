package format

import (
	"errors"
	"sync"

	"github.com/dshills/docline/internal/renderer/core"
)

// ErrUnknownFormat is returned when a format name is not registered.
var ErrUnknownFormat = errors.New("unknown format")

// Well-known format names registered by DefaultScheme.
const (
	NameNormal      = "normal"
	NameKeyword     = "keyword"
	NameComment     = "comment"
	NameString      = "string"
	NameNumber      = "number"
	NameOperator    = "operator"
	NameType        = "type"
	NameFunction    = "function"
	NameSelection   = "selection"
	NameSearch      = "search"
	NameBraceMatch  = "braceMatch"
	NameBraceError  = "braceMismatch"
	NameDiagnostic  = "diagnostic"
	NameCurrentLine = "current"
)

// Entry is one registered format.
type Entry struct {
	Name  string
	Style core.Style
}

// Scheme maps format ids to styles. Id 0 is always NameNormal.
// Scheme is safe for concurrent use.
type Scheme struct {
	mu      sync.RWMutex
	entries []Entry
	byName  map[string]int
}

// NewScheme creates a scheme holding only the normal format.
func NewScheme() *Scheme {
	s := &Scheme{byName: make(map[string]int)}
	s.Register(NameNormal, core.DefaultStyle())
	return s
}

// DefaultScheme returns a scheme with the well-known formats registered.
func DefaultScheme() *Scheme {
	s := NewScheme()
	s.Register(NameKeyword, core.NewStyle(core.ColorFromRGB(198, 120, 221)).Bold())
	s.Register(NameComment, core.NewStyle(core.ColorFromRGB(128, 128, 128)).Italic())
	s.Register(NameString, core.NewStyle(core.ColorFromRGB(152, 195, 121)))
	s.Register(NameNumber, core.NewStyle(core.ColorFromRGB(209, 154, 102)))
	s.Register(NameOperator, core.NewStyle(core.ColorFromRGB(86, 182, 194)))
	s.Register(NameType, core.NewStyle(core.ColorFromRGB(229, 192, 123)))
	s.Register(NameFunction, core.NewStyle(core.ColorFromRGB(97, 175, 239)))
	s.Register(NameSelection, core.DefaultStyle().WithBackground(core.ColorFromRGB(60, 90, 130)))
	s.Register(NameSearch, core.DefaultStyle().WithBackground(core.ColorFromRGB(100, 90, 30)))
	s.Register(NameBraceMatch, core.DefaultStyle().WithBackground(core.ColorFromRGB(40, 80, 40)).Bold())
	s.Register(NameBraceError, core.NewStyle(core.ColorFromRGB(255, 80, 80)).Underline())
	s.Register(NameDiagnostic, core.DefaultStyle().WithAttributes(core.AttrUnderline))
	s.Register(NameCurrentLine, core.DefaultStyle().WithBackground(core.ColorFromRGB(40, 40, 40)))
	return s
}

// Register adds or replaces a named format and returns its id.
// Replacing keeps the existing id.
func (s *Scheme) Register(name string, style core.Style) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byName[name]; ok {
		s.entries[id].Style = style
		return id
	}
	id := len(s.entries)
	s.entries = append(s.entries, Entry{Name: name, Style: style})
	s.byName[name] = id
	return id
}

// ID returns the id registered for name.
func (s *Scheme) ID(name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[name]
	if !ok {
		return None, ErrUnknownFormat
	}
	return id, nil
}

// Name returns the name of a format id, or "" if unknown.
func (s *Scheme) Name(id int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id < 0 || id >= len(s.entries) {
		return ""
	}
	return s.entries[id].Name
}

// Style returns the style for a format id. Unknown ids use the default style.
func (s *Scheme) Style(id int) core.Style {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id < 0 || id >= len(s.entries) {
		return core.DefaultStyle()
	}
	return s.entries[id].Style
}

// Len returns the number of registered formats.
func (s *Scheme) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
