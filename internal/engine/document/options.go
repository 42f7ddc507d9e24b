package document

import (
	"github.com/dshills/docline/internal/renderer/format"
	"github.com/dshills/docline/internal/renderer/layout"
)

// Option is a functional option for configuring a Document.
type Option func(*Document)

// WithSettings replaces the layout settings.
func WithSettings(s layout.Settings) Option {
	return func(d *Document) {
		d.settings = s
	}
}

// WithTabWidth sets the tab width.
func WithTabWidth(width int) Option {
	return func(d *Document) {
		if width > 0 {
			d.settings.TabWidth = width
		}
	}
}

// WithWrapWidth sets the wrap width in cells. Zero disables wrapping.
func WithWrapWidth(width int) Option {
	return func(d *Document) {
		if width >= 0 {
			d.settings.WrapWidth = width
		}
	}
}

// WithScheme sets the format scheme.
func WithScheme(s *format.Scheme) Option {
	return func(d *Document) {
		d.scheme = s
	}
}

// WithIndentRule sets the indent rule used by the lines.
func WithIndentRule(r layout.IndentRule) Option {
	return func(d *Document) {
		d.indent = r
	}
}

// WithLineEnding sets the line ending used by Text.
func WithLineEnding(le LineEnding) Option {
	return func(d *Document) {
		d.lineEnding = le
	}
}
