// Package gutter draws the line-number column to the left of the text.
package gutter

import (
	"strconv"

	"github.com/dshills/docline/internal/renderer/backend"
	"github.com/dshills/docline/internal/renderer/core"
)

// Config holds gutter configuration.
type Config struct {
	// MinWidth is the minimum number of digit columns.
	MinWidth int

	// Style is used for numbers and padding.
	Style core.Style
}

// DefaultConfig returns the default gutter configuration.
func DefaultConfig() Config {
	return Config{
		MinWidth: 3,
		Style:    core.NewStyle(core.ColorFromRGB(91, 98, 104)),
	}
}

// Gutter renders line numbers. Continuation rows of a wrapped line get
// an empty gutter.
type Gutter struct {
	config Config
	digits int
}

// New creates a gutter sized for lineCount lines.
func New(config Config, lineCount int) *Gutter {
	g := &Gutter{config: config}
	g.SetLineCount(lineCount)
	return g
}

// SetLineCount resizes the gutter for lineCount lines.
func (g *Gutter) SetLineCount(lineCount int) {
	g.digits = max(len(strconv.Itoa(max(lineCount, 1))), g.config.MinWidth)
}

// Width returns the gutter width in cells, including one separator column.
func (g *Gutter) Width() int {
	return g.digits + 1
}

// DrawRow draws the gutter at surface row y for the 0-based line lineNo.
// Only the first visual row of a line shows its number.
func (g *Gutter) DrawRow(surface backend.Surface, y, lineNo int, firstRow bool) {
	text := ""
	if firstRow {
		text = strconv.Itoa(lineNo + 1)
	}
	pad := g.digits - len(text)
	for x := 0; x < g.Width(); x++ {
		r := ' '
		if x >= pad && x-pad < len(text) {
			r = rune(text[x-pad])
		}
		surface.SetCell(x, y, core.NewStyledCell(r, g.config.Style))
	}
}
