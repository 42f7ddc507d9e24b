// Package statusline draws the one-row status bar of the viewer.
package statusline

import (
	"fmt"

	"github.com/dshills/docline/internal/renderer/backend"
	"github.com/dshills/docline/internal/renderer/core"
)

// StatusLine shows the file name and language on the left and the scroll
// position on the right.
type StatusLine struct {
	Filename string
	Language string
	Line     int // first visible line, 0-based
	Total    int // number of lines
	Message  string

	Style core.Style
}

// New creates a status line with the default style.
func New() *StatusLine {
	return &StatusLine{
		Style: core.NewStyle(core.ColorFromRGB(216, 222, 233)).
			WithBackground(core.ColorFromRGB(59, 66, 82)),
	}
}

// Right returns the position text, e.g. "12/140 8%".
func (s *StatusLine) Right() string {
	pct := 100
	if s.Total > 1 {
		pct = s.Line * 100 / (s.Total - 1)
	}
	return fmt.Sprintf("%d/%d %d%%", s.Line+1, s.Total, pct)
}

// Left returns the file text, or the message when one is set.
func (s *StatusLine) Left() string {
	if s.Message != "" {
		return s.Message
	}
	name := s.Filename
	if name == "" {
		name = "[No Name]"
	}
	if s.Language != "" {
		name += " [" + s.Language + "]"
	}
	return name
}

// Render draws the bar across row y of surface.
func (s *StatusLine) Render(surface backend.Surface, y int) {
	width, _ := surface.Size()
	for x := 0; x < width; x++ {
		surface.SetCell(x, y, core.NewStyledCell(' ', s.Style))
	}

	right := []rune(s.Right())
	rightStart := width - len(right) - 1

	col := 1
	for _, r := range s.Left() {
		w := core.RuneWidth(r)
		if col+w >= rightStart {
			break
		}
		surface.SetCell(col, y, core.Cell{Rune: r, Width: w, Style: s.Style})
		for k := 1; k < w; k++ {
			surface.SetCell(col+k, y, core.ContinuationCell(s.Style))
		}
		col += w
	}
	if rightStart > 0 {
		for i, r := range right {
			surface.SetCell(rightStart+i, y, core.NewStyledCell(r, s.Style))
		}
	}
}
