package layout

import "github.com/dshills/docline/internal/renderer/core"

// DefaultTabWidth is used when a non-positive tab width is configured.
const DefaultTabWidth = 4

// TabExpander provides tab expansion utilities.
type TabExpander struct {
	tabWidth int
}

// NewTabExpander creates a tab expander with the given tab width.
func NewTabExpander(tabWidth int) TabExpander {
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}
	return TabExpander{tabWidth: tabWidth}
}

// TabWidth returns the current tab width.
func (t TabExpander) TabWidth() int {
	if t.tabWidth < 1 {
		return DefaultTabWidth
	}
	return t.tabWidth
}

// NextTabStop returns the next tab stop column after the given column.
func (t TabExpander) NextTabStop(col int) int {
	return col + t.TabStopOffset(col)
}

// TabStopOffset returns how many cells a tab at the given column expands to.
func (t TabExpander) TabStopOffset(col int) int {
	return t.TabWidth() - (col % t.TabWidth())
}

// ExpandedWidth calculates the visual width of text with tab expansion.
func (t TabExpander) ExpandedWidth(text []rune) int {
	col := 0
	for _, r := range text {
		col += t.cellWidth(r, col)
	}
	return col
}

// ExpandTabs returns text with tabs replaced by spaces, starting at column col.
func (t TabExpander) ExpandTabs(text []rune, col int) []rune {
	result := make([]rune, 0, len(text))
	for _, r := range text {
		if r == '\t' {
			n := t.TabStopOffset(col)
			for i := 0; i < n; i++ {
				result = append(result, ' ')
			}
			col += n
			continue
		}
		result = append(result, r)
		col += t.cellWidth(r, col)
	}
	return result
}

// cellWidth returns the cells taken by r when it starts at column col.
func (t TabExpander) cellWidth(r rune, col int) int {
	if r == '\t' {
		return t.TabStopOffset(col)
	}
	return core.RuneWidth(r)
}
