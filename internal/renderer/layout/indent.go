package layout

import "unicode"

// IndentRule computes the indentation of a line in cells.
type IndentRule interface {
	Indent(text []rune, tabWidth int) int
}

// IndentFunc adapts a function to IndentRule.
type IndentFunc func(text []rune, tabWidth int) int

// Indent implements IndentRule.
func (f IndentFunc) Indent(text []rune, tabWidth int) int {
	return f(text, tabWidth)
}

// WhitespaceIndent measures the expanded width of leading whitespace.
type WhitespaceIndent struct{}

// Indent implements IndentRule.
func (WhitespaceIndent) Indent(text []rune, tabWidth int) int {
	return NewTabExpander(tabWidth).ExpandedWidth(text[:LeadingSpace(text)])
}

// LeadingSpace returns the number of leading whitespace characters.
func LeadingSpace(text []rune) int {
	for i, r := range text {
		if !unicode.IsSpace(r) {
			return i
		}
	}
	return len(text)
}
