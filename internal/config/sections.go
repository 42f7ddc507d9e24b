package config

// LayoutConfig controls how lines are measured and wrapped.
type LayoutConfig struct {
	// TabWidth is the tab stop interval in cells.
	TabWidth int `toml:"tabWidth"`

	// WrapWidth is the wrap width in cells. 0 disables wrapping.
	WrapWidth int `toml:"wrapWidth"`

	// WrapAtWord breaks at word boundaries when possible.
	WrapAtWord bool `toml:"wrapAtWord"`

	// CellWidth and LineHeight convert cells to pixels.
	CellWidth  int `toml:"cellWidth"`
	LineHeight int `toml:"lineHeight"`
}

// FormatsConfig controls the format scheme.
type FormatsConfig struct {
	// Style is a chroma style name applied to the syntax formats.
	// Empty keeps the built-in colors.
	Style string `toml:"style"`

	// Colors overrides individual formats by name.
	Colors map[string]FormatStyle `toml:"colors"`
}

// FormatStyle is the configurable look of one format.
type FormatStyle struct {
	Foreground string `toml:"foreground"` // "#RRGGBB" or "#RGB"
	Background string `toml:"background"`
	Bold       bool   `toml:"bold"`
	Italic     bool   `toml:"italic"`
	Underline  bool   `toml:"underline"`
}

// IndentConfig selects the wrap indentation rule.
type IndentConfig struct {
	// Script is a Lua file defining indent(text, tabWidth).
	Script string `toml:"script"`

	// Source is inline Lua, used instead of Script when set.
	Source string `toml:"source"`
}
