package format

import (
	"strings"

	"github.com/dshills/docline/internal/renderer/core"
)

// CSS renders a style as an inline CSS declaration list.
// Default colors and the reverse attribute are not representable and are
// omitted.
func CSS(s core.Style) string {
	var decls []string
	if hex := s.Foreground.ToHex(); hex != "" {
		decls = append(decls, "color:"+hex)
	}
	if hex := s.Background.ToHex(); hex != "" {
		decls = append(decls, "background-color:"+hex)
	}
	if s.Attributes.Has(core.AttrBold) {
		decls = append(decls, "font-weight:bold")
	}
	if s.Attributes.Has(core.AttrItalic) {
		decls = append(decls, "font-style:italic")
	}
	if s.Attributes.Has(core.AttrDim) {
		decls = append(decls, "opacity:0.6")
	}

	var lines []string
	if s.Attributes.Has(core.AttrUnderline) {
		lines = append(lines, "underline")
	}
	if s.Attributes.Has(core.AttrOverline) {
		lines = append(lines, "overline")
	}
	if s.Attributes.Has(core.AttrStrikethrough) {
		lines = append(lines, "line-through")
	}
	if len(lines) > 0 {
		decls = append(decls, "text-decoration:"+strings.Join(lines, " "))
	}
	return strings.Join(decls, ";")
}
