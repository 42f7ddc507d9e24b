package highlight

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/dshills/docline/internal/renderer/core"
	"github.com/dshills/docline/internal/renderer/format"
)

// DefaultStyleName is the chroma style used when none is configured.
const DefaultStyleName = "doom-one"

// representative token type per scheme format
var styleTokens = map[string]chroma.TokenType{
	format.NameKeyword:  chroma.Keyword,
	format.NameComment:  chroma.Comment,
	format.NameString:   chroma.LiteralString,
	format.NameNumber:   chroma.LiteralNumber,
	format.NameOperator: chroma.Operator,
	format.NameType:     chroma.KeywordType,
	format.NameFunction: chroma.NameFunction,
}

// ApplyStyle overrides the syntax formats of scheme with the colors of the
// named chroma style. Unknown names fall back to chroma's default style.
// Formats the style leaves unset keep their current look.
func ApplyStyle(scheme *format.Scheme, name string) {
	if name == "" {
		name = DefaultStyleName
	}
	style := styles.Get(name)
	for fmtName, tt := range styleTokens {
		entry := style.Get(tt)
		if !entry.Colour.IsSet() && entry.Bold != chroma.Yes && entry.Italic != chroma.Yes && entry.Underline != chroma.Yes {
			continue
		}
		scheme.Register(fmtName, styleFromEntry(entry))
	}
}

func styleFromEntry(entry chroma.StyleEntry) core.Style {
	s := core.DefaultStyle()
	if entry.Colour.IsSet() {
		s.Foreground = core.ColorFromRGB(entry.Colour.Red(), entry.Colour.Green(), entry.Colour.Blue())
	}
	if entry.Bold == chroma.Yes {
		s = s.Bold()
	}
	if entry.Italic == chroma.Yes {
		s = s.Italic()
	}
	if entry.Underline == chroma.Yes {
		s = s.Underline()
	}
	return s
}

// HasStyle reports whether chroma knows the named style.
func HasStyle(name string) bool {
	_, ok := styles.Registry[name]
	return ok
}
