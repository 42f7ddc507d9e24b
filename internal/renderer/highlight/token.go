// Package highlight runs chroma lexers over document lines and writes the
// results back into the lines: per-character format ids, parenthesis
// positions and the lexer state at the end of each line.
package highlight

import (
	"github.com/alecthomas/chroma/v2"

	"github.com/dshills/docline/internal/renderer/format"
)

// FormatName returns the scheme format name for a chroma token type, or
// "" when the token is drawn with the base style.
func FormatName(t chroma.TokenType) string {
	switch {
	case t == chroma.KeywordType, t == chroma.NameClass, t == chroma.NameBuiltinPseudo:
		return format.NameType
	case t == chroma.NameFunction, t == chroma.NameFunctionMagic:
		return format.NameFunction
	case t.InCategory(chroma.Keyword):
		return format.NameKeyword
	case t.InCategory(chroma.Comment):
		return format.NameComment
	case t.InSubCategory(chroma.LiteralString):
		return format.NameString
	case t.InSubCategory(chroma.LiteralNumber):
		return format.NameNumber
	case t.InCategory(chroma.Operator):
		return format.NameOperator
	}
	return ""
}

// bracket kinds, used as Paren.ID.
const (
	parenRound = iota + 1
	parenSquare
	parenCurly
)

// bracket classifies r. ok is false for non-bracket runes.
func bracket(r rune) (id int, open, ok bool) {
	switch r {
	case '(':
		return parenRound, true, true
	case ')':
		return parenRound, false, true
	case '[':
		return parenSquare, true, true
	case ']':
		return parenSquare, false, true
	case '{':
		return parenCurly, true, true
	case '}':
		return parenCurly, false, true
	}
	return 0, false, false
}
