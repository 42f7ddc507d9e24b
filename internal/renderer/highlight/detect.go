package highlight

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/go-enry/go-enry/v2"
)

// DetectLanguage guesses the language of a file from its name and content.
// Returns "" when nothing matches.
func DetectLanguage(filename string, content []byte) string {
	return enry.GetLanguage(filename, content)
}

// lexerFor resolves a lexer by language name, then by file name, then by
// analysing content.
func lexerFor(language, filename, content string) chroma.Lexer {
	if language != "" {
		if l := lexers.Get(language); l != nil {
			return l
		}
	}
	if filename != "" {
		if l := lexers.Match(filename); l != nil {
			return l
		}
		if lang := DetectLanguage(filename, []byte(content)); lang != "" {
			if l := lexers.Get(lang); l != nil {
				return l
			}
		}
	}
	if content != "" {
		if l := lexers.Analyse(content); l != nil {
			return l
		}
	}
	return lexers.Fallback
}
