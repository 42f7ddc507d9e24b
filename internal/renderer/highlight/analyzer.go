package highlight

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/chroma/v2"

	"github.com/dshills/docline/internal/engine/line"
	"github.com/dshills/docline/internal/renderer/format"
)

// State is the lexer state stored in a line's CookieLexerState cookie and
// match context after analysis.
type State struct {
	Language string

	// Pending is set when a token such as a block comment or a raw string
	// continues past the end of the line. Open is its type.
	Pending bool
	Open    chroma.TokenType
}

// Continues reports whether a construct is still open at the end of the line.
func (s State) Continues() bool {
	return s.Pending
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for analysis summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithFilename selects the lexer from a file name when no language is given.
func WithFilename(name string) Option {
	return func(a *Analyzer) {
		a.filename = name
	}
}

// Analyzer tokenizes lines with a chroma lexer. It is safe for concurrent use.
type Analyzer struct {
	language string
	filename string
	scheme   *format.Scheme
	logger   *slog.Logger
	lexer    chroma.Lexer
	ids      map[string]int
}

// NewAnalyzer creates an analyzer for language. An empty language is
// resolved from the file name option, then from content on first use.
// Format ids are looked up in scheme.
func NewAnalyzer(language string, scheme *format.Scheme, opts ...Option) *Analyzer {
	if scheme == nil {
		scheme = format.DefaultScheme()
	}
	a := &Analyzer{
		language: language,
		scheme:   scheme,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		ids:      make(map[string]int),
	}
	for _, opt := range opts {
		opt(a)
	}
	for _, name := range []string{
		format.NameKeyword, format.NameComment, format.NameString, format.NameNumber,
		format.NameOperator, format.NameType, format.NameFunction,
	} {
		if id, err := scheme.ID(name); err == nil {
			a.ids[name] = id
		}
	}
	if language != "" || a.filename != "" {
		a.lexer = chroma.Coalesce(lexerFor(language, a.filename, ""))
	}
	return a
}

// Language returns the name of the lexer in use, or "" before the first
// analysis when it is still undetermined.
func (a *Analyzer) Language() string {
	if a.lexer == nil {
		return ""
	}
	return a.lexer.Config().Name
}

// lineResult holds the analysis of one line.
type lineResult struct {
	ids    []int
	parens []line.Paren
	state  State
}

// Analyze tokenizes lines as one block and writes formats, parens and
// lexer state into each line. Lines edited since their text was read are
// skipped. Analyze returns the number of lines updated.
func (a *Analyzer) Analyze(ctx context.Context, lines []*line.Handle) (int, error) {
	if len(lines) == 0 {
		return 0, nil
	}

	texts := make([]line.Versioned[[]rune], len(lines))
	var sb strings.Builder
	for i, h := range lines {
		texts[i] = line.Capture(h, func(v *line.View) []rune { return []rune(v.Text()) })
		sb.WriteString(string(texts[i].Value))
		sb.WriteByte('\n')
	}
	full := sb.String()

	lexer := a.lexer
	if lexer == nil {
		lexer = chroma.Coalesce(lexerFor("", "", full))
	}
	language := lexer.Config().Name

	tokens, err := chroma.Tokenise(lexer, nil, full)
	if err != nil {
		return 0, fmt.Errorf("tokenise %s: %w", language, err)
	}

	results := make([]lineResult, len(lines))
	for i := range results {
		results[i].ids = make([]int, len(texts[i].Value))
		results[i].state.Language = language
	}

	row, col := 0, 0
	for _, tok := range tokens {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if tok.Type == chroma.EOFType {
			break
		}
		id := a.ids[FormatName(tok.Type)]
		runes := []rune(tok.Value)
		for k, r := range runes {
			if row >= len(results) {
				break
			}
			if r == '\n' {
				if k < len(runes)-1 && !tok.Type.InCategory(chroma.Text) {
					results[row].state.Pending = true
					results[row].state.Open = tok.Type
				}
				row, col = row+1, 0
				continue
			}
			res := &results[row]
			if col < len(res.ids) {
				res.ids[col] = id
				if kind, open, ok := bracket(r); ok && tok.Type.InCategory(chroma.Punctuation) {
					res.parens = append(res.parens, paren(col, kind, open))
				}
			}
			col++
		}
	}

	updated, stale := 0, 0
	for i, h := range lines {
		if a.apply(h, texts[i].Ticket, results[i]) {
			updated++
		} else {
			stale++
		}
	}
	a.logger.Debug("analyzed lines",
		"language", language,
		"lines", len(lines),
		"updated", updated,
		"stale", stale)
	return updated, nil
}

func paren(offset, kind int, open bool) line.Paren {
	p := line.Paren{Offset: offset, Length: 1, ID: kind, Role: line.ParenMatch}
	if open {
		p.Role |= line.ParenOpen
	} else {
		p.Role |= line.ParenClose
	}
	if kind == parenCurly {
		p.Role |= line.ParenIndent | line.ParenFold
	}
	return p
}

// apply writes res into h unless h changed after ticket was read.
func (a *Analyzer) apply(h *line.Handle, ticket uint64, res lineResult) bool {
	if h.Destroyed() {
		return false
	}
	e := h.LockForWrite()
	if h.IsStale(ticket) {
		e.Unlock()
		return false
	}
	e.SetFormatsPerChar(res.ids)
	e.SetParens(res.parens)
	e.SetMatchContext(res.state)
	e.Unlock()

	h.SetCookie(line.CookieLexerState, res.state)
	return true
}

// LineState returns the lexer state recorded for h by the last analysis.
func LineState(h *line.Handle) (State, bool) {
	c, ok := h.LookupCookie(line.CookieLexerState)
	if !ok {
		return State{}, false
	}
	s, ok := c.(State)
	return s, ok
}
