package highlight

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2"

	"github.com/dshills/docline/internal/engine/document"
	"github.com/dshills/docline/internal/engine/line"
	"github.com/dshills/docline/internal/renderer/format"
)

const goSource = "func main() {\n\t// hi\n\tx := \"s\"\n}"

func analyzeGo(t *testing.T, src string) (*document.Document, *Analyzer) {
	t.Helper()
	doc := document.FromString(src)
	t.Cleanup(doc.Close)

	a := NewAnalyzer("go", doc.Scheme())
	n, err := a.Analyze(context.Background(), doc.Lines())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != doc.Len() {
		t.Fatalf("expected %d lines updated, got %d", doc.Len(), n)
	}
	return doc, a
}

func formatAt(h *line.Handle, offset int) int {
	return format.At(h.Formats(), offset)
}

func TestAnalyzeFormats(t *testing.T) {
	doc, _ := analyzeGo(t, goSource)
	scheme := doc.Scheme()
	keyword, _ := scheme.ID(format.NameKeyword)
	comment, _ := scheme.ID(format.NameComment)
	str, _ := scheme.ID(format.NameString)

	if got := formatAt(doc.LineAt(0), 0); got != keyword {
		t.Errorf("expected func to be a keyword, got %d", got)
	}
	if got := formatAt(doc.LineAt(1), 2); got != comment {
		t.Errorf("expected comment on line 1, got %d", got)
	}
	if got := formatAt(doc.LineAt(2), 6); got != str {
		t.Errorf("expected string on line 2, got %d", got)
	}
	if got := formatAt(doc.LineAt(2), 1); got != format.None {
		t.Errorf("expected identifier unformatted, got %d", got)
	}
	if !doc.LineAt(0).HasFlag(line.FlagFormatsApplied) {
		t.Error("expected FlagFormatsApplied")
	}
}

func TestAnalyzeParens(t *testing.T) {
	doc, _ := analyzeGo(t, goSource)

	ps := doc.LineAt(0).Parens()
	if len(ps) != 3 {
		t.Fatalf("expected 3 parens, got %v", ps)
	}
	if ps[0].Offset != 9 || ps[0].Role&line.ParenOpen == 0 || ps[0].ID != parenRound {
		t.Errorf("unexpected open paren %+v", ps[0])
	}
	if ps[1].Offset != 10 || ps[1].Role&line.ParenClose == 0 {
		t.Errorf("unexpected close paren %+v", ps[1])
	}
	if ps[2].Offset != 12 || ps[2].ID != parenCurly || ps[2].Role&line.ParenFold == 0 {
		t.Errorf("unexpected brace %+v", ps[2])
	}

	last := doc.LineAt(3).Parens()
	if len(last) != 1 || last[0].Role&line.ParenClose == 0 {
		t.Errorf("expected closing brace, got %v", last)
	}
}

func TestAnalyzeStringBracketsAreNotParens(t *testing.T) {
	doc, _ := analyzeGo(t, `x := "(["`)
	if ps := doc.LineAt(0).Parens(); len(ps) != 0 {
		t.Errorf("brackets inside strings are not parens, got %v", ps)
	}
}

func TestAnalyzeLexerState(t *testing.T) {
	doc, a := analyzeGo(t, "/* a\nb */\nx")

	s, ok := LineState(doc.LineAt(0))
	if !ok {
		t.Fatal("expected a lexer state cookie")
	}
	if !s.Continues() || !s.Open.InCategory(chroma.Comment) {
		t.Errorf("expected open comment at end of line 0, got %+v", s)
	}
	if s.Language != a.Language() {
		t.Errorf("expected language %q, got %q", a.Language(), s.Language)
	}

	s, _ = LineState(doc.LineAt(1))
	if s.Continues() {
		t.Errorf("comment is closed on line 1, got %+v", s)
	}
	if ctx, ok := doc.LineAt(1).MatchContext().(State); !ok || ctx != s {
		t.Errorf("expected match context to mirror the cookie, got %v", doc.LineAt(1).MatchContext())
	}
}

func TestAnalyzeSkipsEditedLines(t *testing.T) {
	doc := document.FromString("func a() {}")
	defer doc.Close()

	a := NewAnalyzer("go", doc.Scheme())
	h := doc.LineAt(0)
	ticket := h.CurrentTicket()
	h.Insert(0, " ")

	res := lineResult{ids: make([]int, 11)}
	if a.apply(h, ticket, res) {
		t.Error("stale results should be discarded")
	}
	if a.apply(h, h.CurrentTicket(), res) != true {
		t.Error("current results should be applied")
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	doc := document.FromString(goSource)
	defer doc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewAnalyzer("go", nil).Analyze(ctx, doc.Lines())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestAnalyzeLogs(t *testing.T) {
	doc := document.FromString("x := 1")
	defer doc.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a := NewAnalyzer("go", nil, WithLogger(logger))
	if _, err := a.Analyze(context.Background(), doc.Lines()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "analyzed lines") {
		t.Errorf("expected a debug summary, got %q", buf.String())
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	n, err := NewAnalyzer("", nil).Analyze(context.Background(), nil)
	if n != 0 || err != nil {
		t.Errorf("expected no work, got %d %v", n, err)
	}
}

func TestLanguageFromFilename(t *testing.T) {
	a := NewAnalyzer("", nil, WithFilename("main.py"))
	if a.Language() != "Python" {
		t.Errorf("expected Python, got %q", a.Language())
	}
	if NewAnalyzer("", nil).Language() != "" {
		t.Error("expected undetermined language")
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"main.go", "Go"},
		{"script.py", "Python"},
		{"Makefile", "Makefile"},
	}
	for _, tt := range tests {
		if got := DetectLanguage(tt.file, nil); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %q, expected %q", tt.file, got, tt.want)
		}
	}
}

func TestFormatName(t *testing.T) {
	tests := []struct {
		tt   chroma.TokenType
		want string
	}{
		{chroma.KeywordDeclaration, format.NameKeyword},
		{chroma.KeywordType, format.NameType},
		{chroma.CommentSingle, format.NameComment},
		{chroma.LiteralStringDouble, format.NameString},
		{chroma.LiteralNumberInteger, format.NameNumber},
		{chroma.Operator, format.NameOperator},
		{chroma.NameFunction, format.NameFunction},
		{chroma.Name, ""},
		{chroma.Punctuation, ""},
	}
	for _, tt := range tests {
		if got := FormatName(tt.tt); got != tt.want {
			t.Errorf("FormatName(%v) = %q, expected %q", tt.tt, got, tt.want)
		}
	}
}

func TestApplyStyle(t *testing.T) {
	scheme := format.DefaultScheme()
	before := scheme.Len()
	ApplyStyle(scheme, "monokai")

	if scheme.Len() != before {
		t.Errorf("ApplyStyle should only replace formats, got %d entries", scheme.Len())
	}
	id, _ := scheme.ID(format.NameKeyword)
	if scheme.Style(id).Foreground.IsDefault() {
		t.Error("expected monokai keyword color")
	}

	// Unknown names use chroma's fallback style and must not panic.
	ApplyStyle(format.DefaultScheme(), "no-such-style")
}
