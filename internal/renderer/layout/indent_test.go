package layout

import "testing"

func TestWhitespaceIndent(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"foo", 0},
		{"  foo", 2},
		{"\tfoo", 4},
		{" \tfoo", 4},
		{"\t  foo", 6},
		{"    ", 4},
	}
	for _, tt := range tests {
		if got := (WhitespaceIndent{}).Indent([]rune(tt.text), 4); got != tt.want {
			t.Errorf("Indent(%q): expected %d, got %d", tt.text, tt.want, got)
		}
	}
}

func TestIndentFunc(t *testing.T) {
	rule := IndentFunc(func(text []rune, tabWidth int) int { return len(text) * tabWidth })
	if got := rule.Indent([]rune("ab"), 3); got != 6 {
		t.Errorf("expected 6, got %d", got)
	}
}

func TestLeadingSpace(t *testing.T) {
	if got := LeadingSpace([]rune("  \tx ")); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := LeadingSpace([]rune("   ")); got != 3 {
		t.Errorf("expected 3 for all-space text, got %d", got)
	}
}
