package debug

import (
	"testing"
)

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{"no depth", 0, "test", nil, "test\n"},
		{"depth 2", 2, "double indent", nil, "    double indent\n"},
		{"with formatting", 1, "value: %d", []any{42}, "  value: 42\n"},
		{"multiple args", 0, "%s = %d", []any{"count", 5}, "count = 5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_TextBlock(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{"simple", 0, "start", "<div>", "start: \"<div>\"\n"},
		{"nested", 2, "end", "</div>", "    end: \"</div>\"\n"},
		{"newline", 0, "content", "a\n\tb", "content: \"a\\n\\tb\"\n"},
		{"empty is skipped", 1, "padding", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.TextBlock(tt.depth, tt.label, tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("TextBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Pairs(t *testing.T) {
	tests := []struct {
		name string
		kv   []string
		want string
	}{
		{"none", nil, ""},
		{"odd is truncated", []string{"id"}, ""},
		{"one", []string{"id", "main"}, "  attrs: id=\"main\"\n"},
		{"two", []string{"id", "main", "class", "a b"}, "  attrs: id=\"main\" class=\"a b\"\n"},
		{"empty value", []string{"href", ""}, "  attrs: href=\"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Pairs(1, "attrs", tt.kv...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Pairs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_MultipleOperations(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "fragment")
	tw.Line(1, "element ul")
	tw.Pairs(2, "attrs", "class", "nav")
	tw.Line(2, "element li #%d", 1)
	tw.TextBlock(3, "content", "one")

	got := tw.String()
	want := "fragment\n  element ul\n    attrs: class=\"nav\"\n    element li #1\n      content: \"one\"\n"
	if got != want {
		t.Errorf("Multiple operations:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
