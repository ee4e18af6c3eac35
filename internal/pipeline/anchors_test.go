package pipeline

import "testing"

func TestAnchorID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "simple word",
			text: "Introduction",
			want: "introduction",
		},
		{
			name: "spaces collapse to dashes",
			text: "Getting Started",
			want: "getting-started",
		},
		{
			name: "punctuation run collapses to one dash",
			text: "What's new?!",
			want: "what-s-new-",
		},
		{
			name: "underscores survive",
			text: "snake_case_name",
			want: "snake_case_name",
		},
		{
			name: "digits survive",
			text: "Chapter 42",
			want: "chapter-42",
		},
		{
			name: "unicode letters survive",
			text: "Résumé für Müller",
			want: "résumé-für-müller",
		},
		{
			name: "CJK survives",
			text: "第一章 概要",
			want: "第一章-概要",
		},
		{
			name: "mixed case lowered",
			text: "API Reference",
			want: "api-reference",
		},
		{
			name: "leading and trailing punctuation",
			text: "## weird ##",
			want: "-weird-",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := AnchorID(tt.text)
			if got != tt.want {
				t.Errorf("AnchorID(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestAnchorID_CollisionsNotDeduplicated(t *testing.T) {
	t.Parallel()

	// Same text, different markup context: identical ids by design.
	if AnchorID("Overview") != AnchorID("overview") {
		t.Error("expected colliding headings to produce the same anchor id")
	}
}

func TestEscapeCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "all five sensitive characters",
			input: `<a href="x">&'</a>`,
			want:  "&lt;a href=&quot;x&quot;&gt;&amp;&#39;&lt;/a&gt;",
		},
		{
			name:  "plain text unchanged",
			input: "func main() {}",
			want:  "func main() {}",
		},
		{
			name:  "single pass does not double-escape input entities",
			input: "&lt;",
			want:  "&amp;lt;",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := EscapeCode(tt.input)
			if got != tt.want {
				t.Errorf("EscapeCode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
