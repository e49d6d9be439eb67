package extract

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "plain paragraph",
			html: "<p>Hello world</p>",
			want: "Hello world",
		},
		{
			name: "script removed",
			html: "<script>bad()</script><p>Hello  world</p>",
			want: "Hello world",
		},
		{
			name: "style removed",
			html: "<style>p { color: red }</style><p>Visible</p>",
			want: "Visible",
		},
		{
			name: "whitespace collapsed",
			html: "<div>one\n\ttwo   three</div>",
			want: "one two three",
		},
		{
			name: "nested markup",
			html: "<article><h1>Title</h1><p>Body <em>text</em> here.</p></article>",
			want: "Title Body text here.",
		},
		{
			name: "entities decoded",
			html: "<p>fish &amp; chips</p>",
			want: "fish & chips",
		},
		{
			name: "unclosed tags",
			html: "<p>first<p>second",
			want: "first second",
		},
		{
			name: "empty input",
			html: "",
			want: "",
		},
		{
			name: "only script",
			html: "<script>var x = 1;</script>",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Text(tt.html)
			if got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.html, got, tt.want)
			}
		})
	}
}
