package render

import "testing"

func TestEscapeURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"http://example.com", "http://example.com"},
		{"  https://example.com/path  ", "https://example.com/path"},
		{"example.com/a b", "http://example.com/a%20b"},
		{"/relative/page", "/relative/page"},
		{"#top", "#top"},
		{"index.php?p=1", "index.php?p=1"},
		{"mailto:me@example.com", "mailto:me@example.com"},
		{"https://x.example/?a=1&b=2", "https://x.example/?a=1&amp;b=2"},
		{"https://x.example/?a=1&amp;b=2", "https://x.example/?a=1&amp;b=2"},
		{`http://x.example/"><script>`, "http://x.example/script"},
		{"javascript:alert(1)", ""},
		{"JavaScript:alert(1)", ""},
		{"data:text/html,hi", ""},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := escapeURL(tt.in); got != tt.want {
				t.Errorf("escapeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeHTMLClass(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"linkcat", "linkcat"},
		{"link cat", "link cat"},
		{"a b%20c <x>", "a bc x"},
		{"  spaced\tout  ", "spaced out"},
		{"%%%", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := sanitizeHTMLClass(tt.in); got != tt.want {
				t.Errorf("sanitizeHTMLClass(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
