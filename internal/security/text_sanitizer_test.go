package security

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text", "John Doe", "John Doe"},
		{"apostrophe survives", "Sean O'Brien", "Sean O'Brien"},
		{"ampersand survives", "Smith & Sons", "Smith & Sons"},
		{"bold tag stripped", "<b>Alice</b> Smith", "Alice Smith"},
		{"script removed with content", "<script>alert(1)</script>Bob", "Bob"},
		{"event attribute removed", `<img src=x onerror="alert(1)">New York`, "New York"},
		{"whitespace collapsed", "  Los   Angeles \n", "Los Angeles"},
		{"only markup", "<p></p>", ""},
		{"bare less-than survives", "a < b", "a < b"},
		{"encoded ampersand decoded", "Tom &amp; Jerry", "Tom & Jerry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_EntityEncodedMarkupNeverBecomesTag(t *testing.T) {
	s := NewTextSanitizer()

	inputs := []string{
		"&lt;script&gt;alert(1)&lt;/script&gt;",
		"&lt;img src=x onerror=alert(1)&gt;",
		"&amp;lt;b&amp;gt;Alice&amp;lt;/b&amp;gt;",
		"Bob &lt;i&gt;Smith&lt;/i&gt;",
		"&amp;amp;amp;amp;amp;lt;script&amp;amp;amp;amp;amp;gt;",
	}

	for _, in := range inputs {
		got := s.Sanitize(in)
		if strings.Contains(got, "<") {
			t.Errorf("Sanitize(%q) = %q, output must not contain markup", in, got)
		}
	}

	if got := s.Sanitize("Bob &lt;i&gt;Smith&lt;/i&gt;"); got != "Bob Smith" {
		t.Errorf("Sanitize = %q, want %q", got, "Bob Smith")
	}
	if got := s.Sanitize("&lt;script&gt;alert(1)&lt;/script&gt;"); got != "" {
		t.Errorf("Sanitize = %q, want empty", got)
	}
}

func TestSanitize_PlainTextIsIdempotent(t *testing.T) {
	s := NewTextSanitizer()

	for _, in := range []string{"Chicago", "Carol Brown", "Express Delivery", "<i>Miami</i>"} {
		once := s.Sanitize(in)
		if twice := s.Sanitize(once); twice != once {
			t.Errorf("Sanitize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestTextSanitizerInterface(t *testing.T) {
	var svc TextSanitizerService = NewTextSanitizer()
	if svc.Sanitize("x") != "x" {
		t.Error("unexpected result through interface")
	}
}
