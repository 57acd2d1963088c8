package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/edutrack/internal/app/system/htmlsanitize"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace", "   ", ""},
		{"plain text", "Counting to ten", "Counting to ten"},
		{"safe formatting", "<p><strong>Bold</strong> and <em>italic</em></p>", "<p><strong>Bold</strong> and <em>italic</em></p>"},
		{"script removed", "<p>Hello</p><script>alert('xss')</script>", "<p>Hello</p>"},
		{"iframe removed", `<iframe src="https://evil.example"></iframe>ok`, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlsanitize.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_RemovesOnclick(t *testing.T) {
	got := htmlsanitize.Sanitize(`<p onclick="steal()">Hi</p>`)
	if strings.Contains(got, "onclick") {
		t.Errorf("expected onclick removed, got %q", got)
	}
}

func TestSanitize_RemovesJavascriptHref(t *testing.T) {
	got := htmlsanitize.Sanitize(`<a href="javascript:alert(1)">x</a>`)
	if strings.Contains(got, "javascript:") {
		t.Errorf("expected javascript: href removed, got %q", got)
	}
}

func TestPlain(t *testing.T) {
	if got := htmlsanitize.Plain("  <b>Ride</b>&nbsp;"); strings.Contains(got, "<") {
		t.Errorf("Plain left markup: %q", got)
	}
	if got := htmlsanitize.Plain("Grade 1"); got != "Grade 1" {
		t.Errorf("Plain(%q) = %q", "Grade 1", got)
	}
}

func TestPlain_KeepsAmpersand(t *testing.T) {
	if got := htmlsanitize.Plain("Science & Math"); got != "Science & Math" {
		t.Errorf("Plain = %q, want %q", got, "Science & Math")
	}
}
