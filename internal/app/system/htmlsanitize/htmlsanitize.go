// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richOnce sync.Once
	rich     *bluemonday.Policy

	strict = bluemonday.StrictPolicy()
)

func richPolicy() *bluemonday.Policy {
	richOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowURLSchemes("http", "https", "mailto")
		p.RequireNoFollowOnLinks(true)
		rich = p
	})
	return rich
}

// Sanitize keeps basic formatting (paragraphs, emphasis, lists, links) and
// strips scripts, event handlers, and unsafe URLs. Used for descriptions.
func Sanitize(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return strings.TrimSpace(richPolicy().Sanitize(s))
}

// Plain removes all markup and returns unescaped text. Used for names and
// other single-line fields, which are never rendered as HTML.
func Plain(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
