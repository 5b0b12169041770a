package schema

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// CleanText strips markup from a display string and decodes entities, so
// "<b>Full&nbsp;name</b>" renders as "Full name" in the terminal.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	cleaned := html.UnescapeString(strictPolicy.Sanitize(s))
	cleaned = strings.ReplaceAll(cleaned, "\u00a0", " ")
	return strings.TrimSpace(cleaned)
}
