package element

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// SanitizeText strips all markup from s and returns plain text. The strict
// policy escapes entities, so the result is unescaped again; renderers escape on
// output.
func SanitizeText(s string) string {
	if s == "" {
		return ""
	}
	return html.UnescapeString(textPolicy.Sanitize(s))
}
