package comment

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Comments are stored as plain text.
var textPolicy = bluemonday.StrictPolicy()

const maxSanitizePasses = 8

// sanitizeText strips markup and decodes entities, repeating until the text
// is stable so that entity-encoded tags cannot survive as live HTML. Input
// that keeps changing is stored in its escaped form.
func sanitizeText(raw string) string {
	text := raw
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(textPolicy.Sanitize(text))
		if next == text {
			return strings.TrimSpace(next)
		}
		text = next
	}
	return strings.TrimSpace(textPolicy.Sanitize(text))
}
