// Package format renders generated answers as sanitized HTML for clients
// that embed the reply directly.
package format

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.UGCPolicy()

// AnswerHTML converts a markdown answer to sanitized HTML. Plain-text
// answers pass through wrapped in paragraph tags.
func AnswerHTML(answer string) string {
	if strings.TrimSpace(answer) == "" {
		return ""
	}
	html := markdown.ToHTML([]byte(normalize(answer)), nil, nil)
	return strings.TrimSpace(string(policy.SanitizeBytes(html)))
}

// normalize cleans up LLM output quirks before markdown rendering.
func normalize(text string) string {
	// Replace curly quotes (helps readability)
	return strings.NewReplacer(
		"“", "\"",
		"”", "\"",
		"‘", "'",
		"’", "'",
	).Replace(text)
}
