// Package sanitize strips markup from user-supplied free text. Listing
// titles and descriptions, claim messages, review comments, and contact
// strings all pass through here before being stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Text removes all HTML from s and returns the trimmed plain text.
// Entities introduced by the sanitizer are unescaped so stored text
// stays human-readable ("R&D", not "R&amp;D").
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(s)))
}
