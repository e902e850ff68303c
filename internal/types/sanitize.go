package types

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// textPolicy strips every tag from free-text form input.
var textPolicy = bluemonday.StrictPolicy()

// SanitizeText removes markup from s and trims surrounding whitespace.
// Entities escaped by the policy are decoded again so "R&D" stays "R&D".
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

func sanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := SanitizeText(*s)
	return &v
}
