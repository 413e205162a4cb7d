package util

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var XSSPolicy = bluemonday.StrictPolicy()

// XSSSanitize strips HTML and returns the unescaped, trimmed text
func XSSSanitize(val string) string {
	return strings.TrimSpace(html.UnescapeString(XSSPolicy.Sanitize(val)))
}
