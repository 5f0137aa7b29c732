package googlebooks

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// Volume descriptions come back from the API as HTML fragments more often
// than not. This matches enough common tags to tell.
var htmlTag = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote)[\s>/]`)

// normalizeDescription converts an HTML description to Markdown. Plain text
// passes through untouched, and a failed conversion falls back to the input.
func normalizeDescription(s string) string {
	if s == "" || !htmlTag.MatchString(strings.ToLower(s)) {
		return s
	}
	md, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(md)
}
