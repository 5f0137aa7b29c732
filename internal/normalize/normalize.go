// Package normalize provides normalization for user-supplied names that must
// compare case-insensitively, most importantly shelf names.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// ShelfName canonicalizes a shelf name for uniqueness comparison.
// "Favorites", "FAVORITES", and " favorites " all normalize to the same key.
// Unicode case folding is used rather than ToLower so names like "Straße"
// and "STRASSE" collide too.
func ShelfName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Join(strings.Fields(name), " ")
	name = norm.NFKC.String(name)
	return folder.String(name)
}

// Whitespace canonicalizes free text: surrounding whitespace is trimmed,
// interior runs collapse to a single space, and the bool reports whether
// anything remains. Annotation content and shelf display names go through
// here, with blank-after-cleanup rejected by the caller.
func Whitespace(s string) (string, bool) {
	collapsed := strings.Join(strings.Fields(s), " ")
	return collapsed, collapsed != ""
}
