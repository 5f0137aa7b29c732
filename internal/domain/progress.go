package domain

// PercentComplete computes reading progress as a percentage in [0, 100].
//
// A non-positive page count yields 0 rather than a division fault: books
// resolved from the catalog without page data are treated as having no
// measurable progress. Results are clamped so out-of-range positions
// never produce a percentage outside the interval.
func PercentComplete(currentPage, pageCount int) float64 {
	if pageCount <= 0 {
		return 0
	}
	pct := float64(currentPage) / float64(pageCount) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
