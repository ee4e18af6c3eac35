package outline

import "math"

// Locate maps a heading's vertical offset in the continuous rendered
// layout to a page index of the paginated output, assuming uniform page
// height: floor(offset / pageHeight), clamped to [0, pageCount-1].
//
// This ignores reflow introduced by pagination itself (footers,
// avoid-break rules pushing content to the next page). Bookmarks only
// need to land near the heading, so the approximation is acceptable.
func Locate(offsetPx, pageHeightPx float64, pageCount int) int {
	if pageCount < 1 {
		return 0
	}
	if pageHeightPx <= 0 || offsetPx <= 0 {
		return 0
	}

	idx := int(math.Floor(offsetPx / pageHeightPx))
	if idx > pageCount-1 {
		return pageCount - 1
	}
	return idx
}
