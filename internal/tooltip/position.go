package tooltip

import "github.com/mkarppi/termgloss/internal/surface"

// Place computes the tooltip's document-space position. anchor and tip are
// in viewport coordinates (tip must already carry its final content, since
// its box depends on it).
//
// Preferred placement is below the anchor with the edge margin between
// them, left edges aligned. If that would push the tooltip's bottom past
// the viewport, it flips above the anchor instead; either way the top is
// floored at the viewport's top edge plus margin, and the left coordinate
// is shifted so the tooltip stays inside both horizontal edges.
func Place(anchor, tip surface.Rect, vp surface.Viewport, margin int) surface.Point {
	top := anchor.Bottom() + margin
	if top+tip.H > vp.Height-margin {
		top = anchor.Y - tip.H - margin
	}
	if top < margin {
		top = margin
	}

	left := anchor.X
	if left+tip.W > vp.Width-margin {
		left = vp.Width - margin - tip.W
	}
	if left < margin {
		left = margin
	}

	// The tooltip is positioned absolutely within the document, so the
	// current scroll offset folds into the result.
	return surface.Point{X: left + vp.ScrollX, Y: top + vp.ScrollY}
}
