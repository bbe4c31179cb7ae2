package components

import (
	"strings"

	"github.com/mmcdole/tunes/internal/tui/styles"
)

// skeletonRows are the relative widths of the placeholder bars
var skeletonRows = []int{40, 65, 55, 80, 30}

// RenderSkeleton draws placeholder bars with a highlight that moves with frame
func RenderSkeleton(width, frame int) string {
	if width < 4 {
		width = 4
	}

	lines := make([]string, 0, len(skeletonRows))
	for i, pct := range skeletonRows {
		n := width * pct / 100
		if n < 1 {
			n = 1
		}
		bar := strings.Repeat("▇", n)
		if (frame+i)%len(skeletonRows) == 0 {
			lines = append(lines, styles.SkeletonShineStyle.Render(bar))
		} else {
			lines = append(lines, styles.SkeletonStyle.Render(bar))
		}
	}
	return strings.Join(lines, "\n")
}
