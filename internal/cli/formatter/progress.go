package formatter

import (
	"math"
	"strings"
)

// RenderProgress draws an accumulated disbursement percentage in [0, 100] as
// "[███▌░░░░░░] 35%". A half block marks a partially filled cell.
func RenderProgress(pct float64, width int) string {
	pct = math.Max(0, math.Min(pct, 100))
	width = max(width, 2)

	cells := pct / 100 * float64(width)
	full := int(cells)
	var b strings.Builder
	b.WriteString(strings.Repeat("█", full))
	if full < width && cells-float64(full) >= 0.5 {
		b.WriteString("▌")
		full++
	}
	b.WriteString(strings.Repeat("░", width-full))

	style := StylePurple
	if pct >= 100 {
		style = StyleGreen
	}
	return "[" + style.Render(b.String()) + "] " + FormatPercent(pct)
}
