package formatter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const dateLayout = "2006-01-02"

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// FormatDate renders a civil date; the zero time renders as a dash.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format(dateLayout)
}

// FormatDateRange renders "start → end".
func FormatDateRange(start, end time.Time) string {
	return FormatDate(start) + " → " + FormatDate(end)
}

// FormatMoney renders an amount with thousands separators and two decimals.
func FormatMoney(v float64) string {
	neg := v < 0
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

// FormatPercent renders a percentage with at most one decimal.
func FormatPercent(p float64) string {
	if p == math.Trunc(p) {
		return fmt.Sprintf("%.0f%%", p)
	}
	return fmt.Sprintf("%.1f%%", p)
}

// FormatWeeks renders a week count as "1 week" or "3 weeks".
func FormatWeeks(n int) string {
	if n == 1 || n == -1 {
		return fmt.Sprintf("%d week", n)
	}
	return fmt.Sprintf("%d weeks", n)
}

// ShortID truncates an identifier for table display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// PadRight pads s to width visible cells, truncating with an ellipsis.
func PadRight(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w > width {
		r := []rune(s)
		if len(r) > width {
			r = r[:width-1]
		}
		return string(r) + "…"
	}
	return s + strings.Repeat(" ", width-w)
}
