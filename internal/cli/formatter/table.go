package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = "  "

type column struct {
	width int
	right bool
}

// RenderTable lays rows out under a bold header and a rule. Widths ignore
// ANSI styling. Indices in rightAlign name numeric columns.
func RenderTable(headers []string, rows [][]string, rightAlign ...int) string {
	if len(headers) == 0 {
		return ""
	}
	cols := make([]column, len(headers))
	for _, i := range rightAlign {
		if i >= 0 && i < len(cols) {
			cols[i].right = true
		}
	}
	for _, r := range append([][]string{headers}, rows...) {
		for i := range cols {
			if i < len(r) {
				cols[i].width = max(cols[i].width, lipgloss.Width(r[i]))
			}
		}
	}

	var b strings.Builder
	line := func(cell func(i int, c column) string) {
		parts := make([]string, len(cols))
		for i, c := range cols {
			parts[i] = cell(i, c)
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, colGap), " "))
		b.WriteByte('\n')
	}
	fit := func(s string, c column) string {
		pad := strings.Repeat(" ", max(c.width-lipgloss.Width(s), 0))
		if c.right {
			return pad + s
		}
		return s + pad
	}

	line(func(i int, c column) string {
		return StyleHeader.Render(headers[i]) + strings.Repeat(" ", c.width-lipgloss.Width(headers[i]))
	})
	line(func(_ int, c column) string { return StyleDim.Render(strings.Repeat("─", c.width)) })
	for _, r := range rows {
		line(func(i int, c column) string {
			if i >= len(r) {
				return fit("", c)
			}
			return fit(r[i], c)
		})
	}
	return b.String()
}
