package widgets

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Row is one rendered table line plus its presentation flags.
type Row struct {
	Cells    []string
	Selected bool
	Expanded bool
	// Detail holds the inline expansion content shown beneath the row.
	Detail string
}

// Table renders a header line and rows with aligned columns. Content is
// precomputed by the caller; this widget only lays it out.
type Table struct {
	Headers []string
	Rows    []Row
	Cursor  int
}

func (t Table) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if len(t.Headers) == 0 {
		return "No columns"
	}
	widths := t.columnWidths(width)
	lines := []string{HeaderStyle.Render(t.formatLine(t.Headers, widths))}
	for i, row := range t.Rows {
		marker := "  "
		if row.Selected {
			marker = SelectedStyle.Render("✓ ")
		}
		if row.Expanded {
			marker = strings.Replace(marker, " ", "▼", 1)
		}
		line := marker + t.formatLine(row.Cells, widths)
		if i == t.Cursor {
			line = CursorStyle.Render(ansi.Strip(line))
		}
		lines = append(lines, line)
		if row.Expanded && row.Detail != "" {
			for _, detail := range strings.Split(row.Detail, "\n") {
				lines = append(lines, FaintStyle.Render("    "+detail))
			}
		}
		if len(lines) >= height {
			break
		}
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (t Table) columnWidths(total int) []int {
	n := len(t.Headers)
	widths := make([]int, n)
	for i, h := range t.Headers {
		widths[i] = ansi.StringWidth(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row.Cells {
			if i >= n {
				break
			}
			if w := ansi.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	// Shrink the widest columns until the line fits.
	const sep = 2
	budget := total - 2 - sep*(n-1)
	for sum(widths) > budget && budget > n*4 {
		widest := 0
		for i := range widths {
			if widths[i] > widths[widest] {
				widest = i
			}
		}
		widths[widest]--
	}
	return widths
}

func (t Table) formatLine(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = padCell(cell, widths[i])
	}
	return strings.Join(parts, "  ")
}

func padCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "…")
	if gap := width - ansi.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
