package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// RenderPopup composites a bordered card over the base view, centered,
// preserving the base content around the card's footprint.
func RenderPopup(base, popup string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2).
		Render(popup)
	placed := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
	return composite(fill(base, width, height), fill(placed, width, height), width, height)
}

func composite(base, overlay string, width, height int) string {
	baseLines := strings.Split(base, "\n")
	overlayLines := strings.Split(overlay, "\n")
	out := make([]string, height)
	for i := 0; i < height; i++ {
		start, end, ok := contentBounds(overlayLines[i], width)
		if !ok {
			out[i] = baseLines[i]
			continue
		}
		left := ansi.Truncate(baseLines[i], start, "")
		segment := ansi.Truncate(cutLeft(overlayLines[i], start), end-start, "")
		right := cutLeft(baseLines[i], end)
		out[i] = padLine(left+segment+right, width)
	}
	return strings.Join(out, "\n")
}

// contentBounds finds the column span of non-blank overlay content.
func contentBounds(line string, width int) (start, end int, ok bool) {
	plain := ansi.Strip(ansi.Truncate(line, width, ""))
	trimmed := strings.TrimRight(plain, " ")
	if trimmed == "" {
		return 0, 0, false
	}
	for start < len(plain) && plain[start] == ' ' {
		start++
	}
	end = len(trimmed)
	if start >= end {
		return 0, 0, false
	}
	return start, end, true
}

// cutLeft drops the leftmost cols display columns, keeping styling of
// the remainder intact where possible.
func cutLeft(s string, cols int) string {
	if cols <= 0 {
		return s
	}
	prefix := ansi.Truncate(s, cols, "")
	return strings.TrimPrefix(s, prefix)
}

func fill(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = padLine(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

func padLine(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	if gap := width - ansi.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
