package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/stockgrid/internal/grid"
)

// Menu renders an open action menu as a bordered dropdown card.
type Menu struct {
	Title  string
	Items  []grid.RowAction
	Cursor int
}

func (m Menu) Render(width, height int) string {
	if width <= 0 || height <= 0 || len(m.Items) == 0 {
		return ""
	}
	lines := []string{TitleStyle.Render(m.Title)}
	for i, item := range m.Items {
		marker := "  "
		if i == m.Cursor {
			marker = "▶ "
		}
		label := item.Title
		if item.Icon != "" {
			label = item.Icon + " " + label
		}
		style := ActionStyle(item.Color)
		if item.Disabled {
			style = FaintStyle
		}
		lines = append(lines, marker+style.Render(label))
	}
	card := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Render(strings.Join(lines, "\n"))
	return card
}
