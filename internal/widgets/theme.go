// Package widgets contains low-level drawing primitives for the grid
// shell: the table body, dropdown menus and popup compositing.
package widgets

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/stockgrid/internal/grid"
)

// Catppuccin Mocha palette subset.
const (
	colorRed      lipgloss.Color = "#f38ba8"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext  lipgloss.Color = "#a6adc8"
	colorOverlay  lipgloss.Color = "#6c7086"
	colorSurface  lipgloss.Color = "#313244"
	colorLavender lipgloss.Color = "#b4befe"
)

var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorLavender)
	CursorStyle   = lipgloss.NewStyle().Foreground(colorText).Background(colorSurface)
	SelectedStyle = lipgloss.NewStyle().Foreground(colorYellow)
	FaintStyle    = lipgloss.NewStyle().Foreground(colorOverlay)
	ErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	StatusStyle   = lipgloss.NewStyle().Foreground(colorSubtext)
)

// ActionStyle maps an action's semantic color to a text style.
func ActionStyle(color grid.ActionColor) lipgloss.Style {
	switch color {
	case grid.ColorGreen:
		return lipgloss.NewStyle().Foreground(colorGreen)
	case grid.ColorBlue:
		return lipgloss.NewStyle().Foreground(colorBlue)
	case grid.ColorRed:
		return lipgloss.NewStyle().Foreground(colorRed)
	default:
		return lipgloss.NewStyle().Foreground(colorText)
	}
}
