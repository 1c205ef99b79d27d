package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/gridplace/pkg/device"
)

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary values
	colorGreen  = lipgloss.Color("35")  // Green - success / locked
	colorYellow = lipgloss.Color("220") // Amber - strong bindings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	// styleTitle for headings.
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// styleDim for secondary/muted text (empty grid cells, tree glyphs).
	styleDim = lipgloss.NewStyle().Foreground(colorDim)

	// styleNumber for metric values.
	styleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// styleError for failure messages.
	styleError = lipgloss.NewStyle().Foreground(colorRed)

	styleWeak   = lipgloss.NewStyle().Foreground(colorCyan)
	styleStrong = lipgloss.NewStyle().Foreground(colorYellow)
	styleLocked = lipgloss.NewStyle().Foreground(colorGreen)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// strengthStyle maps a binding strength to its display style.
func strengthStyle(s device.Strength) lipgloss.Style {
	switch s {
	case device.StrengthStrong:
		return styleStrong
	case device.StrengthLocked:
		return styleLocked
	default:
		return styleWeak
	}
}
