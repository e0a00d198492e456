package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codulingo/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for centered screens.
func ContentWidth(frameWidth int) int {
	// Leave room for the frame border (2) and padding (4).
	return min(max(frameWidth-6, 20), 64)
}

// Frame wraps content in a rounded border, centered in the given area.
func Frame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(max(width-2, 0)).
		Height(max(height-2, 0)).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card wraps content in a bordered card of content width cw.
func Card(content string, cw int) string {
	return theme.Card.
		Width(cw - 2).
		Align(lipgloss.Center).
		Render(content)
}
