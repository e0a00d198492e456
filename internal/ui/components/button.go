package components

import (
	"github.com/abhisek/codulingo/internal/ui/theme"
)

// Button renders the lesson's primary action (CHECK, CONTINUE). An
// inactive button is drawn dimmed and the screen ignores Enter.
func Button(label string, active bool) string {
	if active {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
