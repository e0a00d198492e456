package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/codulingo/internal/ui/theme"
)

// TokenPool renders REARRANGE tokens as chips. Placed tokens are drawn as
// empty slots so the pool keeps its shape.
func TokenPool(tokens []string, placed func(int) bool, cursor int) string {
	chips := make([]string, len(tokens))
	for i, tok := range tokens {
		style := theme.Chip
		text := tok
		switch {
		case placed(i):
			style = style.Foreground(theme.Border)
			text = strings.Repeat(" ", lipgloss.Width(tok))
		case i == cursor:
			style = style.BorderForeground(theme.Secondary).Foreground(theme.Secondary).Bold(true)
		}
		chips[i] = style.Render(text)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

// TokenLine renders the assembled REARRANGE answer on an underline.
func TokenLine(values []string, width int) string {
	line := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width, 10)))
	if len(values) == 0 {
		return theme.Hint.Render("Tap tokens to build your answer") + "\n" + line
	}
	chips := make([]string, len(values))
	for i, v := range values {
		chips[i] = theme.Chip.BorderForeground(theme.Primary).Render(v)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...) + "\n" + line
}
