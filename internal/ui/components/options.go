package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/codulingo/internal/ui/theme"
)

// Verdict colors the chosen option after a check.
type Verdict int

const (
	VerdictNone Verdict = iota
	VerdictCorrect
	VerdictWrong
)

// OptionList renders numbered MULTIPLE_CHOICE and FILL_BLANK options. The
// cursor row is marked; the chosen option is highlighted and, once
// checked, colored by verdict.
func OptionList(options []string, cursor int, chosen string, verdict Verdict) string {
	var b strings.Builder
	for i, opt := range options {
		prefix := "  "
		if i == cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d) %s", prefix, i+1, opt)

		style := theme.Unselected
		if opt == chosen {
			switch verdict {
			case VerdictCorrect:
				style = theme.Correct
			case VerdictWrong:
				style = theme.Incorrect
			default:
				style = theme.Selected
			}
			line += "  ●"
		} else if i == cursor {
			style = lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
