package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/codulingo/internal/curriculum"
	"github.com/abhisek/codulingo/internal/ui/theme"
)

const owlArt = ` ,_,
(O,O)
(   )
 " "`

const robotArt = ` [¤¤]
/|__|\
 d  b`

const catArt = ` /\_/\
( o.o )
 > ^ <`

const bugArt = `\ () /
 (oo)
/ || \`

// Persona returns the ASCII art and display name of a speaker persona.
// Unknown personas fall back to the owl.
func Persona(c curriculum.Character) (art, name string) {
	switch c {
	case curriculum.CharacterRobot:
		return robotArt, "Byte_Bot"
	case curriculum.CharacterCat:
		return catArt, "Pixel"
	case curriculum.CharacterBug:
		return bugArt, "Glitch"
	default:
		return owlArt, "Hoot"
	}
}

func personaColor(c curriculum.Character) color.Color {
	switch c {
	case curriculum.CharacterRobot:
		return theme.Secondary
	case curriculum.CharacterCat:
		return theme.Gem
	case curriculum.CharacterBug:
		return theme.Heart
	default:
		return theme.Primary
	}
}

// Character renders the persona art with its name underneath.
func Character(c curriculum.Character) string {
	art, name := Persona(c)
	style := lipgloss.NewStyle().Foreground(personaColor(c))
	return lipgloss.JoinVertical(lipgloss.Center,
		style.Render(art),
		style.Bold(true).Render(name),
	)
}

// SpeechBubble renders text in a rounded box next to a persona.
func SpeechBubble(c curriculum.Character, text string, width int) string {
	bubble := theme.Card.
		BorderForeground(personaColor(c)).
		Width(max(width-14, 20)).
		Render(text)
	return lipgloss.JoinHorizontal(lipgloss.Center, Character(c), "  ", bubble)
}
