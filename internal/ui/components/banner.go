package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codulingo/internal/ui/theme"
)

const bannerArt = `  ██████╗ ██████╗ ██████╗ ██╗   ██╗██╗     ██╗███╗   ██╗ ██████╗  ██████╗
 ██╔════╝██╔═══██╗██╔══██╗██║   ██║██║     ██║████╗  ██║██╔════╝ ██╔═══██╗
 ██║     ██║   ██║██║  ██║██║   ██║██║     ██║██╔██╗ ██║██║  ███╗██║   ██║
 ██║     ██║   ██║██║  ██║██║   ██║██║     ██║██║╚██╗██║██║   ██║██║   ██║
 ╚██████╗╚██████╔╝██████╔╝╚██████╔╝███████╗██║██║ ╚████║╚██████╔╝╚██████╔╝
  ╚═════╝ ╚═════╝ ╚═════╝  ╚═════╝ ╚══════╝╚═╝╚═╝  ╚═══╝ ╚═════╝  ╚═════╝`

const bannerCompact = "C · O · D · U · L · I · N · G · O"

// BannerWidth is the column count the block-letter banner needs.
const BannerWidth = 76

// Banner returns the CODULINGO title in the primary color, or a one-line
// fallback when width cannot fit the block letters.
func Banner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < BannerWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
