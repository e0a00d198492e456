package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette. Bright, friendly, readable on dark terminals.
var (
	Primary   = lipgloss.Color("#58CC02") // Lesson green
	Secondary = lipgloss.Color("#1CB0F6") // Sky blue
	Accent    = lipgloss.Color("#FF9600") // Streak orange
	Gold      = lipgloss.Color("#FFC800") // Stars, ranks
	Heart     = lipgloss.Color("#FF4B4B") // Lives
	Gem       = lipgloss.Color("#CE82FF") // Gems
	Success   = lipgloss.Color("#58CC02")
	Error     = lipgloss.Color("#FF4B4B")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#131F24")
	BgCard    = lipgloss.Color("#1F2F36")
	BgCode    = lipgloss.Color("#0B1418")
	Border    = lipgloss.Color("#37464F")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Code = lipgloss.NewStyle().
		Foreground(Secondary).
		Background(BgCode).
		Padding(0, 1)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 2)

	CodeBlock = lipgloss.NewStyle().
			Foreground(Secondary).
			Background(BgCode).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(Primary).
			Padding(0, 1)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Locked = lipgloss.NewStyle().
		Foreground(Border)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Warning = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
)

// Counters shown in the header and on the profile.
var (
	HeartStyle  = lipgloss.NewStyle().Foreground(Heart).Bold(true)
	GemStyle    = lipgloss.NewStyle().Foreground(Gem).Bold(true)
	StreakStyle = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	XPStyle     = lipgloss.NewStyle().Foreground(Gold).Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Primary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(BgDark).
			Bold(true).
			Padding(0, 3)

	ButtonInactive = lipgloss.NewStyle().
			Foreground(TextDim).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 3)

	Chip = lipgloss.NewStyle().
		Foreground(Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)
