package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codulingo/internal/progress"
	"github.com/abhisek/codulingo/internal/ui/theme"
)

// MascotVariant selects which owl art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default green
	MascotCelebrating                      // Gold, star eyes: streak or quests done
	MascotSleepy                           // Dim, closed eyes: out of hearts
)

const mascotIdle = `  ,_,
 (O,O)
 (   )
--"-"--`

const mascotCelebrating = `\ ,_, /
 (*,*)
 (   )
--"-"--`

const mascotSleepy = `  ,_,
 (-,-) z
 (   )  z
--"-"--`

// mascotFor picks the owl mood from the learner's state.
func mascotFor(stats progress.Stats, quests []progress.QuestState) MascotVariant {
	if !stats.Pro && stats.Hearts == 0 {
		return MascotSleepy
	}
	done := 0
	for _, q := range quests {
		if q.Completed {
			done++
		}
	}
	if stats.Streak >= 3 || (len(quests) > 0 && done == len(quests)) {
		return MascotCelebrating
	}
	return MascotIdle
}

// RenderMascot returns the owl art for the given variant.
func RenderMascot(variant MascotVariant) string {
	art, fg := mascotIdle, theme.Primary
	switch variant {
	case MascotCelebrating:
		art, fg = mascotCelebrating, theme.Gold
	case MascotSleepy:
		art, fg = mascotSleepy, theme.TextDim
	}
	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
