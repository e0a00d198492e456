package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/codulingo/internal/progress"
	"github.com/abhisek/codulingo/internal/ui/components"
	"github.com/abhisek/codulingo/internal/ui/theme"
)

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 30

func renderTitle(cw int, compact bool) string {
	w := components.BannerWidth
	if compact {
		w = 0
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(components.Banner(w))
}

// renderStatsBar renders rank, XP and counters in a box matching content
// width.
func renderStatsBar(stats progress.Stats, cw int, compact bool) string {
	rank := stats.Rank()
	hearts := fmt.Sprintf("%d", stats.Hearts)
	if stats.Pro {
		hearts = "∞"
	}

	sep := "   "
	if compact {
		sep = " "
	}
	line := strings.Join([]string{
		theme.XPStyle.Render(fmt.Sprintf("%s %s", rank.Icon, rank.Name)),
		theme.XPStyle.Render(fmt.Sprintf("%d XP", stats.XP)),
		theme.HeartStyle.Render("♥ " + hearts),
		theme.GemStyle.Render(fmt.Sprintf("◆ %d", stats.Gems)),
		theme.StreakStyle.Render(fmt.Sprintf("🔥 %d", stats.Streak)),
	}, sep)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(line)
}

// renderQuestLine summarizes today's quests.
func renderQuestLine(quests []progress.QuestState, cw int) string {
	done := 0
	for _, q := range quests {
		if q.Completed {
			done++
		}
	}
	style := theme.Hint
	if done == len(quests) && done > 0 {
		style = theme.Correct
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(fmt.Sprintf("Daily quests: %d/%d", done, len(quests))))
}

func renderMenu(m components.Menu, cw int, compact bool) string {
	if compact {
		var lines []string
		for i, item := range m.Items {
			if i == m.Selected {
				lines = append(lines, theme.Selected.Render(" ▸ "+item.Label+" "))
			} else {
				lines = append(lines, theme.Unselected.Render("   "+item.Label))
			}
		}
		return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(m.View(buttonWidth))
}

// renderOfflineBanner warns that only built-in lessons can be played.
func renderOfflineBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ No LLM configured: only built-in lessons are playable (see codulingo --help)")
}

func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
