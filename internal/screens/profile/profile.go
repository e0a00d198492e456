// Package profile shows the learner's stats, rank progress, quests,
// achievements and recent lessons.
package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codulingo/internal/progress"
	"github.com/abhisek/codulingo/internal/router"
	"github.com/abhisek/codulingo/internal/screen"
	"github.com/abhisek/codulingo/internal/store"
	"github.com/abhisek/codulingo/internal/ui/components"
	"github.com/abhisek/codulingo/internal/ui/layout"
	"github.com/abhisek/codulingo/internal/ui/theme"
)

const recentLessons = 10

type historyLoadedMsg struct {
	Lessons []store.LessonEventRecord
	Err     error
}

// ProfileScreen displays learner progress.
type ProfileScreen struct {
	tracker *progress.Tracker
	events  store.EventRepo

	lessons []store.LessonEventRecord
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*ProfileScreen)(nil)
var _ screen.KeyHintProvider = (*ProfileScreen)(nil)

// New creates a new ProfileScreen. events may be nil, in which case no
// lesson history is shown.
func New(tracker *progress.Tracker, events store.EventRepo) *ProfileScreen {
	return &ProfileScreen{tracker: tracker, events: events}
}

func (s *ProfileScreen) Init() tea.Cmd {
	if s.events == nil {
		s.loaded = true
		return nil
	}
	events := s.events
	return func() tea.Msg {
		lessons, err := events.QueryLessonEvents(context.Background(), store.QueryOpts{Limit: recentLessons})
		return historyLoadedMsg{Lessons: lessons, Err: err}
	}
}

func (s *ProfileScreen) Title() string {
	return "Profile"
}

func (s *ProfileScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "P", Description: "Toggle Pro"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.lessons = msg.Lessons
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, router.Pop
		case "p", "P":
			s.tracker.SetPro(!s.tracker.Stats().Pro)
		}
	}
	return s, nil
}

func (s *ProfileScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	stats := s.tracker.Stats()

	var sections []string
	sections = append(sections, s.renderHeader(stats, cw))
	sections = append(sections, renderQuests(s.tracker.Quests(), cw))
	sections = append(sections, renderAchievements(s.tracker.UnlockedAchievements(), cw))
	sections = append(sections, s.renderHistory(cw))

	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		strings.Join(sections, "\n\n"))
}

func (s *ProfileScreen) renderHeader(stats progress.Stats, cw int) string {
	rank := stats.Rank()
	var b strings.Builder

	name := stats.Name
	if stats.Pro {
		name += "  " + theme.Chip.Foreground(theme.Gold).Render("PRO")
	}
	b.WriteString(theme.Title.Render(name))
	b.WriteString("\n")
	b.WriteString(theme.XPStyle.Render(fmt.Sprintf("%s %s · %d XP", rank.Icon, rank.Name, stats.XP)))
	b.WriteString("\n\n")

	if next, ok := progress.NextRank(stats.XP); ok {
		span := float64(next.MinXP - rank.MinXP)
		pct := float64(stats.XP-rank.MinXP) / span
		b.WriteString(components.NewProgressBar("Next: "+next.Name, pct, true, cw-8).View())
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%d XP to go", next.MinXP-stats.XP)))
	} else {
		b.WriteString(theme.Hint.Render("Top rank reached!"))
	}
	b.WriteString("\n\n")

	hearts := fmt.Sprintf("♥ %d/%d", stats.Hearts, progress.MaxHearts)
	if stats.Pro {
		hearts = "♥ ∞"
	} else if stats.Hearts < progress.MaxHearts {
		hearts += theme.Hint.Render(fmt.Sprintf(" (next in %s)", s.tracker.NextHeartIn().Truncate(time.Minute)))
	}
	b.WriteString(theme.HeartStyle.Render(hearts) + "   " +
		theme.GemStyle.Render(fmt.Sprintf("◆ %d", stats.Gems)) + "   " +
		theme.StreakStyle.Render(fmt.Sprintf("🔥 %d day streak", stats.Streak)))

	return components.Card(b.String(), cw)
}

func renderQuests(quests []progress.QuestState, cw int) string {
	var lines []string
	lines = append(lines, theme.Subtitle.Render("DAILY QUESTS"))
	for _, q := range quests {
		mark := "○"
		style := theme.Unselected
		if q.Completed {
			mark = "✔"
			style = theme.Correct
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s %-20s %d/%d   +%d ◆",
			mark, q.Description, q.Progress, q.Target, q.Reward)))
	}
	return lipgloss.NewStyle().Width(cw).Render(strings.Join(lines, "\n"))
}

func renderAchievements(unlocked []progress.Achievement, cw int) string {
	have := make(map[string]bool, len(unlocked))
	for _, a := range unlocked {
		have[a.ID] = true
	}
	lines := []string{theme.Subtitle.Render("ACHIEVEMENTS")}
	for _, a := range progress.Achievements() {
		if have[a.ID] {
			lines = append(lines, theme.XPStyle.Render(a.Icon+" "+a.Title)+"  "+theme.Hint.Render(a.Description))
		} else {
			lines = append(lines, theme.Locked.Render("🔒 "+a.Title+"  "+a.Description))
		}
	}
	return lipgloss.NewStyle().Width(cw).Render(strings.Join(lines, "\n"))
}

func (s *ProfileScreen) renderHistory(cw int) string {
	lines := []string{theme.Subtitle.Render("RECENT LESSONS")}
	switch {
	case s.errMsg != "":
		lines = append(lines, theme.Incorrect.Render("Error: "+s.errMsg))
	case !s.loaded:
		lines = append(lines, theme.Hint.Render("Loading history..."))
	case len(s.lessons) == 0:
		lines = append(lines, theme.Hint.Render("No lessons yet. Start learning!"))
	}
	for _, l := range s.lessons {
		perfect := ""
		if l.Perfect {
			perfect = theme.XPStyle.Render("  ★ perfect")
		}
		secs := l.DurationMs / 1000
		lines = append(lines, theme.Body.Render(fmt.Sprintf("%s  %-22s %3d%%  %d:%02d  +%d XP",
			l.Timestamp.Format("Jan 02"), l.LevelTitle, l.Score, secs/60, secs%60, l.XPGained))+perfect)
	}
	return lipgloss.NewStyle().Width(cw).Render(strings.Join(lines, "\n"))
}
