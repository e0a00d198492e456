package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codulingo/internal/progress"
	"github.com/abhisek/codulingo/internal/router"
	"github.com/abhisek/codulingo/internal/screen"
	"github.com/abhisek/codulingo/internal/ui/layout"
	"github.com/abhisek/codulingo/internal/ui/theme"
)

// Data is what the summary shows for one finished lesson.
type Data struct {
	Result        progress.LessonResult
	LevelTitle    string
	UnlockedTitle string // title of Result.UnlockedLevel, if any
}

// SummaryScreen displays the lesson result.
type SummaryScreen struct {
	data Data
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(data Data) *SummaryScreen {
	return &SummaryScreen{data: data}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Lesson Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, router.Pop
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	res := s.data.Result
	out := res.Outcome
	center := func(str string) string { return layout.Center(str, width) }

	var b strings.Builder

	if !out.Completed {
		b.WriteString(center(theme.Warning.Render("No lesson here yet")))
		b.WriteString("\n\n")
		b.WriteString(center(theme.Subtitle.Render(
			"We couldn't load \"" + s.data.LevelTitle + "\". Check your connection or API key and try again.")))
		return b.String()
	}

	title := "Lesson complete!"
	if out.Perfect {
		title = "Perfect lesson!"
	}
	b.WriteString(center(theme.Title.Render(title)))
	b.WriteString("\n")
	b.WriteString(center(theme.Subtitle.Render(s.data.LevelTitle)))
	b.WriteString("\n\n")
	b.WriteString(center(renderStars(res.Stars)))
	b.WriteString("\n\n")

	mins := int(out.Duration().Minutes())
	secs := int(out.Duration().Seconds()) % 60
	statsLine := fmt.Sprintf("Score: %d%%     First try: %d/%d     Time: %d:%02d",
		out.Score, out.FirstTryCorrect, out.Challenges, mins, secs)
	b.WriteString(center(theme.Body.Render(statsLine)))
	b.WriteString("\n\n")

	rewards := theme.XPStyle.Render(fmt.Sprintf("+%d XP", out.XPGained)) + "     " +
		theme.GemStyle.Render(fmt.Sprintf("+%d ◆", res.TotalGems()))
	if res.HeartsRestored > 0 {
		rewards += "     " + theme.HeartStyle.Render(fmt.Sprintf("+%d ♥", res.HeartsRestored))
	}
	b.WriteString(center(rewards))
	b.WriteString("\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", max(min(width-8, 60), 10)))

	var notes []string
	if res.RankUp() {
		notes = append(notes, theme.Warning.Render(fmt.Sprintf("Rank up! %s %s", res.RankAfter.Icon, res.RankAfter.Name)))
	}
	for _, q := range res.QuestsDone {
		notes = append(notes, theme.Correct.Render(fmt.Sprintf("Quest complete: %s (+%d ◆)", q.Description, q.Reward)))
	}
	for _, a := range res.Achievements {
		notes = append(notes, theme.XPStyle.Render(fmt.Sprintf("%s %s: %s", a.Icon, a.Title, a.Description)))
	}
	if s.data.UnlockedTitle != "" {
		notes = append(notes, theme.Selected.Render("Unlocked: "+s.data.UnlockedTitle))
	}
	if len(notes) > 0 {
		b.WriteString("\n")
		b.WriteString(center(divider))
		b.WriteString("\n\n")
		for _, n := range notes {
			b.WriteString(center(n))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func renderStars(n int) string {
	n = min(max(n, 0), 3)
	return theme.XPStyle.Render(strings.Repeat("★ ", n)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("☆ ", 3-n))
}
