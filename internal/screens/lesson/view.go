package lesson

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/codulingo/internal/curriculum"
	"github.com/abhisek/codulingo/internal/session"
	"github.com/abhisek/codulingo/internal/ui/components"
	"github.com/abhisek/codulingo/internal/ui/richtext"
	"github.com/abhisek/codulingo/internal/ui/theme"
)

func (s *LessonScreen) View(width, height int) string {
	cw := max(min(width-4, 90), 30)

	if s.confirmQuit {
		return renderQuitConfirm(width)
	}

	seg, ok := s.sess.Current()
	if !ok {
		return ""
	}

	sections := []string{s.renderTopBar(cw)}
	if q := s.sess.Question(); q != nil {
		sections = append(sections, s.renderChallenge(seg, q, cw))
	} else {
		sections = append(sections, s.renderExplanation(seg, cw))
	}
	sections = append(sections, s.renderAction())

	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(cw).Render(strings.Join(sections, "\n\n")))
}

func (s *LessonScreen) renderTopBar(cw int) string {
	hearts := "♥ ∞"
	if t := s.deps.Tracker; t != nil && !t.Stats().Pro {
		hearts = fmt.Sprintf("♥ %d", t.Stats().Hearts)
	}
	bar := components.NewProgressBar("", s.sess.Progress(), false, cw-lipgloss.Width(hearts)-2).View()
	return bar + "  " + theme.HeartStyle.Render(hearts)
}

func (s *LessonScreen) renderExplanation(seg curriculum.Segment, cw int) string {
	var b strings.Builder
	if seg.Title != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(seg.Title))
		b.WriteString("\n\n")
	}

	r := s.sess.Reveal()
	text := richtext.Render(r.Visible())
	if !r.Done() {
		text += lipgloss.NewStyle().Foreground(theme.Primary).Render("▌")
	}
	b.WriteString(components.SpeechBubble(seg.Character, text, cw))

	if r.Done() && seg.CodeSnippet != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.CodeBlock.Render(seg.CodeSnippet))
	}
	return b.String()
}

func (s *LessonScreen) renderChallenge(seg curriculum.Segment, q *curriculum.Question, cw int) string {
	var b strings.Builder

	b.WriteString(theme.Hint.Render(challengeLabel(q.Type)))
	b.WriteString("\n\n")
	b.WriteString(components.SpeechBubble(seg.Character, richtext.Render(q.Prompt), cw))

	snippet := q.CodeSnippet
	if snippet == "" {
		snippet = seg.CodeSnippet
	}
	if snippet != "" {
		if q.Type == curriculum.FillBlank {
			snippet = fillBlank(snippet, s.sess.Choice())
		}
		b.WriteString("\n\n")
		b.WriteString(theme.CodeBlock.Render(snippet))
	}

	b.WriteString("\n\n")
	switch q.Type {
	case curriculum.MultipleChoice, curriculum.FillBlank:
		b.WriteString(components.OptionList(s.sess.Options(), s.cursor, s.sess.Choice(), s.verdict()))
	case curriculum.Rearrange:
		arr := s.sess.Arrangement()
		b.WriteString(components.TokenLine(arr.Values(), cw-4))
		b.WriteString("\n\n")
		b.WriteString(components.TokenPool(arr.Tokens(), arr.Placed, s.cursor))
	case curriculum.Matching:
		b.WriteString(s.renderMatching(s.sess.Matching(), cw))
	}

	if fb := s.renderFeedback(q); fb != "" {
		b.WriteString("\n\n")
		b.WriteString(fb)
	}
	if h := s.renderHint(cw); h != "" {
		b.WriteString("\n\n")
		b.WriteString(h)
	}
	return b.String()
}

func (s *LessonScreen) verdict() components.Verdict {
	switch s.sess.Status() {
	case session.StatusCorrect:
		return components.VerdictCorrect
	case session.StatusIncorrect:
		return components.VerdictWrong
	}
	return components.VerdictNone
}

func (s *LessonScreen) renderMatching(m *session.Matching, cw int) string {
	selLeft, selRight := m.Selected()
	colW := max((cw-4)/2, 12)

	column := func(items []session.Item, col int, sel string) string {
		if len(items) == 0 {
			return ""
		}
		cells := make([]string, len(items))
		for i, it := range items {
			style := theme.Chip.Width(colW)
			switch {
			case it.ID == sel && m.Mismatched():
				style = style.BorderForeground(theme.Error).Foreground(theme.Error)
			case it.ID == sel:
				style = style.BorderForeground(theme.Secondary).Foreground(theme.Secondary).Bold(true)
			case col == s.column && i == s.cursor:
				style = style.BorderForeground(theme.Text).Bold(true)
			}
			cells[i] = style.Render(it.Text)
		}
		return lipgloss.JoinVertical(lipgloss.Left, cells...)
	}

	grid := lipgloss.JoinHorizontal(lipgloss.Top,
		column(m.Left(), 0, selLeft), "  ", column(m.Right(), 1, selRight))
	count := theme.Hint.Render(fmt.Sprintf("%d/%d matched", m.MatchedCount(), m.Total()))
	return grid + "\n" + count
}

func (s *LessonScreen) renderFeedback(q *curriculum.Question) string {
	explain := ""
	if q.Explanation != "" {
		explain = "\n" + theme.Body.Render(richtext.Render(q.Explanation))
	}
	switch s.sess.Status() {
	case session.StatusTryAgain:
		return theme.Warning.Render("Not quite. Give it one more try!")
	case session.StatusCorrect:
		return theme.Correct.Render("Correct!") + explain
	case session.StatusIncorrect:
		return theme.Incorrect.Render("Incorrect. This one will come back at the end.") + explain
	}
	return ""
}

func (s *LessonScreen) renderHint(cw int) string {
	if s.hintLoading {
		return s.spinner.View() + " " + theme.Hint.Render("Byte_Bot is thinking...")
	}
	if s.hint == "" {
		return ""
	}
	return components.SpeechBubble(curriculum.CharacterRobot, s.hint, cw)
}

func (s *LessonScreen) renderAction() string {
	q := s.sess.Question()
	if q == nil || s.sess.Status().Resolved() {
		return components.Button("CONTINUE", true)
	}
	return components.Button("CHECK", s.sess.Ready() || q.Type == curriculum.MultipleChoice || q.Type == curriculum.FillBlank)
}

func renderQuitConfirm(width int) string {
	box := theme.Card.BorderForeground(theme.Accent).Render(
		theme.Warning.Render("End this lesson?") + "\n\n" +
			theme.Body.Render("Progress in this lesson will be lost.") + "\n\n" +
			theme.Hint.Render("Y to quit, N to keep going"))
	return "\n\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
}

func challengeLabel(t curriculum.QuestionType) string {
	switch t {
	case curriculum.FillBlank:
		return "FILL IN THE BLANK"
	case curriculum.Rearrange:
		return "PUT IT IN ORDER"
	case curriculum.Matching:
		return "MATCH THE PAIRS"
	default:
		return "CHOOSE THE ANSWER"
	}
}

// fillBlank shows the chosen option in place of the first blank marker.
func fillBlank(snippet, choice string) string {
	if choice == "" {
		return snippet
	}
	return strings.Replace(snippet, curriculum.BlankMarker, "["+choice+"]", 1)
}
