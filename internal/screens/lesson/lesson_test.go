package lesson

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/codulingo/internal/curriculum"
	"github.com/abhisek/codulingo/internal/llm"
	"github.com/abhisek/codulingo/internal/progress"
	"github.com/abhisek/codulingo/internal/router"
	"github.com/abhisek/codulingo/internal/screen"
	"github.com/abhisek/codulingo/internal/screens/summary"
	"github.com/abhisek/codulingo/internal/session"
	"github.com/abhisek/codulingo/internal/tutor"
)

// keepOrder is a Rand under which Shuffle leaves items in place.
type keepOrder struct{}

func (keepOrder) IntN(n int) int { return n - 1 }

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func testLevel() curriculum.Level {
	return curriculum.Level{
		ID:    "lists",
		Title: "Lists",
		Segments: []curriculum.Segment{
			{ID: "e1", Kind: curriculum.KindExplanation, Title: "Lists", Content: "Use <b>ul</b>"},
			{ID: "c1", Kind: curriculum.KindChallenge, Question: &curriculum.Question{
				ID:            "q1",
				Type:          curriculum.MultipleChoice,
				Prompt:        "Which tag is a list item?",
				Options:       []string{"<ul>", "<li>", "<p>"},
				CorrectAnswer: curriculum.Single("<li>"),
				Explanation:   "li stands for list item.",
			}},
			{ID: "c2", Kind: curriculum.KindChallenge, Question: &curriculum.Question{
				ID:   "q2",
				Type: curriculum.Matching,
				Pairs: []curriculum.Pair{
					{ID: "a", Left: "ul", Right: "unordered"},
					{ID: "b", Left: "ol", Right: "ordered"},
				},
			}},
		},
	}
}

func newTestLesson(t *testing.T, deps Deps) *LessonScreen {
	t.Helper()
	lvl := testLevel()
	catalog := curriculum.New(curriculum.Unit{ID: "u1", Title: "HTML", Levels: []curriculum.Level{lvl}})
	if deps.Tracker == nil {
		deps.Tracker = progress.New(catalog)
	}
	deps.Rand = keepOrder{}
	sess, err := session.Start(&lvl, deps.Tracker, deps.SessionOptions()...)
	require.NoError(t, err)
	s := New(deps, sess)
	s.Init()
	return s
}

func press(s *LessonScreen, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = s.Update(key(k))
	}
	return cmd
}

func TestLessonScreen_ExplanationReveal(t *testing.T) {
	s := newTestLesson(t, Deps{})

	r := s.sess.Reveal()
	require.NotNil(t, r)
	assert.Empty(t, r.Visible())

	_, cmd := s.Update(revealTickMsg{seq: s.revealSeq})
	assert.NotNil(t, cmd, "reveal keeps ticking until done")
	assert.Equal(t, "Us", r.Visible())

	// A tick from an older reveal is ignored.
	_, cmd = s.Update(revealTickMsg{seq: s.revealSeq - 1})
	assert.Nil(t, cmd)
	assert.Equal(t, "Us", r.Visible())

	// Enter first skips the typing, then continues.
	press(s, "enter")
	assert.True(t, r.Done())
	assert.Equal(t, "e1", current(s))

	press(s, "enter")
	assert.Equal(t, "c1", current(s))
}

func TestLessonScreen_MultipleChoice(t *testing.T) {
	s := newTestLesson(t, Deps{})
	press(s, "enter", "enter")
	require.Equal(t, "c1", current(s))

	press(s, "1", "enter")
	assert.Equal(t, session.StatusTryAgain, s.sess.Status())
	assert.Contains(t, ansi.Strip(s.View(100, 40)), "one more try")

	press(s, "down", "enter")
	assert.Equal(t, session.StatusCorrect, s.sess.Status())
	assert.Contains(t, ansi.Strip(s.View(100, 40)), "li stands for list item.")
	assert.Equal(t, progress.MaxHearts, s.deps.Tracker.Stats().Hearts)

	press(s, "enter")
	assert.Equal(t, "c2", current(s))
	assert.Zero(t, s.cursor, "cursor resets on a new segment")
}

func TestLessonScreen_WrongTwiceLosesHeart(t *testing.T) {
	s := newTestLesson(t, Deps{})
	press(s, "enter", "enter")

	press(s, "3", "enter", "enter")
	assert.Equal(t, session.StatusIncorrect, s.sess.Status())
	assert.Equal(t, progress.MaxHearts-1, s.deps.Tracker.Stats().Hearts)
	assert.Contains(t, ansi.Strip(s.View(100, 40)), "come back at the end")
}

func TestLessonScreen_MatchingAndFinish(t *testing.T) {
	s := newTestLesson(t, Deps{})
	press(s, "enter", "enter", "2", "enter", "enter")
	require.Equal(t, "c2", current(s))

	// Left "ul" hops the cursor to the right column; "ordered" is wrong.
	press(s, "space")
	assert.Equal(t, 1, s.column)
	cmd := press(s, "down", "space")
	require.NotNil(t, cmd, "a mismatch schedules its own clearing")
	assert.True(t, s.sess.Matching().Mismatched())

	msg := cmd()
	clear, ok := msg.(mismatchClearMsg)
	require.True(t, ok)
	s.Update(clear)
	assert.False(t, s.sess.Matching().Mismatched())

	// ul-unordered, then ol-ordered.
	s.column, s.cursor = 0, 0
	press(s, "space", "space")
	s.column, s.cursor = 0, 0
	press(s, "space", "space")
	require.True(t, s.sess.Ready())

	press(s, "enter")
	assert.Equal(t, session.StatusCorrect, s.sess.Status())

	cmd = press(s, "enter")
	require.NotNil(t, cmd)
	replace, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok, "finishing replaces the lesson with its summary")
	sum, ok := replace.Screen.(*summary.SummaryScreen)
	require.True(t, ok)
	view := ansi.Strip(sum.View(100, 30))
	assert.Contains(t, view, "Lists")
	assert.Contains(t, view, "+15 XP")

	assert.Equal(t, session.XPPerLesson, s.deps.Tracker.Stats().XP)
}

func TestLessonScreen_QuitConfirm(t *testing.T) {
	s := newTestLesson(t, Deps{})

	press(s, "esc")
	assert.True(t, s.confirmQuit)
	assert.Len(t, s.KeyHints(), 2)

	press(s, "n")
	assert.False(t, s.confirmQuit)

	cmd := press(s, "esc", "y")
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestLessonScreen_Hint(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(map[string]string{"hint": "Think about what li stands for."}))
	s := newTestLesson(t, Deps{Tutor: tutor.New(mock)})
	press(s, "enter", "enter", "1")

	cmd := press(s, "?")
	require.NotNil(t, cmd)
	assert.True(t, s.hintLoading)

	// A second request while loading does nothing.
	assert.Nil(t, press(s, "?"))

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if m, ok := c().(hintMsg); ok {
			s.Update(m)
		}
	}
	assert.False(t, s.hintLoading)
	assert.Equal(t, "Think about what li stands for.", s.hint)

	req, ok := mock.LastCall()
	require.True(t, ok)
	assert.Contains(t, req.Messages[0].Content, "<ul>", "what the learner tried is sent along")
}

func TestLessonScreen_HintSurvivesTryAgain(t *testing.T) {
	hold := make(chan struct{})
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: []byte(`{"hint": "A list item lives inside a list."}`),
		Wait:    hold,
	})
	s := newTestLesson(t, Deps{Tutor: tutor.New(mock)})
	press(s, "enter", "enter", "1")

	cmd := press(s, "?")
	require.NotNil(t, cmd)
	require.True(t, s.hintLoading)

	// A wrong answer while the hint is on its way.
	press(s, "enter")
	require.Equal(t, session.StatusTryAgain, s.sess.Status())
	assert.True(t, s.hintLoading, "the pending hint is kept on TRY_AGAIN")

	close(hold)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if m, ok := c().(hintMsg); ok {
			s.Update(m)
		}
	}
	assert.False(t, s.hintLoading)
	assert.Equal(t, "A list item lives inside a list.", s.hint)
	assert.Contains(t, ansi.Strip(s.View(100, 40)), "A list item lives inside a list.")
}

func TestLessonScreen_LateHintForEarlierSegmentDropped(t *testing.T) {
	s := newTestLesson(t, Deps{})
	press(s, "enter", "enter", "1")
	s.hintLoading = true

	press(s, "down", "enter", "enter")
	require.Equal(t, "c2", current(s))
	assert.False(t, s.hintLoading, "a new segment drops the pending hint")

	s.Update(hintMsg{questionID: "q1", text: "stale"})
	assert.Empty(t, s.hint)
}

func TestLessonScreen_HintWithoutTutor(t *testing.T) {
	s := newTestLesson(t, Deps{})
	press(s, "enter", "enter")

	assert.Nil(t, press(s, "?"))
	assert.Equal(t, tutor.FallbackUnavailable, s.hint)
}

func TestSummaryData_EmptyLesson(t *testing.T) {
	catalog := curriculum.New(curriculum.Unit{ID: "u1", Levels: []curriculum.Level{{ID: "empty", Title: "Empty"}}})
	tracker := progress.New(catalog)
	lvl, _ := catalog.Level("empty")

	sess, err := session.Start(&lvl, tracker)
	require.NoError(t, err)
	out, ok := sess.Outcome()
	require.True(t, ok)

	data := SummaryData(tracker, lvl, out)
	assert.False(t, data.Result.Outcome.Completed)
	assert.Equal(t, "Empty", data.LevelTitle)
	assert.Zero(t, tracker.Stats().XP)
}

var _ screen.Screen = (*LessonScreen)(nil)

func current(s *LessonScreen) string {
	seg, _ := s.sess.Current()
	return seg.ID
}
