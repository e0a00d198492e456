// Package lesson is the screen that plays one lesson session: explanation
// reveals, the four challenge modalities, tutor hints and the quit dialog.
package lesson

import (
	"context"
	"strconv"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codulingo/internal/curriculum"
	"github.com/abhisek/codulingo/internal/logger"
	"github.com/abhisek/codulingo/internal/progress"
	"github.com/abhisek/codulingo/internal/router"
	"github.com/abhisek/codulingo/internal/screen"
	"github.com/abhisek/codulingo/internal/screens/summary"
	"github.com/abhisek/codulingo/internal/session"
	"github.com/abhisek/codulingo/internal/tutor"
	"github.com/abhisek/codulingo/internal/ui/layout"
	"github.com/abhisek/codulingo/internal/ui/theme"
)

const (
	revealInterval = 20 * time.Millisecond
	revealChars    = 2
)

// LessonScreen plays one session.
type LessonScreen struct {
	deps Deps
	sess *session.Session

	pos    int // queue position the view state belongs to
	cursor int
	column int // matching: 0 left, 1 right

	revealSeq   int
	confirmQuit bool
	done        bool

	hint        string
	hintLoading bool
	spinner     spinner.Model
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)

// New creates a lesson screen for a started session.
func New(deps Deps, sess *session.Session) *LessonScreen {
	deps.Log = logger.OrNop(deps.Log)
	return &LessonScreen{
		deps: deps,
		sess: sess,
		pos:  -1,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Secondary)),
		),
	}
}

func (s *LessonScreen) Init() tea.Cmd {
	return s.sync()
}

func (s *LessonScreen) Title() string {
	return s.sess.Level().Title
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case revealTickMsg:
		return s, s.handleRevealTick(msg)

	case mismatchClearMsg:
		s.sess.ClearMismatch(msg.token)
		return s, nil

	case hintMsg:
		if q := s.sess.Question(); q != nil && q.ID == msg.questionID && s.hintLoading {
			s.hint = msg.text
			s.hintLoading = false
		}
		return s, nil

	case spinner.TickMsg:
		if !s.hintLoading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s, s.handleKey(msg.String())
	}
	return s, nil
}

// sync resets per-segment view state once the engine has moved to another
// queue entry, and starts the timers the new segment needs.
func (s *LessonScreen) sync() tea.Cmd {
	if s.sess.Status() == session.StatusFinished {
		return s.finish()
	}
	pos := s.sess.Queue().Position()
	if pos == s.pos {
		return nil
	}
	s.pos = pos
	s.cursor, s.column = 0, 0
	s.hint, s.hintLoading = "", false

	if s.sess.Reveal() != nil {
		s.revealSeq++
		return revealTick(s.revealSeq)
	}
	return nil
}

func (s *LessonScreen) finish() tea.Cmd {
	if s.done {
		return nil
	}
	s.done = true
	out, _ := s.sess.Outcome()
	return router.Replace(summary.New(SummaryData(s.deps.Tracker, s.sess.Level(), out)))
}

// SummaryData builds the summary for a finished session. The tracker's last
// result is used when it belongs to this session; an empty lesson is never
// applied, so it gets a bare result.
func SummaryData(t *progress.Tracker, level curriculum.Level, out session.Outcome) summary.Data {
	data := summary.Data{
		Result:     progress.LessonResult{Outcome: out},
		LevelTitle: level.Title,
	}
	if t == nil {
		return data
	}
	if res, ok := t.LastResult(); ok && res.Outcome.SessionID == out.SessionID {
		data.Result = res
	}
	if id := data.Result.UnlockedLevel; id != "" {
		if l, ok := t.Catalog().Level(id); ok {
			data.UnlockedTitle = l.Title
		}
	}
	return data
}

func (s *LessonScreen) handleRevealTick(msg revealTickMsg) tea.Cmd {
	r := s.sess.Reveal()
	if msg.seq != s.revealSeq || r == nil || r.Step(revealChars) {
		return nil
	}
	return revealTick(msg.seq)
}

func revealTick(seq int) tea.Cmd {
	return tea.Tick(revealInterval, func(time.Time) tea.Msg {
		return revealTickMsg{seq: seq}
	})
}

func (s *LessonScreen) handleKey(key string) tea.Cmd {
	if s.confirmQuit {
		switch key {
		case "y", "Y":
			return router.Pop
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return nil
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return nil
	case "enter":
		return s.submit()
	case "?", "h":
		return s.requestHint()
	}

	q := s.sess.Question()
	if q == nil || !s.sess.Status().AcceptsInput() {
		return nil
	}
	switch q.Type {
	case curriculum.MultipleChoice, curriculum.FillBlank:
		s.handleChoiceKey(key)
	case curriculum.Rearrange:
		s.handleRearrangeKey(key)
	case curriculum.Matching:
		return s.handleMatchingKey(key)
	}
	return nil
}

// submit is the primary action: continue on explanations and resolved
// challenges, check otherwise.
func (s *LessonScreen) submit() tea.Cmd {
	q := s.sess.Question()
	switch {
	case q == nil:
		s.check()
	case s.sess.Status().Resolved():
		if _, err := s.sess.Advance(); err != nil {
			s.deps.Log.Debug("advance", "error", err)
		}
	case q.Type == curriculum.MultipleChoice || q.Type == curriculum.FillBlank:
		if opts := s.sess.Options(); s.cursor < len(opts) {
			_ = s.sess.Choose(opts[s.cursor])
		}
		s.check()
	case q.Type == curriculum.Matching && !s.sess.Ready():
		return s.selectCell()
	default:
		if s.sess.Ready() {
			s.check()
		}
	}
	return s.sync()
}

func (s *LessonScreen) check() {
	status, err := s.sess.Check()
	if err != nil {
		s.deps.Log.Debug("check", "error", err)
		return
	}
	// A hint still loading on TRY_AGAIN is for the same question; keep it.
	if status.Resolved() {
		s.hintLoading = false
	}
}

func (s *LessonScreen) handleChoiceKey(key string) {
	opts := s.sess.Options()
	switch key {
	case "up", "k":
		s.cursor = max(s.cursor-1, 0)
	case "down", "j":
		s.cursor = min(s.cursor+1, len(opts)-1)
	case "space":
		if s.cursor < len(opts) {
			_ = s.sess.Choose(opts[s.cursor])
		}
	default:
		if n, ok := digit(key); ok && n <= len(opts) {
			s.cursor = n - 1
			_ = s.sess.Choose(opts[n-1])
		}
	}
}

func (s *LessonScreen) handleRearrangeKey(key string) {
	arr := s.sess.Arrangement()
	n := len(arr.Tokens())
	switch key {
	case "left":
		s.cursor = max(s.cursor-1, 0)
	case "right":
		s.cursor = min(s.cursor+1, n-1)
	case "space":
		_ = s.sess.Tap(s.cursor)
	case "backspace":
		if arr.Len() > 0 {
			_ = s.sess.RemoveAt(arr.Len() - 1)
		}
	default:
		if d, ok := digit(key); ok && d <= n {
			s.cursor = d - 1
			_ = s.sess.Tap(d - 1)
		}
	}
}

func (s *LessonScreen) handleMatchingKey(key string) tea.Cmd {
	switch key {
	case "tab", "left", "right":
		s.column = 1 - s.column
		s.clampCursor()
	case "up", "k":
		s.cursor = max(s.cursor-1, 0)
	case "down", "j":
		s.cursor++
		s.clampCursor()
	case "space":
		return s.selectCell()
	}
	return nil
}

func (s *LessonScreen) columnItems() []session.Item {
	m := s.sess.Matching()
	if s.column == 0 {
		return m.Left()
	}
	return m.Right()
}

func (s *LessonScreen) clampCursor() {
	s.cursor = min(s.cursor, max(len(s.columnItems())-1, 0))
}

// selectCell toggles the matching cell under the cursor. A mismatch is
// cleared by a delayed message carrying its token.
func (s *LessonScreen) selectCell() tea.Cmd {
	items := s.columnItems()
	if len(items) == 0 {
		return nil
	}
	s.clampCursor()
	id := items[s.cursor].ID

	var (
		res session.MatchResult
		tok session.MismatchToken
		err error
	)
	if s.column == 0 {
		res, tok, err = s.sess.SelectLeft(id)
	} else {
		res, tok, err = s.sess.SelectRight(id)
	}
	if err != nil {
		return nil
	}

	switch res {
	case session.MatchMismatch:
		return tea.Tick(session.MismatchDelay, func(time.Time) tea.Msg {
			return mismatchClearMsg{token: tok}
		})
	case session.MatchConfirmed:
		s.clampCursor()
	case session.MatchNone:
		// Hop to the other column once one side is picked.
		left, right := s.sess.Matching().Selected()
		if (s.column == 0 && left != "" && right == "") || (s.column == 1 && right != "" && left == "") {
			s.column = 1 - s.column
			s.cursor = 0
		}
	}
	return nil
}

func (s *LessonScreen) requestHint() tea.Cmd {
	q := s.sess.Question()
	if q == nil || s.hintLoading || s.sess.Status().Resolved() {
		return nil
	}
	if s.deps.Tutor == nil {
		s.hint = tutor.FallbackUnavailable
		return nil
	}

	ctx := tutor.WithSessionID(context.Background(), s.sess.ID())
	ch, ok := s.deps.Tutor.RequestHint(ctx, q.ID, q.Prompt, s.sess.HintContext())
	if !ok {
		return nil
	}
	s.hintLoading = true
	id := q.ID
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		return hintMsg{questionID: id, text: <-ch}
	})
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "End lesson"},
			{Key: "N", Description: "Keep going"},
		}
	}
	q := s.sess.Question()
	if q == nil || s.sess.Status().Resolved() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Esc", Description: "Quit"},
		}
	}

	var hints []layout.KeyHint
	switch q.Type {
	case curriculum.MultipleChoice, curriculum.FillBlank:
		hints = append(hints, layout.KeyHint{Key: "↑↓/1-9", Description: "Select"})
	case curriculum.Rearrange:
		hints = append(hints,
			layout.KeyHint{Key: "←→", Description: "Move"},
			layout.KeyHint{Key: "Space", Description: "Place"},
			layout.KeyHint{Key: "Bksp", Description: "Undo"},
		)
	case curriculum.Matching:
		hints = append(hints,
			layout.KeyHint{Key: "Tab", Description: "Column"},
			layout.KeyHint{Key: "Space", Description: "Pick"},
		)
	}
	return append(hints,
		layout.KeyHint{Key: "Enter", Description: "Check"},
		layout.KeyHint{Key: "?", Description: "Hint"},
		layout.KeyHint{Key: "Esc", Description: "Quit"},
	)
}

// digit parses the keys 1-9.
func digit(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(key)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
