// Package path is the learning path: units and their levels, with lock and
// star state, and the async content load that precedes a lesson.
package path

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codulingo/internal/curriculum"
	"github.com/abhisek/codulingo/internal/progress"
	"github.com/abhisek/codulingo/internal/router"
	"github.com/abhisek/codulingo/internal/screen"
	"github.com/abhisek/codulingo/internal/screens/lesson"
	"github.com/abhisek/codulingo/internal/screens/summary"
	"github.com/abhisek/codulingo/internal/session"
	"github.com/abhisek/codulingo/internal/ui/components"
	"github.com/abhisek/codulingo/internal/ui/layout"
	"github.com/abhisek/codulingo/internal/ui/richtext"
	"github.com/abhisek/codulingo/internal/ui/theme"
)

// segmentsLoadedMsg delivers content for a level. It is applied only while
// the open that requested it is still pending.
type segmentsLoadedMsg struct {
	Seq      int
	LevelID  string
	Segments []curriculum.Segment
}

const guidebookFallback = "Ready to learn? Complete the lessons to master this topic!"

type rowKind int

const (
	rowUnitHeader rowKind = iota
	rowLevel
)

type row struct {
	kind  rowKind
	unit  curriculum.Unit
	level progress.LevelView
}

// PathScreen displays the units and levels.
type PathScreen struct {
	deps Deps

	rows         []row
	cursor       int
	scrollOffset int

	start   string // level to open on Init, if any
	pending string
	loadSeq int
	cancel  context.CancelFunc
	spinner spinner.Model
	notice  string

	guide *curriculum.Unit // unit whose guidebook is open
}

// Deps is shared with the lesson screen.
type Deps = lesson.Deps

var _ screen.Screen = (*PathScreen)(nil)
var _ screen.KeyHintProvider = (*PathScreen)(nil)
var _ screen.Resumer = (*PathScreen)(nil)

// New creates a PathScreen with the cursor on the current level. A
// non-empty start level is opened right away.
func New(deps Deps, start string) *PathScreen {
	s := &PathScreen{
		deps:  deps,
		start: start,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
	}
	s.buildRows()
	s.cursorToCurrent()
	return s
}

func (s *PathScreen) Init() tea.Cmd {
	if s.start == "" {
		return nil
	}
	id := s.start
	s.start = ""
	for i, r := range s.rows {
		if r.kind == rowLevel && r.level.ID == id {
			s.cursor = i
		}
	}
	return s.open(id)
}

// Resume rebuilds the rows after a lesson changed unlock and star state.
func (s *PathScreen) Resume() tea.Cmd {
	s.buildRows()
	s.cursorToCurrent()
	return nil
}

func (s *PathScreen) Title() string {
	return "Learning Path"
}

func (s *PathScreen) KeyHints() []layout.KeyHint {
	if s.pending != "" {
		return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
	}
	if s.guide != nil {
		return []layout.KeyHint{{Key: "Enter", Description: "I'm ready"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Tab", Description: "Unit"},
		{Key: "G", Description: "Guidebook"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *PathScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case segmentsLoadedMsg:
		return s, s.handleLoaded(msg)

	case spinner.TickMsg:
		if s.pending == "" {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		if s.pending != "" {
			if msg.String() == "esc" {
				s.cancelPending()
			}
			return s, nil
		}
		if s.guide != nil {
			switch msg.String() {
			case "enter", "esc", "q", "g":
				s.guide = nil
			}
			return s, nil
		}
		s.notice = ""
		switch msg.String() {
		case "up", "k":
			s.moveCursor(-1)
		case "down", "j":
			s.moveCursor(1)
		case "tab":
			s.nextUnit()
		case "g":
			if len(s.rows) > 0 {
				u := s.rows[s.cursor].unit
				s.guide = &u
			}
		case "enter":
			if r := s.rows[s.cursor]; r.kind == rowLevel {
				return s, s.open(r.level.ID)
			}
		case "esc", "q":
			return s, router.Pop
		}
	}
	return s, nil
}

// open starts loading a level's content unless it is locked or the learner
// is out of hearts.
func (s *PathScreen) open(levelID string) tea.Cmd {
	t := s.deps.Tracker
	if !t.Level(levelID).Unlocked {
		s.notice = "That level is locked. Finish the one before it first."
		return nil
	}
	if !t.HasLivesAvailable() {
		s.notice = outOfHearts(t)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.loadSeq++
	seq := s.loadSeq
	s.pending = levelID
	s.cancel = cancel

	content := s.deps.Content
	catalog := t.Catalog()
	load := func() tea.Msg {
		var segs []curriculum.Segment
		if content != nil {
			segs = content.LoadSegments(ctx, levelID)
		} else if lvl, ok := catalog.Level(levelID); ok {
			segs = lvl.Segments
		}
		return segmentsLoadedMsg{Seq: seq, LevelID: levelID, Segments: segs}
	}
	return tea.Batch(s.spinner.Tick, load)
}

func (s *PathScreen) cancelPending() {
	if s.cancel != nil {
		s.cancel()
	}
	s.pending, s.cancel = "", nil
	s.loadSeq++
	s.notice = "Loading cancelled."
}

func (s *PathScreen) handleLoaded(msg segmentsLoadedMsg) tea.Cmd {
	if s.pending == "" || msg.Seq != s.loadSeq || msg.LevelID != s.pending {
		return nil
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.pending, s.cancel = "", nil

	t := s.deps.Tracker
	lvl, ok := t.Catalog().Level(msg.LevelID)
	if !ok {
		return nil
	}
	lvl.Segments = msg.Segments

	sess, err := session.Start(&lvl, t, s.deps.SessionOptions()...)
	if errors.Is(err, session.ErrNoLives) {
		s.notice = outOfHearts(t)
		return nil
	}
	if err != nil {
		s.notice = err.Error()
		return nil
	}
	if out, done := sess.Outcome(); done {
		return router.Push(summary.New(lesson.SummaryData(t, lvl, out)))
	}
	return router.Push(lesson.New(s.deps, sess))
}

func outOfHearts(t *progress.Tracker) string {
	wait := t.NextHeartIn().Truncate(time.Second)
	return fmt.Sprintf("Out of hearts! Next heart in %s.", wait)
}

func (s *PathScreen) buildRows() {
	s.rows = s.rows[:0]
	for _, u := range s.deps.Tracker.Path() {
		s.rows = append(s.rows, row{kind: rowUnitHeader, unit: u.Unit})
		for _, l := range u.Levels {
			s.rows = append(s.rows, row{kind: rowLevel, unit: u.Unit, level: l})
		}
	}
}

func (s *PathScreen) cursorToCurrent() {
	first := -1
	for i, r := range s.rows {
		if r.kind != rowLevel {
			continue
		}
		if first < 0 {
			first = i
		}
		if r.level.Current {
			s.cursor = i
			return
		}
	}
	if first >= 0 && (s.cursor >= len(s.rows) || s.rows[s.cursor].kind != rowLevel) {
		s.cursor = first
	}
}

// moveCursor moves the cursor by delta, skipping unit headers.
func (s *PathScreen) moveCursor(delta int) {
	next := s.cursor + delta
	for next >= 0 && next < len(s.rows) {
		if s.rows[next].kind == rowLevel {
			s.cursor = next
			return
		}
		next += delta
	}
}

// nextUnit jumps to the first level of the next unit, wrapping around.
func (s *PathScreen) nextUnit() {
	if len(s.rows) == 0 {
		return
	}
	unit := s.rows[s.cursor].unit.ID
	for i := 1; i <= len(s.rows); i++ {
		j := (s.cursor + i) % len(s.rows)
		if s.rows[j].kind == rowLevel && s.rows[j].unit.ID != unit {
			s.cursor = j
			return
		}
	}
}

// adjustScroll keeps the cursor and its unit header in view.
func (s *PathScreen) adjustScroll(height int) {
	if height <= 0 {
		return
	}
	headerRow := s.cursor
	for headerRow > 0 && s.rows[headerRow-1].kind == rowUnitHeader {
		headerRow--
	}
	if headerRow < s.scrollOffset {
		s.scrollOffset = headerRow
	}
	if s.cursor >= s.scrollOffset+height {
		s.scrollOffset = s.cursor - height + 1
	}
}

func (s *PathScreen) View(width, height int) string {
	if s.pending != "" {
		title := s.pending
		if lvl, ok := s.deps.Tracker.Catalog().Level(s.pending); ok {
			title = lvl.Title
		}
		return "\n\n" + layout.Center(s.spinner.View()+" "+
			theme.Body.Render("Preparing \""+title+"\"..."), width)
	}
	if s.guide != nil {
		return renderGuidebook(*s.guide, width)
	}
	if len(s.rows) == 0 {
		return ""
	}

	listHeight := height
	if s.notice != "" {
		listHeight -= 2
	}
	s.adjustScroll(listHeight)

	var lines []string
	for i := s.scrollOffset; i < len(s.rows) && len(lines) < listHeight; i++ {
		r := s.rows[i]
		switch r.kind {
		case rowUnitHeader:
			lines = append(lines, renderUnitHeader(r.unit, width))
		case rowLevel:
			lines = append(lines, renderLevelRow(r.level, i == s.cursor, width))
		}
	}
	out := strings.Join(lines, "\n")
	if s.notice != "" {
		out = theme.Warning.Render("  "+s.notice) + "\n\n" + out
	}
	return out
}

func renderUnitHeader(u curriculum.Unit, width int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Width(width).
		Padding(0, 0, 0, 2).
		Render(strings.ToUpper(u.Title))
}

// renderGuidebook is the unit intro: the unit's theme and its guidebook
// notes.
func renderGuidebook(u curriculum.Unit, width int) string {
	cw := components.ContentWidth(width)
	body := guidebookFallback
	if strings.TrimSpace(u.Guidebook) != "" {
		body = richtext.Render(u.Guidebook)
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(strings.ToUpper(u.Title)) + "\n")
	if u.Description != "" {
		b.WriteString(theme.Subtitle.Render(u.Description) + "\n")
	}
	b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("GUIDEBOOK") + "\n\n")
	b.WriteString(lipgloss.NewStyle().Width(cw - 8).Align(lipgloss.Left).Render(body))
	b.WriteString("\n\n" + components.Button("I'M READY", true))

	return "\n" + layout.Center(components.Card(b.String(), cw), width)
}

func renderLevelRow(l progress.LevelView, selected bool, width int) string {
	icon, label := "🔒", "Locked"
	style := theme.Locked
	switch {
	case l.Completed:
		icon, label = "✔", stars(l.Stars)
		style = lipgloss.NewStyle().Foreground(theme.Success)
	case l.Current:
		icon, label = "▶", "Start"
		style = lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	case l.Unlocked:
		icon, label = "○", "Open"
		style = lipgloss.NewStyle().Foreground(theme.Text)
	}
	if l.Boss {
		label += " · Boss"
	}
	if selected {
		style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	}

	cursor := "  "
	if selected {
		cursor = "▸ "
	}

	nameWidth := max(width-26, 10)
	name := l.Title
	if lipgloss.Width(name) > nameWidth {
		name = string([]rune(name)[:nameWidth-1]) + "…"
	}
	return fmt.Sprintf("  %s%s %s  %s",
		cursor,
		icon,
		style.Render(fmt.Sprintf("%-*s", nameWidth, name)),
		theme.XPStyle.Render(label),
	)
}

func stars(n int) string {
	n = min(max(n, 0), 3)
	return strings.Repeat("★", n) + strings.Repeat("☆", 3-n)
}
