// Package app wires the screens into a Bubble Tea program.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codulingo/internal/lessongen"
	"github.com/abhisek/codulingo/internal/logger"
	"github.com/abhisek/codulingo/internal/progress"
	"github.com/abhisek/codulingo/internal/router"
	"github.com/abhisek/codulingo/internal/screen"
	"github.com/abhisek/codulingo/internal/screens/home"
	"github.com/abhisek/codulingo/internal/screens/lesson"
	"github.com/abhisek/codulingo/internal/screens/path"
	"github.com/abhisek/codulingo/internal/screens/welcome"
	"github.com/abhisek/codulingo/internal/store"
	"github.com/abhisek/codulingo/internal/tutor"
	"github.com/abhisek/codulingo/internal/ui/layout"
)

// Options holds the dependencies for the TUI.
type Options struct {
	Tracker *progress.Tracker
	Content *lessongen.Service // nil when no LLM is configured
	Tutor   *tutor.Service     // nil when no LLM is configured
	Events  store.EventRepo
	Log     *logger.Logger

	// StartLevel skips the splash and opens this level on the path.
	StartLevel string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	tracker *progress.Tracker
	start   tea.Cmd
	width   int
	height  int
}

func newAppModel(opts Options) AppModel {
	deps := lesson.Deps{
		Tracker: opts.Tracker,
		Content: opts.Content,
		Tutor:   opts.Tutor,
		Events:  opts.Events,
		Log:     logger.OrNop(opts.Log),
	}
	homeFactory := func() screen.Screen { return home.New(deps) }

	if opts.StartLevel != "" {
		r := router.New(homeFactory())
		return AppModel{
			router:  r,
			tracker: opts.Tracker,
			start:   router.Push(path.New(deps, opts.StartLevel)),
		}
	}

	r := router.New(welcome.New(opts.Tracker, homeFactory))
	return AppModel{
		router:  r,
		tracker: opts.Tracker,
		start:   r.Active().Init(),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.start
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Esc belongs to the screens: lessons confirm before leaving.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) footerHints() []layout.KeyHint {
	if kp, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return append(kp.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	title := ""
	if active := m.router.Active(); active != nil {
		title = active.Title()
	}

	stats := m.tracker.Stats()
	header := layout.RenderHeader(title, layout.HUD{
		Hearts: stats.Hearts,
		Pro:    stats.Pro,
		Gems:   stats.Gems,
		Streak: stats.Streak,
	}, m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
