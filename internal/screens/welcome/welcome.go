package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codulingo/internal/progress"
	"github.com/abhisek/codulingo/internal/router"
	"github.com/abhisek/codulingo/internal/screen"
	"github.com/abhisek/codulingo/internal/ui/components"
	"github.com/abhisek/codulingo/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 2500 * time.Millisecond

	nameLimit = 20
)

const owlArt = `   ,___,
  ( O,O )
  /)__)/
 --"--"--
  </>  `

var sparkleFrames = []string{"★", "✦"}

type tickMsg time.Time

// WelcomeScreen shows a splash animation, asks new learners for a name,
// then hands over to the home screen.
type WelcomeScreen struct {
	tracker     *progress.Tracker
	homeFactory func() screen.Screen

	elapsed      time.Duration
	tickCount    int
	naming       bool
	input        components.TextInput
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced
// by homeFactory.
func New(tracker *progress.Tracker, homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		tracker:     tracker,
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// newLearner reports whether the learner still has the default name and
// no XP.
func (w *WelcomeScreen) newLearner() bool {
	s := w.tracker.Stats()
	return s.Name == progress.DefaultName && s.XP == 0
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if w.naming {
		return w.updateName(msg)
	}

	switch msg.(type) {
	case tickMsg:
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		// The first key skips the animation.
		if w.elapsed < totalDur {
			w.elapsed = totalDur
			return w, nil
		}
		if w.newLearner() {
			w.naming = true
			w.input = components.NewTextInput("your name", nameLimit)
			return w, w.input.Init()
		}
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) updateName(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "enter":
			if name := w.input.Value(); name != "" {
				w.tracker.SetName(name)
			}
			return w, w.transition()
		case "esc":
			return w, w.transition()
		}
	}
	if _, ok := msg.(tickMsg); ok {
		w.tickCount++
		return w, tick()
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	return router.Replace(w.homeFactory())
}

func (w *WelcomeScreen) View(width, height int) string {
	rendered := lipgloss.NewStyle().Foreground(theme.Primary).Render(owlArt)

	if w.elapsed >= phase1End {
		sparkle := sparkleFrames[w.tickCount%len(sparkleFrames)]
		s1 := lipgloss.NewStyle().Foreground(theme.Accent).Render(sparkle)
		s2 := lipgloss.NewStyle().Foreground(theme.Secondary).Render(sparkle)

		lines := strings.Split(rendered, "\n")
		lines[0] = s1 + "  " + lines[0] + "  " + s2
		lines[len(lines)-1] = s2 + "  " + lines[len(lines)-1] + "  " + s1
		rendered = strings.Join(lines, "\n")
	}

	sections := []string{rendered}

	if w.elapsed >= phase2End {
		sections = append(sections,
			"",
			components.Banner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
				Render("Learn to code, one bite at a time!"),
		)
	}

	switch {
	case w.naming:
		sections = append(sections,
			"",
			theme.Body.Render("What should Hoot call you?"),
			theme.Card.Width(nameLimit+8).Render(w.input.View()),
			theme.Hint.Render("enter to continue · esc to skip"),
		)
	case w.elapsed >= totalDur:
		sections = append(sections, "", theme.Hint.Render("press any key to continue"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n"))
}
