package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/codulingo/internal/router"
	"github.com/abhisek/codulingo/internal/screen"
	"github.com/abhisek/codulingo/internal/screens/lesson"
	"github.com/abhisek/codulingo/internal/screens/path"
	"github.com/abhisek/codulingo/internal/screens/profile"
	"github.com/abhisek/codulingo/internal/ui/components"
	"github.com/abhisek/codulingo/internal/ui/layout"
)

// HomeScreen is the main menu.
type HomeScreen struct {
	deps lesson.Deps
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps lesson.Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	h.buildMenu()
	return h
}

func (h *HomeScreen) buildMenu() {
	continueLabel := "CONTINUE"
	if lvl, ok := h.deps.Tracker.CurrentLevel(); ok {
		continueLabel = "CONTINUE: " + strings.ToUpper(lvl.Title)
	}

	selected := h.menu.Selected
	h.menu = components.NewMenu([]components.MenuItem{
		{Label: continueLabel, Action: func() tea.Cmd {
			lvl, ok := h.deps.Tracker.CurrentLevel()
			if !ok {
				return router.Push(path.New(h.deps, ""))
			}
			return router.Push(path.New(h.deps, lvl.ID))
		}},
		{Label: "LEARNING PATH", Action: func() tea.Cmd {
			return router.Push(path.New(h.deps, ""))
		}},
		{Label: "PROFILE", Action: func() tea.Cmd {
			return router.Push(profile.New(h.deps.Tracker, h.deps.Events))
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	})
	h.menu.Selected = selected
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

// Resume refreshes hearts and the continue label after a lesson.
func (h *HomeScreen) Resume() tea.Cmd {
	h.deps.Tracker.Refresh()
	h.buildMenu()
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer.
	termHeight := height + layout.HeaderHeight + layout.FooterHeight
	compact := layout.IsCompactHeight(termHeight) || layout.IsCompactWidth(width)

	cw := components.ContentWidth(width)
	if !compact {
		cw = max(cw, min(width-6, components.BannerWidth))
	}

	stats := h.deps.Tracker.Stats()
	quests := h.deps.Tracker.Quests()

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(mascotFor(stats, quests), cw))
	}
	sections = append(sections, renderStatsBar(stats, cw, compact))
	sections = append(sections, renderQuestLine(quests, cw))
	if h.deps.Content == nil || !h.deps.Content.Available() {
		sections = append(sections, renderOfflineBanner(cw))
	}
	sections = append(sections, renderMenu(h.menu, cw, compact))

	sep := "\n\n"
	if compact {
		sep = "\n"
	}
	return components.Frame(strings.Join(sections, sep), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
