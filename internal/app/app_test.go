package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/codulingo/internal/curriculum"
	"github.com/abhisek/codulingo/internal/progress"
	"github.com/abhisek/codulingo/internal/router"
	"github.com/abhisek/codulingo/internal/screens/path"
	"github.com/abhisek/codulingo/internal/screens/welcome"
)

func testTracker() *progress.Tracker {
	return progress.New(curriculum.New(curriculum.Unit{
		ID: "u1", Title: "Basics", Levels: []curriculum.Level{
			{ID: "tags", Title: "Tags", Segments: []curriculum.Segment{
				{ID: "e1", Kind: curriculum.KindExplanation, Content: "Tags come in pairs"},
			}},
		},
	}))
}

func TestNewAppModel_StartsWithWelcome(t *testing.T) {
	m := newAppModel(Options{Tracker: testTracker()})

	_, ok := m.router.Active().(*welcome.WelcomeScreen)
	assert.True(t, ok, "active screen = %T", m.router.Active())
	assert.NotNil(t, m.Init(), "the splash animation ticks")
}

func TestNewAppModel_StartLevel(t *testing.T) {
	m := newAppModel(Options{Tracker: testTracker(), StartLevel: "tags"})
	assert.Equal(t, 1, m.router.Depth())

	cmd := m.Init()
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	_, ok = push.Screen.(*path.PathScreen)
	assert.True(t, ok)
}

func TestUpdate_CtrlCQuits(t *testing.T) {
	m := newAppModel(Options{Tracker: testTracker()})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}
