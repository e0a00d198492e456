package progress

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/codulingo/internal/curriculum"
	"github.com/abhisek/codulingo/internal/session"
	"github.com/abhisek/codulingo/internal/store"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time           { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func testCatalog() *curriculum.Catalog {
	return curriculum.New(
		curriculum.Unit{ID: "u1", Title: "Basics", Levels: []curriculum.Level{
			{ID: "l1", Title: "Tags"},
			{ID: "l2", Title: "Links"},
		}},
		curriculum.Unit{ID: "u2", Title: "Forms", Levels: []curriculum.Level{
			{ID: "l3", Title: "Inputs"},
		}},
	)
}

func newTestTracker(t *testing.T, opts ...Option) (*Tracker, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)}
	return New(testCatalog(), append([]Option{WithClock(c.now)}, opts...)...), c
}

func outcome(level string, score int, perfect bool) session.Outcome {
	return session.Outcome{
		SessionID:  "s-" + level,
		LevelID:    level,
		Score:      score,
		Challenges: 3,
		XPGained:   session.XPPerLesson,
		GemsGained: session.GemsPerLesson,
		Perfect:    perfect,
		Completed:  true,
	}
}

func TestNew_InitialState(t *testing.T) {
	tr, _ := newTestTracker(t)
	s := tr.Stats()

	assert.Equal(t, DefaultName, s.Name)
	assert.Equal(t, MaxHearts, s.Hearts)
	assert.Equal(t, InitialGems, s.Gems)
	assert.Equal(t, 0, s.XP)
	assert.Equal(t, InitialStreak, s.Streak)
	assert.Equal(t, "Newbie", s.Rank().Name)

	assert.True(t, tr.Level("l1").Unlocked)
	assert.False(t, tr.Level("l2").Unlocked)
	assert.True(t, tr.HasLivesAvailable())

	cur, ok := tr.CurrentLevel()
	require.True(t, ok)
	assert.Equal(t, "l1", cur.ID)
}

func TestLoseLife(t *testing.T) {
	tr, _ := newTestTracker(t)
	for range MaxHearts + 2 {
		tr.LoseLife()
	}
	assert.Equal(t, 0, tr.Stats().Hearts)
	assert.False(t, tr.HasLivesAvailable())

	tr.SetPro(true)
	assert.Equal(t, MaxHearts, tr.Stats().Hearts)
	tr.LoseLife()
	assert.Equal(t, MaxHearts, tr.Stats().Hearts)
	assert.True(t, tr.HasLivesAvailable())
}

func TestApplyLessonResult(t *testing.T) {
	tr, _ := newTestTracker(t)
	tr.LoseLife()
	tr.LoseLife()

	tr.ApplyLessonResult(outcome("l1", 100, true))

	s := tr.Stats()
	assert.Equal(t, 15, s.XP)
	// 10 baseline + perfect quest 50.
	assert.Equal(t, InitialGems+10+50, s.Gems)
	assert.Equal(t, 4, s.Hearts)
	assert.Equal(t, 2, s.Streak)

	assert.Equal(t, LevelState{Unlocked: true, Completed: true, Stars: 3}, tr.Level("l1"))
	assert.True(t, tr.Level("l2").Unlocked)

	res, ok := tr.LastResult()
	require.True(t, ok)
	assert.Equal(t, 3, res.Stars)
	assert.Equal(t, "l2", res.UnlockedLevel)
	assert.Equal(t, 50, res.QuestGems)
	assert.Equal(t, 60, res.TotalGems())
	assert.Equal(t, 1, res.HeartsRestored)
	assert.False(t, res.RankUp())
	require.Len(t, res.Achievements, 1)
	assert.Equal(t, "first_step", res.Achievements[0].ID)

	cur, _ := tr.CurrentLevel()
	assert.Equal(t, "l2", cur.ID)
}

func TestApplyLessonResult_UnlocksNextUnit(t *testing.T) {
	tr, _ := newTestTracker(t)
	tr.ApplyLessonResult(outcome("l1", 50, false))
	tr.ApplyLessonResult(outcome("l2", 40, false))

	assert.True(t, tr.Level("l3").Unlocked)
	assert.Equal(t, 1, tr.Level("l2").Stars)
	assert.Equal(t, 2, tr.Level("l1").Stars)

	// The second lesson reaches 30 XP and two lessons at once.
	res, _ := tr.LastResult()
	require.Len(t, res.QuestsDone, 2)
	assert.Equal(t, "xp", res.QuestsDone[0].ID)
	assert.Equal(t, "lesson", res.QuestsDone[1].ID)
	assert.Equal(t, 40, res.QuestGems)
}

func TestApplyLessonResult_ReplayKeepsBestStars(t *testing.T) {
	tr, _ := newTestTracker(t)
	tr.ApplyLessonResult(outcome("l1", 100, true))
	tr.ApplyLessonResult(outcome("l1", 30, false))

	assert.Equal(t, 3, tr.Level("l1").Stars)
	res, _ := tr.LastResult()
	assert.Equal(t, 1, res.Stars)
	assert.Empty(t, res.UnlockedLevel)
}

func TestApplyLessonResult_IgnoresIncomplete(t *testing.T) {
	tr, _ := newTestTracker(t)
	before := tr.Stats()

	tr.ApplyLessonResult(session.Outcome{LevelID: "l1"})

	assert.Equal(t, before, tr.Stats())
	assert.False(t, tr.Level("l1").Completed)
	_, ok := tr.LastResult()
	assert.False(t, ok)
}

func TestApplyLessonResult_ProRefillsHearts(t *testing.T) {
	tr, _ := newTestTracker(t)
	tr.LoseLife()
	tr.LoseLife()
	tr.SetPro(true)
	tr.ApplyLessonResult(outcome("l1", 0, false))
	assert.Equal(t, MaxHearts, tr.Stats().Hearts)
}

func TestQuests_XPAndDailyReset(t *testing.T) {
	tr, c := newTestTracker(t)
	tr.ApplyLessonResult(outcome("l1", 50, false))
	tr.ApplyLessonResult(outcome("l2", 50, false))

	byID := func() map[string]QuestState {
		m := map[string]QuestState{}
		for _, q := range tr.Quests() {
			m[q.ID] = q
		}
		return m
	}

	q := byID()
	assert.Equal(t, 30, q["xp"].Progress)
	assert.True(t, q["xp"].Completed)
	assert.True(t, q["lesson"].Completed)
	assert.False(t, q["perfect"].Completed)
	// 2 x 10 baseline + 20 + 20 quests.
	assert.Equal(t, InitialGems+60, tr.Stats().Gems)

	// A completed quest is not paid twice on the same day.
	tr.ApplyLessonResult(outcome("l3", 50, false))
	assert.Equal(t, InitialGems+70, tr.Stats().Gems)

	c.advance(24 * time.Hour)
	tr.Refresh()
	for _, q := range tr.Quests() {
		assert.Zero(t, q.Progress, q.ID)
		assert.False(t, q.Completed, q.ID)
	}
}

func TestRefresh_Hearts(t *testing.T) {
	tr, c := newTestTracker(t)
	for range 4 {
		tr.LoseLife()
	}
	assert.Equal(t, 1, tr.Stats().Hearts)
	assert.Equal(t, HeartRefillEvery, tr.NextHeartIn())

	c.advance(29 * time.Minute)
	tr.Refresh()
	assert.Equal(t, 1, tr.Stats().Hearts)
	assert.Equal(t, time.Minute, tr.NextHeartIn())

	c.advance(31 * time.Minute) // 60 minutes total
	tr.Refresh()
	assert.Equal(t, 3, tr.Stats().Hearts)

	c.advance(10 * time.Hour)
	tr.Refresh()
	assert.Equal(t, MaxHearts, tr.Stats().Hearts)
	assert.Zero(t, tr.NextHeartIn())
}

func TestRefresh_StreakExpires(t *testing.T) {
	tr, c := newTestTracker(t)
	tr.ApplyLessonResult(outcome("l1", 100, true))
	assert.Equal(t, 2, tr.Stats().Streak)

	c.advance(47 * time.Hour)
	tr.Refresh()
	assert.Equal(t, 2, tr.Stats().Streak)

	c.advance(2 * time.Hour)
	tr.Refresh()
	assert.Equal(t, 0, tr.Stats().Streak)
}

func TestRanks(t *testing.T) {
	tests := []struct {
		xp   int
		want string
	}{
		{0, "Newbie"}, {99, "Newbie"}, {100, "Rookie"}, {300, "Coder"},
		{650, "Hacker"}, {1000, "Engineer"}, {2500, "Master"}, {9000, "Legend"},
	}
	for _, tt := range tests {
		if got := RankFor(tt.xp).Name; got != tt.want {
			t.Errorf("RankFor(%d) = %q, want %q", tt.xp, got, tt.want)
		}
	}
	if next, ok := NextRank(150); !ok || next.Name != "Coder" {
		t.Errorf("NextRank(150) = %v, %v, want Coder", next, ok)
	}
	if _, ok := NextRank(5000); ok {
		t.Error("NextRank(5000) should report no further rank")
	}
}

func TestRankUp(t *testing.T) {
	tr, _ := newTestTracker(t)
	for range 6 {
		tr.ApplyLessonResult(outcome("l1", 50, false))
	}
	res, _ := tr.LastResult()
	assert.False(t, res.RankUp())

	tr.ApplyLessonResult(outcome("l1", 50, false)) // 105 XP
	res, _ = tr.LastResult()
	assert.True(t, res.RankUp())
	assert.Equal(t, "Rookie", res.RankAfter.Name)
	assert.Contains(t, achievementIDs(res.Achievements), "sage")
}

func achievementIDs(as []Achievement) []string {
	var ids []string
	for _, a := range as {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestPath(t *testing.T) {
	tr, _ := newTestTracker(t)
	tr.ApplyLessonResult(outcome("l1", 100, true))

	path := tr.Path()
	require.Len(t, path, 2)
	require.Len(t, path[0].Levels, 2)
	assert.True(t, path[0].Levels[0].Completed)
	assert.False(t, path[0].Levels[0].Current)
	assert.True(t, path[0].Levels[1].Current)
	assert.False(t, path[0].Done())
	assert.False(t, path[1].Levels[0].Unlocked)
}

func TestPersistence_RoundTrip(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "progress.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	tr, c := newTestTracker(t, WithSnapshots(st.SnapshotRepo()), WithEvents(st.EventRepo()))
	tr.SetName("Ada")
	tr.ApplyLessonResult(outcome("l1", 100, true))
	tr.LoseLife()

	restored := New(testCatalog(), WithClock(c.now), WithSnapshots(st.SnapshotRepo()))
	require.NoError(t, restored.Restore(context.Background()))

	want, got := tr.Stats(), restored.Stats()
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, want.XP, got.XP)
	assert.Equal(t, want.Gems, got.Gems)
	assert.Equal(t, want.Hearts, got.Hearts)
	assert.Equal(t, want.Streak, got.Streak)
	assert.True(t, want.LastActive.Equal(got.LastActive))

	assert.Equal(t, tr.Level("l1"), restored.Level("l1"))
	assert.True(t, restored.Level("l2").Unlocked)
	assert.Equal(t, []string{"first_step"}, achievementIDs(restored.UnlockedAchievements()))
	assert.Equal(t, tr.Quests(), restored.Quests())

	events, err := st.EventRepo().QueryLessonEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Tags", events[0].LevelTitle)
	assert.Equal(t, 100, events[0].Score)
}

func TestReset(t *testing.T) {
	tr, _ := newTestTracker(t)
	tr.ApplyLessonResult(outcome("l1", 100, true))
	tr.Reset()

	assert.Equal(t, 0, tr.Stats().XP)
	assert.False(t, tr.Level("l1").Completed)
	assert.False(t, tr.Level("l2").Unlocked)
	assert.Empty(t, tr.UnlockedAchievements())
}
