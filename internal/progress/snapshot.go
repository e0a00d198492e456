package progress

import (
	"context"
	"time"

	"github.com/abhisek/codulingo/internal/session"
	"github.com/abhisek/codulingo/internal/store"
)

const persistTimeout = 5 * time.Second

// snapshotLocked captures the current state for persistence.
func (t *Tracker) snapshotLocked() store.SnapshotData {
	s := t.stats
	data := store.SnapshotData{
		Version: snapshotVersion,
		Stats: &store.StatsSnapshotData{
			Name:       s.Name,
			XP:         s.XP,
			Gems:       s.Gems,
			Hearts:     s.Hearts,
			Streak:     s.Streak,
			Pro:        s.Pro,
			LastActive: s.LastActive,
			LastRefill: s.LastRefill,
		},
		Levels: make(map[string]store.LevelSnapshotData, len(t.levels)),
		Quests: &store.QuestSnapshotData{Day: t.questDay},
	}
	for id, st := range t.levels {
		data.Levels[id] = store.LevelSnapshotData{
			Unlocked:  st.Unlocked,
			Completed: st.Completed,
			Stars:     st.Stars,
		}
	}
	for _, q := range t.quests {
		data.Quests.Entries = append(data.Quests.Entries, store.QuestEntryData{
			ID:        q.ID,
			Progress:  q.Progress,
			Completed: q.Completed,
		})
	}
	for _, a := range achievements {
		if t.achievements[a.ID] {
			data.Achievements = append(data.Achievements, a.ID)
		}
	}
	return data
}

// applySnapshotLocked replaces the in-memory state with data. Sections
// missing from an older snapshot keep their current values.
func (t *Tracker) applySnapshotLocked(data store.SnapshotData) {
	if s := data.Stats; s != nil {
		t.stats = Stats{
			Name:       s.Name,
			XP:         s.XP,
			Gems:       s.Gems,
			Hearts:     min(max(s.Hearts, 0), MaxHearts),
			Streak:     s.Streak,
			Pro:        s.Pro,
			LastActive: s.LastActive,
			LastRefill: s.LastRefill,
		}
		if t.stats.Name == "" {
			t.stats.Name = DefaultName
		}
	}

	if len(data.Levels) > 0 {
		for id, l := range data.Levels {
			// Levels removed from the catalog are dropped.
			if _, ok := t.catalog.Level(id); !ok {
				continue
			}
			t.levels[id] = &LevelState{Unlocked: l.Unlocked, Completed: l.Completed, Stars: l.Stars}
		}
	}

	if q := data.Quests; q != nil {
		t.questDay = q.Day
		t.quests = freshQuests()
		for _, e := range q.Entries {
			for i := range t.quests {
				if t.quests[i].ID == e.ID {
					t.quests[i].Progress = e.Progress
					t.quests[i].Completed = e.Completed
				}
			}
		}
	}

	for _, id := range data.Achievements {
		t.achievements[id] = true
	}
}

// persistLocked saves a snapshot. Failures are logged; the in-memory state
// stays authoritative.
func (t *Tracker) persistLocked() {
	if t.snaps == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	snap := &store.Snapshot{Data: t.snapshotLocked()}
	if err := t.snaps.Save(ctx, snap); err != nil {
		t.log.Warn("failed to save progress snapshot", "error", err)
		return
	}
	if err := t.snaps.Prune(ctx, snapshotsKept); err != nil {
		t.log.Warn("failed to prune snapshots", "error", err)
	}
}

func (t *Tracker) recordLessonLocked(o session.Outcome) {
	if t.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	var title string
	if lvl, ok := t.catalog.Level(o.LevelID); ok {
		title = lvl.Title
	}
	err := t.events.AppendLessonEvent(ctx, store.LessonEventData{
		SessionID:       o.SessionID,
		LevelID:         o.LevelID,
		LevelTitle:      title,
		Score:           o.Score,
		FirstTryCorrect: o.FirstTryCorrect,
		Challenges:      o.Challenges,
		LivesLost:       o.LivesLost,
		XPGained:        o.XPGained,
		GemsGained:      o.GemsGained,
		Perfect:         o.Perfect,
		Served:          o.Served,
		DurationMs:      o.Duration().Milliseconds(),
	})
	if err != nil {
		t.log.Warn("failed to record lesson event", "level", o.LevelID, "error", err)
	}
}
