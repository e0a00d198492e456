// Package progress is the progression store: learner stats, level unlock
// state, daily quests and achievements, persisted as snapshots.
package progress

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/codulingo/internal/curriculum"
	"github.com/abhisek/codulingo/internal/logger"
	"github.com/abhisek/codulingo/internal/session"
	"github.com/abhisek/codulingo/internal/store"
)

// Defaults for a new learner.
const (
	MaxHearts     = 5
	InitialGems   = 100
	InitialStreak = 1
	DefaultName   = "Coder"

	// HeartRefillEvery is the wait for one heart to come back.
	HeartRefillEvery = 30 * time.Minute

	// StreakGrace is how long a learner may be away before the streak resets.
	StreakGrace = 48 * time.Hour

	snapshotVersion = 1
	snapshotsKept   = 20
)

// Stats is a copy of the learner's counters.
type Stats struct {
	Name       string
	XP         int
	Gems       int
	Hearts     int
	Streak     int
	Pro        bool
	LastActive time.Time
	LastRefill time.Time
}

// Rank returns the rank for the current XP.
func (s Stats) Rank() Rank { return RankFor(s.XP) }

// LevelState is the runtime state of one level.
type LevelState struct {
	Unlocked  bool
	Completed bool
	Stars     int
}

// LessonResult describes what a finished lesson changed, for the summary
// screen.
type LessonResult struct {
	Outcome        session.Outcome
	Stars          int
	RankBefore     Rank
	RankAfter      Rank
	QuestsDone     []Quest
	QuestGems      int
	Achievements   []Achievement
	UnlockedLevel  string // empty when nothing new unlocked
	HeartsRestored int
}

// RankUp reports whether the lesson moved the learner to a new rank.
func (r LessonResult) RankUp() bool { return r.RankAfter.Name != r.RankBefore.Name }

// TotalGems is the baseline lesson gems plus claimed quest rewards.
func (r LessonResult) TotalGems() int { return r.Outcome.GemsGained + r.QuestGems }

// Option configures a Tracker.
type Option func(*Tracker)

// WithSnapshots persists state to repo after every change.
func WithSnapshots(repo store.SnapshotRepo) Option {
	return func(t *Tracker) { t.snaps = repo }
}

// WithEvents records finished lessons to repo.
func WithEvents(repo store.EventRepo) Option {
	return func(t *Tracker) { t.events = repo }
}

// WithLogger sets the logger for persistence failures.
func WithLogger(log *logger.Logger) Option {
	return func(t *Tracker) { t.log = logger.OrNop(log) }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// Tracker owns learner progression. It implements session.Progression.
// All methods are safe for concurrent use.
type Tracker struct {
	mu sync.Mutex

	catalog *curriculum.Catalog
	snaps   store.SnapshotRepo
	events  store.EventRepo
	log     *logger.Logger
	now     func() time.Time

	stats        Stats
	levels       map[string]*LevelState
	questDay     string
	quests       []QuestState
	achievements map[string]bool
	last         *LessonResult
}

var _ session.Progression = (*Tracker)(nil)

// New creates a Tracker with initial stats and the first level unlocked.
// Call Restore to load saved state.
func New(catalog *curriculum.Catalog, opts ...Option) *Tracker {
	t := &Tracker{
		catalog: catalog,
		log:     logger.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.resetLocked()
	return t
}

func (t *Tracker) resetLocked() {
	now := t.now()
	t.stats = Stats{
		Name:       DefaultName,
		Gems:       InitialGems,
		Hearts:     MaxHearts,
		Streak:     InitialStreak,
		LastActive: now,
		LastRefill: now,
	}
	t.levels = make(map[string]*LevelState)
	if first, ok := t.catalog.FirstLevel(); ok {
		t.levels[first.ID] = &LevelState{Unlocked: true}
	}
	t.questDay = dayKey(now)
	t.quests = freshQuests()
	t.achievements = make(map[string]bool)
	t.last = nil
}

// Restore loads the latest snapshot, then applies Refresh. With no
// snapshot repo or no saved snapshot the initial state is kept.
func (t *Tracker) Restore(ctx context.Context) error {
	if t.snaps == nil {
		return nil
	}
	snap, err := t.snaps.Latest(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	t.mu.Lock()
	if snap != nil {
		t.applySnapshotLocked(snap.Data)
	}
	t.mu.Unlock()
	t.Refresh()
	return nil
}

// Refresh applies time-based rules: heart refill, streak expiry, and the
// daily quest reset.
func (t *Tracker) Refresh() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.refreshLocked(t.now()) {
		t.persistLocked()
	}
}

func (t *Tracker) refreshLocked(now time.Time) bool {
	changed := false
	s := &t.stats

	if !s.LastActive.IsZero() && now.Sub(s.LastActive) > StreakGrace && s.Streak != 0 {
		s.Streak = 0
		changed = true
	}

	switch {
	case s.Hearts >= MaxHearts:
		s.LastRefill = now
	case s.LastRefill.IsZero():
		s.LastRefill = now
		changed = true
	default:
		if n := int(now.Sub(s.LastRefill) / HeartRefillEvery); n > 0 {
			s.Hearts = min(MaxHearts, s.Hearts+n)
			s.LastRefill = s.LastRefill.Add(time.Duration(n) * HeartRefillEvery)
			if s.Hearts == MaxHearts {
				s.LastRefill = now
			}
			changed = true
		}
	}

	if day := dayKey(now); day != t.questDay {
		t.questDay = day
		t.quests = freshQuests()
		changed = true
	}
	return changed
}

// NextHeartIn returns the time until the next refilled heart, or zero when
// hearts are full.
func (t *Tracker) NextHeartIn() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stats.Pro || t.stats.Hearts >= MaxHearts {
		return 0
	}
	return max(0, HeartRefillEvery-t.now().Sub(t.stats.LastRefill))
}

// Stats returns a copy of the learner's stats.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// Catalog returns the unit/level catalog.
func (t *Tracker) Catalog() *curriculum.Catalog {
	return t.catalog
}

// Level returns the runtime state of a level.
func (t *Tracker) Level(id string) LevelState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if st, ok := t.levels[id]; ok {
		return *st
	}
	return LevelState{}
}

// Quests returns today's quest board.
func (t *Tracker) Quests() []QuestState {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]QuestState, len(t.quests))
	copy(out, t.quests)
	return out
}

// UnlockedAchievements returns the achievements earned so far, in
// definition order.
func (t *Tracker) UnlockedAchievements() []Achievement {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Achievement
	for _, a := range achievements {
		if t.achievements[a.ID] {
			out = append(out, a)
		}
	}
	return out
}

// LastResult returns the result of the most recent completed lesson.
func (t *Tracker) LastResult() (LessonResult, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last == nil {
		return LessonResult{}, false
	}
	return *t.last, true
}

// HasLivesAvailable reports whether a lesson may start.
func (t *Tracker) HasLivesAvailable() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats.Pro || t.stats.Hearts > 0
}

// LoseLife removes one heart. Pro learners never lose hearts.
func (t *Tracker) LoseLife() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stats.Pro {
		return
	}
	if t.stats.Hearts == MaxHearts {
		t.stats.LastRefill = t.now()
	}
	t.stats.Hearts = max(0, t.stats.Hearts-1)
	t.persistLocked()
}

// ApplyLessonResult records a finished lesson. Outcomes that were not
// completed (empty levels) change nothing.
func (t *Tracker) ApplyLessonResult(o session.Outcome) {
	if !o.Completed {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.refreshLocked(now)

	res := LessonResult{
		Outcome:    o,
		Stars:      o.Stars(),
		RankBefore: t.stats.Rank(),
	}

	st := t.levelLocked(o.LevelID)
	st.Unlocked = true
	st.Completed = true
	st.Stars = max(st.Stars, res.Stars)

	if next, ok := t.catalog.NextLevel(o.LevelID); ok {
		ns := t.levelLocked(next.ID)
		if !ns.Unlocked {
			ns.Unlocked = true
			res.UnlockedLevel = next.ID
		}
	}

	res.QuestsDone = advanceQuests(t.quests, o)
	for _, q := range res.QuestsDone {
		res.QuestGems += q.Reward
	}

	s := &t.stats
	s.XP += o.XPGained
	s.Gems += o.GemsGained + res.QuestGems
	before := s.Hearts
	if s.Pro {
		s.Hearts = MaxHearts
	} else {
		s.Hearts = min(s.Hearts+1, MaxHearts)
	}
	res.HeartsRestored = s.Hearts - before
	s.Streak++
	s.LastActive = now

	res.RankAfter = s.Rank()
	res.Achievements = newAchievements(*s, t.achievements)
	for _, a := range res.Achievements {
		t.achievements[a.ID] = true
	}

	t.last = &res
	t.recordLessonLocked(o)
	t.persistLocked()

	t.log.Info("lesson applied",
		"level", o.LevelID, "score", o.Score, "xp", s.XP, "gems", s.Gems,
		"rank", res.RankAfter.Name, "quests", len(res.QuestsDone))
}

// SetPro toggles unlimited hearts.
func (t *Tracker) SetPro(pro bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.Pro = pro
	if pro {
		t.stats.Hearts = MaxHearts
	}
	t.persistLocked()
}

// SetName changes the learner's display name.
func (t *Tracker) SetName(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.Name = name
	t.persistLocked()
}

// Reset returns the tracker to the initial state and saves it.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetLocked()
	t.persistLocked()
}

func (t *Tracker) levelLocked(id string) *LevelState {
	st, ok := t.levels[id]
	if !ok {
		st = &LevelState{}
		t.levels[id] = st
	}
	return st
}
