package progress

import "github.com/abhisek/codulingo/internal/curriculum"

// LevelView pairs a catalog level with its runtime state.
type LevelView struct {
	curriculum.Level
	LevelState

	// Current marks the first unlocked, not yet completed level.
	Current bool
}

// UnitView is a unit with its level views, for the home screen.
type UnitView struct {
	curriculum.Unit
	Levels []LevelView
}

// Done reports whether every level in the unit is completed.
func (u UnitView) Done() bool {
	for _, l := range u.Levels {
		if !l.Completed {
			return false
		}
	}
	return len(u.Levels) > 0
}

// Path returns the catalog annotated with unlock state, in catalog order.
func (t *Tracker) Path() []UnitView {
	units := t.catalog.Units()

	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]UnitView, len(units))
	currentSet := false
	for i, u := range units {
		uv := UnitView{Unit: u, Levels: make([]LevelView, len(u.Levels))}
		for j, l := range u.Levels {
			lv := LevelView{Level: l}
			if st, ok := t.levels[l.ID]; ok {
				lv.LevelState = *st
			}
			if !currentSet && lv.Unlocked && !lv.Completed {
				lv.Current = true
				currentSet = true
			}
			uv.Levels[j] = lv
		}
		out[i] = uv
	}
	return out
}

// CurrentLevel returns the level the learner should play next. When every
// unlocked level is complete it returns the last unlocked one.
func (t *Tracker) CurrentLevel() (curriculum.Level, bool) {
	var last *LevelView
	for _, u := range t.Path() {
		for i := range u.Levels {
			l := &u.Levels[i]
			if l.Current {
				return l.Level, true
			}
			if l.Unlocked {
				last = l
			}
		}
	}
	if last == nil {
		return curriculum.Level{}, false
	}
	return last.Level, true
}
