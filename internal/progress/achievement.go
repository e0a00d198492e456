package progress

// Achievement is a one-time badge unlocked by a stats condition.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Icon        string
	unlocked    func(Stats) bool
}

var achievements = []Achievement{
	{"first_step", "Hello World", "Complete the first lesson.", "👋", func(s Stats) bool { return s.XP >= 15 }},
	{"wildfire", "Wildfire", "Reach a 3 day streak.", "🔥", func(s Stats) bool { return s.Streak >= 3 }},
	{"sage", "Sage", "Earn 100 XP.", "🔮", func(s Stats) bool { return s.XP >= 100 }},
	{"champion", "Champion", "Reach the Engineer rank.", "🏆", func(s Stats) bool { return s.XP >= 1000 }},
}

// Achievements returns every achievement definition.
func Achievements() []Achievement {
	out := make([]Achievement, len(achievements))
	copy(out, achievements)
	return out
}

// newAchievements returns the achievements stats now satisfies that are
// not in have.
func newAchievements(s Stats, have map[string]bool) []Achievement {
	var out []Achievement
	for _, a := range achievements {
		if !have[a.ID] && a.unlocked(s) {
			out = append(out, a)
		}
	}
	return out
}
