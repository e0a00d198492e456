package progress

// Rank is a title earned by accumulating XP.
type Rank struct {
	Name  string
	MinXP int
	Icon  string
}

// ranks is ordered by MinXP ascending.
var ranks = []Rank{
	{"Newbie", 0, "🥚"},
	{"Rookie", 100, "🐣"},
	{"Coder", 300, "💻"},
	{"Hacker", 600, "⌨️"},
	{"Engineer", 1000, "⚙️"},
	{"Master", 2000, "🚀"},
	{"Legend", 5000, "👑"},
}

// Ranks returns all ranks, lowest first.
func Ranks() []Rank {
	out := make([]Rank, len(ranks))
	copy(out, ranks)
	return out
}

// RankFor returns the highest rank whose threshold xp meets.
func RankFor(xp int) Rank {
	for i := len(ranks) - 1; i >= 0; i-- {
		if xp >= ranks[i].MinXP {
			return ranks[i]
		}
	}
	return ranks[0]
}

// NextRank returns the rank after the one xp currently holds, and false
// at the top rank.
func NextRank(xp int) (Rank, bool) {
	for _, r := range ranks {
		if r.MinXP > xp {
			return r, true
		}
	}
	return Rank{}, false
}
