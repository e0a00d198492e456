package progress

import (
	"time"

	"github.com/abhisek/codulingo/internal/session"
)

// QuestKind selects which lesson metric advances a quest.
type QuestKind string

const (
	QuestXP      QuestKind = "xp"
	QuestLessons QuestKind = "lesson"
	QuestPerfect QuestKind = "perfect"
)

// Quest is a daily goal definition.
type Quest struct {
	ID          string
	Description string
	Kind        QuestKind
	Target      int
	Reward      int // gems
}

// QuestState is a quest with today's progress.
type QuestState struct {
	Quest
	Progress  int
	Completed bool
}

var dailyQuests = []Quest{
	{ID: "xp", Description: "Earn 30 XP", Kind: QuestXP, Target: 30, Reward: 20},
	{ID: "lesson", Description: "Finish 2 Lessons", Kind: QuestLessons, Target: 2, Reward: 20},
	{ID: "perfect", Description: "1 Perfect Lesson", Kind: QuestPerfect, Target: 1, Reward: 50},
}

// freshQuests returns today's board with no progress.
func freshQuests() []QuestState {
	out := make([]QuestState, len(dailyQuests))
	for i, q := range dailyQuests {
		out[i] = QuestState{Quest: q}
	}
	return out
}

// dayKey is the local calendar day used to reset quests.
func dayKey(t time.Time) string {
	return t.Local().Format("2006-01-02")
}

// advanceQuests applies a finished lesson to the board and returns the
// quests that completed because of it. Completed quests are claimed
// immediately; progress never exceeds the target.
func advanceQuests(board []QuestState, o session.Outcome) []Quest {
	var done []Quest
	for i := range board {
		q := &board[i]
		if q.Completed {
			continue
		}
		var amount int
		switch q.Kind {
		case QuestXP:
			amount = o.XPGained
		case QuestLessons:
			amount = 1
		case QuestPerfect:
			if o.Perfect {
				amount = 1
			}
		}
		q.Progress = min(q.Target, q.Progress+amount)
		if q.Progress >= q.Target {
			q.Completed = true
			done = append(done, q.Quest)
		}
	}
	return done
}
