package session

import (
	"math"
	"time"
)

// Baseline rewards for finishing a lesson.
const (
	XPPerLesson   = 15
	GemsPerLesson = 10
)

// Outcome is the result of a finished session, reported once to the
// progression store and then kept for display.
type Outcome struct {
	SessionID string
	LevelID   string

	// Score is round(100 * FirstTryCorrect / Challenges). A level with only
	// explanations scores 100; an empty level scores 0.
	Score int

	// FirstTryCorrect counts challenges answered correctly on their first
	// attempt the first time they were served.
	FirstTryCorrect int

	// Challenges is the number of distinct challenge segments in the level.
	Challenges int

	// LivesLost counts transitions into INCORRECT.
	LivesLost int

	XPGained   int
	GemsGained int

	// Perfect is true when no segment ever reached INCORRECT.
	Perfect bool

	// Served counts queue positions presented, including requeued repeats.
	Served int

	// Completed is false only for an empty level, which awards nothing.
	Completed bool

	StartedAt  time.Time
	FinishedAt time.Time
}

// Stars converts the score to a 0-3 star rating.
func (o Outcome) Stars() int {
	switch {
	case !o.Completed:
		return 0
	case o.Score == 100:
		return 3
	case o.Score < 50:
		return 1
	default:
		return 2
	}
}

// Duration returns the wall time of the session.
func (o Outcome) Duration() time.Duration {
	return o.FinishedAt.Sub(o.StartedAt)
}

// scorePercent returns the lesson score for the given counts.
func scorePercent(firstTryCorrect, challenges, segments int) int {
	switch {
	case segments == 0:
		return 0
	case challenges == 0:
		return 100
	}
	return int(math.Round(100 * float64(firstTryCorrect) / float64(challenges)))
}
