package lesson

import "github.com/abhisek/codulingo/internal/session"

// revealTickMsg advances the explanation typing effect. seq identifies the
// reveal the tick belongs to so ticks from a skipped segment are dropped.
type revealTickMsg struct {
	seq int
}

// mismatchClearMsg clears a wrong matching pair after the highlight delay.
type mismatchClearMsg struct {
	token session.MismatchToken
}

// hintMsg carries a tutor hint for a question.
type hintMsg struct {
	questionID string
	text       string
}
