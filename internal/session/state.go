package session

import "errors"

// Status is the lifecycle state of the active segment.
type Status string

const (
	StatusIdle      Status = "IDLE"      // Awaiting input or a check
	StatusTryAgain  Status = "TRY_AGAIN" // First attempt was wrong; one more allowed
	StatusCorrect   Status = "CORRECT"   // Answered correctly; awaiting advance
	StatusIncorrect Status = "INCORRECT" // Second attempt was wrong; segment requeued
	StatusFinished  Status = "FINISHED"  // Queue exhausted; terminal
)

// AcceptsInput reports whether learner input may change the submission.
func (s Status) AcceptsInput() bool {
	return s == StatusIdle || s == StatusTryAgain
}

// Resolved reports whether the active segment has been decided.
func (s Status) Resolved() bool {
	return s == StatusCorrect || s == StatusIncorrect
}

var (
	// ErrNoLives is returned by Start when the learner has no lives left
	// and is not on the unlimited plan. No session state is created.
	ErrNoLives = errors.New("session: no lives available")

	// ErrNotCheckable is returned by Check once the segment is resolved or
	// the session is finished.
	ErrNotCheckable = errors.New("session: nothing to check")

	// ErrNotAdvanceable is returned by Advance before the segment is resolved.
	ErrNotAdvanceable = errors.New("session: cannot advance")

	// ErrInputLocked is returned by input operations outside IDLE/TRY_AGAIN.
	ErrInputLocked = errors.New("session: input locked")

	// ErrWrongModality is returned when an input operation does not apply
	// to the active question.
	ErrWrongModality = errors.New("session: input does not apply to this question")
)
