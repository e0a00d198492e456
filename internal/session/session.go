package session

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/codulingo/internal/answer"
	"github.com/abhisek/codulingo/internal/curriculum"
)

// Fallback tutor contexts.
const (
	hintContextMatching = "I am stuck on matching."
	hintContextUnknown  = "I don't know."
)

// Progression is the slice of the progression store the engine needs.
type Progression interface {
	HasLivesAvailable() bool
	LoseLife()
	ApplyLessonResult(Outcome)
}

// Option configures a session.
type Option func(*Session)

// WithRand sets the random source for option and column shuffling.
func WithRand(r Rand) Option {
	return func(s *Session) { s.rand = r }
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithClock overrides time.Now for outcome timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// MismatchToken identifies one mismatch highlight. It goes stale once the
// selection or the active segment changes.
type MismatchToken struct {
	step int
	gen  uint64
}

// Session drives one learner through one level. It is synchronous and not
// safe for concurrent use; the presentation owns all timers and calls in
// from its update loop.
type Session struct {
	id    string
	level curriculum.Level
	prog  Progression
	rand  Rand
	now   func() time.Time

	queue    *Queue
	status   Status
	attempts int
	step     int // bumped on every segment change

	challenges      int
	firstTryCorrect int
	livesLost       int
	startedAt       time.Time

	// Transient per-segment input. Reset on segment change.
	options     []string
	choice      string
	arrangement *answer.Arrangement
	matching    *Matching
	reveal      *Reveal

	outcome  *Outcome
	reported bool
}

// Start creates a session over level. It returns ErrNoLives, before
// building any state, when the progression store reports no lives. An
// empty level starts FINISHED with a score of 0.
func Start(level *curriculum.Level, prog Progression, opts ...Option) (*Session, error) {
	if !prog.HasLivesAvailable() {
		return nil, ErrNoLives
	}

	s := &Session{
		prog:   prog,
		rand:   ambientRand{},
		now:    time.Now,
		status: StatusIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if level != nil {
		s.level = *level
		s.level.Segments = slices.Clone(level.Segments)
	}
	s.startedAt = s.now()

	for _, seg := range s.level.Segments {
		if seg.IsChallenge() {
			s.challenges++
		}
	}

	s.queue = NewQueue(len(s.level.Segments))
	if s.queue.Len() == 0 {
		s.finish()
		return s, nil
	}
	s.enterSegment()
	return s, nil
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Level returns the level being played.
func (s *Session) Level() curriculum.Level { return s.level }

// Status returns the status of the active segment.
func (s *Session) Status() Status { return s.status }

// Attempts returns the failed attempts on the active segment (0 or 1).
func (s *Session) Attempts() int { return s.attempts }

// Queue returns the working queue. Callers must not mutate it.
func (s *Session) Queue() *Queue { return s.queue }

// Progress returns the fraction of the queue consumed.
func (s *Session) Progress() float64 {
	if s.status == StatusFinished {
		return 1
	}
	return s.queue.Progress()
}

// Current returns the active segment. It reports false once finished.
func (s *Session) Current() (curriculum.Segment, bool) {
	if s.status == StatusFinished {
		return curriculum.Segment{}, false
	}
	idx, ok := s.queue.Current()
	if !ok {
		return curriculum.Segment{}, false
	}
	return s.level.Segments[idx], true
}

// Question returns the active challenge question, or nil.
func (s *Session) Question() *curriculum.Question {
	seg, ok := s.Current()
	if !ok || !seg.IsChallenge() {
		return nil
	}
	return seg.Question
}

// Options returns the shuffled options for MULTIPLE_CHOICE, FILL_BLANK
// and REARRANGE.
func (s *Session) Options() []string { return slices.Clone(s.options) }

// Choice returns the selected option.
func (s *Session) Choice() string { return s.choice }

// Arrangement returns the REARRANGE token assembly, or nil.
func (s *Session) Arrangement() *answer.Arrangement { return s.arrangement }

// Matching returns the MATCHING engine, or nil.
func (s *Session) Matching() *Matching { return s.matching }

// Reveal returns the typing cursor for an explanation, or nil.
func (s *Session) Reveal() *Reveal { return s.reveal }

// Outcome returns the result once the session is finished.
func (s *Session) Outcome() (Outcome, bool) {
	if s.outcome == nil {
		return Outcome{}, false
	}
	return *s.outcome, true
}

// Ready reports whether the current submission is worth checking. Explanation
// segments are always ready.
func (s *Session) Ready() bool {
	q := s.Question()
	if q == nil {
		return s.status != StatusFinished
	}
	switch q.Type {
	case curriculum.MultipleChoice, curriculum.FillBlank:
		return s.choice != ""
	case curriculum.Rearrange:
		return s.arrangement != nil && s.arrangement.Len() > 0
	case curriculum.Matching:
		return s.matching != nil && s.matching.Complete()
	}
	return false
}

// Check evaluates the active challenge, or on an explanation skips the
// reveal if it is still typing and advances otherwise.
func (s *Session) Check() (Status, error) {
	q := s.Question()
	if q == nil {
		if s.status == StatusFinished {
			return s.status, ErrNotCheckable
		}
		if s.reveal != nil && !s.reveal.Done() {
			s.reveal.Skip()
			return s.status, nil
		}
		return s.Advance()
	}

	if !s.status.AcceptsInput() {
		return s.status, ErrNotCheckable
	}

	if answer.Check(q, s.submission()) {
		if s.attempts == 0 && s.firstServing() {
			s.firstTryCorrect++
		}
		s.status = StatusCorrect
		return s.status, nil
	}

	if s.attempts == 0 {
		s.attempts = 1
		s.status = StatusTryAgain
		return s.status, nil
	}

	s.status = StatusIncorrect
	s.livesLost++
	s.prog.LoseLife()
	idx, _ := s.queue.Current()
	s.queue.Requeue(idx)
	return s.status, nil
}

// Advance moves to the next queue entry, or to FINISHED when the queue is
// exhausted. It is allowed after CORRECT/INCORRECT and on explanations.
func (s *Session) Advance() (Status, error) {
	if s.status == StatusFinished {
		return s.status, ErrNotAdvanceable
	}
	if s.Question() != nil && !s.status.Resolved() {
		return s.status, ErrNotAdvanceable
	}

	if !s.queue.Advance() {
		s.finish()
		return s.status, nil
	}
	s.enterSegment()
	return s.status, nil
}

// Choose selects an option for MULTIPLE_CHOICE or FILL_BLANK.
func (s *Session) Choose(option string) error {
	q, err := s.inputQuestion(curriculum.MultipleChoice, curriculum.FillBlank)
	if err != nil {
		return err
	}
	if !slices.Contains(q.Options, option) {
		return fmt.Errorf("choose %q: %w", option, ErrWrongModality)
	}
	s.choice = option
	return nil
}

// Tap places or removes the REARRANGE token at index i of Options().
func (s *Session) Tap(i int) error {
	if _, err := s.inputQuestion(curriculum.Rearrange); err != nil {
		return err
	}
	s.arrangement.Tap(i)
	return nil
}

// RemoveAt removes the token at position pos of the assembled order.
func (s *Session) RemoveAt(pos int) error {
	if _, err := s.inputQuestion(curriculum.Rearrange); err != nil {
		return err
	}
	s.arrangement.RemoveAt(pos)
	return nil
}

// SelectLeft toggles a left matching cell. On MatchMismatch the caller
// waits MismatchDelay and then calls ClearMismatch with the token.
func (s *Session) SelectLeft(id string) (MatchResult, MismatchToken, error) {
	if _, err := s.inputQuestion(curriculum.Matching); err != nil {
		return MatchNone, MismatchToken{}, err
	}
	res, gen := s.matching.SelectLeft(id)
	return res, MismatchToken{step: s.step, gen: gen}, nil
}

// SelectRight toggles a right matching cell.
func (s *Session) SelectRight(id string) (MatchResult, MismatchToken, error) {
	if _, err := s.inputQuestion(curriculum.Matching); err != nil {
		return MatchNone, MismatchToken{}, err
	}
	res, gen := s.matching.SelectRight(id)
	return res, MismatchToken{step: s.step, gen: gen}, nil
}

// ClearMismatch clears a mismatch highlight. It reports false for a stale
// token.
func (s *Session) ClearMismatch(tok MismatchToken) bool {
	if s.matching == nil || tok.step != s.step {
		return false
	}
	return s.matching.ClearMismatch(tok.gen)
}

// HintContext describes what the learner has tried, for the tutor.
func (s *Session) HintContext() string {
	q := s.Question()
	if q != nil && q.Type == curriculum.Matching {
		return hintContextMatching
	}
	if s.choice != "" {
		return s.choice
	}
	if s.arrangement != nil && s.arrangement.Len() > 0 {
		return strings.Join(s.arrangement.Values(), " ")
	}
	return hintContextUnknown
}

func (s *Session) inputQuestion(types ...curriculum.QuestionType) (*curriculum.Question, error) {
	if !s.status.AcceptsInput() {
		return nil, ErrInputLocked
	}
	q := s.Question()
	if q == nil || !slices.Contains(types, q.Type) {
		return nil, ErrWrongModality
	}
	return q, nil
}

func (s *Session) submission() answer.Submission {
	sub := answer.Submission{Choice: s.choice}
	if s.arrangement != nil {
		sub.Order = s.arrangement.Values()
	}
	if s.matching != nil {
		sub.Matched = s.matching.MatchedCount()
	}
	return sub
}

// firstServing reports whether the active entry is the segment's original
// position rather than a requeued repeat.
func (s *Session) firstServing() bool {
	return s.queue.Position() < len(s.level.Segments)
}

func (s *Session) enterSegment() {
	s.step++
	s.status = StatusIdle
	s.attempts = 0
	s.options = nil
	s.choice = ""
	s.arrangement = nil
	s.matching = nil
	s.reveal = nil

	seg, _ := s.Current()
	if !seg.IsChallenge() {
		s.reveal = NewReveal(seg.Content)
		return
	}

	q := seg.Question
	switch q.Type {
	case curriculum.MultipleChoice, curriculum.FillBlank:
		s.options = Shuffle(s.rand, q.Options)
	case curriculum.Rearrange:
		s.options = Shuffle(s.rand, q.Options)
		s.arrangement = answer.NewArrangement(s.options)
	case curriculum.Matching:
		s.matching = NewMatching(q.Pairs, s.rand)
	}
}

func (s *Session) finish() {
	s.step++
	s.status = StatusFinished
	s.options = nil
	s.choice = ""
	s.arrangement = nil
	s.matching = nil
	s.reveal = nil

	if s.reported {
		return
	}
	s.reported = true

	n := len(s.level.Segments)
	out := Outcome{
		SessionID:       s.id,
		LevelID:         s.level.ID,
		Score:           scorePercent(s.firstTryCorrect, s.challenges, n),
		FirstTryCorrect: s.firstTryCorrect,
		Challenges:      s.challenges,
		LivesLost:       s.livesLost,
		Perfect:         s.livesLost == 0,
		Served:          s.queue.Position() + 1,
		Completed:       n > 0,
		StartedAt:       s.startedAt,
		FinishedAt:      s.now(),
	}
	if out.Completed {
		out.XPGained = XPPerLesson
		out.GemsGained = GemsPerLesson
	} else {
		out.Served = 0
		out.Perfect = false
	}
	s.outcome = &out
	s.prog.ApplyLessonResult(out)
}
