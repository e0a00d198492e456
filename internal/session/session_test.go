package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/abhisek/codulingo/internal/curriculum"
)

type fakeProgression struct {
	noLives bool
	lost    int
	results []Outcome
}

func (f *fakeProgression) HasLivesAvailable() bool      { return !f.noLives }
func (f *fakeProgression) LoseLife()                    { f.lost++ }
func (f *fakeProgression) ApplyLessonResult(o Outcome) { f.results = append(f.results, o) }

func explanation(id, text string) curriculum.Segment {
	return curriculum.Segment{ID: id, Kind: curriculum.KindExplanation, Content: text}
}

func mcChallenge(id string, answer string, options ...string) curriculum.Segment {
	return curriculum.Segment{
		ID:   id,
		Kind: curriculum.KindChallenge,
		Question: &curriculum.Question{
			ID:            "q_" + id,
			Type:          curriculum.MultipleChoice,
			Prompt:        "Pick one",
			Options:       options,
			CorrectAnswer: curriculum.Single(answer),
		},
	}
}

func testLevel(segs ...curriculum.Segment) *curriculum.Level {
	return &curriculum.Level{ID: "lvl", Title: "Test", Segments: segs}
}

func testRand() Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func startSession(t *testing.T, level *curriculum.Level, prog *fakeProgression) *Session {
	t.Helper()
	s, err := Start(level, prog, WithRand(testRand()), WithSessionID("sess-1"))
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return s
}

// skipExplanation finishes the reveal and advances past an explanation.
func skipExplanation(t *testing.T, s *Session) {
	t.Helper()
	if s.Reveal() != nil && !s.Reveal().Done() {
		if _, err := s.Check(); err != nil {
			t.Fatalf("Check() on explanation error = %v", err)
		}
	}
	if _, err := s.Check(); err != nil {
		t.Fatalf("Check() advance error = %v", err)
	}
}

func TestStart_NoLivesRefused(t *testing.T) {
	prog := &fakeProgression{noLives: true}
	s, err := Start(testLevel(mcChallenge("c1", "B", "A", "B")), prog)
	if !errors.Is(err, ErrNoLives) {
		t.Fatalf("Start() error = %v, want ErrNoLives", err)
	}
	if s != nil {
		t.Error("expected no session to be constructed")
	}
	if len(prog.results) != 0 {
		t.Errorf("results = %d, want 0", len(prog.results))
	}
}

func TestStart_EmptyLevelFinishesImmediately(t *testing.T) {
	prog := &fakeProgression{}
	s := startSession(t, testLevel(), prog)

	if s.Status() != StatusFinished {
		t.Fatalf("Status() = %s, want FINISHED", s.Status())
	}
	if len(prog.results) != 1 {
		t.Fatalf("ApplyLessonResult calls = %d, want 1", len(prog.results))
	}
	got := prog.results[0]
	if got.Score != 0 || got.XPGained != 0 || got.GemsGained != 0 || got.Completed {
		t.Errorf("outcome = %+v, want zero score, no rewards, not completed", got)
	}
	if _, err := s.Check(); !errors.Is(err, ErrNotCheckable) {
		t.Errorf("Check() error = %v, want ErrNotCheckable", err)
	}
}

func TestScenario_TryAgainThenCorrect(t *testing.T) {
	prog := &fakeProgression{}
	s := startSession(t, testLevel(
		explanation("e1", "HTML is the skeleton."),
		mcChallenge("c1", "B", "A", "B", "C"),
		explanation("e2", "Well done."),
	), prog)

	if s.Status() != StatusIdle {
		t.Fatalf("initial Status() = %s, want IDLE", s.Status())
	}
	skipExplanation(t, s)

	if err := s.Choose("A"); err != nil {
		t.Fatalf("Choose(A) error = %v", err)
	}
	if st, _ := s.Check(); st != StatusTryAgain {
		t.Fatalf("after A Status = %s, want TRY_AGAIN", st)
	}
	if s.Attempts() != 1 {
		t.Errorf("Attempts() = %d, want 1", s.Attempts())
	}
	if s.Choice() != "A" {
		t.Errorf("Choice() = %q, want submission kept after TRY_AGAIN", s.Choice())
	}

	if err := s.Choose("B"); err != nil {
		t.Fatalf("Choose(B) error = %v", err)
	}
	if st, _ := s.Check(); st != StatusCorrect {
		t.Fatalf("after B Status = %s, want CORRECT", st)
	}
	if prog.lost != 0 {
		t.Errorf("lives lost = %d, want 0", prog.lost)
	}

	if _, err := s.Advance(); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	skipExplanation(t, s)

	if s.Status() != StatusFinished {
		t.Fatalf("Status() = %s, want FINISHED", s.Status())
	}
	if len(prog.results) != 1 {
		t.Fatalf("ApplyLessonResult calls = %d, want 1", len(prog.results))
	}
	out := prog.results[0]
	if out.XPGained != XPPerLesson || out.GemsGained != GemsPerLesson {
		t.Errorf("rewards = %d xp %d gems, want %d/%d", out.XPGained, out.GemsGained, XPPerLesson, GemsPerLesson)
	}
	if !out.Perfect {
		t.Error("Perfect = false, want true (no segment reached INCORRECT)")
	}
	if out.Score != 0 {
		t.Errorf("Score = %d, want 0 (challenge missed on first try)", out.Score)
	}
	if out.SessionID != "sess-1" || out.LevelID != "lvl" {
		t.Errorf("ids = %q/%q, want sess-1/lvl", out.SessionID, out.LevelID)
	}
}

func TestCheck_SecondFailureRequeuesAndLosesLife(t *testing.T) {
	prog := &fakeProgression{}
	s := startSession(t, testLevel(
		mcChallenge("c1", "B", "A", "B"),
		explanation("e1", "x"),
	), prog)

	s.Choose("A")
	s.Check()
	st, err := s.Check()
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if st != StatusIncorrect {
		t.Fatalf("Status = %s, want INCORRECT", st)
	}
	if prog.lost != 1 {
		t.Errorf("lives lost = %d, want 1", prog.lost)
	}
	if got := s.Queue().Order(); len(got) != 3 || got[2] != 0 {
		t.Errorf("queue = %v, want [0 1 0]", got)
	}

	// Resolved segments refuse further checks.
	if _, err := s.Check(); !errors.Is(err, ErrNotCheckable) {
		t.Errorf("Check() after INCORRECT error = %v, want ErrNotCheckable", err)
	}
	if err := s.Choose("B"); !errors.Is(err, ErrInputLocked) {
		t.Errorf("Choose() after INCORRECT error = %v, want ErrInputLocked", err)
	}

	s.Advance()
	skipExplanation(t, s)

	// The requeued challenge comes back with fresh state.
	seg, ok := s.Current()
	if !ok || seg.ID != "c1" {
		t.Fatalf("Current() = %v/%v, want requeued c1", seg.ID, ok)
	}
	if s.Attempts() != 0 || s.Choice() != "" || s.Status() != StatusIdle {
		t.Errorf("state not reset: attempts=%d choice=%q status=%s", s.Attempts(), s.Choice(), s.Status())
	}

	s.Choose("B")
	s.Check()
	s.Advance()

	out, ok := s.Outcome()
	if !ok {
		t.Fatal("expected outcome after finishing")
	}
	if out.Perfect {
		t.Error("Perfect = true, want false after INCORRECT")
	}
	if out.LivesLost != 1 {
		t.Errorf("LivesLost = %d, want 1", out.LivesLost)
	}
	if out.Score != 0 {
		t.Errorf("Score = %d, want 0 (requeued success does not count)", out.Score)
	}
	if out.Served != 3 {
		t.Errorf("Served = %d, want 3", out.Served)
	}
}

func TestCheck_RequeueIsUnbounded(t *testing.T) {
	prog := &fakeProgression{}
	s := startSession(t, testLevel(mcChallenge("c1", "B", "A", "B")), prog)

	for round := 1; round <= 4; round++ {
		s.Choose("A")
		s.Check()
		if st, _ := s.Check(); st != StatusIncorrect {
			t.Fatalf("round %d: Status = %s, want INCORRECT", round, st)
		}
		if _, err := s.Advance(); err != nil {
			t.Fatalf("round %d: Advance() error = %v", round, err)
		}
	}
	if s.Queue().Len() != 5 {
		t.Errorf("queue Len() = %d, want 5", s.Queue().Len())
	}
	if prog.lost != 4 {
		t.Errorf("lives lost = %d, want 4", prog.lost)
	}
	if len(prog.results) != 0 {
		t.Errorf("ApplyLessonResult calls = %d, want 0 before finishing", len(prog.results))
	}
}

// mixedLevel builds k segments, an explanation at every index listed in
// explain and a challenge with answer "B" everywhere else.
func mixedLevel(k int, explain ...int) *curriculum.Level {
	segs := make([]curriculum.Segment, k)
	for i := range segs {
		id := fmt.Sprintf("s%d", i)
		segs[i] = mcChallenge(id, "B", "A", "B", "C")
		for _, e := range explain {
			if e == i {
				segs[i] = explanation(id, "Read me.")
			}
		}
	}
	return testLevel(segs...)
}

// playThrough answers every challenge, failing segment index i fails[i]
// times on its first serving, and returns the number of Advance calls made.
// lastOriginal is called right after the advance away from the last
// original queue position.
func playThrough(t *testing.T, s *Session, k int, fails map[int]int, lastOriginal func()) int {
	t.Helper()
	advances := 0
	for s.Status() != StatusFinished {
		if advances > 4*k+4 {
			t.Fatalf("session did not finish after %d advances", advances)
		}
		idx, _ := s.Queue().Current()
		if s.Question() == nil {
			if s.Reveal() != nil {
				s.Reveal().Skip()
			}
		} else {
			for range fails[idx] {
				if err := s.Choose("A"); err != nil {
					t.Fatalf("Choose(A) error = %v", err)
				}
				if _, err := s.Check(); err != nil {
					t.Fatalf("Check() error = %v", err)
				}
			}
			if fails[idx] < 2 {
				if err := s.Choose("B"); err != nil {
					t.Fatalf("Choose(B) error = %v", err)
				}
				if st, _ := s.Check(); st != StatusCorrect {
					t.Fatalf("segment %d Status = %s, want CORRECT", idx, st)
				}
			}
			fails[idx] = 0
		}

		atLast := s.Queue().Position() == k-1
		if _, err := s.Advance(); err != nil {
			t.Fatalf("Advance() error = %v", err)
		}
		advances++
		if atLast && lastOriginal != nil {
			lastOriginal()
		}
	}
	return advances
}

func TestPlayThrough_NoMistakes(t *testing.T) {
	tests := []struct {
		name    string
		k       int
		explain []int
	}{
		{"single challenge", 1, nil},
		{"three challenges", 3, nil},
		{"explanations mixed in", 5, []int{0, 3}},
		{"only explanations", 2, []int{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := &fakeProgression{}
			s := startSession(t, mixedLevel(tt.k, tt.explain...), prog)

			advances := playThrough(t, s, tt.k, map[int]int{}, nil)

			if advances != tt.k {
				t.Errorf("Advance calls = %d, want %d", advances, tt.k)
			}
			if s.Queue().Len() != tt.k {
				t.Errorf("Queue().Len() = %d, want %d", s.Queue().Len(), tt.k)
			}
			out, ok := s.Outcome()
			if !ok {
				t.Fatal("Outcome() not available after FINISHED")
			}
			if !out.Perfect || out.LivesLost != 0 || out.Score != 100 {
				t.Errorf("outcome = %+v, want perfect with score 100", out)
			}
			if out.Served != tt.k {
				t.Errorf("Served = %d, want %d", out.Served, tt.k)
			}
			if prog.lost != 0 || len(prog.results) != 1 {
				t.Errorf("lost = %d results = %d, want 0 and 1", prog.lost, len(prog.results))
			}
		})
	}
}

func TestPlayThrough_FailedSegmentRecurs(t *testing.T) {
	tests := []struct {
		name    string
		k       int
		explain []int
	}{
		{"failing segment is last", 3, nil},
		{"failing segment in the middle", 5, nil},
		{"explanations around it", 6, []int{0, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := &fakeProgression{}
			s := startSession(t, mixedLevel(tt.k, tt.explain...), prog)

			checked := false
			advances := playThrough(t, s, tt.k, map[int]int{2: 2}, func() {
				checked = true
				if s.Status() == StatusFinished {
					t.Errorf("Status() after position %d = FINISHED, want the requeued segment", tt.k-1)
				}
				if idx, _ := s.Queue().Current(); idx != 2 {
					t.Errorf("segment after position %d = %d, want 2", tt.k-1, idx)
				}
			})
			if !checked {
				t.Fatal("never advanced away from the last original position")
			}

			if advances != tt.k+1 {
				t.Errorf("Advance calls = %d, want %d", advances, tt.k+1)
			}
			order := s.Queue().Order()
			if len(order) != tt.k+1 {
				t.Fatalf("Queue().Len() = %d, want %d", len(order), tt.k+1)
			}
			if order[len(order)-1] != 2 {
				t.Errorf("Order() = %v, want it to end with 2", order)
			}
			out, _ := s.Outcome()
			if out.Perfect || out.LivesLost != 1 || prog.lost != 1 {
				t.Errorf("outcome = %+v lost = %d, want one life lost and not perfect", out, prog.lost)
			}
			if !out.Completed || out.Served != tt.k+1 {
				t.Errorf("Completed = %v Served = %d, want true and %d", out.Completed, out.Served, tt.k+1)
			}
		})
	}
}

func TestAdvance_RequiresResolvedChallenge(t *testing.T) {
	prog := &fakeProgression{}
	s := startSession(t, testLevel(mcChallenge("c1", "B", "A", "B")), prog)

	if _, err := s.Advance(); !errors.Is(err, ErrNotAdvanceable) {
		t.Errorf("Advance() in IDLE error = %v, want ErrNotAdvanceable", err)
	}
	s.Choose("A")
	s.Check()
	if _, err := s.Advance(); !errors.Is(err, ErrNotAdvanceable) {
		t.Errorf("Advance() in TRY_AGAIN error = %v, want ErrNotAdvanceable", err)
	}
}

func TestFinished_IsTerminalAndReportsOnce(t *testing.T) {
	prog := &fakeProgression{}
	s := startSession(t, testLevel(explanation("e1", "hi")), prog)

	skipExplanation(t, s)
	if s.Status() != StatusFinished {
		t.Fatalf("Status() = %s, want FINISHED", s.Status())
	}
	s.Check()
	s.Advance()
	s.Choose("x")

	if len(prog.results) != 1 {
		t.Errorf("ApplyLessonResult calls = %d, want 1", len(prog.results))
	}
	if s.Progress() != 1 {
		t.Errorf("Progress() = %v, want 1", s.Progress())
	}
	out, _ := s.Outcome()
	if out.Score != 100 {
		t.Errorf("Score = %d, want 100 for explanation-only level", out.Score)
	}
}

func TestCheck_ExplanationSkipsRevealThenAdvances(t *testing.T) {
	prog := &fakeProgression{}
	s := startSession(t, testLevel(
		explanation("e1", "Tags wrap content."),
		explanation("e2", "More."),
	), prog)

	r := s.Reveal()
	if r == nil || r.Done() {
		t.Fatal("expected an in-progress reveal on the first explanation")
	}
	r.Step(4)
	if r.Visible() != "Tags" {
		t.Errorf("Visible() = %q, want %q", r.Visible(), "Tags")
	}

	s.Check()
	if seg, _ := s.Current(); seg.ID != "e1" {
		t.Fatalf("Current() = %s, want e1 after skip", seg.ID)
	}
	if !s.Reveal().Done() {
		t.Error("reveal should be complete after skip")
	}

	s.Check()
	if seg, _ := s.Current(); seg.ID != "e2" {
		t.Errorf("Current() = %s, want e2", seg.ID)
	}
	if prog.lost != 0 {
		t.Errorf("lives lost = %d, want 0", prog.lost)
	}
}

func TestChallengeWithoutQuestionActsAsExplanation(t *testing.T) {
	prog := &fakeProgression{}
	s := startSession(t, testLevel(
		curriculum.Segment{ID: "c0", Kind: curriculum.KindChallenge},
		mcChallenge("c1", "B", "A", "B"),
	), prog)

	if s.Question() != nil {
		t.Fatal("Question() should be nil for a challenge without a question")
	}
	if _, err := s.Check(); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if seg, _ := s.Current(); seg.ID != "c1" {
		t.Errorf("Current() = %s, want c1", seg.ID)
	}
}

func TestRearrange_ThroughSession(t *testing.T) {
	prog := &fakeProgression{}
	seg := curriculum.Segment{
		ID:   "r1",
		Kind: curriculum.KindChallenge,
		Question: &curriculum.Question{
			ID:            "qr",
			Type:          curriculum.Rearrange,
			Options:       []string{"</p>", "Hi", "<p>"},
			CorrectAnswer: curriculum.Ordered("<p>", "Hi", "</p>"),
		},
	}
	s := startSession(t, testLevel(seg), prog)

	opts := s.Options()
	for _, want := range []string{"<p>", "Hi", "</p>"} {
		for i, o := range opts {
			if o == want {
				if err := s.Tap(i); err != nil {
					t.Fatalf("Tap(%d) error = %v", i, err)
				}
			}
		}
	}
	if got := s.HintContext(); got != "<p> Hi </p>" {
		t.Errorf("HintContext() = %q, want %q", got, "<p> Hi </p>")
	}
	if st, _ := s.Check(); st != StatusCorrect {
		t.Errorf("Status = %s, want CORRECT", st)
	}
	if err := s.Choose("<p>"); !errors.Is(err, ErrInputLocked) {
		t.Errorf("Choose() after CORRECT error = %v, want ErrInputLocked", err)
	}
}

func TestMatching_ThroughSession(t *testing.T) {
	prog := &fakeProgression{}
	seg := curriculum.Segment{
		ID:   "m",
		Kind: curriculum.KindChallenge,
		Question: &curriculum.Question{
			ID:   "qm",
			Type: curriculum.Matching,
			Pairs: []curriculum.Pair{
				{ID: "a", Left: "<h1>", Right: "Heading"},
				{ID: "b", Left: "<p>", Right: "Paragraph"},
			},
		},
	}
	s := startSession(t, testLevel(seg, explanation("e", "bye")), prog)

	if got := s.HintContext(); got != "I am stuck on matching." {
		t.Errorf("HintContext() = %q", got)
	}
	if err := s.Choose("x"); !errors.Is(err, ErrWrongModality) {
		t.Errorf("Choose() on matching error = %v, want ErrWrongModality", err)
	}

	res, tok, err := s.SelectLeft("a")
	if err != nil || res != MatchNone {
		t.Fatalf("SelectLeft(a) = %v, %v", res, err)
	}
	res, tok, _ = s.SelectRight("b")
	if res != MatchMismatch {
		t.Fatalf("SelectRight(b) = %v, want mismatch", res)
	}
	if !s.ClearMismatch(tok) {
		t.Fatal("ClearMismatch() = false, want true for current token")
	}
	if s.ClearMismatch(tok) {
		t.Error("ClearMismatch() twice should be a no-op")
	}

	s.SelectLeft("a")
	s.SelectRight("a")
	s.SelectRight("b")
	s.SelectLeft("b")
	if !s.Ready() {
		t.Fatal("Ready() = false with every pair matched")
	}
	if st, _ := s.Check(); st != StatusCorrect {
		t.Fatalf("Status = %s, want CORRECT", st)
	}

	// A token from a previous segment never clears the next one.
	s.Advance()
	if s.ClearMismatch(tok) {
		t.Error("stale token from previous segment cleared a mismatch")
	}
}

func TestHintContext_Fallbacks(t *testing.T) {
	prog := &fakeProgression{}
	s := startSession(t, testLevel(mcChallenge("c1", "B", "A", "B")), prog)

	if got := s.HintContext(); got != "I don't know." {
		t.Errorf("HintContext() = %q, want fallback", got)
	}
	s.Choose("A")
	if got := s.HintContext(); got != "A" {
		t.Errorf("HintContext() = %q, want A", got)
	}
}

func TestOutcome_ScoreAndTimestamps(t *testing.T) {
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	now := func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	prog := &fakeProgression{}
	s, err := Start(testLevel(
		mcChallenge("c1", "B", "A", "B"),
		mcChallenge("c2", "B", "A", "B"),
		mcChallenge("c3", "B", "A", "B"),
	), prog, WithRand(testRand()), WithClock(now))
	if err != nil {
		t.Fatal(err)
	}

	// c1 right, c2 wrong then right, c3 right.
	s.Choose("B")
	s.Check()
	s.Advance()
	s.Choose("A")
	s.Check()
	s.Choose("B")
	s.Check()
	s.Advance()
	s.Choose("B")
	s.Check()
	s.Advance()

	out, ok := s.Outcome()
	if !ok {
		t.Fatal("expected outcome")
	}
	if out.FirstTryCorrect != 2 || out.Challenges != 3 {
		t.Errorf("FirstTryCorrect/Challenges = %d/%d, want 2/3", out.FirstTryCorrect, out.Challenges)
	}
	if out.Score != 67 {
		t.Errorf("Score = %d, want 67", out.Score)
	}
	if out.Stars() != 2 {
		t.Errorf("Stars() = %d, want 2", out.Stars())
	}
	if out.Duration() != time.Minute {
		t.Errorf("Duration() = %v, want 1m", out.Duration())
	}
	if s.ID() == "" {
		t.Error("expected a generated session ID")
	}
}

func TestOutcome_Stars(t *testing.T) {
	tests := []struct {
		score     int
		completed bool
		want      int
	}{
		{100, true, 3},
		{99, true, 2},
		{50, true, 2},
		{49, true, 1},
		{0, true, 1},
		{0, false, 0},
	}
	for _, tc := range tests {
		got := Outcome{Score: tc.score, Completed: tc.completed}.Stars()
		if got != tc.want {
			t.Errorf("Stars(score=%d, completed=%v) = %d, want %d", tc.score, tc.completed, got, tc.want)
		}
	}
}
