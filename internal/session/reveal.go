package session

// Reveal is a typing cursor over explanation text. It holds no timer: the
// presentation calls Step on each tick and Skip when the learner presses
// check before the text is fully shown.
type Reveal struct {
	text  []rune
	shown int
}

// NewReveal starts a reveal with nothing shown.
func NewReveal(text string) *Reveal {
	return &Reveal{text: []rune(text)}
}

// Step shows n more runes and reports whether the reveal is done.
func (r *Reveal) Step(n int) bool {
	if n > 0 {
		r.shown = min(r.shown+n, len(r.text))
	}
	return r.Done()
}

// Skip shows the whole text.
func (r *Reveal) Skip() {
	r.shown = len(r.text)
}

// Done reports whether all text is shown. Empty text is done immediately.
func (r *Reveal) Done() bool {
	return r.shown >= len(r.text)
}

// Visible returns the text shown so far.
func (r *Reveal) Visible() string {
	return string(r.text[:r.shown])
}

// Full returns the complete text.
func (r *Reveal) Full() string {
	return string(r.text)
}
