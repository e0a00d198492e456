package session

import (
	"time"

	"github.com/abhisek/codulingo/internal/curriculum"
)

// MismatchDelay is how long a wrong pair stays highlighted before the
// presentation clears it.
const MismatchDelay = 400 * time.Millisecond

// Item is one cell of a matching column. Left and right cells of the same
// pair share an ID.
type Item struct {
	ID   string
	Text string
}

// MatchResult is the effect of a selection.
type MatchResult int

const (
	MatchNone      MatchResult = iota // Selection changed, no pair resolved
	MatchConfirmed                    // Both sides agreed; pair is matched
	MatchMismatch                     // Both sides disagree; clear after MismatchDelay
)

// Matching is the selection engine for a MATCHING question. The columns are
// shuffled independently once; matched pairs drop out of both columns and
// are never un-matched.
type Matching struct {
	left    []Item
	right   []Item
	matched []string

	selLeft  string
	selRight string
	mismatch bool
	gen      uint64
}

// NewMatching shuffles the pairs into two columns using r.
func NewMatching(pairs []curriculum.Pair, r Rand) *Matching {
	if r == nil {
		r = ambientRand{}
	}
	left := make([]Item, len(pairs))
	right := make([]Item, len(pairs))
	for i, p := range pairs {
		left[i] = Item{ID: p.ID, Text: p.Left}
		right[i] = Item{ID: p.ID, Text: p.Right}
	}
	return &Matching{
		left:  Shuffle(r, left),
		right: Shuffle(r, right),
	}
}

// SelectLeft toggles the left selection. It returns the result and the
// generation token that a later ClearMismatch must present.
func (m *Matching) SelectLeft(id string) (MatchResult, uint64) {
	return m.selectSide(&m.selLeft, m.left, id)
}

// SelectRight toggles the right selection.
func (m *Matching) SelectRight(id string) (MatchResult, uint64) {
	return m.selectSide(&m.selRight, m.right, id)
}

func (m *Matching) selectSide(sel *string, column []Item, id string) (MatchResult, uint64) {
	if m.isMatched(id) || !containsItem(column, id) {
		return MatchNone, m.gen
	}

	m.gen++
	m.mismatch = false
	if *sel == id {
		*sel = ""
		return MatchNone, m.gen
	}
	*sel = id

	if m.selLeft == "" || m.selRight == "" {
		return MatchNone, m.gen
	}
	if m.selLeft == m.selRight {
		m.matched = append(m.matched, m.selLeft)
		m.selLeft, m.selRight = "", ""
		return MatchConfirmed, m.gen
	}
	m.mismatch = true
	return MatchMismatch, m.gen
}

// ClearMismatch clears both selections if gen is still current and a
// mismatch is showing. A stale token does nothing.
func (m *Matching) ClearMismatch(gen uint64) bool {
	if gen != m.gen || !m.mismatch {
		return false
	}
	m.selLeft, m.selRight = "", ""
	m.mismatch = false
	m.gen++
	return true
}

// Mismatched reports whether a wrong pair is currently highlighted.
func (m *Matching) Mismatched() bool { return m.mismatch }

// Generation returns the current selection generation.
func (m *Matching) Generation() uint64 { return m.gen }

// Selected returns the active left and right IDs ("" when none).
func (m *Matching) Selected() (left, right string) {
	return m.selLeft, m.selRight
}

// Left returns the unmatched left items in display order.
func (m *Matching) Left() []Item { return m.remaining(m.left) }

// Right returns the unmatched right items in display order.
func (m *Matching) Right() []Item { return m.remaining(m.right) }

// MatchedCount returns the number of confirmed pairs.
func (m *Matching) MatchedCount() int { return len(m.matched) }

// Total returns the number of pairs.
func (m *Matching) Total() int { return len(m.left) }

// Complete reports whether every pair is matched.
func (m *Matching) Complete() bool {
	return len(m.left) > 0 && len(m.matched) == len(m.left)
}

func (m *Matching) remaining(column []Item) []Item {
	out := make([]Item, 0, len(column))
	for _, it := range column {
		if !m.isMatched(it.ID) {
			out = append(out, it)
		}
	}
	return out
}

func (m *Matching) isMatched(id string) bool {
	for _, got := range m.matched {
		if got == id {
			return true
		}
	}
	return false
}

func containsItem(items []Item, id string) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}
