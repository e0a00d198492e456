package answer

import "slices"

// Arrangement assembles a REARRANGE submission from token taps. Tokens are
// tracked by their index in the presented option list, so two tokens with
// the same text stay distinct: removing one never removes the other.
type Arrangement struct {
	tokens []string
	placed []int // indices into tokens, in tap order
}

// NewArrangement starts an empty arrangement over the presented tokens.
func NewArrangement(tokens []string) *Arrangement {
	return &Arrangement{tokens: slices.Clone(tokens)}
}

// Tokens returns the presented tokens.
func (a *Arrangement) Tokens() []string {
	return slices.Clone(a.tokens)
}

// Tap places token i at the end of the order, or removes exactly that
// instance if it is already placed. Out-of-range taps are ignored.
func (a *Arrangement) Tap(i int) {
	if i < 0 || i >= len(a.tokens) {
		return
	}
	if pos := slices.Index(a.placed, i); pos >= 0 {
		a.placed = slices.Delete(a.placed, pos, pos+1)
		return
	}
	a.placed = append(a.placed, i)
}

// RemoveAt removes the token at position pos of the assembled order.
func (a *Arrangement) RemoveAt(pos int) {
	if pos < 0 || pos >= len(a.placed) {
		return
	}
	a.placed = slices.Delete(a.placed, pos, pos+1)
}

// Placed reports whether token i is in the assembled order.
func (a *Arrangement) Placed(i int) bool {
	return slices.Contains(a.placed, i)
}

// Len returns the number of placed tokens.
func (a *Arrangement) Len() int {
	return len(a.placed)
}

// Values returns the assembled order as token text.
func (a *Arrangement) Values() []string {
	out := make([]string, len(a.placed))
	for i, idx := range a.placed {
		out[i] = a.tokens[idx]
	}
	return out
}

// Reset clears the assembled order.
func (a *Arrangement) Reset() {
	a.placed = nil
}
