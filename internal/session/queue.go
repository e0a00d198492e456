package session

import "slices"

// Queue is the working order of segment indices for one session. It starts
// as [0..n-1] and only ever grows at the end: failed segments are appended
// so they recur later. Entries are never removed or reordered and the
// position only moves forward.
type Queue struct {
	order []int
	pos   int
	n     int
}

// NewQueue creates a queue over n segments in catalog order.
func NewQueue(n int) *Queue {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return &Queue{order: order, n: n}
}

// Current returns the segment index at the current position. It reports
// false for an empty queue.
func (q *Queue) Current() (int, bool) {
	if q.pos >= len(q.order) {
		return 0, false
	}
	return q.order[q.pos], true
}

// Advance moves to the next position. It returns false, leaving the
// position unchanged, when the current entry is the last one.
func (q *Queue) Advance() bool {
	if q.pos >= len(q.order)-1 {
		return false
	}
	q.pos++
	return true
}

// Requeue appends a segment index to the end. Indices outside the level
// are rejected.
func (q *Queue) Requeue(index int) bool {
	if index < 0 || index >= q.n {
		return false
	}
	q.order = append(q.order, index)
	return true
}

// Position returns the current offset into the queue.
func (q *Queue) Position() int { return q.pos }

// Len returns the queue length, including requeued entries.
func (q *Queue) Len() int { return len(q.order) }

// Order returns a copy of the queue entries.
func (q *Queue) Order() []int { return slices.Clone(q.order) }

// Progress returns the fraction of the queue already consumed, in [0, 1).
func (q *Queue) Progress() float64 {
	if len(q.order) == 0 {
		return 0
	}
	return float64(q.pos) / float64(len(q.order))
}
