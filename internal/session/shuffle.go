package session

import (
	"math/rand/v2"
	"slices"
)

// Rand is the random source used to order options and matching columns.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// ambientRand draws from the process-wide math/rand/v2 source, which is
// seeded randomly at startup.
type ambientRand struct{}

func (ambientRand) IntN(n int) int { return rand.IntN(n) }

// Shuffle returns a uniformly permuted copy of items (Fisher-Yates).
func Shuffle[T any](r Rand, items []T) []T {
	out := slices.Clone(items)
	for i := len(out) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
