package answer

import (
	"slices"

	"github.com/abhisek/codulingo/internal/curriculum"
)

// Submission is what the learner has assembled for the current question.
// Only the field matching the question's modality is consulted.
type Submission struct {
	// Choice is the selected option (MULTIPLE_CHOICE, FILL_BLANK).
	Choice string

	// Order is the token sequence built by taps (REARRANGE).
	Order []string

	// Matched is the number of confirmed pairs (MATCHING).
	Matched int
}

// Check reports whether the submission answers the question.
//
// Rules:
// - MULTIPLE_CHOICE / FILL_BLANK: exact, case-sensitive equality with the
//   canonical string. No trimming or folding.
// - REARRANGE: element-wise equality, in order, with the canonical list.
// - MATCHING: every pair confirmed.
//
// A nil question, unknown modality, or missing canonical answer is never
// correct.
func Check(q *curriculum.Question, sub Submission) bool {
	if q == nil {
		return false
	}

	switch q.Type {
	case curriculum.MultipleChoice, curriculum.FillBlank:
		want := q.CorrectAnswer
		if want.IsSequence() || want.Text == "" {
			return false
		}
		return sub.Choice == want.Text

	case curriculum.Rearrange:
		want := q.CorrectAnswer.Sequence
		if len(want) == 0 {
			return false
		}
		return slices.Equal(sub.Order, want)

	case curriculum.Matching:
		return sub.Matched == len(q.Pairs)

	default:
		return false
	}
}
