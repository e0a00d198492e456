package curriculum

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogLoads(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	units := c.Units()
	assert.Len(t, units, 6)

	first, ok := c.FirstLevel()
	require.True(t, ok)
	assert.Equal(t, "u1_l1", first.ID)
	assert.NotEmpty(t, first.Segments)

	// Every modality appears in the static content.
	seen := make(map[QuestionType]bool)
	for _, l := range c.Levels() {
		for _, s := range l.Segments {
			if s.IsChallenge() {
				seen[s.Question.Type] = true
			}
		}
	}
	for _, qt := range []QuestionType{MultipleChoice, FillBlank, Rearrange, Matching} {
		assert.True(t, seen[qt], "no static %s question", qt)
	}
}

func TestNextLevel(t *testing.T) {
	c := MustDefault()

	tests := []struct {
		from   string
		want   string
		wantOK bool
	}{
		{"u1_l1", "u1_l2", true},
		{"u1_l3", "u2_l1", true}, // crosses into the next unit
		{"u6_l3", "", false},     // end of curriculum
		{"missing", "", false},
	}
	for _, tt := range tests {
		got, ok := c.NextLevel(tt.from)
		if ok != tt.wantOK || got.ID != tt.want {
			t.Errorf("NextLevel(%q) = (%q, %v), want (%q, %v)", tt.from, got.ID, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSetSegmentsKeyedByLevel(t *testing.T) {
	c := MustDefault()
	before := c.Levels()

	segs := []Segment{{ID: "g1", Kind: KindExplanation, Content: "generated"}}
	require.True(t, c.SetSegments("u2_l1", segs))
	assert.False(t, c.SetSegments("nope", segs))

	l, ok := c.Level("u2_l1")
	require.True(t, ok)
	assert.Equal(t, segs, l.Segments)

	// Other levels and previously returned copies are untouched.
	other, _ := c.Level("u2_l2")
	assert.Empty(t, other.Segments)
	for _, b := range before {
		if b.ID == "u2_l1" {
			assert.Empty(t, b.Segments)
		}
	}
}

func TestParseRejectsInvalidContent(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown field",
			yaml: "units:\n  - id: u\n    title: U\n    colour: red\n    levels: [{id: l, title: L, description: d}]\n",
			want: "colour",
		},
		{
			name: "duplicate level",
			yaml: "units:\n  - id: u\n    title: U\n    description: d\n    levels: [{id: l, title: A, description: d}, {id: l, title: B, description: d}]\n",
			want: "duplicate level id",
		},
		{
			name: "answer not in options",
			yaml: `units:
  - id: u
    title: U
    description: d
    levels:
      - id: l
        title: L
        description: d
        segments:
          - id: s
            type: CHALLENGE
            question: {id: q, type: MULTIPLE_CHOICE, prompt: p, options: [a, b], correctAnswer: c, explanation: e}
`,
			want: "not among the options",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAnswerKeyDecoding(t *testing.T) {
	var q Question
	require.NoError(t, json.Unmarshal([]byte(`{"id":"q","type":"REARRANGE","correctAnswer":["<p>","Hi","</p>"]}`), &q))
	assert.True(t, q.CorrectAnswer.IsSequence())
	assert.Equal(t, []string{"<p>", "Hi", "</p>"}, q.CorrectAnswer.Sequence)

	var mc Question
	require.NoError(t, json.Unmarshal([]byte(`{"id":"q","type":"MULTIPLE_CHOICE","correctAnswer":"B"}`), &mc))
	assert.False(t, mc.CorrectAnswer.IsSequence())
	assert.Equal(t, "B", mc.CorrectAnswer.Text)

	var match Question
	require.NoError(t, json.Unmarshal([]byte(`{"id":"q","type":"MATCHING"}`), &match))
	assert.True(t, match.CorrectAnswer.IsZero())

	var bad Question
	err := json.Unmarshal([]byte(`{"correctAnswer":42}`), &bad)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "string or a list"))
}

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       Question
		wantErr bool
	}{
		{"mc ok", Question{ID: "a", Type: MultipleChoice, Prompt: "p", Options: []string{"x", "y"}, CorrectAnswer: Single("y")}, false},
		{"fill list answer", Question{ID: "b", Type: FillBlank, Prompt: "p", Options: []string{"x", "y"}, CorrectAnswer: Ordered("x")}, true},
		{"rearrange duplicates ok", Question{ID: "c", Type: Rearrange, Prompt: "p", Options: []string{"a", "b", "a"}, CorrectAnswer: Ordered("a", "a", "b")}, false},
		{"rearrange missing token", Question{ID: "d", Type: Rearrange, Prompt: "p", Options: []string{"a", "b"}, CorrectAnswer: Ordered("a", "a")}, true},
		{"matching one pair", Question{ID: "e", Type: Matching, Prompt: "p", Pairs: []Pair{{ID: "1", Left: "l", Right: "r"}}}, true},
		{"matching duplicate ids", Question{ID: "f", Type: Matching, Prompt: "p", Pairs: []Pair{{ID: "1", Left: "l", Right: "r"}, {ID: "1", Left: "m", Right: "s"}}}, true},
		{"unknown type", Question{ID: "g", Type: "ESSAY", Prompt: "p"}, true},
		{"empty prompt", Question{ID: "h", Type: MultipleChoice, Options: []string{"x", "y"}, CorrectAnswer: Single("x")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
