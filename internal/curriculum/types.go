package curriculum

// SegmentKind distinguishes instructional segments from interactive ones.
type SegmentKind string

const (
	KindExplanation SegmentKind = "EXPLANATION"
	KindChallenge   SegmentKind = "CHALLENGE"
)

// QuestionType is the modality of a challenge.
type QuestionType string

const (
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
	FillBlank      QuestionType = "FILL_BLANK"
	Rearrange      QuestionType = "REARRANGE"
	Matching       QuestionType = "MATCHING"
)

// BlankMarker marks the gap in a FILL_BLANK code snippet.
const BlankMarker = "___"

// Character is the speaker persona shown next to a segment.
type Character string

const (
	CharacterOwl   Character = "owl"   // friendly intros, general concepts
	CharacterRobot Character = "robot" // definitions, syntax rules
	CharacterCat   Character = "cat"   // visual concepts, design analogies
	CharacterBug   Character = "bug"   // common mistakes, debugging
)

// Characters lists every known persona.
var Characters = []Character{CharacterOwl, CharacterRobot, CharacterCat, CharacterBug}

// Pair is one left/right item of a MATCHING question. Both sides share ID.
type Pair struct {
	ID    string `json:"id" yaml:"id"`
	Left  string `json:"left" yaml:"left"`
	Right string `json:"right" yaml:"right"`
}

// Question is the interactive part of a CHALLENGE segment.
type Question struct {
	ID            string       `json:"id" yaml:"id"`
	Type          QuestionType `json:"type" yaml:"type"`
	Prompt        string       `json:"prompt" yaml:"prompt"`
	CodeSnippet   string       `json:"codeSnippet,omitempty" yaml:"codeSnippet,omitempty"`
	Options       []string     `json:"options,omitempty" yaml:"options,omitempty"`
	Pairs         []Pair       `json:"pairs,omitempty" yaml:"pairs,omitempty"`
	CorrectAnswer AnswerKey    `json:"correctAnswer" yaml:"correctAnswer,omitempty"`
	Explanation   string       `json:"explanation" yaml:"explanation"`
}

// Segment is one screen of a lesson.
type Segment struct {
	ID          string      `json:"id" yaml:"id"`
	Kind        SegmentKind `json:"type" yaml:"type"`
	Title       string      `json:"title,omitempty" yaml:"title,omitempty"`
	Content     string      `json:"content,omitempty" yaml:"content,omitempty"`
	CodeSnippet string      `json:"codeSnippet,omitempty" yaml:"codeSnippet,omitempty"`
	Character   Character   `json:"character,omitempty" yaml:"character,omitempty"`
	Question    *Question   `json:"question,omitempty" yaml:"question,omitempty"`
}

// IsChallenge reports whether the segment carries a question to answer.
// A CHALLENGE without a question is presented like an explanation.
func (s Segment) IsChallenge() bool {
	return s.Kind == KindChallenge && s.Question != nil
}

// Level is an ordered lesson. Unlock, completion and star state belong to
// the progression store, not to the catalog.
type Level struct {
	ID          string    `yaml:"id"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Icon        string    `yaml:"icon,omitempty"`
	Boss        bool      `yaml:"boss,omitempty"`
	Segments    []Segment `yaml:"segments,omitempty"`
}

// Unit groups levels under a theme. Guidebook is lesson HTML shown as the
// unit's intro.
type Unit struct {
	ID          string  `yaml:"id"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Guidebook   string  `yaml:"guidebook,omitempty"`
	Color       string  `yaml:"color,omitempty"`
	Levels      []Level `yaml:"levels"`
}
