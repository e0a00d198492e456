package lessongen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/abhisek/codulingo/internal/curriculum"
)

// ValidationError describes a generated segment that was dropped.
type ValidationError struct {
	Index     int
	SegmentID string
	Err       error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("segment %d (%s): %v", e.Index, e.SegmentID, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// rawSegment mirrors the generated JSON loosely so that small deviations
// (lowercase enums, a string answer instead of a list) still decode.
type rawSegment struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	CodeSnippet string       `json:"codeSnippet"`
	Character   string       `json:"character"`
	Question    *rawQuestion `json:"question"`
}

type rawQuestion struct {
	ID            string               `json:"id"`
	Type          string               `json:"type"`
	Prompt        string               `json:"prompt"`
	CodeSnippet   string               `json:"codeSnippet"`
	Options       []string             `json:"options"`
	CorrectAnswer curriculum.AnswerKey `json:"correctAnswer"`
	Explanation   string               `json:"explanation"`
	Pairs         []curriculum.Pair    `json:"pairs"`
}

// ParseSegments decodes generated content into playable segments. The
// payload may be a bare array or an object with a "segments" field.
// Segments that cannot be played are dropped and reported; the error is
// non-nil only when the payload itself cannot be decoded.
func ParseSegments(data []byte, newID func() string) ([]curriculum.Segment, []error, error) {
	raw, err := decodeSegments(data)
	if err != nil {
		return nil, nil, err
	}

	var (
		out     []curriculum.Segment
		dropped []error
	)
	seen := make(map[string]bool, len(raw))
	for i, r := range raw {
		seg := normalizeSegment(r, i, newID)
		if seen[seg.ID] {
			seg.ID = newID()
		}
		if err := seg.Validate(); err != nil {
			dropped = append(dropped, &ValidationError{Index: i, SegmentID: seg.ID, Err: err})
			continue
		}
		seen[seg.ID] = true
		out = append(out, seg)
	}
	return out, dropped, nil
}

func decodeSegments(data []byte) ([]rawSegment, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty lesson payload")
	}
	var raw []rawSegment
	if data[0] == '[' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode segment list: %w", err)
		}
		return raw, nil
	}
	var wrapped struct {
		Segments []rawSegment `json:"segments"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("decode lesson: %w", err)
	}
	return wrapped.Segments, nil
}

func normalizeSegment(r rawSegment, index int, newID func() string) curriculum.Segment {
	seg := curriculum.Segment{
		ID:          strings.TrimSpace(r.ID),
		Kind:        curriculum.SegmentKind(strings.ToUpper(strings.TrimSpace(r.Type))),
		Title:       r.Title,
		Content:     r.Content,
		CodeSnippet: r.CodeSnippet,
		Character:   curriculum.Character(strings.ToLower(strings.TrimSpace(r.Character))),
	}
	if seg.ID == "" {
		seg.ID = newID()
	}
	if seg.Character != "" && !slices.Contains(curriculum.Characters, seg.Character) {
		seg.Character = curriculum.CharacterOwl
	}
	if seg.Kind == curriculum.KindChallenge {
		seg.Question = normalizeQuestion(r.Question, index, newID)
	}
	return seg
}

func normalizeQuestion(r *rawQuestion, index int, newID func() string) *curriculum.Question {
	if r == nil {
		return nil
	}
	q := &curriculum.Question{
		ID:            strings.TrimSpace(r.ID),
		Type:          curriculum.QuestionType(strings.ToUpper(strings.TrimSpace(r.Type))),
		Prompt:        r.Prompt,
		CodeSnippet:   r.CodeSnippet,
		Options:       r.Options,
		CorrectAnswer: r.CorrectAnswer,
		Explanation:   r.Explanation,
	}
	if q.ID == "" {
		q.ID = newID()
	}

	switch q.Type {
	case curriculum.MultipleChoice, curriculum.FillBlank:
		// Strict schemas return the single answer as a one-element list.
		if seq := q.CorrectAnswer.Sequence; len(seq) == 1 {
			q.CorrectAnswer = curriculum.Single(seq[0])
		}
	case curriculum.Rearrange:
		if !q.CorrectAnswer.IsSequence() && q.CorrectAnswer.Text != "" {
			q.CorrectAnswer = curriculum.Ordered(q.CorrectAnswer.Text)
		}
		if len(q.Options) == 0 {
			q.Options = slices.Clone(q.CorrectAnswer.Sequence)
		}
	case curriculum.Matching:
		q.Options = nil
		q.CorrectAnswer = curriculum.AnswerKey{}
		for i, p := range r.Pairs {
			if strings.TrimSpace(p.ID) == "" {
				p.ID = "p" + strconv.Itoa(index) + "_" + strconv.Itoa(i)
			}
			q.Pairs = append(q.Pairs, p)
		}
	}
	return q
}
