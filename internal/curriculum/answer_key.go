package curriculum

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// AnswerKey is the canonical answer of a question: a single string for
// MULTIPLE_CHOICE and FILL_BLANK, an ordered list for REARRANGE, and empty
// for MATCHING. It decodes from either shape in JSON and YAML.
type AnswerKey struct {
	Text     string
	Sequence []string
}

// Single returns a key holding one string answer.
func Single(s string) AnswerKey { return AnswerKey{Text: s} }

// Ordered returns a key holding an ordered list answer.
func Ordered(items ...string) AnswerKey { return AnswerKey{Sequence: items} }

// IsSequence reports whether the key holds an ordered list.
func (k AnswerKey) IsSequence() bool { return k.Sequence != nil }

// IsZero reports whether no answer is set.
func (k AnswerKey) IsZero() bool { return k.Text == "" && len(k.Sequence) == 0 }

func (k AnswerKey) String() string {
	if k.IsSequence() {
		b, _ := json.Marshal(k.Sequence)
		return string(b)
	}
	return k.Text
}

func (k AnswerKey) MarshalJSON() ([]byte, error) {
	switch {
	case k.IsSequence():
		return json.Marshal(k.Sequence)
	case k.Text != "":
		return json.Marshal(k.Text)
	default:
		return []byte("null"), nil
	}
}

func (k *AnswerKey) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*k = AnswerKey{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		return json.Unmarshal(data, &k.Text)
	case '[':
		var seq []string
		if err := json.Unmarshal(data, &seq); err != nil {
			return fmt.Errorf("answer list: %w", err)
		}
		if seq == nil {
			seq = []string{}
		}
		k.Sequence = seq
		return nil
	default:
		return fmt.Errorf("answer must be a string or a list of strings, got %s", data)
	}
}

func (k AnswerKey) MarshalYAML() (any, error) {
	if k.IsSequence() {
		return k.Sequence, nil
	}
	return k.Text, nil
}

func (k *AnswerKey) UnmarshalYAML(value *yaml.Node) error {
	*k = AnswerKey{}
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			return nil
		}
		return value.Decode(&k.Text)
	case yaml.SequenceNode:
		seq := []string{}
		if err := value.Decode(&seq); err != nil {
			return fmt.Errorf("line %d: answer list: %w", value.Line, err)
		}
		k.Sequence = seq
		return nil
	default:
		return fmt.Errorf("line %d: answer must be a string or a list of strings", value.Line)
	}
}
