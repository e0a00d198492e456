package curriculum

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Validate checks that a question is answerable in its modality.
func (q *Question) Validate() error {
	if q == nil {
		return errors.New("question is missing")
	}
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("question %q: prompt is empty", q.ID)
	}

	switch q.Type {
	case MultipleChoice, FillBlank:
		if len(q.Options) < 2 {
			return fmt.Errorf("question %q: need at least 2 options, got %d", q.ID, len(q.Options))
		}
		if q.CorrectAnswer.IsSequence() || q.CorrectAnswer.Text == "" {
			return fmt.Errorf("question %q: answer must be a single option", q.ID)
		}
		if !slices.Contains(q.Options, q.CorrectAnswer.Text) {
			return fmt.Errorf("question %q: answer %q is not among the options", q.ID, q.CorrectAnswer.Text)
		}

	case Rearrange:
		if len(q.CorrectAnswer.Sequence) == 0 {
			return fmt.Errorf("question %q: answer must be a non-empty ordered list", q.ID)
		}
		if !sameMultiset(q.Options, q.CorrectAnswer.Sequence) {
			return fmt.Errorf("question %q: options cannot be arranged into the answer", q.ID)
		}

	case Matching:
		if len(q.Pairs) < 2 {
			return fmt.Errorf("question %q: need at least 2 pairs, got %d", q.ID, len(q.Pairs))
		}
		seen := make(map[string]bool, len(q.Pairs))
		for _, p := range q.Pairs {
			if p.ID == "" || p.Left == "" || p.Right == "" {
				return fmt.Errorf("question %q: pair %q is incomplete", q.ID, p.ID)
			}
			if seen[p.ID] {
				return fmt.Errorf("question %q: duplicate pair id %q", q.ID, p.ID)
			}
			seen[p.ID] = true
		}

	default:
		return fmt.Errorf("question %q: unknown type %q", q.ID, q.Type)
	}
	return nil
}

// Validate checks a segment's kind and payload.
func (s Segment) Validate() error {
	switch s.Kind {
	case KindExplanation:
		if strings.TrimSpace(s.Content) == "" && strings.TrimSpace(s.CodeSnippet) == "" {
			return fmt.Errorf("segment %q: explanation has no content", s.ID)
		}
	case KindChallenge:
		if err := s.Question.Validate(); err != nil {
			return fmt.Errorf("segment %q: %w", s.ID, err)
		}
	default:
		return fmt.Errorf("segment %q: unknown kind %q", s.ID, s.Kind)
	}
	if s.Character != "" && !slices.Contains(Characters, s.Character) {
		return fmt.Errorf("segment %q: unknown character %q", s.ID, s.Character)
	}
	return nil
}

// Validate checks ID uniqueness across the catalog and every static segment.
func (c *Catalog) Validate() error {
	var errs []error
	if len(c.units) == 0 {
		return errors.New("catalog has no units")
	}

	unitIDs := make(map[string]bool)
	levelIDs := make(map[string]bool)
	for _, u := range c.units {
		if u.ID == "" {
			errs = append(errs, fmt.Errorf("unit %q: missing id", u.Title))
		} else if unitIDs[u.ID] {
			errs = append(errs, fmt.Errorf("duplicate unit id %q", u.ID))
		}
		unitIDs[u.ID] = true

		if len(u.Levels) == 0 {
			errs = append(errs, fmt.Errorf("unit %q: no levels", u.ID))
		}
		for _, l := range u.Levels {
			if l.ID == "" {
				errs = append(errs, fmt.Errorf("unit %q: level %q has no id", u.ID, l.Title))
				continue
			}
			if levelIDs[l.ID] {
				errs = append(errs, fmt.Errorf("duplicate level id %q", l.ID))
			}
			levelIDs[l.ID] = true
			for _, s := range l.Segments {
				if err := s.Validate(); err != nil {
					errs = append(errs, fmt.Errorf("level %q: %w", l.ID, err))
				}
			}
		}
	}
	return errors.Join(errs...)
}

func sameMultiset(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, s := range a {
		counts[s]++
	}
	for _, s := range b {
		counts[s]--
		if counts[s] < 0 {
			return false
		}
	}
	return true
}
