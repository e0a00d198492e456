package lessongen

import (
	"maps"
	"slices"

	"github.com/abhisek/codulingo/internal/llm"
)

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func strList(desc string) map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": desc}
}

func closed(props map[string]any) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             slices.Sorted(maps.Keys(props)),
		"additionalProperties": false,
	}
}

// SegmentsSchema is the structured output requested from the LLM. Every
// field is required so strict decoders accept it; fields that do not apply
// come back empty and the parser ignores them.
var SegmentsSchema = &llm.Schema{
	Name:        "lesson-segments",
	Description: "An HTML lesson as an ordered list of explanation and challenge segments",
	Definition: closed(map[string]any{
		"segments": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": closed(map[string]any{
				"id":          str("Short unique id, e.g. s1"),
				"type":        map[string]any{"type": "string", "enum": []string{"EXPLANATION", "CHALLENGE"}},
				"title":       str("Optional heading"),
				"content":     str("Explanation text, may contain simple HTML"),
				"codeSnippet": str("Example code for explanations"),
				"character":   map[string]any{"type": "string", "enum": []string{"owl", "robot", "cat", "bug"}},
				"question": closed(map[string]any{
					"id":            str("Short unique id, e.g. q1"),
					"type":          map[string]any{"type": "string", "enum": []string{"MULTIPLE_CHOICE", "FILL_BLANK", "REARRANGE", "MATCHING"}},
					"prompt":        str("The question shown to the learner"),
					"codeSnippet":   str("Code with ___ for FILL_BLANK"),
					"options":       strList("Choices or tokens"),
					"correctAnswer": strList("One element for MULTIPLE_CHOICE and FILL_BLANK; the ordered tokens for REARRANGE"),
					"explanation":   str("Shown after answering"),
					"pairs": map[string]any{
						"type": "array",
						"items": closed(map[string]any{
							"id":    str("Pair id"),
							"left":  str("Left column text"),
							"right": str("Right column text"),
						}),
					},
				}),
			}),
		},
	}),
	Strict: true,
}
