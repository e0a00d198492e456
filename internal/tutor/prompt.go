package tutor

import (
	"fmt"

	"github.com/abhisek/codulingo/internal/llm"
)

const systemPrompt = `You are "Byte_Bot", a friendly, energetic and encouraging coding tutor inside the Codulingo app.
You speak like a game character: short, punchy, enthusiastic sentences.
Explain HTML and coding concepts simply to a novice. Avoid jargon unless you explain it.
Keep the hint under 3 sentences. Give a hint, never the answer.`

// hintSchema is the structured output requested for a hint.
var hintSchema = &llm.Schema{
	Name:        "tutor-hint",
	Description: "A short hint for a stuck learner",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hint": map[string]any{
				"type":        "string",
				"description": "At most 3 sentences. Must not reveal the answer.",
			},
		},
		"required":             []string{"hint"},
		"additionalProperties": false,
	},
	Strict: true,
}

func buildUserMessage(prompt, tried string) string {
	return fmt.Sprintf("The learner is stuck on this question: %q.\nWhat they have tried so far: %s.\nGive a hint, not the answer.", prompt, tried)
}
