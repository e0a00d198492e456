package lessongen

import (
	"fmt"
	"strings"
)

const systemPromptTemplate = `You are an expert curriculum designer for a gamified coding app called "Codulingo".
Create a lesson for the HTML topic: %q.
The lesson MUST have %d-%d segments. Alternate between "EXPLANATION" and "CHALLENGE" segments.

Characters (field "character"):
- owl: friendly intros, general concepts.
- robot: technical definitions, syntax rules.
- cat: visual concepts, design analogies.
- bug: common mistakes, errors, debugging.

Question types (field "question.type"):
- MULTIPLE_CHOICE: "options" lists the choices; "correctAnswer" holds the one correct option.
- FILL_BLANK: "codeSnippet" contains ___ exactly once; "options" lists candidate fills; "correctAnswer" holds the right one.
- REARRANGE: "options" lists code tokens; "correctAnswer" lists the same tokens in the right order.
- MATCHING: "pairs" lists {id, left, right} items, e.g. a tag and its definition. "options" and "correctAnswer" stay empty.

Rules:
- EXPLANATION segments put simple, bullet-pointed text in "content". Use "codeSnippet" only for a code example worth previewing, and then keep code out of "content".
- Every CHALLENGE has a short "explanation" shown after it is answered.
- Focus ONLY on HTML. Do not teach CSS or JavaScript.
- Use specific, real HTML examples. Keep everything beginner friendly.
- Leave fields that do not apply as empty strings or empty arrays. The "question" of an EXPLANATION is ignored.`

// systemPrompt returns the system instruction for a topic.
func systemPrompt(topic string, cfg Config) string {
	return fmt.Sprintf(systemPromptTemplate, topic, cfg.MinSegments, cfg.MaxSegments)
}

// buildUserMessage describes the lesson to generate. Learner XP calibrates
// difficulty.
func buildUserMessage(topic, description string, xp int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a comprehensive beginner HTML lesson for %q", topic)
	if description != "" {
		fmt.Fprintf(&b, ": %s", description)
	}
	b.WriteString(".\n")
	fmt.Fprintf(&b, "Learner XP: %d (%s).\n", xp, experienceLabel(xp))
	b.WriteString("Make it fun, interactive, and deep.")
	return b.String()
}

func experienceLabel(xp int) string {
	switch {
	case xp < 100:
		return "complete beginner"
	case xp < 600:
		return "knows the basics"
	default:
		return "experienced, add a few tougher challenges"
	}
}
