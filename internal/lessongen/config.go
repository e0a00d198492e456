package lessongen

import "time"

// Config controls lesson generation.
type Config struct {
	// MaxTokens is the token budget for one generated lesson.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MinSegments and MaxSegments bound the lesson length asked for in
	// the prompt. Shorter responses are still accepted.
	MinSegments int
	MaxSegments int

	// Timeout bounds one load, which outlives the caller that started it
	// when other callers have joined.
	Timeout time.Duration
}

// DefaultConfig returns the settings used by the app.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   8192,
		Temperature: 0.8,
		MinSegments: 10,
		MaxSegments: 12,
		Timeout:     2 * time.Minute,
	}
}
