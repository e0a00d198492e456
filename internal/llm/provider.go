package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider is the core abstraction for LLM interaction. Lesson generation
// and the tutor both go through it.
type Provider interface {
	// Generate sends a prompt and returns the response. When req.Schema is
	// set the provider asks for JSON matching it and validates the result.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, selects the provider's structured output mode.
	Schema *Schema

	MaxTokens   int
	Temperature float64 // 0 means provider default
}

// Prompt builds a single-turn request.
func Prompt(system, user string, schema *Schema, maxTokens int) Request {
	return Request{
		System:    system,
		Messages:  []Message{{Role: RoleUser, Content: user}},
		Schema:    schema,
		MaxTokens: maxTokens,
	}
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies the schema, kebab-case (e.g. "lesson-segments").
	// Compiled schemas are cached by name.
	Name string

	Description string

	// Definition is the JSON Schema document.
	Definition map[string]any

	// Strict asks providers that support it to enforce the schema while
	// decoding. The definition must then close every object
	// (additionalProperties false) and require all of its properties.
	Strict bool
}

// Response holds the LLM's output.
type Response struct {
	// Content is the validated JSON when a schema was requested, otherwise
	// the raw text.
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Decode unmarshals the response content into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Content, v); err != nil {
		return &ErrInvalidResponse{Content: r.Content, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Purpose labels recorded with each request event.
const (
	PurposeLessonGen = "lesson-gen"
	PurposeHint      = "hint"
)

type contextKey string

const (
	purposeKey contextKey = "llm_purpose"
	subjectKey contextKey = "llm_subject"
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithSubject attaches what a request is about (a level ID for lesson
// generation, a question ID for hints) for event logging.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

// SubjectFrom extracts the subject from the context, or "".
func SubjectFrom(ctx context.Context) string {
	v, _ := ctx.Value(subjectKey).(string)
	return v
}

// finishResponse validates structured content and assembles the Response
// shared by all SDK adapters. A truncated structured response is reported
// as ErrMaxTokensExceeded rather than a schema failure.
func finishResponse(req Request, content json.RawMessage, usage Usage, model, stop string) (*Response, error) {
	if req.Schema != nil {
		if stop == "max_tokens" {
			return nil, &ErrMaxTokensExceeded{Content: content}
		}
		if err := validateResponse(req.Schema, content); err != nil {
			return nil, err
		}
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return &Response{
		Content:    content,
		Usage:      usage,
		Model:      model,
		StopReason: stop,
	}, nil
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names are passed through so full model IDs work too.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
