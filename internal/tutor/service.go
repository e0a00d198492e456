// Package tutor answers "I'm stuck" requests with a short LLM hint. Hints
// are advisory: they never change how an answer is judged.
package tutor

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/codulingo/internal/llm"
	"github.com/abhisek/codulingo/internal/logger"
	"github.com/abhisek/codulingo/internal/store"
)

// Shown instead of a hint when the tutor cannot help.
const (
	FallbackUnavailable = "Hoot! My connection is a bit fuzzy. Can you check your internet?"
	FallbackEmpty       = "Hoot! I'm having trouble connecting to the nest. Try again!"
)

const (
	hintMaxTokens   = 256
	hintTemperature = 0.7

	// recordTimeout bounds the event write after a hint, which may outlive
	// the request context.
	recordTimeout = 5 * time.Second
)

type contextKey string

const sessionKey contextKey = "tutor_session"

// WithSessionID tags hints requested with ctx with the lesson session ID.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey, id)
}

func sessionFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey).(string)
	return id
}

// Option configures a Service.
type Option func(*Service)

// WithEvents records every hint in repo.
func WithEvents(repo store.EventRepo) Option {
	return func(s *Service) { s.events = repo }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = logger.OrNop(l) }
}

// Service produces hints. A nil provider is allowed; every hint is then the
// unavailable fallback.
type Service struct {
	provider llm.Provider
	events   store.EventRepo
	log      *logger.Logger

	mu       sync.Mutex
	inflight map[string]bool
}

// New creates a tutor.
func New(provider llm.Provider, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		log:      logger.Nop(),
		inflight: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available reports whether an LLM backs the tutor.
func (s *Service) Available() bool { return s.provider != nil }

// Hint returns a hint for the question prompt given what the learner has
// tried. It never fails: problems are reported through a fallback message.
func (s *Service) Hint(ctx context.Context, prompt, tried string) string {
	return s.hint(ctx, "", prompt, tried)
}

// RequestHint fetches a hint in the background. The channel receives
// exactly one message and is then closed. It returns false, and no
// channel, while a hint for the same question is still in flight.
func (s *Service) RequestHint(ctx context.Context, questionID, prompt, tried string) (<-chan string, bool) {
	s.mu.Lock()
	if s.inflight[questionID] {
		s.mu.Unlock()
		return nil, false
	}
	s.inflight[questionID] = true
	s.mu.Unlock()

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		text := s.hint(ctx, questionID, prompt, tried)

		s.mu.Lock()
		delete(s.inflight, questionID)
		s.mu.Unlock()
		ch <- text
	}()
	return ch, true
}

// Pending reports whether a hint for questionID is in flight.
func (s *Service) Pending(questionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight[questionID]
}

func (s *Service) hint(ctx context.Context, questionID, prompt, tried string) string {
	text, fallback := s.generate(llm.WithSubject(ctx, questionID), prompt, tried)
	s.record(ctx, store.HintEventData{
		SessionID:    sessionFrom(ctx),
		QuestionID:   questionID,
		QuestionText: prompt,
		Context:      tried,
		HintText:     text,
		Fallback:     fallback,
	})
	return text
}

func (s *Service) generate(ctx context.Context, prompt, tried string) (string, bool) {
	if s.provider == nil {
		return FallbackUnavailable, true
	}

	req := llm.Prompt(systemPrompt, buildUserMessage(prompt, tried), hintSchema, hintMaxTokens)
	req.Temperature = hintTemperature

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, llm.PurposeHint), req)
	if err != nil {
		s.log.Warn("tutor hint failed", "error", err)
		return FallbackUnavailable, true
	}

	var out struct {
		Hint string `json:"hint"`
	}
	if err := resp.Decode(&out); err != nil {
		s.log.Warn("decode tutor hint", "error", err)
		return FallbackEmpty, true
	}
	text := strings.TrimSpace(out.Hint)
	if text == "" {
		s.log.Warn("tutor returned an empty hint")
		return FallbackEmpty, true
	}
	return text, false
}

func (s *Service) record(ctx context.Context, data store.HintEventData) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := s.events.AppendHintEvent(ctx, data); err != nil {
		s.log.Warn("record hint event", "error", err)
	}
}
