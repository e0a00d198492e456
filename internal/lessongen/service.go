// Package lessongen fills levels that ship without static content by asking
// the LLM for a lesson, and caches the result per level.
package lessongen

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/abhisek/codulingo/internal/curriculum"
	"github.com/abhisek/codulingo/internal/llm"
	"github.com/abhisek/codulingo/internal/logger"
	"github.com/abhisek/codulingo/internal/store"
)

// Option configures a Service.
type Option func(*Service)

// WithConfig overrides the generation settings.
func WithConfig(cfg Config) Option {
	return func(s *Service) { s.cfg = cfg }
}

// WithCache persists generated lessons so they survive restarts.
func WithCache(cache store.SegmentCache) Option {
	return func(s *Service) { s.cache = cache }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = logger.OrNop(l) }
}

// WithLearnerXP supplies the learner's XP used to calibrate new lessons.
func WithLearnerXP(xp func() int) Option {
	return func(s *Service) { s.learnerXP = xp }
}

// WithIDFunc sets the ID source for generated items that arrive without
// one.
func WithIDFunc(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// Service loads level content: static segments from the catalog first,
// then the persistent cache, then a fresh generation.
type Service struct {
	provider llm.Provider
	catalog  *curriculum.Catalog
	cfg      Config

	cache     store.SegmentCache
	log       *logger.Logger
	learnerXP func() int
	newID     func() string

	group singleflight.Group
}

// New creates a content service. provider may be nil, in which case levels
// without static or cached content come back empty.
func New(provider llm.Provider, catalog *curriculum.Catalog, opts ...Option) *Service {
	s := &Service{
		provider:  provider,
		catalog:   catalog,
		cfg:       DefaultConfig(),
		log:       logger.Nop(),
		learnerXP: func() int { return 0 },
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available reports whether new lessons can be generated.
func (s *Service) Available() bool { return s.provider != nil }

// LoadSegments returns the segments for a level. An unknown level or a
// failed generation yields nil, which plays as an empty lesson.
func (s *Service) LoadSegments(ctx context.Context, levelID string) []curriculum.Segment {
	level, ok := s.catalog.Level(levelID)
	if !ok {
		s.log.Warn("load segments for unknown level", "level", levelID)
		return nil
	}
	if len(level.Segments) > 0 {
		return level.Segments
	}

	// Screens may ask twice for the same level while a generation runs.
	// The flight is detached from the first caller so a cancellation only
	// drops that caller's interest.
	ch := s.group.DoChan(levelID, func() (any, error) {
		fctx, cancel := s.flightContext(ctx)
		defer cancel()
		return s.loadMissing(fctx, level), nil
	})
	select {
	case <-ctx.Done():
		s.log.Debug("load segments abandoned", "level", levelID, "error", ctx.Err())
		return nil
	case res := <-ch:
		segs, _ := res.Val.([]curriculum.Segment)
		return segs
	}
}

func (s *Service) flightContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if s.cfg.Timeout <= 0 {
		return context.WithCancel(detached)
	}
	return context.WithTimeout(detached, s.cfg.Timeout)
}

func (s *Service) loadMissing(ctx context.Context, level curriculum.Level) []curriculum.Segment {
	// An earlier flight may have filled the level since it was read.
	if current, ok := s.catalog.Level(level.ID); ok && len(current.Segments) > 0 {
		return current.Segments
	}
	if segs := s.loadCached(ctx, level.ID); len(segs) > 0 {
		s.catalog.SetSegments(level.ID, segs)
		return segs
	}

	xp := s.learnerXP()
	segs := s.GenerateSegments(llm.WithSubject(ctx, level.ID), level.Title, level.Description, xp)
	if len(segs) == 0 {
		return nil
	}
	s.catalog.SetSegments(level.ID, segs)
	s.saveCached(ctx, level.ID, xp, segs)
	return segs
}

// GenerateSegments asks the LLM for a lesson on topic. It returns nil when
// no provider is configured, the request fails, or nothing playable came
// back.
func (s *Service) GenerateSegments(ctx context.Context, topic, description string, xp int) []curriculum.Segment {
	if s.provider == nil {
		return nil
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeLessonGen)

	req := llm.Prompt(systemPrompt(topic, s.cfg), buildUserMessage(topic, description, xp), SegmentsSchema, s.cfg.MaxTokens)
	req.Temperature = s.cfg.Temperature

	start := time.Now()
	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		s.log.Error("lesson generation failed", "topic", topic, "error", err)
		return nil
	}

	segs, dropped, err := ParseSegments(resp.Content, s.newID)
	if err != nil {
		s.log.Error("parse generated lesson", "topic", topic, "error", err)
		return nil
	}
	for _, d := range dropped {
		s.log.Warn("dropped generated segment", "topic", topic, "error", d)
	}
	s.log.Info("generated lesson",
		"topic", topic,
		"model", resp.Model,
		"segments", len(segs),
		"dropped", len(dropped),
		"latency", time.Since(start),
	)
	return segs
}

func (s *Service) loadCached(ctx context.Context, levelID string) []curriculum.Segment {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.Load(ctx, levelID)
	if err != nil {
		s.log.Warn("load cached lesson", "level", levelID, "error", err)
		return nil
	}
	if cached == nil {
		return nil
	}
	segs, _, err := ParseSegments(cached.Segments, s.newID)
	if err != nil {
		s.log.Warn("decode cached lesson", "level", levelID, "error", err)
		return nil
	}
	return segs
}

func (s *Service) saveCached(ctx context.Context, levelID string, xp int, segs []curriculum.Segment) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(segs)
	if err != nil {
		s.log.Warn("encode generated lesson", "level", levelID, "error", err)
		return
	}
	err = s.cache.Save(ctx, store.GeneratedLevel{
		LevelID:  levelID,
		Model:    s.provider.ModelID(),
		XP:       xp,
		Segments: data,
	})
	if err != nil {
		s.log.Warn("cache generated lesson", "level", levelID, "error", err)
	}
}
