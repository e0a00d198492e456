package lesson

import (
	"github.com/abhisek/codulingo/internal/lessongen"
	"github.com/abhisek/codulingo/internal/logger"
	"github.com/abhisek/codulingo/internal/progress"
	"github.com/abhisek/codulingo/internal/session"
	"github.com/abhisek/codulingo/internal/store"
	"github.com/abhisek/codulingo/internal/tutor"
)

// Deps are the services the lesson flow runs against. Content, Tutor and
// Events may be nil; screens then fall back to static content and canned hints.
type Deps struct {
	Tracker *progress.Tracker
	Content *lessongen.Service
	Tutor   *tutor.Service
	Events  store.EventRepo
	Log     *logger.Logger

	// Rand seeds option and column shuffles. Nil uses the global source.
	Rand session.Rand
}

// SessionOptions returns the engine options implied by the deps.
func (d Deps) SessionOptions() []session.Option {
	if d.Rand == nil {
		return nil
	}
	return []session.Option{session.WithRand(d.Rand)}
}
