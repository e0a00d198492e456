package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/codulingo/internal/app"
	"github.com/abhisek/codulingo/internal/curriculum"
	"github.com/abhisek/codulingo/internal/lessongen"
	"github.com/abhisek/codulingo/internal/llm"
	"github.com/abhisek/codulingo/internal/logger"
	"github.com/abhisek/codulingo/internal/progress"
	"github.com/abhisek/codulingo/internal/store"
	"github.com/abhisek/codulingo/internal/tutor"
)

// env is the state shared by every command that touches learner data.
type env struct {
	store   *store.Store
	log     *logger.Logger
	catalog *curriculum.Catalog
	tracker *progress.Tracker
}

func (e *env) Close() {
	e.log.Sync()
	e.store.Close()
}

// openEnv opens the store and restores the tracker. tui sends logs to a
// file so they do not draw over the interface.
func openEnv(cmd *cobra.Command, tui bool) (*env, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	logFile := cfg.LogFile
	if logFile == "" && tui {
		logFile = filepath.Join(filepath.Dir(dbPath), "codulingo.log")
	}
	log, err := logger.New(cfg.LogMode, logFile)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("init logger: %w", err)
	}

	catalog, err := curriculum.Default()
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load curriculum: %w", err)
	}

	tracker := progress.New(catalog,
		progress.WithSnapshots(st.SnapshotRepo()),
		progress.WithEvents(st.EventRepo()),
		progress.WithLogger(log),
	)
	if err := tracker.Restore(contextOf(cmd)); err != nil {
		log.Warn("restore progress", "error", err)
	}

	return &env{store: st, log: log, catalog: catalog, tracker: tracker}, nil
}

// services builds the LLM-backed content and hint services. Both are nil
// when no provider is configured.
func (e *env) services(ctx context.Context) (*lessongen.Service, *tutor.Service) {
	events := e.store.EventRepo()
	provider, err := llm.NewProviderFromEnv(ctx, events, e.log)
	if err != nil {
		if !errors.Is(err, llm.ErrNotConfigured) {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		}
		e.log.Info("running without LLM", "reason", err)
		provider = nil
	}

	// The content service also serves cached and static lessons offline.
	content := lessongen.New(provider, e.catalog,
		lessongen.WithCache(e.store.SegmentCache()),
		lessongen.WithLogger(e.log),
		lessongen.WithLearnerXP(func() int { return e.tracker.Stats().XP }),
	)
	if provider == nil {
		return content, nil
	}
	return content, tutor.New(provider, tutor.WithEvents(events), tutor.WithLogger(e.log))
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, startLevel string) error {
	e, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	if startLevel != "" {
		if _, ok := e.catalog.Level(startLevel); !ok {
			return fmt.Errorf("unknown level %q (see codulingo levels)", startLevel)
		}
	}

	content, hints := e.services(contextOf(cmd))
	return app.Run(app.Options{
		Tracker:    e.tracker,
		Content:    content,
		Tutor:      hints,
		Events:     e.store.EventRepo(),
		Log:        e.log,
		StartLevel: startLevel,
	})
}
