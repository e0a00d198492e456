package lessongen

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/codulingo/internal/curriculum"
	"github.com/abhisek/codulingo/internal/llm"
	"github.com/abhisek/codulingo/internal/store"
)

func testCatalog() *curriculum.Catalog {
	return curriculum.New(curriculum.Unit{
		ID:    "u1",
		Title: "Basics",
		Levels: []curriculum.Level{
			{
				ID:    "static",
				Title: "Tags",
				Segments: []curriculum.Segment{
					{ID: "s1", Kind: curriculum.KindExplanation, Content: "Tags come in pairs"},
				},
			},
			{ID: "lists", Title: "Lists", Description: "ul, ol and li"},
		},
	})
}

func openCache(t *testing.T) store.SegmentCache {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "lessons.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s.SegmentCache()
}

func mockLesson() llm.MockResponse {
	return llm.MockResponse{Content: json.RawMessage(generatedLesson)}
}

func TestLoadSegments_Static(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := New(mock, testCatalog())

	segs := svc.LoadSegments(context.Background(), "static")
	require.Len(t, segs, 1)
	assert.Equal(t, "s1", segs[0].ID)
	assert.Zero(t, mock.CallCount(), "static content must not hit the LLM")
}

func TestLoadSegments_GeneratesAndCaches(t *testing.T) {
	cache := openCache(t)
	catalog := testCatalog()
	mock := llm.NewMockProvider(mockLesson())
	svc := New(mock, catalog,
		WithCache(cache),
		WithLearnerXP(func() int { return 250 }),
		WithIDFunc(seqIDs()),
	)

	ctx := context.Background()
	segs := svc.LoadSegments(ctx, "lists")
	require.Len(t, segs, 4)

	req, ok := mock.LastCall()
	require.True(t, ok)
	assert.Same(t, SegmentsSchema, req.Schema)
	assert.Contains(t, req.System, `"Lists"`)
	assert.Contains(t, req.Messages[0].Content, "ul, ol and li")
	assert.Contains(t, req.Messages[0].Content, "Learner XP: 250 (knows the basics)")
	assert.Equal(t, DefaultConfig().Temperature, req.Temperature)

	// Cached onto the catalog by level ID.
	lvl, _ := catalog.Level("lists")
	assert.Equal(t, segs, lvl.Segments)

	// A second call is served from memory.
	again := svc.LoadSegments(ctx, "lists")
	assert.Equal(t, segs, again)
	assert.Equal(t, 1, mock.CallCount())

	stored, err := cache.Load(ctx, "lists")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "mock", stored.Model)
	assert.Equal(t, 250, stored.XP)
}

func TestLoadSegments_FromPersistentCache(t *testing.T) {
	cache := openCache(t)
	ctx := context.Background()

	first := New(llm.NewMockProvider(mockLesson()), testCatalog(), WithCache(cache))
	want := first.LoadSegments(ctx, "lists")
	require.NotEmpty(t, want)

	// A fresh catalog and a provider with no responses: the cache must
	// answer.
	mock := llm.NewMockProvider()
	second := New(mock, testCatalog(), WithCache(cache))
	got := second.LoadSegments(ctx, "lists")
	assert.Equal(t, want, got)
	assert.Zero(t, mock.CallCount())
}

func TestLoadSegments_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown level", func(t *testing.T) {
		assert.Nil(t, New(llm.NewMockProvider(mockLesson()), testCatalog()).LoadSegments(ctx, "nope"))
	})

	t.Run("no provider", func(t *testing.T) {
		svc := New(nil, testCatalog())
		assert.False(t, svc.Available())
		assert.Nil(t, svc.LoadSegments(ctx, "lists"))
	})

	t.Run("provider error", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
		catalog := testCatalog()
		assert.Nil(t, New(mock, catalog).LoadSegments(ctx, "lists"))

		lvl, _ := catalog.Level("lists")
		assert.Empty(t, lvl.Segments, "failures are not cached")
	})

	t.Run("nothing playable", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockJSON(map[string]any{"segments": []any{}}))
		assert.Nil(t, New(mock, testCatalog()).LoadSegments(ctx, "lists"))
	})
}

func TestLoadSegments_ConcurrentCallsShareGeneration(t *testing.T) {
	hold := make(chan struct{})
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(generatedLesson), Wait: hold})
	svc := New(mock, testCatalog())

	var wg sync.WaitGroup
	results := make([][]curriculum.Segment, 2)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = svc.LoadSegments(context.Background(), "lists")
		}()
	}
	// Whether the second caller joins the flight or finds the catalog
	// filled, it must not trigger another generation.
	for mock.CallCount() == 0 {
		time.Sleep(time.Millisecond)
	}
	close(hold)
	wg.Wait()

	assert.Equal(t, 1, mock.CallCount())
	for _, r := range results {
		assert.Len(t, r, 4)
	}
}

func TestLoadSegments_CancelledCallerDoesNotStarveOthers(t *testing.T) {
	hold := make(chan struct{})
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(generatedLesson), Wait: hold})
	svc := New(mock, testCatalog())

	ctx1, cancel1 := context.WithCancel(context.Background())
	first := make(chan []curriculum.Segment, 1)
	go func() { first <- svc.LoadSegments(ctx1, "lists") }()
	for mock.CallCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	second := make(chan []curriculum.Segment, 1)
	go func() { second <- svc.LoadSegments(context.Background(), "lists") }()

	cancel1()
	if got := <-first; got != nil {
		t.Errorf("cancelled caller got %d segments, want none", len(got))
	}
	close(hold)

	select {
	case got := <-second:
		assert.Len(t, got, 4)
	case <-time.After(5 * time.Second):
		t.Fatal("second caller never returned")
	}
	assert.Equal(t, 1, mock.CallCount())

	segs := svc.LoadSegments(context.Background(), "lists")
	assert.Len(t, segs, 4, "the generated lesson should be kept after the first caller left")
}

func TestLoadSegments_FlightTimeout(t *testing.T) {
	hold := make(chan struct{})
	defer close(hold)
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(generatedLesson), Wait: hold})
	cfg := DefaultConfig()
	cfg.Timeout = 20 * time.Millisecond
	svc := New(mock, testCatalog(), WithConfig(cfg))

	segs := svc.LoadSegments(context.Background(), "lists")
	assert.Empty(t, segs)
}

func TestGenerateSegments_ExperienceLabel(t *testing.T) {
	tests := []struct {
		xp   int
		want string
	}{
		{0, "complete beginner"},
		{99, "complete beginner"},
		{100, "knows the basics"},
		{600, "experienced"},
	}
	for _, tt := range tests {
		assert.Contains(t, experienceLabel(tt.xp), tt.want, "xp %d", tt.xp)
	}
}
