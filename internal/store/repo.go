package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// SnapshotData captures the full learner state at a point in time.
type SnapshotData struct {
	Version int `json:"version"`

	Stats        *StatsSnapshotData           `json:"stats,omitempty"`
	Levels       map[string]LevelSnapshotData `json:"levels,omitempty"`
	Quests       *QuestSnapshotData           `json:"quests,omitempty"`
	Achievements []string                     `json:"achievements,omitempty"`
}

// StatsSnapshotData is the learner's counters.
type StatsSnapshotData struct {
	Name       string    `json:"name"`
	XP         int       `json:"xp"`
	Gems       int       `json:"gems"`
	Hearts     int       `json:"hearts"`
	Streak     int       `json:"streak"`
	Pro        bool      `json:"pro"`
	LastActive time.Time `json:"last_active"`
	LastRefill time.Time `json:"last_refill"`
}

// LevelSnapshotData is the runtime state of one level.
type LevelSnapshotData struct {
	Unlocked  bool `json:"unlocked"`
	Completed bool `json:"completed"`
	Stars     int  `json:"stars"`
}

// QuestSnapshotData is the daily quest board.
type QuestSnapshotData struct {
	Day     string           `json:"day"` // YYYY-MM-DD, local time
	Entries []QuestEntryData `json:"entries"`
}

// QuestEntryData is the progress on one daily quest.
type QuestEntryData struct {
	ID        string `json:"id"`
	Progress  int    `json:"progress"`
	Completed bool   `json:"completed"`
}

// Snapshot represents a point-in-time capture of learner state.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages learner state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

// LessonEventData records one finished lesson.
type LessonEventData struct {
	SessionID       string
	LevelID         string
	LevelTitle      string
	Score           int
	FirstTryCorrect int
	Challenges      int
	LivesLost       int
	XPGained        int
	GemsGained      int
	Perfect         bool
	Served          int
	DurationMs      int64
}

// LessonEventRecord is a stored lesson event.
type LessonEventRecord struct {
	LessonEventData
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// HintEventData records one tutor hint.
type HintEventData struct {
	SessionID    string
	QuestionID   string
	QuestionText string
	Context      string
	HintText     string
	Fallback     bool
}

// HintEventRecord is a stored hint event.
type HintEventRecord struct {
	HintEventData
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	Subject      string // level ID for lesson-gen, question ID for hint
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	LLMRequestEventData
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// LLMUsage aggregates token usage for one purpose, model or subject.
type LLMUsage struct {
	Purpose      string `sql:"purpose"`
	Model        string `sql:"model"`
	Subject      string `sql:"subject"`
	Calls        int    `sql:"calls"`
	InputTokens  int    `sql:"input_tokens"`
	OutputTokens int    `sql:"output_tokens"`
	AvgLatencyMs int64  `sql:"avg_latency_ms"`
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLessonEvent records a finished lesson.
	AppendLessonEvent(ctx context.Context, data LessonEventData) error

	// AppendHintEvent records a tutor hint.
	AppendHintEvent(ctx context.Context, data HintEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLessonEvents returns lesson events, newest first.
	QueryLessonEvents(ctx context.Context, opts QueryOpts) ([]LessonEventRecord, error)

	// QueryHintEvents returns hint events, newest first.
	QueryHintEvents(ctx context.Context, opts QueryOpts) ([]HintEventRecord, error)

	// QueryLLMEvents returns LLM request events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one LLM request event, or nil if absent.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// LLMUsageByPurpose aggregates LLM usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates LLM usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageBySubject aggregates usage for one purpose per subject and
	// model.
	LLMUsageBySubject(ctx context.Context, purpose string) ([]LLMUsage, error)
}

// GeneratedLevel is the cached generated content of one level.
type GeneratedLevel struct {
	LevelID   string
	Model     string
	XP        int
	Segments  []byte // JSON-encoded segment list
	CreatedAt time.Time
}

// SegmentCache persists generated lesson content keyed by level ID.
type SegmentCache interface {
	// Save stores or replaces the content for a level.
	Save(ctx context.Context, lvl GeneratedLevel) error

	// Load returns the cached content for a level, or nil if absent.
	Load(ctx context.Context, levelID string) (*GeneratedLevel, error)

	// Clear removes all cached content.
	Clear(ctx context.Context) error
}
