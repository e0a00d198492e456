package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Table names.
const (
	tableSnapshots         = "snapshots"
	tableLessonEvents      = "lesson_events"
	tableHintEvents        = "hint_events"
	tableLLMRequestEvents  = "llm_request_events"
	tableGeneratedSegments = "generated_segments"
)

// Timestamps are stored as unix milliseconds (UTC).
var schema = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL,
		timestamp INTEGER NOT NULL,
		data TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS snapshots_timestamp ON snapshots (timestamp)`,

	`CREATE TABLE IF NOT EXISTS lesson_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		session_id TEXT NOT NULL,
		level_id TEXT NOT NULL,
		level_title TEXT NOT NULL DEFAULT '',
		score INTEGER NOT NULL,
		first_try_correct INTEGER NOT NULL,
		challenges INTEGER NOT NULL,
		lives_lost INTEGER NOT NULL,
		xp_gained INTEGER NOT NULL,
		gems_gained INTEGER NOT NULL,
		perfect BOOLEAN NOT NULL,
		served INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS hint_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		session_id TEXT NOT NULL DEFAULT '',
		question_id TEXT NOT NULL,
		question_text TEXT NOT NULL,
		context TEXT NOT NULL,
		hint_text TEXT NOT NULL,
		fallback BOOLEAN NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		subject TEXT NOT NULL DEFAULT '',
		input_tokens INTEGER NOT NULL,
		output_tokens INTEGER NOT NULL,
		latency_ms INTEGER NOT NULL,
		success BOOLEAN NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS generated_segments (
		level_id TEXT PRIMARY KEY,
		model TEXT NOT NULL DEFAULT '',
		xp INTEGER NOT NULL,
		segments TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
}

// addedColumns are columns introduced after a table first shipped. They are
// added to databases created before them.
var addedColumns = []struct {
	table, column, def string
}{
	{tableLLMRequestEvents, "subject", "TEXT NOT NULL DEFAULT ''"},
}

// migrate creates any missing tables and columns. Statements are idempotent.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	for _, c := range addedColumns {
		var n int
		err := db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", c.table, c.column).Scan(&n)
		if err != nil {
			return fmt.Errorf("migrate: inspect %s: %w", c.table, err)
		}
		if n > 0 {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", c.table, c.column, c.def)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: add %s.%s: %w", c.table, c.column, err)
		}
	}
	return nil
}
