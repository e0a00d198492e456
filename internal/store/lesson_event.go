package store

import (
	"context"
	"fmt"
)

func (r *eventRepo) AppendLessonEvent(ctx context.Context, data LessonEventData) error {
	err := r.insertEvent(ctx, tableLessonEvents,
		[]string{
			"session_id", "level_id", "level_title", "score", "first_try_correct",
			"challenges", "lives_lost", "xp_gained", "gems_gained", "perfect",
			"served", "duration_ms",
		},
		[]any{
			data.SessionID, data.LevelID, data.LevelTitle, data.Score, data.FirstTryCorrect,
			data.Challenges, data.LivesLost, data.XPGained, data.GemsGained, data.Perfect,
			data.Served, data.DurationMs,
		},
	)
	if err != nil {
		return fmt.Errorf("save lesson event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLessonEvents(ctx context.Context, opts QueryOpts) ([]LessonEventRecord, error) {
	query, args := eventQuery(tableLessonEvents, opts,
		"session_id", "level_id", "level_title", "score", "first_try_correct",
		"challenges", "lives_lost", "xp_gained", "gems_gained", "perfect",
		"served", "duration_ms",
	).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query lesson events: %w", err)
	}
	defer rows.Close()

	var records []LessonEventRecord
	for rows.Next() {
		var (
			rec LessonEventRecord
			ts  int64
		)
		err := rows.Scan(&rec.ID, &rec.Sequence, &ts,
			&rec.SessionID, &rec.LevelID, &rec.LevelTitle, &rec.Score, &rec.FirstTryCorrect,
			&rec.Challenges, &rec.LivesLost, &rec.XPGained, &rec.GemsGained, &rec.Perfect,
			&rec.Served, &rec.DurationMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan lesson event: %w", err)
		}
		rec.Timestamp = fromMillis(ts)
		records = append(records, rec)
	}
	return records, rows.Err()
}
