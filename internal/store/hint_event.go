package store

import (
	"context"
	"fmt"
)

func (r *eventRepo) AppendHintEvent(ctx context.Context, data HintEventData) error {
	err := r.insertEvent(ctx, tableHintEvents,
		[]string{"session_id", "question_id", "question_text", "context", "hint_text", "fallback"},
		[]any{data.SessionID, data.QuestionID, data.QuestionText, data.Context, data.HintText, data.Fallback},
	)
	if err != nil {
		return fmt.Errorf("save hint event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryHintEvents(ctx context.Context, opts QueryOpts) ([]HintEventRecord, error) {
	query, args := eventQuery(tableHintEvents, opts,
		"session_id", "question_id", "question_text", "context", "hint_text", "fallback",
	).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query hint events: %w", err)
	}
	defer rows.Close()

	var records []HintEventRecord
	for rows.Next() {
		var (
			rec HintEventRecord
			ts  int64
		)
		err := rows.Scan(&rec.ID, &rec.Sequence, &ts,
			&rec.SessionID, &rec.QuestionID, &rec.QuestionText, &rec.Context, &rec.HintText, &rec.Fallback,
		)
		if err != nil {
			return nil, fmt.Errorf("scan hint event: %w", err)
		}
		rec.Timestamp = fromMillis(ts)
		records = append(records, rec)
	}
	return records, rows.Err()
}
