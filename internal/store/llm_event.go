package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
)

var llmEventColumns = []string{
	"provider", "model", "purpose", "subject", "input_tokens", "output_tokens", "latency_ms",
	"success", "error_message", "request_body", "response_body",
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	err := r.insertEvent(ctx, tableLLMRequestEvents, llmEventColumns,
		[]any{
			data.Provider, data.Model, data.Purpose, data.Subject, data.InputTokens, data.OutputTokens, data.LatencyMs,
			data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody,
		},
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error) {
	query, args := eventQuery(tableLLMRequestEvents, opts, llmEventColumns...).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var records []LLMRequestEventRecord
	for rows.Next() {
		rec, err := scanLLMEvent(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error) {
	query, args := eventQuery(tableLLMRequestEvents, QueryOpts{Limit: 1}, llmEventColumns...).
		Where(entsql.EQ("id", id)).
		Query()

	rec, err := scanLLMEvent(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	return r.llmUsage(ctx, "", "purpose")
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return r.llmUsage(ctx, "", "model")
}

func (r *eventRepo) LLMUsageBySubject(ctx context.Context, purpose string) ([]LLMUsage, error) {
	return r.llmUsage(ctx, purpose, "subject", "model")
}

// llmUsage aggregates calls, tokens and latency grouped by the given
// columns, optionally for one purpose only.
func (r *eventRepo) llmUsage(ctx context.Context, purpose string, groupBy ...string) ([]LLMUsage, error) {
	sel := sqlite().
		Select(append(slices.Clone(groupBy),
			entsql.As(entsql.Count("*"), "calls"),
			entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
			entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
			entsql.As("CAST(AVG(`latency_ms`) AS INTEGER)", "avg_latency_ms"),
		)...).
		From(entsql.Table(tableLLMRequestEvents)).
		GroupBy(groupBy...).
		OrderBy(entsql.Desc("calls"), groupBy[0])
	if purpose != "" {
		sel = sel.Where(entsql.EQ("purpose", purpose))
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM usage by %s: %w", strings.Join(groupBy, ", "), err)
	}
	defer rows.Close()

	var usage []LLMUsage
	if err := entsql.ScanSlice(rows, &usage); err != nil {
		return nil, fmt.Errorf("scan LLM usage: %w", err)
	}
	return usage, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLLMEvent(row rowScanner) (*LLMRequestEventRecord, error) {
	var (
		rec LLMRequestEventRecord
		ts  int64
	)
	err := row.Scan(&rec.ID, &rec.Sequence, &ts,
		&rec.Provider, &rec.Model, &rec.Purpose, &rec.Subject, &rec.InputTokens, &rec.OutputTokens, &rec.LatencyMs,
		&rec.Success, &rec.ErrorMessage, &rec.RequestBody, &rec.ResponseBody,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan LLM event: %w", err)
	}
	rec.Timestamp = fromMillis(ts)
	return &rec, nil
}
