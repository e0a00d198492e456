package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// segmentCache implements SegmentCache.
type segmentCache struct {
	db *sql.DB
}

func (c *segmentCache) Save(ctx context.Context, lvl GeneratedLevel) error {
	created := lvl.CreatedAt
	if created.IsZero() {
		created = now()
	}

	query, args := sqlite().Insert(tableGeneratedSegments).
		Columns("level_id", "model", "xp", "segments", "created_at").
		Values(lvl.LevelID, lvl.Model, lvl.XP, string(lvl.Segments), toMillis(created)).
		OnConflict(
			entsql.ConflictColumns("level_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save generated segments for %s: %w", lvl.LevelID, err)
	}
	return nil
}

func (c *segmentCache) Load(ctx context.Context, levelID string) (*GeneratedLevel, error) {
	query, args := sqlite().
		Select("level_id", "model", "xp", "segments", "created_at").
		From(entsql.Table(tableGeneratedSegments)).
		Where(entsql.EQ("level_id", levelID)).
		Query()

	var (
		lvl      GeneratedLevel
		segments string
		created  int64
	)
	err := c.db.QueryRowContext(ctx, query, args...).
		Scan(&lvl.LevelID, &lvl.Model, &lvl.XP, &segments, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load generated segments for %s: %w", levelID, err)
	}
	lvl.Segments = []byte(segments)
	lvl.CreatedAt = fromMillis(created)
	return &lvl, nil
}

func (c *segmentCache) Clear(ctx context.Context) error {
	query, args := sqlite().Delete(tableGeneratedSegments).Query()
	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear generated segments: %w", err)
	}
	return nil
}
