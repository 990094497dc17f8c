package db

import (
	"context"

	"catalognorm/internal/models"
)

// IncrementStageCount adds n to the outcome counter for a waterfall stage.
func (d *DB) IncrementStageCount(ctx context.Context, stage models.Stage, n int64) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO stage_counts (stage, count, last_seen_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (stage) DO UPDATE
		SET count = stage_counts.count + EXCLUDED.count, last_seen_at = NOW()
	`, stage, n)
	return err
}

// GetStageCounts returns all stage counters for metrics export.
func (d *DB) GetStageCounts(ctx context.Context) ([]models.StageCount, error) {
	rows, err := d.Pool.Query(ctx, `SELECT stage, count, last_seen_at FROM stage_counts ORDER BY stage`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.StageCount
	for rows.Next() {
		var c models.StageCount
		if err := rows.Scan(&c.Stage, &c.Count, &c.LastSeenAt); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
