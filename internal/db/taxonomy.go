package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"catalognorm/internal/models"
)

// ReplaceTaxonomy swaps the whole taxonomy reference set for entries, keeping
// their order. Returns the number of rows loaded.
func (d *DB) ReplaceTaxonomy(ctx context.Context, entries []models.TaxonomyEntry) (int64, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE taxonomy_reference RESTART IDENTITY`); err != nil {
		return 0, fmt.Errorf("failed to clear taxonomy: %w", err)
	}

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"taxonomy_reference"},
		[]string{"taxonomy_id", "path", "label"},
		pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
			e := entries[i]
			return []any{e.TaxonomyID, e.Path, e.Label}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to load taxonomy: %w", err)
	}

	return n, tx.Commit(ctx)
}

// TaxonomyEntries implements normalize.TaxonomySource. Entries come back in
// insertion order.
func (d *DB) TaxonomyEntries(ctx context.Context) ([]models.TaxonomyEntry, error) {
	rows, err := d.Pool.Query(ctx, `SELECT id, taxonomy_id, path, label FROM taxonomy_reference ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.TaxonomyEntry
	for rows.Next() {
		var e models.TaxonomyEntry
		if err := rows.Scan(&e.ID, &e.TaxonomyID, &e.Path, &e.Label); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
