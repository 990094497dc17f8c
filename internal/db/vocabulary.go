package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"catalognorm/internal/models"
	"catalognorm/internal/normalize"
)

// UpsertVocabulary inserts a vocabulary entry or replaces the mapping of an
// existing token. The token is stored case-folded.
func (d *DB) UpsertVocabulary(ctx context.Context, e *models.VocabularyEntry) error {
	e.Token = normalize.Fold(e.Token)
	if e.Source == "" {
		e.Source = models.SourceAPI
	}

	err := d.Pool.QueryRow(ctx, `
		INSERT INTO vocabulary (token, normalized, category, source)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token) DO UPDATE
		SET normalized = EXCLUDED.normalized,
		    category = EXCLUDED.category,
		    source = EXCLUDED.source,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, e.Token, e.Normalized, e.Category, e.Source).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert vocabulary %q: %w", e.Token, err)
	}
	return nil
}

// LookupVocabulary implements normalize.VocabularyLookup.
func (d *DB) LookupVocabulary(ctx context.Context, token string) (normalize.VocabularyMatch, bool, error) {
	var m normalize.VocabularyMatch
	err := d.Pool.QueryRow(ctx, `
		SELECT normalized, category FROM vocabulary WHERE token = $1
	`, token).Scan(&m.Normalized, &m.Category)
	if errors.Is(err, pgx.ErrNoRows) {
		return normalize.VocabularyMatch{}, false, nil
	}
	if err != nil {
		return normalize.VocabularyMatch{}, false, err
	}
	return m, true, nil
}

// ListVocabulary returns every vocabulary entry ordered by token.
func (d *DB) ListVocabulary(ctx context.Context) ([]models.VocabularyEntry, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, token, normalized, category, source, created_at, updated_at
		FROM vocabulary ORDER BY token
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.VocabularyEntry{}
	for rows.Next() {
		var e models.VocabularyEntry
		if err := rows.Scan(&e.ID, &e.Token, &e.Normalized, &e.Category, &e.Source, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteVocabulary removes the entry for token.
func (d *DB) DeleteVocabulary(ctx context.Context, token string) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM vocabulary WHERE token = $1`, normalize.Fold(token))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrVocabularyEntryNotFound
	}
	return nil
}
