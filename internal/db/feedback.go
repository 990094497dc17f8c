package db

import (
	"context"
	"fmt"
	"strings"

	"catalognorm/internal/models"
)

// RecordFeedback appends a feedback row and applies it to the product in one
// transaction. A non-empty correction replaces the normalized value; either
// way the product leaves the review queue. Returns ErrProductNotFound for an
// unknown product.
func (d *DB) RecordFeedback(ctx context.Context, fb *models.Feedback) error {
	if fb.Correction != nil {
		trimmed := strings.TrimSpace(*fb.Correction)
		if trimmed == "" {
			fb.Correction = nil
		} else {
			fb.Correction = &trimmed
		}
	}

	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE products
		SET normalized_value = COALESCE($1, normalized_value),
		    needs_review = FALSE,
		    updated_at = NOW()
		WHERE id = $2
	`, fb.Correction, fb.ProductID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO feedback (product_id, is_approved, correction)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, fb.ProductID, fb.IsApproved, fb.Correction).Scan(&fb.ID, &fb.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}

	return tx.Commit(ctx)
}

// GetFeedbackForProduct returns every feedback row for a product, oldest first.
func (d *DB) GetFeedbackForProduct(ctx context.Context, productID int64) ([]models.Feedback, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, product_id, is_approved, correction, created_at
		FROM feedback WHERE product_id = $1
		ORDER BY id
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Feedback
	for rows.Next() {
		var f models.Feedback
		if err := rows.Scan(&f.ID, &f.ProductID, &f.IsApproved, &f.Correction, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetTrainingPairs returns (original text, correction) pairs for every
// feedback row carrying a correction, in submission order.
func (d *DB) GetTrainingPairs(ctx context.Context) ([]models.TrainingPair, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT p.text, f.correction
		FROM feedback f
		JOIN products p ON p.id = f.product_id
		WHERE f.correction IS NOT NULL
		  AND btrim(f.correction) <> ''
		  AND btrim(p.text) <> ''
		ORDER BY f.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pairs := []models.TrainingPair{}
	for rows.Next() {
		var p models.TrainingPair
		if err := rows.Scan(&p.Original, &p.Correction); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}
