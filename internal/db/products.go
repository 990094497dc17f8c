package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"catalognorm/internal/models"
)

// productColumns is the standard column list for product queries.
const productColumns = `id, text, normalized_value, confidence, needs_review, source_stage, created_at, updated_at`

// scanProduct scans a row into a Product struct.
func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID,
		&p.Text,
		&p.NormalizedValue,
		&p.Confidence,
		&p.NeedsReview,
		&p.SourceStage,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// scanProducts scans multiple rows into a slice of Products.
func scanProducts(rows pgx.Rows) ([]models.Product, error) {
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID,
			&p.Text,
			&p.NormalizedValue,
			&p.Confidence,
			&p.NeedsReview,
			&p.SourceStage,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CreateProduct persists a freshly normalized product.
func (d *DB) CreateProduct(ctx context.Context, p *models.Product) error {
	stage := p.SourceStage
	if stage == "" {
		stage = models.StageNone
	}

	err := d.Pool.QueryRow(ctx, `
		INSERT INTO products (text, normalized_value, confidence, needs_review, source_stage)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, p.Text, p.NormalizedValue, p.Confidence, p.NeedsReview, stage).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	p.SourceStage = stage
	return nil
}

// GetProductByID retrieves a product by id.
func (d *DB) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	return scanProduct(d.Pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

// ListProducts returns products newest first. A limit of 0 returns every row.
func (d *DB) ListProducts(ctx context.Context, limit int) ([]models.Product, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT `+productColumns+` FROM products
		ORDER BY created_at DESC, id DESC
		LIMIT NULLIF($1, 0)
	`, limit)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

// GetPendingProducts returns products awaiting review, oldest first.
func (d *DB) GetPendingProducts(ctx context.Context, limit int) ([]models.Product, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE needs_review
		ORDER BY created_at ASC, id ASC
		LIMIT NULLIF($1, 0)
	`, limit)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

// CountPendingProducts returns the review queue depth.
func (d *DB) CountPendingProducts(ctx context.Context) (int64, error) {
	var n int64
	err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE needs_review`).Scan(&n)
	return n, err
}
