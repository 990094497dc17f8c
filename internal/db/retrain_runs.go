package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"catalognorm/internal/models"
)

const retrainRunColumns = `id, status, pair_count, min_pairs, artifact_path, error, started_at, finished_at`

func scanRetrainRun(row pgx.Row) (*models.RetrainRun, error) {
	var r models.RetrainRun
	err := row.Scan(&r.ID, &r.Status, &r.PairCount, &r.MinPairs, &r.ArtifactPath, &r.Error, &r.StartedAt, &r.FinishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRetrainRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRetrainRun records the start of a retrain attempt.
func (d *DB) CreateRetrainRun(ctx context.Context, run *models.RetrainRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.Status == "" {
		run.Status = models.RunRunning
	}
	return d.Pool.QueryRow(ctx, `
		INSERT INTO retrain_runs (id, status, pair_count, min_pairs, artifact_path)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING started_at
	`, run.ID, run.Status, run.PairCount, run.MinPairs, run.ArtifactPath).Scan(&run.StartedAt)
}

// FinishRetrainRun stores the terminal status of a run.
func (d *DB) FinishRetrainRun(ctx context.Context, run *models.RetrainRun) error {
	err := d.Pool.QueryRow(ctx, `
		UPDATE retrain_runs
		SET status = $1, pair_count = $2, error = $3, finished_at = NOW()
		WHERE id = $4
		RETURNING finished_at
	`, run.Status, run.PairCount, run.Error, run.ID).Scan(&run.FinishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrRetrainRunNotFound
	}
	return err
}

// GetRetrainRun retrieves a run by id.
func (d *DB) GetRetrainRun(ctx context.Context, id uuid.UUID) (*models.RetrainRun, error) {
	return scanRetrainRun(d.Pool.QueryRow(ctx, `SELECT `+retrainRunColumns+` FROM retrain_runs WHERE id = $1`, id))
}

// ListRetrainRuns returns the most recent runs first.
func (d *DB) ListRetrainRuns(ctx context.Context, limit int) ([]models.RetrainRun, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT `+retrainRunColumns+` FROM retrain_runs
		ORDER BY started_at DESC
		LIMIT NULLIF($1, 0)
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []models.RetrainRun{}
	for rows.Next() {
		r, err := scanRetrainRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}
