package models

import (
	"time"

	"github.com/google/uuid"
)

// Retrain run status constants
const (
	RunRunning   = "running"
	RunSucceeded = "succeeded"
	RunSkipped   = "skipped"
	RunFailed    = "failed"
)

// RetrainRun records one attempt to retrain the normalization model.
type RetrainRun struct {
	ID           uuid.UUID  `json:"id"`
	Status       string     `json:"status"`
	PairCount    int        `json:"pair_count"`
	MinPairs     int        `json:"min_pairs"`
	ArtifactPath string     `json:"artifact_path"`
	Error        *string    `json:"error,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at"`
}

// IsFinished reports whether the run reached a terminal status.
func (r *RetrainRun) IsFinished() bool {
	return r.Status == RunSucceeded || r.Status == RunSkipped || r.Status == RunFailed
}
