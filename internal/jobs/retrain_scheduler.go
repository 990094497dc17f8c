package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"catalognorm/internal/models"
	"catalognorm/internal/retrain"
)

// Retrainer runs one synchronous retrain.
type Retrainer interface {
	Run(ctx context.Context) (models.RetrainRun, error)
}

// RetrainScheduler periodically retrains the classifier from accumulated
// feedback.
type RetrainScheduler struct {
	retrainer Retrainer
	interval  time.Duration
	logger    *slog.Logger
}

// NewRetrainScheduler creates a new retrain scheduler.
func NewRetrainScheduler(retrainer Retrainer, interval time.Duration, logger *slog.Logger) *RetrainScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetrainScheduler{retrainer: retrainer, interval: interval, logger: logger}
}

// Start runs the retrain loop until ctx is done. Unlike a manual trigger it
// does not run immediately; the first retrain happens after one interval.
func (s *RetrainScheduler) Start(ctx context.Context) {
	s.logger.Info("retrain scheduler started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("retrain scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *RetrainScheduler) tick(ctx context.Context) {
	run, err := s.retrainer.Run(ctx)
	if errors.Is(err, retrain.ErrAlreadyRunning) {
		s.logger.Debug("scheduled retrain skipped, another retrain is running")
		return
	}
	if err != nil {
		s.logger.Error("scheduled retrain failed", "error", err)
		return
	}
	s.logger.Debug("scheduled retrain finished", "run_id", run.ID, "status", run.Status)
}
