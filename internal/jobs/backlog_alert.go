package jobs

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"catalognorm/internal/models"
)

// backlogSampleSize is how many of the oldest pending products go in an alert.
const backlogSampleSize = 10

// QueueReader reads the review queue.
type QueueReader interface {
	CountPendingProducts(ctx context.Context) (int64, error)
	GetPendingProducts(ctx context.Context, limit int) ([]models.Product, error)
}

// BacklogNotifier delivers backlog alerts.
type BacklogNotifier interface {
	NotifyReviewBacklog(pending int64, threshold int, oldest []models.Product)
}

// BacklogAlert periodically checks the review queue and notifies reviewers
// when it reaches the alert size. It alerts once per crossing and re-arms
// after the queue drops below the size again.
type BacklogAlert struct {
	queue     QueueReader
	notifier  BacklogNotifier
	threshold int
	interval  time.Duration
	logger    *slog.Logger

	alerted atomic.Bool
}

// NewBacklogAlert creates a new backlog alert job.
func NewBacklogAlert(queue QueueReader, notifier BacklogNotifier, threshold int, interval time.Duration, logger *slog.Logger) *BacklogAlert {
	if logger == nil {
		logger = slog.Default()
	}
	return &BacklogAlert{
		queue:     queue,
		notifier:  notifier,
		threshold: threshold,
		interval:  interval,
		logger:    logger,
	}
}

// Start runs the check loop until ctx is done. The first check runs immediately.
func (b *BacklogAlert) Start(ctx context.Context) {
	b.logger.Info("backlog alert started", "threshold", b.threshold, "interval", b.interval)

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	b.check(ctx)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("backlog alert stopped")
			return
		case <-ticker.C:
			b.check(ctx)
		}
	}
}

func (b *BacklogAlert) check(ctx context.Context) {
	pending, err := b.queue.CountPendingProducts(ctx)
	if err != nil {
		b.logger.Error("failed to count review queue", "error", err)
		return
	}

	if pending < int64(b.threshold) {
		b.alerted.Store(false)
		return
	}
	if b.alerted.Load() {
		return
	}

	oldest, err := b.queue.GetPendingProducts(ctx, backlogSampleSize)
	if err != nil {
		b.logger.Warn("failed to load oldest pending products", "error", err)
	}

	b.logger.Warn("review backlog over alert size", "pending", pending, "threshold", b.threshold)
	b.notifier.NotifyReviewBacklog(pending, b.threshold, oldest)
	b.alerted.Store(true)
}
