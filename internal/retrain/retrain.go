// Package retrain rebuilds the classifier from reviewer corrections and swaps
// the new model in without interrupting predictions.
package retrain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"catalognorm/internal/classifier"
	"catalognorm/internal/models"
)

// DefaultMinPairs is the minimum number of training pairs for a retrain.
const DefaultMinPairs = 5

const groupKey = "retrain"

// ErrAlreadyRunning is returned when a retrain is already in progress.
var ErrAlreadyRunning = errors.New("retrain already running")

// PairSource supplies the (original, correction) training pairs.
type PairSource interface {
	GetTrainingPairs(ctx context.Context) ([]models.TrainingPair, error)
}

// RunStore records retrain attempts.
type RunStore interface {
	CreateRetrainRun(ctx context.Context, run *models.RetrainRun) error
	FinishRetrainRun(ctx context.Context, run *models.RetrainRun) error
}

// Config configures a Runner.
type Config struct {
	ArtifactPath string
	MinPairs     int
}

// Runner trains and installs new classifier models. At most one retrain runs
// at a time.
type Runner struct {
	pairs    PairSource
	runs     RunStore
	handle   *classifier.Handle
	path     string
	minPairs int
	logger   *slog.Logger

	group   singleflight.Group
	running atomic.Bool
	wg      sync.WaitGroup

	onFinish func(models.RetrainRun)
}

// NewRunner creates a Runner. runs may be nil when attempts need not be recorded.
func NewRunner(pairs PairSource, runs RunStore, handle *classifier.Handle, cfg Config, logger *slog.Logger) *Runner {
	if cfg.MinPairs <= 0 {
		cfg.MinPairs = DefaultMinPairs
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		pairs:    pairs,
		runs:     runs,
		handle:   handle,
		path:     cfg.ArtifactPath,
		minPairs: cfg.MinPairs,
		logger:   logger,
	}
}

// OnFinish registers a callback invoked with every finished run.
func (r *Runner) OnFinish(fn func(models.RetrainRun)) {
	r.onFinish = fn
}

// Running reports whether a retrain is in progress.
func (r *Runner) Running() bool {
	return r.running.Load()
}

// Retrain runs a retrain synchronously and reports whether a new model was
// installed.
func (r *Runner) Retrain(ctx context.Context) bool {
	run, err := r.Run(ctx)
	return err == nil && run.Status == models.RunSucceeded
}

// Run retrains synchronously. Concurrent callers share one attempt. It returns
// ErrAlreadyRunning while a background retrain started by Start is active.
func (r *Runner) Run(ctx context.Context) (models.RetrainRun, error) {
	v, err, _ := r.group.Do(groupKey, func() (any, error) {
		if !r.running.CompareAndSwap(false, true) {
			return models.RetrainRun{}, ErrAlreadyRunning
		}
		defer r.running.Store(false)
		return r.execute(ctx, uuid.New()), nil
	})
	return v.(models.RetrainRun), err
}

// Start launches a retrain in the background and returns its run id. The
// retrain is not tied to ctx cancellation.
func (r *Runner) Start(ctx context.Context) (uuid.UUID, error) {
	if !r.running.CompareAndSwap(false, true) {
		return uuid.Nil, ErrAlreadyRunning
	}
	id := uuid.New()
	bg := context.WithoutCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.running.Store(false)
		r.execute(bg, id)
	}()
	return id, nil
}

// Wait blocks until background retrains have finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) execute(ctx context.Context, id uuid.UUID) models.RetrainRun {
	run := models.RetrainRun{
		ID:           id,
		Status:       models.RunRunning,
		MinPairs:     r.minPairs,
		ArtifactPath: r.path,
	}
	logger := r.logger.With("run_id", id)

	if r.runs != nil {
		if err := r.runs.CreateRetrainRun(ctx, &run); err != nil {
			logger.Warn("failed to record retrain run", "error", err)
		}
	}

	status, err := r.train(ctx, &run)
	run.Status = status
	if err != nil {
		msg := err.Error()
		run.Error = &msg
		logger.Error("retrain failed, keeping previous model", "error", err)
	}

	switch status {
	case models.RunSkipped:
		logger.Info("retrain skipped", "pairs", run.PairCount, "min_pairs", r.minPairs)
	case models.RunSucceeded:
		logger.Info("retrain succeeded", "pairs", run.PairCount, "path", r.path)
	}

	if r.runs != nil {
		if err := r.runs.FinishRetrainRun(ctx, &run); err != nil {
			logger.Warn("failed to record retrain outcome", "error", err)
		}
	}
	if r.onFinish != nil {
		r.onFinish(run)
	}
	return run
}

func (r *Runner) train(ctx context.Context, run *models.RetrainRun) (string, error) {
	pairs, err := r.pairs.GetTrainingPairs(ctx)
	if err != nil {
		return models.RunFailed, fmt.Errorf("failed to load training pairs: %w", err)
	}
	run.PairCount = len(pairs)
	if len(pairs) < r.minPairs {
		return models.RunSkipped, nil
	}

	model, err := classifier.Train(pairs)
	if err != nil {
		return models.RunFailed, fmt.Errorf("failed to train model: %w", err)
	}
	if err := model.Save(r.path); err != nil {
		return models.RunFailed, err
	}
	r.handle.Swap(model, r.path)
	return models.RunSucceeded, nil
}
