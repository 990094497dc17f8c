package jobs

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"catalognorm/internal/models"
	"catalognorm/internal/retrain"
)

type countingRetrainer struct {
	calls atomic.Int64
	err   error
}

func (c *countingRetrainer) Run(context.Context) (models.RetrainRun, error) {
	c.calls.Add(1)
	return models.RetrainRun{Status: models.RunSkipped}, c.err
}

func TestRetrainScheduler_TicksUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := &countingRetrainer{}
	s := NewRetrainScheduler(r, 5*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for r.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("scheduler did not tick")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	<-done
}

func TestRetrainScheduler_ToleratesRunningRetrain(t *testing.T) {
	r := &countingRetrainer{err: retrain.ErrAlreadyRunning}
	s := NewRetrainScheduler(r, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))

	s.tick(context.Background())

	if got := r.calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}
