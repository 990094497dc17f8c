package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"catalognorm/internal/models"
)

const scrapeTimeout = 5 * time.Second

var (
	stageOutcomeDesc = prometheus.NewDesc(
		"catalognorm_normalizations_total",
		"Total persisted normalization outcomes by waterfall stage",
		[]string{"stage"},
		nil,
	)
	reviewQueueDesc = prometheus.NewDesc(
		"catalognorm_review_queue_depth",
		"Products currently awaiting human review",
		nil,
		nil,
	)

	retrainRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalognorm_retrain_runs_total",
		Help: "Retrain attempts by final status",
	}, []string{"status"})

	feedbackSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalognorm_feedback_total",
		Help: "Feedback submissions by kind",
	}, []string{"kind"})
)

// Store is the persistence the collector and recorder need.
type Store interface {
	IncrementStageCount(ctx context.Context, stage models.Stage, n int64) error
	GetStageCounts(ctx context.Context) ([]models.StageCount, error)
	CountPendingProducts(ctx context.Context) (int64, error)
}

// CatalogCollector is a custom Prometheus collector that reads stage counts and
// the review queue depth from the database on each scrape.
type CatalogCollector struct {
	store Store
}

// NewCatalogCollector creates a collector over store.
func NewCatalogCollector(store Store) *CatalogCollector {
	return &CatalogCollector{store: store}
}

// Describe sends the metric descriptors to the channel.
func (c *CatalogCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- stageOutcomeDesc
	ch <- reviewQueueDesc
}

// Collect queries the database and emits the stage counters and queue gauge.
func (c *CatalogCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), scrapeTimeout)
	defer cancel()

	counts, err := c.store.GetStageCounts(ctx)
	if err != nil {
		slog.Error("failed to collect stage count metrics", "error", err)
	}
	for _, sc := range counts {
		ch <- prometheus.MustNewConstMetric(
			stageOutcomeDesc,
			prometheus.CounterValue,
			float64(sc.Count),
			string(sc.Stage),
		)
	}

	pending, err := c.store.CountPendingProducts(ctx)
	if err != nil {
		slog.Error("failed to collect review queue metric", "error", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(reviewQueueDesc, prometheus.GaugeValue, float64(pending))
}

// Recorder writes stage outcome counts through to the store.
type Recorder struct {
	store Store
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// Init registers the collectors and initializes the recorder.
// Must be called once at startup.
func Init(store Store) {
	recorderOnce.Do(func() {
		recorder = &Recorder{store: store}
		prometheus.MustRegister(NewCatalogCollector(store), retrainRuns, feedbackSubmissions)
	})
}

// RecordStages adds one batch of per-stage product counts, one store write
// per stage. Failures are logged and do not affect the batch.
func RecordStages(ctx context.Context, stages map[models.Stage]int) {
	if recorder == nil {
		return
	}
	for stage, n := range stages {
		if n <= 0 {
			continue
		}
		if err := recorder.store.IncrementStageCount(ctx, stage, int64(n)); err != nil {
			slog.Error("failed to record stage outcomes", "stage", stage, "count", n, "error", err)
		}
	}
}

// RecordRetrain counts a finished retrain run.
func RecordRetrain(run models.RetrainRun) {
	retrainRuns.WithLabelValues(run.Status).Inc()
}

// RecordFeedback counts a feedback submission as a correction or an approval.
func RecordFeedback(fb models.Feedback) {
	kind := "approval"
	if fb.HasCorrection() {
		kind = "correction"
	}
	feedbackSubmissions.WithLabelValues(kind).Inc()
}
